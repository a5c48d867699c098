package templates

import "fmt"

// NotFoundError is returned when an id references no known template.
// It is a caller or configuration defect and is never worth retrying.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template not found: %q", e.ID)
}

// DefinitionError represents an invalid template definition file
type DefinitionError struct {
	Message string
	Cause   error
}

func (e *DefinitionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template definition error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("template definition error: %s", e.Message)
}

func (e *DefinitionError) Unwrap() error {
	return e.Cause
}

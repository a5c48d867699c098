package validation

import "fmt"

// Error is returned when a rendered document cannot be inspected at all,
// as opposed to a document that inspects fine but carries violations.
type Error struct {
	Op  string // e.g. "count pages"
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("validate document: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

package generator

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a GenerationError.
type ErrorKind string

// Error kinds.
const (
	// KindConfiguration is only returned when Options.StrictTemplates is set.
	// Otherwise configuration problems are recovered and reported as notices.
	KindConfiguration ErrorKind = "configuration"
	KindInvalidInput  ErrorKind = "invalid_input"
	// KindRenderingFailed is terminal. Generation is deterministic, so a retry
	// with the same input fails the same way.
	KindRenderingFailed ErrorKind = "rendering_failed"
	KindCancelled       ErrorKind = "cancelled"
	KindThumbnailFailed ErrorKind = "thumbnail_failed"
)

// GenerationError is the error returned by every generator operation.
type GenerationError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("generation %s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("generation %s: %s", e.Kind, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// IsKind reports whether err is a GenerationError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ge *GenerationError
	return errors.As(err, &ge) && ge.Kind == kind
}

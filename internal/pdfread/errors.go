package pdfread

import "fmt"

// ParseError represents document bytes that cannot be read.
type ParseError struct {
	Offset  int
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pdf parse error at offset %d: %s: %v", e.Offset, e.Message, e.Cause)
	}
	return fmt.Sprintf("pdf parse error at offset %d: %s", e.Offset, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// recoverParse turns a panic inside the object parser into a ParseError.
// Malformed input must fail, never crash the caller.
func recoverParse(err *error) {
	if r := recover(); r != nil {
		*err = &ParseError{Offset: -1, Message: fmt.Sprintf("malformed document: %v", r)}
	}
}

// Package rendering draws a Render Plan into a PDF document.
package rendering

import "fmt"

// TemplateError reports a plan whose template id is not in the registry.
type TemplateError struct {
	TemplateID string
	Cause      error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("plan template %q: %v", e.TemplateID, e.Cause)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError is a failure to compose or serialize the document. Page is the
// 1-based page being drawn, or 0 when the failure is not tied to a page.
// Rendering is deterministic, so retrying with the same input fails the same way.
type RenderError struct {
	Page    int
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	msg := e.Message
	if e.Page > 0 {
		msg = fmt.Sprintf("page %d: %s", e.Page, msg)
	}
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", msg, e.Cause)
	}
	return "render error: " + msg
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Package preview rasterizes the first page of a rendered document into a
// thumbnail image.
package preview

import "fmt"

// PreviewError represents a failure to produce a thumbnail. It never affects
// the document it was derived from.
type PreviewError struct {
	Message string
	Cause   error
}

func (e *PreviewError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("preview error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("preview error: %s", e.Message)
}

func (e *PreviewError) Unwrap() error {
	return e.Cause
}

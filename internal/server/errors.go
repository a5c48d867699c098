package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/hireo/internal/generator"
	"github.com/jonathan/hireo/internal/schemas"
)

// ErrNotFound indicates a stored resource was not found
type ErrNotFound struct {
	Resource string
	ID       uuid.UUID
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrStoreUnavailable indicates the server runs without a database
type ErrStoreUnavailable struct{}

func (e *ErrStoreUnavailable) Error() string {
	return "storage is not configured"
}

// ErrSuperseded indicates a newer preview request for the same target
// cancelled this one
type ErrSuperseded struct {
	Target string
}

func (e *ErrSuperseded) Error() string {
	return fmt.Sprintf("preview %s superseded by a newer request", e.Target)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var genErr *generator.GenerationError
	if errors.As(err, &genErr) {
		switch genErr.Kind {
		case generator.KindInvalidInput:
			return http.StatusBadRequest
		case generator.KindConfiguration, generator.KindThumbnailFailed:
			return http.StatusUnprocessableEntity
		case generator.KindCancelled:
			return http.StatusServiceUnavailable
		default:
			return http.StatusInternalServerError
		}
	}

	var schemaErr *schemas.ValidationError
	if errors.As(err, &schemaErr) {
		return http.StatusBadRequest
	}

	switch err.(type) {
	case *ErrNotFound:
		return http.StatusNotFound
	case *ErrStoreUnavailable:
		return http.StatusServiceUnavailable
	case *ErrSuperseded:
		return http.StatusConflict
	case *ErrValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage returns the error text shown to clients. Rendering failures
// are reported without detail.
func publicMessage(err error) string {
	if generator.IsKind(err, generator.KindRenderingFailed) {
		return "generation failed"
	}
	if err == nil {
		return "internal error"
	}
	return err.Error()
}

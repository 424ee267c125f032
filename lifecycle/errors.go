package lifecycle

import (
	"fmt"

	"github.com/reglet-dev/stubhost/domain/entities"
)

// PanicError is returned when a component handler panics.
type PanicError struct {
	Value     any
	Component string
}

// NewPanicError creates a PanicError for a recovered value.
func NewPanicError(component string, value any) *PanicError {
	return &PanicError{Component: component, Value: value}
}

func (e *PanicError) Error() string {
	var msg string
	if err, ok := e.Value.(error); ok {
		msg = err.Error()
	} else if s, ok := e.Value.(string); ok {
		msg = s
	} else {
		msg = "panic recovered"
	}
	if e.Component == "" {
		return "panic: " + msg
	}
	return fmt.Sprintf("handler %s panic: %s", e.Component, msg)
}

// Unwrap returns the panic value if it was an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// ToErrorDetail implements errors.DetailedError.
func (e *PanicError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "panic", Code: "handler_panic"}
}

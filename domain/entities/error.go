package entities

import (
	"fmt"
	"strings"
)

// ErrorDetail is the structured form of a binding-core error, printed by the
// CLI with --json and attached to log records.
//
// Type is one of capacity, conflict, dispatch, config, validation, panic or
// internal.
type ErrorDetail struct {
	Details    map[string]any `json:"details,omitempty"`
	Message    string         `json:"message"`
	Type       string         `json:"type"`
	Code       string         `json:"code,omitempty"`
	IsCapacity bool           `json:"is_capacity,omitempty"`
	IsNotFound bool           `json:"is_not_found,omitempty"`
}

func (e *ErrorDetail) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	if e.Type != "" && e.Type != "internal" {
		fmt.Fprintf(&b, "%s: ", e.Type)
	}
	b.WriteString(e.Message)
	if e.Code != "" {
		fmt.Fprintf(&b, " [%s]", e.Code)
	}
	return b.String()
}

// NewErrorDetail returns a detail of the given type.
func NewErrorDetail(errorType, message string) *ErrorDetail {
	return &ErrorDetail{Type: errorType, Message: message}
}

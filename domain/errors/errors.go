// Package errors provides domain-specific error types for the stub host.
// All error types support error unwrapping via errors.As() and errors.Is().
package errors

import (
	stdErrors "errors"
	"fmt"
	"strconv"

	"github.com/reglet-dev/stubhost/domain/entities"
)

// ErrorDetail is an alias to entities.ErrorDetail for convenience.
type ErrorDetail = entities.ErrorDetail

// DetailedError is an interface for custom error types that can convert themselves
// to a structured ErrorDetail.
type DetailedError interface {
	error
	ToErrorDetail() *entities.ErrorDetail
}

// ToErrorDetail converts a Go error to our structured ErrorDetail.
// This function recognizes custom error types and categorizes them appropriately.
func ToErrorDetail(err error) *entities.ErrorDetail {
	if err == nil {
		return nil
	}

	var e *entities.ErrorDetail
	if stdErrors.As(err, &e) {
		return e
	}

	var de DetailedError
	if stdErrors.As(err, &de) {
		return de.ToErrorDetail()
	}

	return &entities.ErrorDetail{
		Message: err.Error(),
		Type:    "internal",
	}
}

// StubExhaustionError reports that no free stub matches the requested bucket.
// The catalogue cannot grow at run time, so this is a hard capacity ceiling.
type StubExhaustionError struct {
	Kind       entities.ComponentKind
	Affinity   entities.ProcessAffinity
	LaunchMode entities.LaunchModeClass
}

func (e *StubExhaustionError) Error() string {
	if e.LaunchMode.IsZero() {
		return fmt.Sprintf("no free %s stub for process %s", e.Kind, e.Affinity)
	}
	return fmt.Sprintf("no free %s stub for process %s with launch mode %s", e.Kind, e.Affinity, e.LaunchMode)
}

// ToErrorDetail implements DetailedError.
func (e *StubExhaustionError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{
		Message:    e.Error(),
		Type:       "capacity",
		Code:       "stub_exhausted",
		IsCapacity: true,
		Details: map[string]any{
			"kind":        string(e.Kind),
			"process":     e.Affinity.String(),
			"launch_mode": e.LaunchMode.String(),
		},
	}
}

// ProcessExhaustionError reports that every auto process slot is at capacity
// and none already hosts the plugin.
type ProcessExhaustionError struct {
	Plugin string
	Slots  int
}

func (e *ProcessExhaustionError) Error() string {
	return fmt.Sprintf("no process slot available for plugin %s (%d slots in use)", e.Plugin, e.Slots)
}

// ToErrorDetail implements DetailedError.
func (e *ProcessExhaustionError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{
		Message:    e.Error(),
		Type:       "capacity",
		Code:       "process_exhausted",
		IsCapacity: true,
	}
}

// DuplicateBindingError reports a bind for a key that is already bound in
// that process. It is a caller error.
type DuplicateBindingError struct {
	Key     entities.PluginComponentKey
	StubID  string // stub currently holding the key
	Process entities.ProcessTarget
}

func (e *DuplicateBindingError) Error() string {
	return fmt.Sprintf("%s already bound to stub %s in process %s", e.Key, e.StubID, e.Process)
}

// ToErrorDetail implements DetailedError.
func (e *DuplicateBindingError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "conflict", Code: "duplicate_binding"}
}

// DuplicateNameError reports a second capability registration under a name.
// The first registration stays authoritative.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("capability %q already registered", e.Name)
}

// ToErrorDetail implements DetailedError.
func (e *DuplicateNameError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "conflict", Code: "duplicate_name"}
}

// UnresolvedDispatchError describes a lifecycle event for a stub with no
// live binding in the delivering process. Delivery treats it as a no-op.
type UnresolvedDispatchError struct {
	StubID    string
	ProcessID int
	Event     string
}

func (e *UnresolvedDispatchError) Error() string {
	if e.Event != "" {
		return fmt.Sprintf("no live binding for stub %s in process %d (event %s)", e.StubID, e.ProcessID, e.Event)
	}
	return fmt.Sprintf("no live binding for stub %s in process %d", e.StubID, e.ProcessID)
}

// ToErrorDetail implements DetailedError.
func (e *UnresolvedDispatchError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{
		Message:    e.Error(),
		Type:       "dispatch",
		Code:       "unresolved",
		IsNotFound: true,
		Details: map[string]any{
			"stub":    e.StubID,
			"process": strconv.Itoa(e.ProcessID),
		},
	}
}

// StubStateError reports an operation on a stub that does not exist or is
// not in the state the operation requires.
type StubStateError struct {
	StubID string
	Reason string
}

func (e *StubStateError) Error() string {
	return fmt.Sprintf("stub %s: %s", e.StubID, e.Reason)
}

// ToErrorDetail implements DetailedError.
func (e *StubStateError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "conflict", Code: "stub_state"}
}

// InvalidRequestError reports a malformed bind or registration request.
type InvalidRequestError struct {
	Field  string
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request: %s %s", e.Field, e.Reason)
}

// ToErrorDetail implements DetailedError.
func (e *InvalidRequestError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "validation", Code: e.Field}
}

// HandlerNotFoundError reports a resolved component with no registered lifecycle handler.
type HandlerNotFoundError struct {
	Name string
}

func (e *HandlerNotFoundError) Error() string {
	return fmt.Sprintf("no lifecycle handler registered for %s", e.Name)
}

// ToErrorDetail implements DetailedError.
func (e *HandlerNotFoundError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "dispatch", Code: "handler_not_found", IsNotFound: true}
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Err   error
	Field string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config validation failed for field '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config validation failed: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ConfigError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "config", Code: e.Field}
}

// CatalogueError represents an invalid stub catalogue.
type CatalogueError struct {
	Err    error
	Path   string
	StubID string
}

func (e *CatalogueError) Error() string {
	switch {
	case e.Path != "" && e.StubID != "":
		return fmt.Sprintf("catalogue %s: stub %s: %v", e.Path, e.StubID, e.Err)
	case e.StubID != "":
		return fmt.Sprintf("catalogue: stub %s: %v", e.StubID, e.Err)
	case e.Path != "":
		return fmt.Sprintf("catalogue %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("catalogue: %v", e.Err)
}

func (e *CatalogueError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *CatalogueError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "validation", Code: "catalogue"}
}

// SchemaError represents a schema generation or validation error.
type SchemaError struct {
	Err  error
	Type string
}

func (e *SchemaError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("schema error for type %s: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("schema error: %v", e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *SchemaError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "validation", Code: "schema"}
}

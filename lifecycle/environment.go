package lifecycle

import (
	"context"
	"sync"

	"github.com/reglet-dev/stubhost/domain/entities"
	"github.com/reglet-dev/stubhost/domain/ports"
)

// MemoryEnvironment is an in-process Environment that records every start
// request. It backs dry runs and tests.
type MemoryEnvironment struct {
	mu      sync.Mutex
	started []entities.StartRequest
	fail    func(entities.StartRequest) error
}

var _ ports.Environment = (*MemoryEnvironment)(nil)

// NewMemoryEnvironment creates a MemoryEnvironment. If fail is non-nil it is
// consulted for every start and its error is returned.
func NewMemoryEnvironment(fail func(entities.StartRequest) error) *MemoryEnvironment {
	return &MemoryEnvironment{fail: fail}
}

// Start records req.
func (e *MemoryEnvironment) Start(ctx context.Context, req entities.StartRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.fail != nil {
		if err := e.fail(req); err != nil {
			return err
		}
	}
	e.mu.Lock()
	e.started = append(e.started, req)
	e.mu.Unlock()
	return nil
}

// Started returns the recorded start requests in order.
func (e *MemoryEnvironment) Started() []entities.StartRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]entities.StartRequest, len(e.started))
	copy(out, e.started)
	return out
}

package lifecycle

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/reglet-dev/stubhost/domain/entities"
)

// Lifecycle event names delivered by the environment.
const (
	EventCreate  = "create"
	EventStart   = "start"
	EventBind    = "bind"
	EventReceive = "receive"
	EventDestroy = "destroy"
)

// Event is a lifecycle call the environment made on a stub.
type Event struct {
	Intent    entities.Intent `json:"intent,omitempty"`
	StubID    string          `json:"stub"`
	Name      string          `json:"event"`
	Payload   []byte          `json:"payload,omitempty"`
	ProcessID int             `json:"process"`
}

// Handler runs a lifecycle event on the real plugin component.
type Handler func(ctx context.Context, ev Event) ([]byte, error)

// TypedHandler is a handler with a decoded request and response.
type TypedHandler[Req any, Resp any] func(ctx context.Context, ev Event, req Req) (Resp, error)

// NewJSONHandler wraps a TypedHandler into a Handler that decodes the event
// payload as JSON and encodes the response. An empty payload decodes to the
// zero request.
func NewJSONHandler[Req any, Resp any](fn TypedHandler[Req, Resp]) Handler {
	return func(ctx context.Context, ev Event) ([]byte, error) {
		var req Req
		if len(ev.Payload) > 0 {
			if err := json.Unmarshal(ev.Payload, &req); err != nil {
				return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
			}
		}

		resp, err := fn(ctx, ev, req)
		if err != nil {
			return nil, err
		}

		respBytes, err := json.Marshal(resp)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}
		return respBytes, nil
	}
}

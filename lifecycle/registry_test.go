package lifecycle

import (
	"context"
	"errors"
	"testing"

	"github.com/reglet-dev/stubhost/domain/entities"
	domerrors "github.com/reglet-dev/stubhost/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mainKey = entities.NewComponentKey("demo", "com.demo.Main", entities.KindActivity)

func echoHandler(ctx context.Context, ev Event) ([]byte, error) {
	return append([]byte(ev.Name+":"), ev.Payload...), nil
}

func TestNewRegistry_Empty(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)
	assert.Empty(t, reg.Names())
}

func TestNewRegistry_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts []RegistryOption
		want string
	}{
		{"duplicate", []RegistryOption{WithComponent(mainKey, echoHandler), WithHandler("demo/com.demo.Main", echoHandler)}, "duplicate handler name"},
		{"empty name", []RegistryOption{WithHandler("", echoHandler)}, "cannot be empty"},
		{"nil handler", []RegistryOption{WithHandler("x/y", nil)}, "is nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.opts...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestHandlerRegistry_Invoke(t *testing.T) {
	reg, err := NewRegistry(WithComponent(mainKey, echoHandler))
	require.NoError(t, err)

	t.Run("found handler", func(t *testing.T) {
		resp, err := reg.Invoke(context.Background(), mainKey, Event{Name: EventCreate, Payload: []byte("x")})
		require.NoError(t, err)
		assert.Equal(t, "create:x", string(resp))
	})

	t.Run("missing handler", func(t *testing.T) {
		other := entities.NewComponentKey("demo", "com.demo.Other", entities.KindActivity)
		_, err := reg.Invoke(context.Background(), other, Event{Name: EventCreate})
		var notFound *domerrors.HandlerNotFoundError
		require.True(t, errors.As(err, &notFound))
		assert.Equal(t, "demo/com.demo.Other", notFound.Name)
	})
}

func TestHandlerRegistry_Invoke_SetsDeliveryContext(t *testing.T) {
	var got entities.PluginComponentKey
	reg, err := NewRegistry(WithComponent(mainKey, func(ctx context.Context, ev Event) ([]byte, error) {
		dc, ok := ctx.(DeliveryContext)
		require.True(t, ok)
		got = dc.Component()
		return nil, nil
	}))
	require.NoError(t, err)

	_, err = reg.Invoke(context.Background(), mainKey, Event{})
	require.NoError(t, err)
	assert.Equal(t, mainKey, got)
}

func TestHandlerRegistry_Names_Sorted(t *testing.T) {
	reg, err := NewRegistry(
		WithHandler("zebra/Z", echoHandler),
		WithHandler("alpha/A", echoHandler),
		WithHandler("middle/M", echoHandler),
	)
	require.NoError(t, err)

	names := reg.Names()
	assert.Equal(t, []string{"alpha/A", "middle/M", "zebra/Z"}, names)
	names[0] = "mutated"
	assert.True(t, reg.Has("alpha/A"))
	assert.Equal(t, "alpha/A", reg.Names()[0])
}

func TestNewJSONHandler(t *testing.T) {
	type greetReq struct {
		Name string `json:"name"`
	}
	type greetResp struct {
		Greeting string `json:"greeting"`
	}

	h := NewJSONHandler(func(ctx context.Context, ev Event, req greetReq) (greetResp, error) {
		if req.Name == "" {
			return greetResp{}, errors.New("name required")
		}
		return greetResp{Greeting: "hello " + req.Name}, nil
	})

	resp, err := h(context.Background(), Event{Payload: []byte(`{"name":"plugin"}`)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"greeting":"hello plugin"}`, string(resp))

	_, err = h(context.Background(), Event{Payload: []byte(`{`)})
	assert.ErrorContains(t, err, "failed to unmarshal payload")

	_, err = h(context.Background(), Event{})
	assert.EqualError(t, err, "name required")
}

package lifecycle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type ctxKey string

func TestDeliveryContext(t *testing.T) {
	base := context.WithValue(context.Background(), ctxKey("trace"), "abc")
	dc := NewDeliveryContext(base, mainKey)

	assert.Equal(t, mainKey, dc.Component())
	assert.Equal(t, "abc", dc.Value(ctxKey("trace")))

	_, ok := dc.GetValue("k")
	assert.False(t, ok)
	dc.SetValue("k", 7)
	v, ok := dc.GetValue("k")
	assert.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestDeliveryContextFrom(t *testing.T) {
	dc := NewDeliveryContext(context.Background(), mainKey)
	assert.Same(t, dc, DeliveryContextFrom(dc, mainKey))

	wrapped := DeliveryContextFrom(context.Background(), mainKey)
	assert.Equal(t, mainKey, wrapped.Component())
}

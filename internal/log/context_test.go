package log

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "abc-123")
	assert.Equal(t, "abc-123", RequestIDFromContext(ctx))
}

func TestRequestIDFromContextMissing(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))
	assert.Empty(t, RequestIDFromContext(nil)) //nolint:staticcheck // nil context tolerated
}

func TestContextWithRequestIDNilContext(t *testing.T) {
	ctx := ContextWithRequestID(nil, "abc") //nolint:staticcheck // nil context tolerated
	assert.Equal(t, "abc", RequestIDFromContext(ctx))
}

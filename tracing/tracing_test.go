package tracing

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracingWithoutEndpoint(t *testing.T) {
	cleanup, err := InitTracing("", "test", slog.Default())
	require.NoError(t, err)
	require.NotNil(t, cleanup)
	cleanup()
}

func TestStartSpanNoop(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "test.span")
	defer span.End()

	assert.NotNil(t, ctx)
	RecordError(span, nil)
	RecordError(span, errors.New("boom"))
}

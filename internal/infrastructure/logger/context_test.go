package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContext(t *testing.T) {
	logger := zap.NewNop()
	ctx := WithContext(context.Background(), logger)

	retrieved := FromContext(ctx)
	assert.Equal(t, logger, retrieved)
}

func TestFromContext_NotFound(t *testing.T) {
	retrieved := FromContext(context.Background())

	// Should return a no-op logger, not nil
	assert.NotNil(t, retrieved)
}

func TestWithRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	ctx, enriched := WithRequestID(context.Background(), logger, "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Equal(t, enriched, FromContext(ctx))

	enriched.Info("hello")
	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "req-123", entries[0].ContextMap()["request_id"])
}

func TestGetRequestID_NotFound(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestContextKeys_AreDistinct(t *testing.T) {
	assert.NotEqual(t, LoggerKey, RequestIDKey)
}

func TestRequestID_DoesNotLeakAcrossContexts(t *testing.T) {
	logger := zap.NewNop()
	ctx1, _ := WithRequestID(context.Background(), logger, "req-1")
	ctx2, _ := WithRequestID(context.Background(), logger, "req-2")

	assert.Equal(t, "req-1", GetRequestID(ctx1))
	assert.Equal(t, "req-2", GetRequestID(ctx2))
}

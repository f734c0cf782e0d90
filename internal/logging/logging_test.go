package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "prod").With("request_id", "abc")

	ctx := WithLogger(context.Background(), logger)
	FromContext(ctx).Info("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "abc", line["request_id"])
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))
	assert.Same(t, slog.Default(), FromContext(WithLogger(context.Background(), nil)))
}

func TestFromContextOr(t *testing.T) {
	fallback := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	scoped := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	assert.Same(t, fallback, FromContextOr(context.Background(), fallback))
	assert.Same(t, scoped, FromContextOr(WithLogger(context.Background(), scoped), fallback))
	assert.Same(t, slog.Default(), FromContextOr(context.Background(), nil))
}

func TestNewLogger_ProdDropsDebug(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, "prod").Debug("hidden")
	assert.Zero(t, buf.Len())
}

package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_WritesStructuredRecord(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("order-api", &buf, false)

	ctx := WithRequestID(context.Background(), "req-42")
	log.Error(ctx, "order_create_failed", "could not create order", errors.New("boom"), "order_id", "o1")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "ERROR", rec["level"])
	assert.Equal(t, "could not create order", rec["msg"])
	assert.Equal(t, "order-api", rec["service"])
	assert.Equal(t, "order_create_failed", rec["action"])
	assert.Equal(t, "req-42", rec["request_id"])
	assert.Equal(t, "boom", rec["error"])
	assert.Equal(t, "o1", rec["order_id"])
}

func TestLogger_DebugSuppressedUnlessEnabled(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter("svc", &buf, false).Debug(context.Background(), "noise", "hidden")
	assert.Zero(t, buf.Len())

	NewWithWriter("svc", &buf, true).Debug(context.Background(), "noise", "shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestRequestID_Missing(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))
	assert.NotEmpty(t, GenerateRequestID())
}

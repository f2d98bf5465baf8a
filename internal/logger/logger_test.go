package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMaskEmail(t *testing.T) {
	cases := map[string]string{
		"":                     "",
		"john.doe@example.com": "joh***@example.com",
		"al@example.com":       "al***@example.com",
		"@example.com":         "***@example.com",
		"not-an-email":         "***",
	}
	for in, want := range cases {
		assert.Equal(t, want, MaskEmail(in), in)
	}
}

func TestMaskIP(t *testing.T) {
	assert.Equal(t, "192.168.*.*", MaskIP("192.168.1.100"))
	assert.Equal(t, "2001:0db8:85a3:0000:*:*:*:*", MaskIP("2001:0db8:85a3:0000:0000:8a2e:0370:7334"))
	assert.Equal(t, "***", MaskIP("localhost"))
}

func TestWithContextAddsRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	ctx := ContextWithRequestID(context.Background(), "req-1")
	WithContext(ctx, base).Info("hello")
	WithContext(context.Background(), base).Info("bare")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])
	_, ok := entries[1].ContextMap()["request_id"]
	assert.False(t, ok)
	assert.Equal(t, "req-1", RequestID(ctx))
}

func TestNew(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		log, err := New(env)
		require.NoError(t, err)
		require.NotNil(t, log)
	}
}

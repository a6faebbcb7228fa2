package logger_adapter

import (
	"bytes"
	"errors"
	"log/slog"
	"session-service/internal/core/port"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogAdapter_TextOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(SlogConfig{Writer: &buf, Level: slog.LevelInfo})

	logger.WithFields(port.Fields{"session_id": "s-1"}).Info("Favorites loaded", port.Fields{"count": 3})
	logger.Debug("hidden", nil)
	logger.Error("Failed to load favorites", errors.New("timeout"), nil)

	out := buf.String()
	assert.Contains(t, out, `msg="Favorites loaded"`)
	assert.Contains(t, out, "session_id=s-1")
	assert.Contains(t, out, "count=3")
	assert.Contains(t, out, "error=timeout")
	assert.NotContains(t, out, "hidden")
}

func TestSlogAdapter_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(SlogConfig{Writer: &buf, Level: slog.LevelDebug, IsJSON: true})

	logger.Debug("Cache miss", port.Fields{"key": "search:abc"})
	assert.Contains(t, buf.String(), `"key":"search:abc"`)
	assert.Contains(t, buf.String(), `"level":"DEBUG"`)
}

func TestSlogAdapter_ColorOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(SlogConfig{Writer: &buf, UseColor: true})

	logger.Warn("Rejected bearer token", nil)
	assert.Contains(t, buf.String(), "Rejected bearer token")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

type fakePoster struct {
	tags     []string
	messages []map[string]interface{}
	closed   bool
}

func (f *fakePoster) Post(tag string, message interface{}) error {
	f.tags = append(f.tags, tag)
	f.messages = append(f.messages, message.(map[string]interface{}))
	return nil
}

func (f *fakePoster) Close() error {
	f.closed = true
	return nil
}

func TestFluentLoggerAdapter(t *testing.T) {
	poster := &fakePoster{}
	adapter, err := NewFluentLoggerAdapter(poster, slog.LevelInfo)
	require.NoError(t, err)

	child := adapter.WithFields(port.Fields{"component": "FavoritesStore"})
	child.Debug("dropped below min level", nil)
	child.Error("Remove failed", errors.New("502"), port.Fields{"property_id": 42})

	require.Len(t, poster.messages, 1)
	assert.Equal(t, "error", poster.tags[0])
	msg := poster.messages[0]
	assert.Equal(t, "Remove failed", msg["message"])
	assert.Equal(t, "FavoritesStore", msg["component"])
	assert.Equal(t, 42, msg["property_id"])
	assert.Equal(t, "502", msg["error"])
	assert.NotEmpty(t, msg["timestamp"])

	adapter.Info("parent has no component", nil)
	_, hasComponent := poster.messages[1]["component"]
	assert.False(t, hasComponent)

	require.NoError(t, adapter.Close())
	assert.True(t, poster.closed)
}

func TestNewFluentLoggerAdapter_NilClient(t *testing.T) {
	_, err := NewFluentLoggerAdapter(nil, nil)
	assert.Error(t, err)
}

func TestMultiLoggerAdapter_FansOut(t *testing.T) {
	var first, second bytes.Buffer
	multi, err := NewMultiloggerAdapter(
		NewSlogAdapter(SlogConfig{Writer: &first}),
		NewSlogAdapter(SlogConfig{Writer: &second}),
	)
	require.NoError(t, err)

	multi.WithFields(port.Fields{"trace_id": "t-1"}).Warn("Search cache lookup failed", nil)

	for _, out := range []string{first.String(), second.String()} {
		assert.True(t, strings.Contains(out, "trace_id=t-1"), out)
		assert.Contains(t, out, "Search cache lookup failed")
	}

	_, err = NewMultiloggerAdapter()
	assert.ErrorIs(t, err, errNoLoggers)
}

func TestMultiLoggerAdapter_SkipsNilLoggers(t *testing.T) {
	var out bytes.Buffer
	stdout := NewSlogAdapter(SlogConfig{Writer: &out})

	single, err := NewMultiloggerAdapter(nil, stdout, nil)
	require.NoError(t, err)
	assert.Same(t, stdout, single)

	single.Error("Favorites reload failed", errors.New("boom"), port.Fields{"session_id": "s-1"})
	assert.Contains(t, out.String(), "session_id=s-1")

	_, err = NewMultiloggerAdapter(nil, nil)
	assert.ErrorIs(t, err, errNoLoggers)
}

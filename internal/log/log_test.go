package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_Component(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Component: ComponentStorage, Output: &buf})

	logger.Info("connected", "attempt", 3)
	logger.Debug("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "connected", record["msg"])
	assert.Equal(t, ComponentStorage, record[FieldComponent])
	assert.EqualValues(t, 3, record["attempt"])
}

func TestLogger_WithComponentKeepsAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Format: "json", Component: ComponentApp, Output: &buf}).With(FieldRequestID, "abc")

	logger.WithComponent(ComponentCache).Warn("miss")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, ComponentCache, record[FieldComponent])
	assert.Equal(t, "abc", record[FieldRequestID])
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, slog.LevelInfo, cfg.Level)
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, ComponentApp, cfg.Component)
	assert.NotNil(t, cfg.Output)

	logger := New(cfg)
	assert.Equal(t, ComponentApp, logger.Component())
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}

func TestFromContext(t *testing.T) {
	assert.Equal(t, "unknown", FromContext(context.Background()).Component())

	logger := Nop().WithComponent(ComponentJobs)
	ctx := WithContext(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	logger := New(Config{Format: "json", Component: ComponentApp, Output: &buf})

	r := gin.New()
	r.Use(RequestID(logger), RequestLogger())
	r.GET("/missing", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "nope"})
	})

	t.Run("generates request id", func(t *testing.T) {
		buf.Reset()
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing?x=1", nil))

		id := w.Header().Get(RequestIDHeader)
		assert.NotEmpty(t, id)

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "WARN", record["level"])
		assert.Equal(t, ComponentHTTP, record[FieldComponent])
		assert.Equal(t, id, record[FieldRequestID])
		assert.EqualValues(t, http.StatusNotFound, record[FieldStatusCode])
		assert.Equal(t, "x=1", record[FieldQuery])
	})

	t.Run("reuses client request id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/missing", nil)
		req.Header.Set(RequestIDHeader, "client-id")
		r.ServeHTTP(w, req)
		assert.Equal(t, "client-id", w.Header().Get(RequestIDHeader))
	})
}

package slogx

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	require.Equal(t, slog.LevelError, ParseLevel(" error "))
	require.Equal(t, slog.LevelInfo, ParseLevel("chatty"))
}

func TestHTTPMiddlewareAttachesLoggerAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Service: "guild", Version: "test", Env: "test", Level: "debug", Output: &buf})
	t.Cleanup(func() { slog.SetDefault(Discard()) })

	var fromHandler *slog.Logger
	h := HTTPMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromHandler = FromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/referrals", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.NotNil(t, fromHandler)
	require.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	require.Equal(t, "http_request", line["msg"])
	require.Equal(t, "req-123", line["req_id"])
	require.EqualValues(t, http.StatusTeapot, line["status"])
	require.Equal(t, "WARN", line["level"])
	require.Equal(t, "guild", line["service"])
}

func TestLevelFor(t *testing.T) {
	require.Equal(t, slog.LevelInfo, levelFor(http.StatusCreated))
	require.Equal(t, slog.LevelWarn, levelFor(http.StatusConflict))
	require.Equal(t, slog.LevelError, levelFor(http.StatusServiceUnavailable))
}

func TestHTTPMiddlewareGeneratesRequestID(t *testing.T) {
	h := HTTPMiddleware(Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Len(t, rec.Header().Get(RequestIDHeader), 26)
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	require.Same(t, slog.Default(), FromContext(context.Background()))

	ctx := WithActor(context.Background(), "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV", "admin")
	require.NotSame(t, slog.Default(), FromContext(ctx))
}

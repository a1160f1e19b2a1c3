package slogx_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/otpauth/pkg/slogx"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewAddsServiceFields(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger := slogx.New(slogx.Config{
		Service: "otpauth",
		Version: "test",
		Env:     "prod",
		Level:   "warn",
		Output:  &buf,
	})

	logger.Info("dropped")
	require.Zero(t, buf.Len())

	logger.Warn("kept")
	entry := decodeLine(t, &buf)
	assert.Equal(t, "otpauth", entry["service"])
	assert.Equal(t, "test", entry["version"])
	assert.Equal(t, "prod", entry["env"])
}

func TestNewRedactsSensitiveAttrs(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger := slogx.New(slogx.Config{Service: "otpauth", Output: &buf})
	logger.Info("issued", "token", "eyJhbGciOi", "Authorization", "Bearer x", "phone_number", "9876543210")

	entry := decodeLine(t, &buf)
	assert.Equal(t, slogx.Redacted, entry["token"])
	assert.Equal(t, slogx.Redacted, entry["Authorization"])
	assert.Equal(t, "9876543210", entry["phone_number"])
}

func TestWithExtendsContextLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := slogx.WithContext(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))

	ctx = slogx.With(ctx, "identity_id", "01HQ")
	slogx.FromContext(ctx).Info("hello")

	assert.Equal(t, "01HQ", decodeLine(t, &buf)["identity_id"])
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	require.Equal(t, slog.Default(), slogx.FromContext(context.Background()))

	l := slogx.Discard()
	require.Equal(t, l, slogx.FromContext(slogx.WithContext(context.Background(), l)))
}

func TestLogError(t *testing.T) {
	t.Run("oops error carries code and context", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))

		err := oops.Code("SMS_DELIVERY_FAILED").With("provider", "twilio").Errorf("boom")
		slogx.LogError(logger, "login failed", err)

		entry := decodeLine(t, &buf)
		assert.Equal(t, "ERROR", entry["level"])
		assert.Equal(t, "SMS_DELIVERY_FAILED", entry["code"])
		assert.Contains(t, entry["context"], "provider")
	})

	t.Run("plain error", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))

		slogx.LogError(logger, "login failed", errors.New("plain"), "phone", "9876543210")

		entry := decodeLine(t, &buf)
		assert.Equal(t, "plain", entry["error"])
		assert.Equal(t, "9876543210", entry["phone"])
	})
}

func TestHTTPMiddleware(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	var sawLogger bool
	h := slogx.HTTPMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawLogger = slogx.FromContext(r.Context()) != slog.Default()
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	req.Header.Set(slogx.RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.True(t, sawLogger)
	require.Equal(t, "req-123", rec.Header().Get(slogx.RequestIDHeader))

	entry := decodeLine(t, &buf)
	assert.Equal(t, "http_request", entry["msg"])
	assert.Equal(t, "req-123", entry["req_id"])
	assert.EqualValues(t, http.StatusTeapot, entry["status"])
}

package middlewarectx_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scanhub/barcode-aggregator/internal/http/middlewarectx"
)

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestAPIKeyMiddleware(t *testing.T) {
	logger := newNoopLogger()
	const configuredKey = "super-secret-key"

	tests := []struct {
		name           string
		headerValue    string
		setHeader      bool
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "correct key passes through",
			headerValue:    configuredKey,
			setHeader:      true,
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
		{
			name:           "missing header",
			setHeader:      false,
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "wrong key",
			headerValue:    "guessed-key",
			setHeader:      true,
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			mw := middlewarectx.APIKeyMiddleware(configuredKey, logger)(nextHandler)

			req := httptest.NewRequest(http.MethodGet, "/products", nil)
			if tt.setHeader {
				req.Header.Set(middlewarectx.APIKeyHeader, tt.headerValue)
			}
			w := httptest.NewRecorder()

			mw.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatusCode, w.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
		})
	}
}

// Присланный ключ не должен попадать в тело ответа при несовпадении.
func TestAPIKeyMiddleware_DoesNotEchoKey(t *testing.T) {
	logger := newNoopLogger()

	mw := middlewarectx.APIKeyMiddleware("configured-key", logger)(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set(middlewarectx.APIKeyHeader, "attacker-controlled-value")
	w := httptest.NewRecorder()

	mw.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "attacker-controlled-value")
}

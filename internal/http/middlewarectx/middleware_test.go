package middlewarectx_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/orange-subscription/internal/http/middlewarectx"
)

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestAPIKeyMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		key            string
		header         string
		setHeader      bool
		wantStatusCode int
		wantCalled     bool
	}{
		{name: "valid key", key: "s3cret", header: "s3cret", setHeader: true, wantStatusCode: http.StatusOK, wantCalled: true},
		{name: "wrong key", key: "s3cret", header: "s3cre", setHeader: true, wantStatusCode: http.StatusUnauthorized},
		{name: "missing header", key: "s3cret", wantStatusCode: http.StatusUnauthorized},
		{name: "key is case sensitive", key: "s3cret", header: "S3CRET", setHeader: true, wantStatusCode: http.StatusUnauthorized},
		{name: "empty configured key rejects empty header", key: "", header: "", setHeader: true, wantStatusCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			h := middlewarectx.APIKeyMiddleware(tt.key, newNoopLogger())(okHandler(&called))

			req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
			if tt.setHeader {
				req.Header.Set(middlewarectx.APIKeyHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, called)
			if !tt.wantCalled {
				assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
			}
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	called := false
	h := middlewarectx.RateLimitMiddleware(0.001, 2, newNoopLogger())(okHandler(&called))

	codes := make([]int, 0, 3)
	for range 3 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/payment", nil))
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimitMiddleware_IndependentLimiters(t *testing.T) {
	called := false
	login := middlewarectx.RateLimitMiddleware(0.001, 1, newNoopLogger())(okHandler(&called))
	payment := middlewarectx.RateLimitMiddleware(0.001, 1, newNoopLogger())(okHandler(&called))

	rec := httptest.NewRecorder()
	login.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	payment.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/payment", nil))
	assert.Equal(t, http.StatusOK, rec.Code, "exhausting one limiter must not affect another")
}

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"custodia/internal/config"
)

func authConfig() config.APIConfig {
	return config.APIConfig{
		Auth: config.APIAuthConfig{
			Enabled:      true,
			HeaderAPIKey: "x-api-key",
			HeaderExtra:  "x-api-extra",
			APIKeys: []config.APIClientKey{
				{
					Key:         "key-1",
					Extra:       "extra-1",
					Name:        "backoffice",
					Permissions: []string{"generate:checklist"},
				},
				{
					Key:   "key-2",
					Extra: "extra-2",
					Name:  "unrestricted",
				},
			},
		},
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth_ValidKey(t *testing.T) {
	auth := NewHTTPAuth(authConfig())
	handler := auth.Wrap(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/b-1/checklist.pdf", nil)
	req.Header.Set("x-api-key", "key-1")
	req.Header.Set("x-api-extra", "extra-1")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_MissingHeaders(t *testing.T) {
	auth := NewHTTPAuth(authConfig())
	handler := auth.Wrap(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/b-1/checklist.pdf", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_WrongKey(t *testing.T) {
	auth := NewHTTPAuth(authConfig())
	handler := auth.Wrap(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/b-1/checklist.pdf", nil)
	req.Header.Set("x-api-key", "stolen")
	req.Header.Set("x-api-extra", "extra-1")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_WrongExtra(t *testing.T) {
	auth := NewHTTPAuth(authConfig())
	handler := auth.Wrap(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/b-1/checklist.pdf", nil)
	req.Header.Set("x-api-key", "key-1")
	req.Header.Set("x-api-extra", "wrong")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_PermissionDenied(t *testing.T) {
	auth := NewHTTPAuth(authConfig())
	handler := auth.Wrap(okHandler())

	// key-1 holds generate:checklist but not export:bookings.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/exports/register", nil)
	req.Header.Set("x-api-key", "key-1")
	req.Header.Set("x-api-extra", "extra-1")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuth_NoPermissionListAllowsAll(t *testing.T) {
	auth := NewHTTPAuth(authConfig())
	handler := auth.Wrap(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/exports/register", nil)
	req.Header.Set("x-api-key", "key-2")
	req.Header.Set("x-api-extra", "extra-2")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_HealthzBypassesAuth(t *testing.T) {
	auth := NewHTTPAuth(authConfig())
	handler := auth.Wrap(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_DisabledSkipsKeyCheck(t *testing.T) {
	cfg := authConfig()
	cfg.Auth.Enabled = false

	auth := NewHTTPAuth(cfg)
	handler := auth.Wrap(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/b-1/checklist.pdf", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_RateLimit(t *testing.T) {
	cfg := authConfig()
	cfg.RateLimit = config.APIRateLimitConfig{RPS: 1, Burst: 2}

	auth := NewHTTPAuth(cfg)
	handler := auth.Wrap(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/b-1/checklist.pdf", nil)
		req.Header.Set("x-api-key", "key-1")
		req.Header.Set("x-api-extra", "extra-1")

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[2])
}

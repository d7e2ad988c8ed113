package api

import (
	"net/http"
	"testing"

	"hotelavail/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authConfig() *config.APIConfig {
	return &config.APIConfig{
		Enabled: true,
		Auth: config.APIAuthConfig{
			Enabled:      true,
			HeaderAPIKey: "x-api-key",
			HeaderExtra:  "x-api-extra",
			APIKeys: []config.APIClientKey{
				{Key: "frontend-key", Extra: "frontend-extra", Name: "frontend", Permissions: []string{permReadAvailability}},
				{Key: "admin-key", Extra: "admin-extra", Name: "admin"},
			},
		},
	}
}

func doWithKey(t *testing.T, url, key, extra string) int {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, http.NoBody)
	require.NoError(t, err)
	if key != "" {
		req.Header.Set("x-api-key", key)
	}
	if extra != "" {
		req.Header.Set("x-api-extra", extra)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestAuth(t *testing.T) {
	ts := newTestHTTPServer(t, authConfig())
	availabilityURL := ts.URL + "/api/v1/availability?hotelId=H1&startDate=2024-09-01&endDate=2024-09-02&roomType=DBL"

	tests := []struct {
		name   string
		url    string
		key    string
		extra  string
		status int
	}{
		{"MissingHeaders", availabilityURL, "", "", http.StatusUnauthorized},
		{"MissingExtra", availabilityURL, "frontend-key", "", http.StatusUnauthorized},
		{"InvalidKey", availabilityURL, "wrong", "frontend-extra", http.StatusUnauthorized},
		{"InvalidExtra", availabilityURL, "frontend-key", "wrong", http.StatusUnauthorized},
		{"ValidKey", availabilityURL, "frontend-key", "frontend-extra", http.StatusOK},
		{"PermissionDenied", ts.URL + "/api/v1/hotels", "frontend-key", "frontend-extra", http.StatusForbidden},
		{"EmptyPermissionsAllowAll", ts.URL + "/api/v1/hotels", "admin-key", "admin-extra", http.StatusOK},
		{"HealthzIsPublic", ts.URL + "/healthz", "", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, doWithKey(t, tt.url, tt.key, tt.extra))
		})
	}
}

func TestRateLimit(t *testing.T) {
	ts := newTestHTTPServer(t, &config.APIConfig{
		Enabled:   true,
		RateLimit: config.APIRateLimitConfig{RPS: 1, Burst: 1},
	})

	assert.Equal(t, http.StatusOK, doWithKey(t, ts.URL+"/api/v1/hotels", "", ""))
	assert.Equal(t, http.StatusTooManyRequests, doWithKey(t, ts.URL+"/api/v1/hotels", "", ""))

	// Without auth the key header is unverified and does not open a new bucket.
	assert.Equal(t, http.StatusTooManyRequests, doWithKey(t, ts.URL+"/api/v1/hotels", "other-client", ""))
	assert.Equal(t, http.StatusTooManyRequests, doWithKey(t, ts.URL+"/api/v1/hotels", "another-client", ""))
	// Health checks are never limited.
	assert.Equal(t, http.StatusOK, doWithKey(t, ts.URL+"/healthz", "", ""))
}

func TestRateLimit_PerAuthenticatedKey(t *testing.T) {
	cfg := authConfig()
	cfg.RateLimit = config.APIRateLimitConfig{RPS: 1, Burst: 1}
	ts := newTestHTTPServer(t, cfg)
	url := ts.URL + "/api/v1/availability?hotelId=H1&startDate=2024-09-01&endDate=2024-09-02&roomType=DBL"

	assert.Equal(t, http.StatusOK, doWithKey(t, url, "frontend-key", "frontend-extra"))
	assert.Equal(t, http.StatusTooManyRequests, doWithKey(t, url, "frontend-key", "frontend-extra"))
	assert.Equal(t, http.StatusOK, doWithKey(t, url, "admin-key", "admin-extra"))
}

func TestRequiredPermission(t *testing.T) {
	assert.Equal(t, permReadAvailability, requiredPermission("/api/v1/availability"))
	assert.Equal(t, permReadAvailability, requiredPermission("/api/v1/availability/report.xlsx"))
	assert.Equal(t, permReadHotels, requiredPermission("/api/v1/hotels"))
	assert.Empty(t, requiredPermission("/healthz"))
	assert.Empty(t, requiredPermission("/metrics"))
}

func TestClientKey(t *testing.T) {
	a := NewHTTPAuth(&config.APIConfig{})

	req, _ := http.NewRequest(http.MethodGet, "/", http.NoBody)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", a.clientKey(req))

	// Auth is off, so the header is ignored.
	req.Header.Set("x-api-key", "k1")
	assert.Equal(t, "10.0.0.1", a.clientKey(req))

	assert.Equal(t, "k1", NewHTTPAuth(authConfig()).clientKey(req))

	req.Header.Del("x-api-key")
	req.RemoteAddr = "garbage"
	assert.Equal(t, clientKeyUnknown, a.clientKey(req))
}

func TestRateLimiter_DefaultBurst(t *testing.T) {
	l := newRateLimiter(1, 0)
	assert.Equal(t, defaultBurst, l.getLimiter("a").Burst())
	assert.Same(t, l.getLimiter("a"), l.getLimiter("a"))
	assert.False(t, newRateLimiter(0, 1).enabled())
}

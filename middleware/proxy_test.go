package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"event-wall-backend/utils"
)

func TestTrustedProxy(t *testing.T) {
	tests := []struct {
		name    string
		proxies []string
		remote  string
		xff     string
		realIP  string
		want    string
	}{
		{"sans proxy configuré", nil, "203.0.113.7:4000", "1.2.3.4", "", "203.0.113.7"},
		{"pair non listé", []string{"10.0.0.1"}, "203.0.113.7:4000", "1.2.3.4", "", "203.0.113.7"},
		{"proxy de confiance", []string{"10.0.0.1"}, "10.0.0.1:4000", "198.51.100.9, 10.0.0.1", "", "198.51.100.9"},
		{"X-Real-IP en secours", []string{"10.0.0.1"}, "10.0.0.1:4000", "", "198.51.100.10", "198.51.100.10"},
		{"en-tête invalide", []string{"10.0.0.1"}, "10.0.0.1:4000", "pas-une-ip", "", "10.0.0.1"},
		{"proxy IPv6", []string{"::1"}, "[::1]:4000", "2001:db8::5", "", "2001:db8::5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			handler := TrustedProxy(tt.proxies)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = utils.ClientIP(r)
			}))

			req := httptest.NewRequest(http.MethodPost, "/api/comments", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.want, got)
		})
	}
}

// Changer X-Forwarded-For à chaque requête ne donne pas un nouveau quota
func TestRateLimiter_ignoreXForwardedForSansProxy(t *testing.T) {
	rl := NewRateLimiter(1)
	handler := TrustedProxy(nil)(rl.Middleware(http.HandlerFunc(okHandler)))

	send := func(xff string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/comments", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		req.Header.Set("X-Forwarded-For", xff)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, send("1.1.1.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("2.2.2.2"))
	assert.Equal(t, http.StatusTooManyRequests, send("3.3.3.3"))
}

// Derrière le proxy, chaque invité garde son propre quota
func TestRateLimiter_derriereProxyDeConfiance(t *testing.T) {
	rl := NewRateLimiter(1)
	handler := TrustedProxy([]string{"10.0.0.1"})(rl.Middleware(http.HandlerFunc(okHandler)))

	send := func(xff string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/comments", nil)
		req.RemoteAddr = "10.0.0.1:4000"
		req.Header.Set("X-Forwarded-For", xff)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, send("198.51.100.1"))
	assert.Equal(t, http.StatusOK, send("198.51.100.2"))
	assert.Equal(t, http.StatusTooManyRequests, send("198.51.100.1"))
}

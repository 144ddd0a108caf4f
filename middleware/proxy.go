package middleware

import (
	"net"
	"net/http"

	"event-wall-backend/utils"
)

// TrustedProxy remplace RemoteAddr par l'adresse transmise (X-Forwarded-For, X-Real-IP)
// uniquement quand la requête arrive d'un des proxies listés. Sans liste, les en-têtes sont ignorés.
func TrustedProxy(proxies []string) func(http.Handler) http.Handler {
	trusted := make(map[string]bool, len(proxies))
	for _, p := range proxies {
		if ip := net.ParseIP(p); ip != nil {
			trusted[ip.String()] = true
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(trusted) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			peer := net.ParseIP(utils.ClientIP(r))
			if peer == nil || !trusted[peer.String()] {
				next.ServeHTTP(w, r)
				return
			}
			if ip := utils.ForwardedIP(r); ip != "" {
				r.RemoteAddr = net.JoinHostPort(ip, "0")
			}
			next.ServeHTTP(w, r)
		})
	}
}

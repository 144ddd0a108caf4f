package utils

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP renvoie l'adresse du pair TCP (RemoteAddr). Derrière un proxy de confiance,
// le middleware TrustedProxy a déjà remplacé RemoteAddr par l'adresse transmise.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ForwardedIP renvoie la première adresse valide de X-Forwarded-For, sinon de X-Real-IP, sinon ""
func ForwardedIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if ip := strings.TrimSpace(strings.Split(fwd, ",")[0]); net.ParseIP(ip) != nil {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(ip) != nil {
		return ip
	}
	return ""
}

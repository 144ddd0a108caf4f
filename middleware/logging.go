package middleware

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"event-wall-backend/constants"
	"event-wall-backend/logger"
	"event-wall-backend/services"

	"github.com/google/uuid"
)

// responseWriter wrapper pour capturer le code de statut
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack laisse passer l'upgrade WebSocket
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("le ResponseWriter ne supporte pas Hijack")
	}
	rw.statusCode = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// isCriticalError détermine si une erreur doit être notifiée sur Slack :
// erreurs serveur (5xx) et refus d'accès (403), pas les erreurs utilisateur.
func isCriticalError(statusCode int) bool {
	return statusCode >= http.StatusInternalServerError || statusCode == http.StatusForbidden
}

// RequestID attribue un identifiant à chaque requête et un logger qui le porte
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(constants.HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(constants.HeaderRequestID, id)

		l := logger.L().With().Str("request_id", id).Logger()
		next.ServeHTTP(w, r.WithContext(logger.WithLogger(r.Context(), l)))
	})
}

// Logging enregistre les requêtes HTTP et envoie des notifications Slack pour les erreurs critiques
func Logging(slackService *services.SlackService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			statusCode := rw.statusCode
			l := logger.Ctx(r.Context())
			event := l.Info()
			switch {
			case statusCode >= http.StatusInternalServerError:
				event = l.Error()
			case statusCode >= http.StatusBadRequest:
				event = l.Warn()
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", statusCode).
				Float64("duration_ms", logger.Since(start)).
				Msg("requête HTTP")

			if !isCriticalError(statusCode) || !slackService.Enabled() {
				return
			}

			origin := r.Header.Get("Origin")
			userAgent := r.Header.Get("User-Agent")
			if statusCode == http.StatusForbidden && origin != "" {
				go slackService.SendCORSError(r.Method, r.RequestURI, origin, userAgent)
				return
			}
			go slackService.SendCriticalError(r.Method, r.RequestURI, strconv.Itoa(statusCode), http.StatusText(statusCode), origin, userAgent)
		})
	}
}

package logger

import (
	"context"
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config contient la configuration du logger
type Config struct {
	Level  string
	Pretty bool
	Output io.Writer
}

var (
	global zerolog.Logger
	mu     sync.RWMutex
)

type ctxKey struct{}

func init() {
	// Valeur par défaut tant que Init n'a pas été appelé
	global = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// New crée un zerolog.Logger configuré
func New(cfg Config) zerolog.Logger {
	var w io.Writer = os.Stdout
	if cfg.Output != nil {
		w = cfg.Output
	}
	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05.000"}
	}

	return zerolog.New(w).
		Level(parseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", "event-wall").
		Logger()
}

// Init initialise le logger global et redirige le package log standard vers zerolog
func Init(cfg Config) {
	mu.Lock()
	defer mu.Unlock()

	global = New(cfg)

	stdlog.SetFlags(0)
	stdlog.SetOutput(global.With().Str("source", "stdlog").Logger())
}

// L retourne le logger global
func L() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := global
	return &l
}

// WithLogger attache un logger au contexte
func WithLogger(ctx context.Context, l zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// Ctx retourne le logger du contexte, ou le logger global
func Ctx(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(zerolog.Logger); ok {
			return &l
		}
	}
	return L()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Since renvoie la durée écoulée en millisecondes, pour les champs de latence
func Since(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}

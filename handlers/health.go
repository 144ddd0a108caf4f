package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"event-wall-backend/utils"
)

var startTime = time.Now()

// Pinger vérifie la disponibilité du stockage
type Pinger interface {
	Ping(ctx context.Context) error
}

// ViewerCounter compte les écrans connectés
type ViewerCounter interface {
	ClientCount() int
}

// HealthHandler gère les endpoints de santé
type HealthHandler struct {
	environment string
	storeName   string
	store       Pinger
	viewers     ViewerCounter
}

// NewHealthHandler crée un nouveau HealthHandler
func NewHealthHandler(environment, storeName string, store Pinger, viewers ViewerCounter) *HealthHandler {
	return &HealthHandler{
		environment: environment,
		storeName:   storeName,
		store:       store,
		viewers:     viewers,
	}
}

// Health retourne l'état de santé du serveur avec métriques
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(startTime).String()

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "ok"
	if err := h.store.Ping(ctx); err != nil {
		dbStatus = "error"
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"message":    "Le serveur fonctionne correctement",
		"env":        h.environment,
		"database":   h.storeName,
		"db_status":  dbStatus,
		"viewers":    h.viewers.ClientCount(),
		"uptime":     uptime,
		"go_version": runtime.Version(),
	})
}

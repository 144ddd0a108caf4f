package handlers

import (
	"net/http"
	"time"

	"event-wall-backend/constants"
	"event-wall-backend/database"
	"event-wall-backend/logger"
	"event-wall-backend/models"
	"event-wall-backend/utils"
)

// SiteHandler expose les statistiques, la configuration et l'export du mur
type SiteHandler struct {
	store database.Store
}

// NewSiteHandler crée une nouvelle instance
func NewSiteHandler(store database.Store) *SiteHandler {
	return &SiteHandler{store: store}
}

// Statistics retourne le nombre de photos, vidéos, messages et commentaires
func (h *SiteHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()
	stats, err := h.store.Statistics(ctx)
	if err != nil {
		logger.Ctx(r.Context()).Error().Err(err).Msg("❌ Erreur calcul statistiques")
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrLoadStatistics)
		return
	}

	utils.RespondJSON(w, http.StatusOK, stats)
}

// Config retourne la configuration d'affichage du mur
func (h *SiteHandler) Config(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()
	cfg, err := h.store.GetSiteConfig(ctx)
	if err != nil {
		logger.Ctx(r.Context()).Error().Err(err).Msg("❌ Erreur lecture configuration")
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrLoadConfig)
		return
	}

	utils.RespondJSON(w, http.StatusOK, cfg)
}

// Export retourne tout le contenu du mur (authentification requise)
func (h *SiteHandler) Export(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()
	log := logger.Ctx(r.Context())

	stats, err := h.store.Statistics(ctx)
	if err != nil {
		log.Error().Err(err).Msg("❌ Erreur export (statistiques)")
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrLoadStatistics)
		return
	}
	medias, err := h.store.ListMedia(ctx, 0)
	if err != nil {
		log.Error().Err(err).Msg("❌ Erreur export (médias)")
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrLoadMedia)
		return
	}
	messages, err := h.store.ListMessages(ctx, 0)
	if err != nil {
		log.Error().Err(err).Msg("❌ Erreur export (messages)")
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrLoadMessages)
		return
	}
	if medias == nil {
		medias = []models.Media{}
	}
	if messages == nil {
		messages = []models.Message{}
	}

	w.Header().Set("Content-Disposition", `attachment; filename="event-wall-export.json"`)
	utils.RespondJSON(w, http.StatusOK, models.ExportResponse{
		ExportTime: time.Now().UTC(),
		Statistics: stats,
		Media:      medias,
		Messages:   messages,
	})
}

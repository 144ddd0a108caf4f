package handlers

import (
	"errors"
	"net/http"
	"os"
	"time"

	"event-wall-backend/constants"
	"event-wall-backend/database"
	"event-wall-backend/logger"
	"event-wall-backend/middleware"
	"event-wall-backend/models"
	"event-wall-backend/services"
	"event-wall-backend/utils"
)

// Marge accordée à l'enveloppe multipart autour du fichier
const multipartOverhead = 1 << 20

// MediaHandler gère le dépôt et la liste des photos et vidéos
type MediaHandler struct {
	store     database.MediaStore
	storage   *services.LocalStorage
	thumbs    *services.ThumbnailGenerator
	publisher services.EventPublisher
	cloud     *services.CloudSync
	maxBytes  int64
	now       func() time.Time
}

// NewMediaHandler crée une nouvelle instance ; cloud peut être nil
func NewMediaHandler(
	store database.MediaStore,
	storage *services.LocalStorage,
	thumbs *services.ThumbnailGenerator,
	publisher services.EventPublisher,
	cloud *services.CloudSync,
	maxBytes int64,
) *MediaHandler {
	return &MediaHandler{
		store:     store,
		storage:   storage,
		thumbs:    thumbs,
		publisher: publisher,
		cloud:     cloud,
		maxBytes:  maxBytes,
		now:       time.Now,
	}
}

// Upload enregistre un fichier (champ multipart "file"), le diffuse puis lance la sauvegarde cloud
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		utils.RespondError(w, http.StatusUnauthorized, constants.ErrNotAuthenticated)
		return
	}
	log := logger.Ctx(r.Context()).With().Str("user_id", claims.UserID).Logger()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.RespondError(w, http.StatusBadRequest, constants.ErrFileTooLarge)
			return
		}
		utils.RespondError(w, http.StatusBadRequest, constants.ErrFileRequired)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrFileRequired)
		return
	}
	defer file.Close()

	mimeType := header.Header.Get(constants.HeaderContentType)
	kind, err := utils.ValidateUpload(header.Filename, mimeType, header.Size, h.maxBytes)
	if err != nil {
		utils.RespondValidationError(w, err)
		return
	}

	filename := utils.StoredFilename(h.now(), claims.DisplayName, claims.UserID, header.Filename)
	subdir := utils.MediaSubdir(kind)

	path, size, err := h.storage.Save(subdir, filename, file)
	if errors.Is(err, os.ErrExist) {
		// Même invité, même fichier, même seconde : le nom horodaté est déjà pris
		filename = utils.UniqueFilename(filename)
		path, size, err = h.storage.Save(subdir, filename, file)
	}
	if err != nil {
		log.Error().Err(err).Str("filename", filename).Msg("❌ Erreur enregistrement fichier")
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrSaveFile)
		return
	}

	media := models.Media{
		Kind:         kind,
		Uploader:     claims.DisplayName,
		UploaderID:   claims.UserID,
		Filename:     filename,
		OriginalName: header.Filename,
		FileType:     mimeType,
		FileSize:     size,
		FilePath:     path,
		FileURL:      h.storage.URL(subdir, filename),
	}

	if kind == models.MediaPhoto {
		// Une miniature manquante sera rattrapée par le cron
		if thumb, err := h.thumbs.Generate(path, filename); err != nil {
			log.Warn().Err(err).Str("filename", filename).Msg("⚠️  Miniature non générée")
		} else {
			media.ThumbnailURL = thumb
		}
	}

	ctx, cancel := storeContext(r)
	defer cancel()
	if err := h.store.InsertMedia(ctx, &media); err != nil {
		log.Error().Err(err).Str("filename", filename).Msg("❌ Erreur enregistrement média")
		h.discard(media)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrSaveMedia)
		return
	}

	log.Info().Int64("media_id", media.ID).Str("media_type", string(kind)).Int64("size", size).Msg("📸 Média déposé")

	utils.RespondJSON(w, http.StatusCreated, media)
	h.publisher.Publish(models.EventNewMedia, media)
	h.cloud.Start(media)
}

// discard supprime les fichiers d'un média qui n'a pas pu être enregistré
func (h *MediaHandler) discard(media models.Media) {
	if err := h.storage.Remove(media.FilePath); err != nil {
		logger.L().Warn().Err(err).Msg("⚠️  Fichier orphelin non supprimé")
	}
	if media.ThumbnailURL != "" {
		if err := h.storage.Remove(h.storage.Path(services.ThumbnailsDir, "thumb_"+media.Filename)); err != nil {
			logger.L().Warn().Err(err).Msg("⚠️  Miniature orpheline non supprimée")
		}
	}
}

// List retourne les médias les plus récents d'abord
func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()
	medias, err := h.store.ListMedia(ctx, limit)
	if err != nil {
		logger.Ctx(r.Context()).Error().Err(err).Msg("❌ Erreur récupération médias")
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrLoadMedia)
		return
	}
	if medias == nil {
		medias = []models.Media{}
	}

	utils.RespondJSON(w, http.StatusOK, models.MediaListResponse{
		Total:  len(medias),
		Medias: medias,
	})
}

package handlers

import (
	"net/http"
	"strings"

	"event-wall-backend/constants"
	"event-wall-backend/database"
	"event-wall-backend/logger"
	"event-wall-backend/models"
	"event-wall-backend/services"
	"event-wall-backend/utils"
)

// CommentHandler gère les commentaires flottants
type CommentHandler struct {
	store     database.CommentStore
	publisher services.EventPublisher
}

// NewCommentHandler crée une nouvelle instance
func NewCommentHandler(store database.CommentStore, publisher services.EventPublisher) *CommentHandler {
	return &CommentHandler{store: store, publisher: publisher}
}

// Create enregistre un commentaire puis le diffuse aux écrans
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.CreateCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.CommentText = strings.TrimSpace(req.CommentText)
	req.DanmakuText = strings.TrimSpace(req.DanmakuText)
	req.Normalize()
	req.UserName = authorName(r, req.UserName)

	if err := utils.ValidateStruct(req); err != nil {
		utils.RespondValidationError(w, err)
		return
	}

	comment := models.Comment{
		UserName:    req.UserName,
		CommentText: req.CommentText,
		Color:       req.Color,
		Position:    *req.Position,
	}

	ctx, cancel := storeContext(r)
	defer cancel()
	if err := h.store.InsertComment(ctx, &comment); err != nil {
		logger.Ctx(r.Context()).Error().Err(err).Msg("❌ Erreur enregistrement commentaire")
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrSaveComment)
		return
	}

	utils.RespondJSON(w, http.StatusCreated, comment)
	h.publisher.Publish(models.EventNewComment, comment)
}

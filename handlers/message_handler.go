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

// MessageHandler gère le livre d'or
type MessageHandler struct {
	store     database.MessageStore
	publisher services.EventPublisher
}

// NewMessageHandler crée une nouvelle instance
func NewMessageHandler(store database.MessageStore, publisher services.EventPublisher) *MessageHandler {
	return &MessageHandler{store: store, publisher: publisher}
}

// Create enregistre un message puis le diffuse aux écrans
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.CreateMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.UserName = authorName(r, req.UserName)
	req.MessageText = strings.TrimSpace(req.MessageText)

	if err := utils.ValidateStruct(req); err != nil {
		utils.RespondValidationError(w, err)
		return
	}

	msg := models.Message{
		UserName:    req.UserName,
		MessageText: req.MessageText,
		IPAddress:   utils.ClientIP(r),
	}

	ctx, cancel := storeContext(r)
	defer cancel()
	if err := h.store.InsertMessage(ctx, &msg); err != nil {
		logger.Ctx(r.Context()).Error().Err(err).Msg("❌ Erreur enregistrement message")
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrSaveMessage)
		return
	}

	logger.Ctx(r.Context()).Info().Int64("message_id", msg.ID).Str("user_name", msg.UserName).Msg("💬 Message publié")

	utils.RespondJSON(w, http.StatusCreated, msg)
	h.publisher.Publish(models.EventNewMessage, msg)
}

// List retourne les messages, les plus récents d'abord
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()
	messages, err := h.store.ListMessages(ctx, limit)
	if err != nil {
		logger.Ctx(r.Context()).Error().Err(err).Msg("❌ Erreur récupération messages")
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrLoadMessages)
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}

	utils.RespondJSON(w, http.StatusOK, messages)
}

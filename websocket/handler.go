package websocket

import (
	"net/http"

	"event-wall-backend/logger"
	"event-wall-backend/utils"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Les écrans du mur sont publics
		return true
	},
}

// Handler gère les connexions WebSocket
type Handler struct {
	hub       *Hub
	jwtSecret string
}

// NewHandler crée un nouveau handler WebSocket
func NewHandler(hub *Hub, jwtSecret string) *Handler {
	return &Handler{
		hub:       hub,
		jwtSecret: jwtSecret,
	}
}

// ServeWS ouvre la connexion d'un écran. La session est facultative : elle sert
// seulement à nommer l'écran dans les logs.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	viewer := h.viewerName(r)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade a déjà répondu au client
		logger.Ctx(r.Context()).Warn().Err(err).Msg("❌ Erreur upgrade WebSocket")
		return
	}

	client := NewClient(h.hub, conn, viewer)
	h.hub.Register(client)

	go client.writePump()
	go client.readPump()
}

func (h *Handler) viewerName(r *http.Request) string {
	token, ok := utils.TokenFromRequest(r)
	if !ok || token == "" {
		return ""
	}
	claims, err := utils.ValidateToken(token, h.jwtSecret)
	if err != nil {
		return ""
	}
	return claims.DisplayName
}

package websocket

import (
	"time"

	"event-wall-backend/logger"

	"github.com/gorilla/websocket"
)

const (
	// Temps maximum pour l'écriture d'un message
	writeWait = 10 * time.Second

	// Temps maximum pour la lecture d'un pong
	pongWait = 60 * time.Second

	// Intervalle des pings
	pingPeriod = (pongWait * 9) / 10

	// Taille maximale des messages reçus (les écrans n'envoient rien d'utile)
	maxMessageSize = 4096

	sendBufferSize = 256
)

// Client représente un écran connecté au mur
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// Viewer est le nom de l'invité connecté, vide pour un écran anonyme
	Viewer string

	// Accédés uniquement par la boucle du hub
	pending bool
	backlog [][]byte
}

// NewClient crée un client pour une connexion déjà établie
func NewClient(hub *Hub, conn *websocket.Conn, viewer string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		Viewer: viewer,
	}
}

// readPump surveille la connexion ; sa fin déclenche la désinscription
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.L().Warn().Err(err).Str("viewer", c.Viewer).Msg("❌ Erreur WebSocket")
			}
			return
		}
	}
}

// writePump pompe les messages du hub vers la connexion WebSocket
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Le hub a fermé le canal
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.L().Warn().Err(err).Str("viewer", c.Viewer).Msg("❌ Erreur écriture WebSocket")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

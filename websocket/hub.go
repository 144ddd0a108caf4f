package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"event-wall-backend/logger"
	"event-wall-backend/models"
)

const (
	// Taille du canal de diffusion du hub
	broadcastQueueSize = 256

	// Nombre maximal d'événements mis de côté pendant le chargement de l'instantané
	maxBacklog = 256

	snapshotTimeout = 5 * time.Second
)

// SnapshotSource fournit les médias envoyés à la connexion d'un écran
type SnapshotSource interface {
	ListMedia(ctx context.Context, limit int) ([]models.Media, error)
}

type snapshotResult struct {
	client  *Client
	payload []byte
	err     error
}

// Hub gère les écrans connectés. L'ensemble des clients n'est modifié que par Run.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	snapshots  chan snapshotResult

	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	source        SnapshotSource
	snapshotLimit int
	count         atomic.Int64
}

// NewHub crée un nouveau hub
func NewHub(source SnapshotSource, snapshotLimit int) *Hub {
	return &Hub{
		clients:       make(map[*Client]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		broadcast:     make(chan []byte, broadcastQueueSize),
		snapshots:     make(chan snapshotResult),
		quit:          make(chan struct{}),
		done:          make(chan struct{}),
		source:        source,
		snapshotLimit: snapshotLimit,
	}
}

// Run démarre la boucle principale du hub, jusqu'à Shutdown
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			client.pending = true
			h.count.Store(int64(len(h.clients)))
			logger.L().Info().Int("clients", len(h.clients)).Str("viewer", client.Viewer).Msg("🔌 Écran connecté")

			go h.loadSnapshot(client)

		case client := <-h.unregister:
			if h.remove(client) {
				logger.L().Info().Int("clients", len(h.clients)).Str("viewer", client.Viewer).Msg("👋 Écran déconnecté")
			}

		case res := <-h.snapshots:
			h.completeSnapshot(res)

		case payload := <-h.broadcast:
			for client := range h.clients {
				if client.pending {
					if len(client.backlog) >= maxBacklog {
						logger.L().Warn().Str("viewer", client.Viewer).Msg("❌ Trop d'événements en attente, écran déconnecté")
						h.remove(client)
						continue
					}
					client.backlog = append(client.backlog, payload)
					continue
				}
				h.deliver(client, payload)
			}

		case <-h.quit:
			for client := range h.clients {
				h.remove(client)
			}
			logger.L().Info().Msg("🛑 Hub arrêté")
			return
		}
	}
}

// loadSnapshot lit les médias récents hors de la boucle du hub
func (h *Hub) loadSnapshot(client *Client) {
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	res := snapshotResult{client: client}
	items, err := h.source.ListMedia(ctx, h.snapshotLimit)
	if err != nil {
		res.err = err
	} else {
		ev, err := models.InitSnapshotEvent(items)
		if err == nil {
			res.payload, err = json.Marshal(ev)
		}
		res.err = err
	}

	select {
	case h.snapshots <- res:
	case <-h.quit:
	}
}

// completeSnapshot envoie l'instantané puis les événements reçus entre-temps
func (h *Hub) completeSnapshot(res snapshotResult) {
	client := res.client
	if !h.clients[client] {
		// Parti avant la fin du chargement
		return
	}
	if res.err != nil {
		logger.L().Error().Err(res.err).Str("viewer", client.Viewer).Msg("❌ Instantané indisponible, écran déconnecté")
		h.remove(client)
		return
	}

	client.pending = false
	backlog := client.backlog
	client.backlog = nil

	if !h.deliver(client, res.payload) {
		return
	}
	for _, payload := range backlog {
		if !h.deliver(client, payload) {
			return
		}
	}
}

// deliver tente un envoi sans bloquer ; un client dont le canal est plein est retiré
func (h *Hub) deliver(client *Client, payload []byte) bool {
	select {
	case client.send <- payload:
		return true
	default:
		logger.L().Warn().Str("viewer", client.Viewer).Msg("❌ Canal plein, écran déconnecté")
		h.remove(client)
		return false
	}
}

func (h *Hub) remove(client *Client) bool {
	if !h.clients[client] {
		return false
	}
	delete(h.clients, client)
	close(client.send)
	h.count.Store(int64(len(h.clients)))
	return true
}

// Register ajoute un écran ; l'instantané lui est envoyé avant toute diffusion
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

// Unregister retire un écran (sans effet s'il est déjà parti)
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast diffuse un événement à tous les écrans prêts, sans jamais bloquer l'appelant
func (h *Hub) Broadcast(ev models.LiveEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.L().Error().Err(err).Str("type", string(ev.Type)).Msg("❌ Encodage de l'événement impossible")
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		logger.L().Warn().Str("type", string(ev.Type)).Msg("⚠️  File de diffusion pleine, événement abandonné")
	}
}

// Publish construit l'événement puis le diffuse
func (h *Hub) Publish(t models.LiveEventType, payload interface{}) {
	ev, err := models.NewLiveEvent(t, payload)
	if err != nil {
		logger.L().Error().Err(err).Msg("❌ Événement invalide")
		return
	}
	h.Broadcast(ev)
}

// ClientCount renvoie le nombre d'écrans connectés
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// Shutdown ferme toutes les connexions et attend l'arrêt de Run
func (h *Hub) Shutdown(ctx context.Context) error {
	h.stopOnce.Do(func() { close(h.quit) })
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

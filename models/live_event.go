package models

import (
	"encoding/json"
	"fmt"
)

// LiveEventType identifie le type d'un événement diffusé aux écrans connectés
type LiveEventType string

const (
	EventInitSnapshot      LiveEventType = "initSnapshot"
	EventNewMedia          LiveEventType = "newMedia"
	EventNewMessage        LiveEventType = "newMessage"
	EventNewComment        LiveEventType = "newComment"
	EventCloudSyncComplete LiveEventType = "cloudSyncComplete"
)

// Valid indique si le type fait partie des événements connus
func (t LiveEventType) Valid() bool {
	switch t {
	case EventInitSnapshot, EventNewMedia, EventNewMessage, EventNewComment, EventCloudSyncComplete:
		return true
	}
	return false
}

// LiveEvent est l'enveloppe {type, data} envoyée sur le websocket
type LiveEvent struct {
	Type LiveEventType   `json:"type"`
	Data json.RawMessage `json:"data"`
}

// CloudSyncPayload est le contenu de cloudSyncComplete
type CloudSyncPayload struct {
	ID       int64  `json:"id"`
	CloudURL string `json:"cloudUrl"`
}

// NewLiveEvent encode payload dans une enveloppe du type donné
func NewLiveEvent(t LiveEventType, payload interface{}) (LiveEvent, error) {
	if !t.Valid() {
		return LiveEvent{}, fmt.Errorf("type d'événement inconnu: %q", t)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return LiveEvent{}, fmt.Errorf("erreur d'encodage de %s: %w", t, err)
	}
	return LiveEvent{Type: t, Data: data}, nil
}

// InitSnapshotEvent construit l'instantané envoyé à la connexion (jamais null)
func InitSnapshotEvent(items []Media) (LiveEvent, error) {
	if items == nil {
		items = []Media{}
	}
	return NewLiveEvent(EventInitSnapshot, items)
}

// ParseLiveEvent décode une trame reçue sur le websocket
func ParseLiveEvent(raw []byte) (LiveEvent, error) {
	var ev LiveEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return LiveEvent{}, fmt.Errorf("trame invalide: %w", err)
	}
	if !ev.Type.Valid() {
		return LiveEvent{}, fmt.Errorf("type d'événement inconnu: %q", ev.Type)
	}
	return ev, nil
}

// Decode décode le contenu de l'événement dans v
func (e LiveEvent) Decode(v interface{}) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("événement %s sans contenu", e.Type)
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("contenu %s invalide: %w", e.Type, err)
	}
	return nil
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SiteConfig représente la configuration affichée par le mur (titre, invités d'honneur, date)
type SiteConfig struct {
	ID         primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Key        string             `json:"-" bson:"key"`
	SiteTitle  string             `json:"site_title" bson:"site_title"`
	GuestNameA string             `json:"guest_name_a" bson:"guest_name_a"`
	GuestNameB string             `json:"guest_name_b" bson:"guest_name_b"`
	EventDate  *time.Time         `json:"event_date,omitempty" bson:"event_date,omitempty"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}

// DefaultSiteConfig est renvoyée tant qu'aucune configuration n'a été enregistrée
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		Key:        "site_config",
		SiteTitle:  "Mur interactif",
		GuestNameA: "Invité A",
		GuestNameB: "Invité B",
		UpdatedAt:  time.Now(),
	}
}

// Statistics représente les compteurs du mur
type Statistics struct {
	PhotoCount   int64 `json:"photoCount"`
	VideoCount   int64 `json:"videoCount"`
	MessageCount int64 `json:"messageCount"`
	CommentCount int64 `json:"commentCount"`
}

// ExportResponse représente l'export complet du mur
type ExportResponse struct {
	ExportTime time.Time  `json:"exportTime"`
	Statistics Statistics `json:"statistics"`
	Media      []Media    `json:"media"`
	Messages   []Message  `json:"messages"`
}

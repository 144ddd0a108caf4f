package models

import (
	"time"
)

const (
	DefaultCommentColor    = "#FFFFFF"
	DefaultCommentPosition = 50.0
)

// Comment représente un commentaire flottant (danmaku) affiché par-dessus la galerie
type Comment struct {
	ID          int64     `json:"id" bson:"_id"`
	UserName    string    `json:"userName" bson:"user_name"`
	CommentText string    `json:"commentText" bson:"comment_text"`
	Color       string    `json:"color" bson:"color"`
	Position    float64   `json:"position" bson:"position"` // couloir horizontal, en pourcentage
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
}

// CreateCommentRequest représente la requête d'envoi d'un commentaire.
// DanmakuText est accepté pour les anciens clients.
type CreateCommentRequest struct {
	UserName    string   `json:"userName" validate:"omitempty,max=50"`
	CommentText string   `json:"commentText" validate:"required,max=100"`
	DanmakuText string   `json:"danmakuText,omitempty" validate:"-"`
	Color       string   `json:"color" validate:"omitempty,hexcolor"`
	Position    *float64 `json:"position" validate:"omitempty,gte=0,lte=100"`
}

// Normalize applique l'alias danmakuText et les valeurs par défaut
func (r *CreateCommentRequest) Normalize() {
	if r.CommentText == "" {
		r.CommentText = r.DanmakuText
	}
	if r.Color == "" {
		r.Color = DefaultCommentColor
	}
	if r.Position == nil {
		p := DefaultCommentPosition
		r.Position = &p
	}
}

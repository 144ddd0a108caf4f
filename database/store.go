package database

import (
	"context"
	"errors"

	"event-wall-backend/models"
)

// ErrNotFound est renvoyée quand le document visé n'existe pas (ou n'est plus modifiable)
var ErrNotFound = errors.New("document introuvable")

// MediaStore persiste les photos et vidéos du mur
type MediaStore interface {
	// InsertMedia attribue l'id et la date d'upload puis enregistre le média
	InsertMedia(ctx context.Context, media *models.Media) error
	// ListMedia renvoie les médias les plus récents d'abord (limit <= 0 : tous)
	ListMedia(ctx context.Context, limit int) ([]models.Media, error)
	// UpdateMediaCloudInfo renseigne la copie cloud une seule fois, ErrNotFound sinon
	UpdateMediaCloudInfo(ctx context.Context, id int64, info models.CloudInfo) error
	ListPhotosWithoutThumbnail(ctx context.Context, limit int) ([]models.Media, error)
	UpdateMediaThumbnail(ctx context.Context, id int64, thumbnailURL string) error
}

// MessageStore persiste le livre d'or
type MessageStore interface {
	InsertMessage(ctx context.Context, msg *models.Message) error
	ListMessages(ctx context.Context, limit int) ([]models.Message, error)
}

// CommentStore persiste les commentaires flottants
type CommentStore interface {
	InsertComment(ctx context.Context, comment *models.Comment) error
}

// UserStore persiste les invités connectés via Google
type UserStore interface {
	FindOrCreateUser(ctx context.Context, profile models.GoogleProfile) (*models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
}

// Store regroupe tout ce dont le serveur a besoin
type Store interface {
	MediaStore
	MessageStore
	CommentStore
	UserStore

	Statistics(ctx context.Context) (models.Statistics, error)
	GetSiteConfig(ctx context.Context) (models.SiteConfig, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

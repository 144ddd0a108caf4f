package database

import (
	"context"
	"fmt"

	"event-wall-backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoStore implémente Store sur MongoDB
type MongoStore struct {
	medias   *MediaRepository
	messages *MessageRepository
	comments *CommentRepository
	users    *UserRepository
	settings *SiteSettingRepository
}

// NewMongoStore construit le store à partir d'une base déjà connectée
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		medias:   NewMediaRepository(db),
		messages: NewMessageRepository(db),
		comments: NewCommentRepository(db),
		users:    NewUserRepository(db),
		settings: NewSiteSettingRepository(db),
	}
}

func (s *MongoStore) InsertMedia(ctx context.Context, media *models.Media) error {
	return s.medias.Create(ctx, media)
}

func (s *MongoStore) ListMedia(ctx context.Context, limit int) ([]models.Media, error) {
	return s.medias.FindRecent(ctx, limit)
}

func (s *MongoStore) UpdateMediaCloudInfo(ctx context.Context, id int64, info models.CloudInfo) error {
	return s.medias.SetCloudInfo(ctx, id, info)
}

func (s *MongoStore) ListPhotosWithoutThumbnail(ctx context.Context, limit int) ([]models.Media, error) {
	return s.medias.FindPhotosWithoutThumbnail(ctx, limit)
}

func (s *MongoStore) UpdateMediaThumbnail(ctx context.Context, id int64, thumbnailURL string) error {
	return s.medias.SetThumbnail(ctx, id, thumbnailURL)
}

func (s *MongoStore) InsertMessage(ctx context.Context, msg *models.Message) error {
	return s.messages.Create(ctx, msg)
}

func (s *MongoStore) ListMessages(ctx context.Context, limit int) ([]models.Message, error) {
	return s.messages.FindRecent(ctx, limit)
}

func (s *MongoStore) InsertComment(ctx context.Context, comment *models.Comment) error {
	return s.comments.Create(ctx, comment)
}

func (s *MongoStore) FindOrCreateUser(ctx context.Context, profile models.GoogleProfile) (*models.User, error) {
	return s.users.UpsertFromGoogle(ctx, profile)
}

func (s *MongoStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.users.FindByID(ctx, oid)
}

func (s *MongoStore) GetSiteConfig(ctx context.Context) (models.SiteConfig, error) {
	return s.settings.GetSiteConfig(ctx)
}

// Statistics compte photos, vidéos, messages et commentaires
func (s *MongoStore) Statistics(ctx context.Context) (models.Statistics, error) {
	var stats models.Statistics
	var err error

	if stats.PhotoCount, err = s.medias.CountByKind(ctx, models.MediaPhoto); err != nil {
		return stats, err
	}
	if stats.VideoCount, err = s.medias.CountByKind(ctx, models.MediaVideo); err != nil {
		return stats, err
	}
	if stats.MessageCount, err = s.messages.Count(ctx); err != nil {
		return stats, err
	}
	if stats.CommentCount, err = s.comments.Count(ctx); err != nil {
		return stats, err
	}
	return stats, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	if err := Ping(); err != nil {
		return fmt.Errorf("mongodb injoignable: %w", err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return Close()
}

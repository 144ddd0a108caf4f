package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"event-wall-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MediaRepository gère les opérations sur les médias
type MediaRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

// NewMediaRepository crée une nouvelle instance de MediaRepository
func NewMediaRepository(db *mongo.Database) *MediaRepository {
	return &MediaRepository{
		db:         db,
		collection: db.Collection("medias"),
	}
}

// Create crée un nouveau média
func (r *MediaRepository) Create(ctx context.Context, media *models.Media) error {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	id, err := nextSequence(ctx, r.db, "medias")
	if err != nil {
		return err
	}

	media.ID = id
	// MongoDB ne conserve que la milliseconde
	media.UploadTime = time.Now().UTC().Truncate(time.Millisecond)
	media.CloudUploaded = false

	if _, err = r.collection.InsertOne(ctx, media); err != nil {
		return fmt.Errorf("erreur lors de la création du média: %w", err)
	}

	return nil
}

// FindRecent retourne les médias les plus récents d'abord
func (r *MediaRepository) FindRecent(ctx context.Context, limit int) ([]models.Media, error) {
	return r.find(ctx, bson.M{}, limit)
}

// FindPhotosWithoutThumbnail retourne les photos dont la miniature n'a pas encore été générée
func (r *MediaRepository) FindPhotosWithoutThumbnail(ctx context.Context, limit int) ([]models.Media, error) {
	filter := bson.M{
		"media_type": models.MediaPhoto,
		"$or": bson.A{
			bson.M{"thumbnail_url": bson.M{"$exists": false}},
			bson.M{"thumbnail_url": ""},
		},
	}
	return r.find(ctx, filter, limit)
}

func (r *MediaRepository) find(ctx context.Context, filter bson.M, limit int) ([]models.Media, error) {
	ctx, cancel := withTimeout(ctx, 10*time.Second)
	defer cancel()

	// Trier par date d'upload décroissante (plus récent en premier), puis par id
	opts := options.Find().SetSort(bson.D{{Key: "upload_time", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des médias: %w", err)
	}
	defer cursor.Close(ctx)

	medias := []models.Media{}
	if err = cursor.All(ctx, &medias); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des médias: %w", err)
	}

	return medias, nil
}

// FindByID recherche un média par ID
func (r *MediaRepository) FindByID(ctx context.Context, id int64) (*models.Media, error) {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	var media models.Media
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&media)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche du média: %w", err)
	}

	return &media, nil
}

// SetCloudInfo enregistre la copie cloud d'un média qui n'en a pas encore
func (r *MediaRepository) SetCloudInfo(ctx context.Context, id int64, info models.CloudInfo) error {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "cloud_uploaded": false},
		bson.M{"$set": bson.M{
			"cloud_file_id":     info.FileID,
			"cloud_url":         info.URL,
			"cloud_view_link":   info.ViewLink,
			"cloud_uploaded":    true,
			"cloud_uploaded_at": now,
		}},
	)
	if err != nil {
		return fmt.Errorf("erreur lors de la mise à jour cloud du média: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// SetThumbnail enregistre l'URL de la miniature
func (r *MediaRepository) SetThumbnail(ctx context.Context, id int64, thumbnailURL string) error {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"thumbnail_url": thumbnailURL}},
	)
	if err != nil {
		return fmt.Errorf("erreur lors de la mise à jour de la miniature: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// CountByKind compte les médias par type
func (r *MediaRepository) CountByKind(ctx context.Context, kind models.MediaKind) (int64, error) {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"media_type": kind})
	if err != nil {
		return 0, fmt.Errorf("erreur lors du comptage des médias par type: %w", err)
	}

	return count, nil
}

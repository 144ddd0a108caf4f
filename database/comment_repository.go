package database

import (
	"context"
	"fmt"
	"time"

	"event-wall-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CommentRepository gère les commentaires flottants
type CommentRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

// NewCommentRepository crée une nouvelle instance de CommentRepository
func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{
		db:         db,
		collection: db.Collection("comments"),
	}
}

// Create enregistre un commentaire
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	id, err := nextSequence(ctx, r.db, "comments")
	if err != nil {
		return err
	}
	comment.ID = id
	comment.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	if _, err = r.collection.InsertOne(ctx, comment); err != nil {
		return fmt.Errorf("erreur lors de la création du commentaire: %w", err)
	}
	return nil
}

// Count compte les commentaires
func (r *CommentRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("erreur lors du comptage des commentaires: %w", err)
	}
	return count, nil
}

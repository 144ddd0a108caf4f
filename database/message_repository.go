package database

import (
	"context"
	"fmt"
	"time"

	"event-wall-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageRepository gère le livre d'or
type MessageRepository struct {
	db         *mongo.Database
	collection *mongo.Collection
}

// NewMessageRepository crée une nouvelle instance de MessageRepository
func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{
		db:         db,
		collection: db.Collection("messages"),
	}
}

// Create enregistre un message
func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	id, err := nextSequence(ctx, r.db, "messages")
	if err != nil {
		return err
	}
	msg.ID = id
	msg.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	if _, err = r.collection.InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("erreur lors de la création du message: %w", err)
	}
	return nil
}

// FindRecent retourne les messages les plus récents d'abord
func (r *MessageRepository) FindRecent(ctx context.Context, limit int) ([]models.Message, error) {
	ctx, cancel := withTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des messages: %w", err)
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des messages: %w", err)
	}
	return messages, nil
}

// Count compte les messages
func (r *MessageRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("erreur lors du comptage des messages: %w", err)
	}
	return count, nil
}

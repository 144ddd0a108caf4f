package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"event-wall-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository gère les opérations sur les utilisateurs
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository crée une nouvelle instance de UserRepository
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

// UpsertFromGoogle crée l'utilisateur à sa première connexion, sinon rafraîchit son profil
func (r *UserRepository) UpsertFromGoogle(ctx context.Context, profile models.GoogleProfile) (*models.User, error) {
	ctx, cancel := withTimeout(ctx, 10*time.Second)
	defer cancel()

	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"email":           profile.Email,
			"display_name":    profile.Name,
			"profile_picture": profile.Picture,
			"last_login":      now,
		},
		"$setOnInsert": bson.M{
			"created_at": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var user models.User
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"google_id": profile.ID}, update, opts).Decode(&user)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de l'enregistrement de l'utilisateur: %w", err)
	}

	return &user, nil
}

// FindByID recherche un utilisateur par ID
func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche de l'utilisateur: %w", err)
	}

	return &user, nil
}

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"event-wall-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const siteConfigKey = "site_config"

// SiteSettingRepository gère les paramètres du site
type SiteSettingRepository struct {
	collection *mongo.Collection
}

// NewSiteSettingRepository crée un nouveau repository pour les paramètres du site
func NewSiteSettingRepository(db *mongo.Database) *SiteSettingRepository {
	return &SiteSettingRepository{
		collection: db.Collection("site_settings"),
	}
}

// GetSiteConfig récupère la configuration du mur, en créant celle par défaut au premier appel
func (r *SiteSettingRepository) GetSiteConfig(ctx context.Context) (models.SiteConfig, error) {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	var cfg models.SiteConfig
	err := r.collection.FindOne(ctx, bson.M{"key": siteConfigKey}).Decode(&cfg)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.SiteConfig{}, fmt.Errorf("erreur lors de la lecture de la configuration: %w", err)
	}

	// Créer la configuration par défaut si elle n'existe pas
	cfg = models.DefaultSiteConfig()
	if _, err = r.collection.InsertOne(ctx, cfg); err != nil && !mongo.IsDuplicateKeyError(err) {
		return models.SiteConfig{}, fmt.Errorf("erreur lors de la création de la configuration: %w", err)
	}

	return cfg, nil
}

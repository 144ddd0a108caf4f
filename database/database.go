package database

import (
	"context"
	"fmt"
	"time"

	"event-wall-backend/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DB est l'instance de connexion à la base de données MongoDB
var DB *mongo.Database
var Client *mongo.Client

// Connect établit la connexion à la base de données MongoDB
func Connect(uri, dbName string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("erreur lors de la connexion à MongoDB: %w", err)
	}

	if err = client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("erreur lors du ping MongoDB: %w", err)
	}

	Client = client
	DB = client.Database(dbName)

	logger.L().Info().Str("database", dbName).Msg("✓ Connexion à MongoDB établie")

	if err = createIndexes(DB); err != nil {
		return fmt.Errorf("erreur lors de la création des index: %w", err)
	}

	return nil
}

// Ping vérifie que la connexion MongoDB est active
func Ping() error {
	if Client == nil {
		return fmt.Errorf("client MongoDB non initialisé")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return Client.Ping(ctx, nil)
}

// Close ferme la connexion à la base de données
func Close() error {
	if Client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return Client.Disconnect(ctx)
	}
	return nil
}

// Open renvoie le store choisi par STORE_DRIVER (mongo ou memory)
func Open(driver, uri, dbName string) (Store, error) {
	switch driver {
	case "memory":
		logger.L().Warn().Msg("⚠️  Store en mémoire : les données seront perdues à l'arrêt")
		return NewMemoryStore(), nil
	case "mongo", "":
		if err := Connect(uri, dbName); err != nil {
			return nil, err
		}
		return NewMongoStore(DB), nil
	default:
		return nil, fmt.Errorf("driver de stockage inconnu: %q", driver)
	}
}

// counter est un document de la collection counters
type counter struct {
	Name string `bson:"_id"`
	Seq  int64  `bson:"seq"`
}

// nextSequence incrémente atomiquement le compteur name et renvoie la nouvelle valeur.
// Les ids des médias, messages et commentaires sont ainsi croissants, dans l'ordre d'insertion.
func nextSequence(ctx context.Context, db *mongo.Database, name string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var c counter
	err := db.Collection("counters").FindOneAndUpdate(
		ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&c)
	if err != nil {
		return 0, fmt.Errorf("erreur lors de l'incrément du compteur %s: %w", name, err)
	}
	return c.Seq, nil
}

// createIndexes crée les index nécessaires
func createIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := map[string]mongo.IndexModel{
		"users": {
			Keys:    bson.D{{Key: "google_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		"medias": {
			Keys: bson.D{{Key: "upload_time", Value: -1}, {Key: "_id", Value: -1}},
		},
		"messages": {
			Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
		},
		"site_settings": {
			Keys:    bson.D{{Key: "key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	for collection, index := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateOne(ctx, index); err != nil {
			return fmt.Errorf("erreur lors de la création de l'index %s: %w", collection, err)
		}
	}

	logger.L().Info().Msg("✓ Index MongoDB créés")
	return nil
}

// withTimeout borne la durée d'une opération sans perdre l'annulation de l'appelant
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, d)
}

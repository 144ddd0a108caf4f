package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Fournisseurs de sauvegarde cloud
const (
	CloudBackupNone     = "none"
	CloudBackupDrive    = "drive"
	CloudBackupFirebase = "firebase"
)

// Config contient toutes les configurations de l'application
type Config struct {
	Port        string
	Host        string
	Environment string
	AppURL      string

	StoreDriver string
	MongoURI    string
	MongoDB     string

	JWTSecret      string
	CORSOrigins    []string
	TrustedProxies []string

	UploadDir      string
	MaxUploadBytes int64
	SnapshotLimit  int

	GoogleClientID     string
	GoogleClientSecret string

	CloudBackup           string
	DriveClientID         string
	DriveClientSecret     string
	DriveRefreshToken     string
	DrivePhotosFolderID   string
	DriveVideosFolderID   string
	FirebaseCredentials   string
	FirebaseBucket        string
	ThumbnailBackfillCron string

	CommentRatePerMinute int
	SlackWebhookURL      string

	LogLevel  string
	LogPretty bool
}

// Load charge la configuration depuis les variables d'environnement
func Load() (*Config, error) {
	// Charger le fichier .env s'il existe
	_ = godotenv.Load()

	config := &Config{
		Port:        getEnv("PORT", "5001"),
		Host:        getEnv("HOST", "0.0.0.0"),
		Environment: getEnv("ENVIRONMENT", "development"),
		AppURL:      strings.TrimRight(getEnv("APP_URL", "http://localhost:5001"), "/"),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", "mongo")),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:     getEnv("MONGO_DB", "event_wall"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		SnapshotLimit: getEnvInt("SNAPSHOT_LIMIT", 50),

		GoogleClientID:     getEnv("GOOGLE_AUTH_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_AUTH_CLIENT_SECRET", ""),

		CloudBackup:           strings.ToLower(getEnv("CLOUD_BACKUP", CloudBackupNone)),
		DriveClientID:         getEnv("GDRIVE_CLIENT_ID", ""),
		DriveClientSecret:     getEnv("GDRIVE_CLIENT_SECRET", ""),
		DriveRefreshToken:     getEnv("GDRIVE_REFRESH_TOKEN", ""),
		DrivePhotosFolderID:   getEnv("GDRIVE_PHOTOS_FOLDER_ID", ""),
		DriveVideosFolderID:   getEnv("GDRIVE_VIDEOS_FOLDER_ID", ""),
		FirebaseCredentials:   getEnv("FIREBASE_CREDENTIALS_FILE", "firebase-service-account.json"),
		FirebaseBucket:        getEnv("FIREBASE_STORAGE_BUCKET", ""),
		ThumbnailBackfillCron: getEnv("THUMBNAIL_BACKFILL_SCHEDULE", ""),

		CommentRatePerMinute: getEnvInt("COMMENT_RATE_PER_MINUTE", 20),
		SlackWebhookURL:      getEnv("SLACK_WEBHOOK_URL", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvBool("LOG_PRETTY", false),
	}
	config.MaxUploadBytes = int64(getEnvInt("MAX_UPLOAD_SIZE_MB", 200)) * 1024 * 1024

	// Parser les origines CORS
	config.CORSOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5001"))

	// X-Forwarded-For n'est lu que derrière ces proxies (vide : jamais)
	config.TrustedProxies = splitList(getEnv("TRUSTED_PROXIES", ""))

	// Valider les configurations critiques
	if config.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET est requis")
	}
	if config.StoreDriver != "mongo" && config.StoreDriver != "memory" {
		return nil, fmt.Errorf("STORE_DRIVER invalide: %q (mongo ou memory)", config.StoreDriver)
	}
	switch config.CloudBackup {
	case CloudBackupNone:
	case CloudBackupDrive:
		if config.DriveClientID == "" || config.DriveClientSecret == "" || config.DriveRefreshToken == "" {
			return nil, fmt.Errorf("GDRIVE_CLIENT_ID, GDRIVE_CLIENT_SECRET et GDRIVE_REFRESH_TOKEN sont requis pour CLOUD_BACKUP=drive")
		}
	case CloudBackupFirebase:
		if config.FirebaseBucket == "" {
			return nil, fmt.Errorf("FIREBASE_STORAGE_BUCKET est requis pour CLOUD_BACKUP=firebase")
		}
	default:
		return nil, fmt.Errorf("CLOUD_BACKUP invalide: %q", config.CloudBackup)
	}
	if config.SnapshotLimit <= 0 {
		return nil, fmt.Errorf("SNAPSHOT_LIMIT doit être positif")
	}

	return config, nil
}

// GoogleAuthEnabled indique si la connexion Google est configurée
func (c *Config) GoogleAuthEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// IsProduction indique si l'application tourne en production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv récupère une variable d'environnement avec une valeur par défaut
// splitList découpe une liste séparée par des virgules en ignorant les entrées vides
func splitList(value string) []string {
	out := make([]string, 0)
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

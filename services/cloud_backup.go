package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"

	"event-wall-backend/config"
	"event-wall-backend/logger"
	"event-wall-backend/models"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// ErrBackupDisabled est renvoyée quand aucune sauvegarde cloud n'est configurée
var ErrBackupDisabled = errors.New("sauvegarde cloud désactivée")

// CloudBackup copie un fichier déposé vers un stockage distant
type CloudBackup interface {
	Name() string
	Upload(ctx context.Context, localPath, name, mimeType string, kind models.MediaKind) (models.CloudInfo, error)
}

// NewCloudBackup choisit le fournisseur selon CLOUD_BACKUP
func NewCloudBackup(ctx context.Context, cfg *config.Config) (CloudBackup, error) {
	switch cfg.CloudBackup {
	case config.CloudBackupDrive:
		return NewDriveBackup(ctx, DriveConfig{
			ClientID:       cfg.DriveClientID,
			ClientSecret:   cfg.DriveClientSecret,
			RefreshToken:   cfg.DriveRefreshToken,
			PhotosFolderID: cfg.DrivePhotosFolderID,
			VideosFolderID: cfg.DriveVideosFolderID,
		})
	case config.CloudBackupFirebase:
		return NewFirebaseBackup(ctx, cfg.FirebaseCredentials, cfg.FirebaseBucket)
	default:
		return DisabledBackup{}, nil
	}
}

// DisabledBackup est utilisé quand CLOUD_BACKUP=none
type DisabledBackup struct{}

func (DisabledBackup) Name() string { return config.CloudBackupNone }

func (DisabledBackup) Upload(context.Context, string, string, string, models.MediaKind) (models.CloudInfo, error) {
	return models.CloudInfo{}, ErrBackupDisabled
}

// DriveConfig regroupe les identifiants OAuth et les dossiers de destination
type DriveConfig struct {
	ClientID       string
	ClientSecret   string
	RefreshToken   string
	PhotosFolderID string
	VideosFolderID string
}

// DriveBackup sauvegarde les médias dans Google Drive
type DriveBackup struct {
	service *drive.Service
	folders map[models.MediaKind]string
}

// NewDriveBackup crée le client Drive à partir d'un refresh token (voir cmd/get-refresh-token)
func NewDriveBackup(ctx context.Context, cfg DriveConfig) (*DriveBackup, error) {
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{drive.DriveFileScope},
	}
	// Le token source vit aussi longtemps que le serveur
	ts := oauthCfg.TokenSource(context.Background(), &oauth2.Token{RefreshToken: cfg.RefreshToken})

	service, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("erreur lors de l'initialisation de Google Drive: %w", err)
	}

	logger.L().Info().Msg("✓ Sauvegarde Google Drive initialisée")
	return &DriveBackup{
		service: service,
		folders: map[models.MediaKind]string{
			models.MediaPhoto: cfg.PhotosFolderID,
			models.MediaVideo: cfg.VideosFolderID,
		},
	}, nil
}

func (d *DriveBackup) Name() string { return config.CloudBackupDrive }

// Upload envoie le fichier puis le rend lisible par lien
func (d *DriveBackup) Upload(ctx context.Context, localPath, name, mimeType string, kind models.MediaKind) (models.CloudInfo, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return models.CloudInfo{}, fmt.Errorf("ouverture du fichier impossible: %w", err)
	}
	defer f.Close()

	meta := &drive.File{Name: name, MimeType: mimeType}
	if folder := d.folders[kind]; folder != "" {
		meta.Parents = []string{folder}
	}

	created, err := d.service.Files.Create(meta).
		Media(f, googleapi.ContentType(mimeType)).
		Fields("id", "webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return models.CloudInfo{}, fmt.Errorf("envoi vers Google Drive impossible: %w", err)
	}

	_, err = d.service.Permissions.Create(created.Id, &drive.Permission{Type: "anyone", Role: "reader"}).
		Context(ctx).
		Do()
	if err != nil {
		return models.CloudInfo{}, fmt.Errorf("partage du fichier Drive impossible: %w", err)
	}

	return models.CloudInfo{
		FileID:   created.Id,
		URL:      "https://drive.google.com/uc?export=view&id=" + url.QueryEscape(created.Id),
		ViewLink: created.WebViewLink,
	}, nil
}

// FirebaseBackup sauvegarde les médias dans le bucket Firebase Storage du projet
type FirebaseBackup struct {
	bucket     *gcs.BucketHandle
	bucketName string
}

// NewFirebaseBackup initialise Firebase depuis FIREBASE_CREDENTIALS_JSON ou le fichier de credentials
func NewFirebaseBackup(ctx context.Context, credentialsFile, bucketName string) (*FirebaseBackup, error) {
	var opt option.ClientOption
	if credentialsJSON := os.Getenv("FIREBASE_CREDENTIALS_JSON"); credentialsJSON != "" {
		logger.L().Info().Msg("📦 Utilisation des credentials Firebase depuis FIREBASE_CREDENTIALS_JSON")
		opt = option.WithCredentialsJSON([]byte(credentialsJSON))
	} else {
		logger.L().Info().Str("file", credentialsFile).Msg("📦 Utilisation des credentials Firebase depuis le fichier")
		opt = option.WithCredentialsFile(credentialsFile)
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: bucketName}, opt)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de l'initialisation de Firebase: %w", err)
	}

	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la création du client Firebase Storage: %w", err)
	}

	bucket, err := client.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("bucket Firebase introuvable: %w", err)
	}

	logger.L().Info().Str("bucket", bucketName).Msg("✓ Sauvegarde Firebase Storage initialisée")
	return &FirebaseBackup{bucket: bucket, bucketName: bucketName}, nil
}

func (b *FirebaseBackup) Name() string { return config.CloudBackupFirebase }

// Upload écrit l'objet sous photos/ ou videos/ et le rend public si le bucket le permet
func (b *FirebaseBackup) Upload(ctx context.Context, localPath, name, mimeType string, kind models.MediaKind) (models.CloudInfo, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return models.CloudInfo{}, fmt.Errorf("ouverture du fichier impossible: %w", err)
	}
	defer f.Close()

	objectName := path.Join(string(kind)+"s", name)
	obj := b.bucket.Object(objectName)

	w := obj.NewWriter(ctx)
	w.ContentType = mimeType
	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		return models.CloudInfo{}, fmt.Errorf("envoi vers Firebase Storage impossible: %w", err)
	}
	if err := w.Close(); err != nil {
		return models.CloudInfo{}, fmt.Errorf("envoi vers Firebase Storage impossible: %w", err)
	}

	// Refusé sur les buckets en accès uniforme : l'objet reste alors privé
	if err := obj.ACL().Set(ctx, gcs.AllUsers, gcs.RoleReader); err != nil {
		logger.L().Warn().Err(err).Str("object", objectName).Msg("⚠️  Objet Firebase non rendu public")
	}

	public := (&url.URL{Scheme: "https", Host: "storage.googleapis.com", Path: "/" + b.bucketName + "/" + objectName}).String()
	return models.CloudInfo{
		FileID:   objectName,
		URL:      public,
		ViewLink: public,
	}, nil
}

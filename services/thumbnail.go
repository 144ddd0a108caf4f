package services

import (
	"context"
	"fmt"
	"os"

	"event-wall-backend/database"
	"event-wall-backend/logger"
	"event-wall-backend/models"

	"github.com/disintegration/imaging"
)

const (
	ThumbnailSize    = 300
	thumbnailQuality = 80
	thumbnailPrefix  = "thumb_"
)

// ThumbnailGenerator produit les miniatures carrées des photos
type ThumbnailGenerator struct {
	storage *LocalStorage
}

// NewThumbnailGenerator crée un générateur qui écrit dans le dossier thumbnails
func NewThumbnailGenerator(storage *LocalStorage) *ThumbnailGenerator {
	return &ThumbnailGenerator{storage: storage}
}

// Generate recadre srcPath en 300x300 (JPEG) et renvoie l'URL de la miniature.
// Les formats que imaging ne sait pas décoder (HEIC, DNG) renvoient une erreur.
func (g *ThumbnailGenerator) Generate(srcPath, filename string) (string, error) {
	img, err := imaging.Open(srcPath, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("décodage de l'image impossible: %w", err)
	}

	thumb := imaging.Fill(img, ThumbnailSize, ThumbnailSize, imaging.Center, imaging.Lanczos)

	name := thumbnailPrefix + filename
	dst := g.storage.Path(ThumbnailsDir, name)
	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("création de la miniature impossible: %w", err)
	}

	err = imaging.Encode(out, thumb, imaging.JPEG, imaging.JPEGQuality(thumbnailQuality))
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("encodage de la miniature impossible: %w", err)
	}

	return g.storage.URL(ThumbnailsDir, name), nil
}

// BackfillResult résume un passage de génération des miniatures manquantes
type BackfillResult struct {
	Generated int
	Failed    int
}

// BackfillThumbnails génère les miniatures manquantes, au plus batch photos par passage
func BackfillThumbnails(ctx context.Context, store database.MediaStore, gen *ThumbnailGenerator, batch int) (BackfillResult, error) {
	var res BackfillResult

	photos, err := store.ListPhotosWithoutThumbnail(ctx, batch)
	if err != nil {
		return res, fmt.Errorf("erreur lors de la recherche des photos sans miniature: %w", err)
	}

	for _, photo := range photos {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if !backfillOne(ctx, store, gen, photo) {
			res.Failed++
			continue
		}
		res.Generated++
	}

	return res, nil
}

func backfillOne(ctx context.Context, store database.MediaStore, gen *ThumbnailGenerator, photo models.Media) bool {
	l := logger.L().With().Int64("media_id", photo.ID).Str("filename", photo.Filename).Logger()

	url, err := gen.Generate(photo.FilePath, photo.Filename)
	if err != nil {
		l.Warn().Err(err).Msg("⚠️  Miniature non générée")
		return false
	}
	if err := store.UpdateMediaThumbnail(ctx, photo.ID, url); err != nil {
		l.Error().Err(err).Msg("❌ Miniature générée mais non enregistrée")
		return false
	}
	l.Info().Str("thumbnail_url", url).Msg("🖼️  Miniature générée")
	return true
}

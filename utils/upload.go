package utils

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"event-wall-backend/models"

	"github.com/google/uuid"
)

var (
	allowedExtensions = map[string]bool{
		".jpeg": true, ".jpg": true, ".png": true, ".gif": true,
		".heic": true, ".heif": true, ".dng": true,
		".mp4": true, ".mov": true, ".avi": true,
	}

	allowedMIMETypes = regexp.MustCompile(`^(image/(jpeg|jpg|png|gif|heic|heif|x-adobe-dng)|video/(mp4|quicktime|x-msvideo))$`)

	// Caractères refusés par Windows, macOS ou Linux (et les espaces dans le nom d'invité)
	unsafeNameChars = regexp.MustCompile(`[<>:"/\\|?*\s]`)
	unsafeBaseChars = regexp.MustCompile(`[<>:"/\\|?*]`)
)

// ValidateUpload vérifie extension, type MIME et taille, et renvoie le type de média
func ValidateUpload(originalName, mimeType string, size, maxSize int64) (models.MediaKind, error) {
	if strings.TrimSpace(originalName) == "" {
		return "", ValidationError{Field: "file", Message: "aucun fichier reçu"}
	}
	if maxSize > 0 && size > maxSize {
		return "", ValidationError{Field: "file", Message: fmt.Sprintf("fichier trop volumineux (maximum %d Mo)", maxSize/(1024*1024))}
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	mimeType = strings.ToLower(strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0]))
	if !allowedExtensions[ext] || !allowedMIMETypes.MatchString(mimeType) {
		return "", ValidationError{
			Field:   "file",
			Message: "seules les images (jpg, png, gif, heic) et les vidéos (mp4, mov, avi) sont acceptées",
		}
	}

	if strings.HasPrefix(mimeType, "video/") {
		return models.MediaVideo, nil
	}
	return models.MediaPhoto, nil
}

// StoredFilename construit le nom sur disque : YYYYMMDDHHmmss_nom_idUtilisateur_nomOriginal.ext
func StoredFilename(now time.Time, displayName, userID, originalName string) string {
	if strings.TrimSpace(displayName) == "" {
		displayName = "invite"
	}

	original := filepath.Base(filepath.ToSlash(originalName))
	ext := filepath.Ext(original)
	base := strings.TrimSuffix(original, ext)

	return fmt.Sprintf("%s_%s_%s_%s%s",
		now.Format("20060102150405"),
		unsafeNameChars.ReplaceAllString(displayName, "_"),
		unsafeBaseChars.ReplaceAllString(userID, "_"),
		unsafeBaseChars.ReplaceAllString(base, "_"),
		ext,
	)
}

// UniqueFilename ajoute un suffixe aléatoire avant l'extension : 20250601200509_Lin_42_a_1f2e3d4c.jpg
func UniqueFilename(filename string) string {
	ext := filepath.Ext(filename)
	return strings.TrimSuffix(filename, ext) + "_" + uuid.NewString()[:8] + ext
}

// MediaSubdir renvoie le sous-dossier d'upload d'un type de média
func MediaSubdir(kind models.MediaKind) string {
	if kind == models.MediaVideo {
		return "videos"
	}
	return "photos"
}

package services

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Sous-dossiers du répertoire d'upload
const (
	PhotosDir     = "photos"
	VideosDir     = "videos"
	ThumbnailsDir = "thumbnails"
)

// LocalStorage enregistre les fichiers déposés sur le disque du serveur
type LocalStorage struct {
	root string
}

// NewLocalStorage crée les dossiers photos, videos et thumbnails sous root
func NewLocalStorage(root string) (*LocalStorage, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("chemin d'upload invalide: %w", err)
	}
	for _, dir := range []string{PhotosDir, VideosDir, ThumbnailsDir} {
		if err := os.MkdirAll(filepath.Join(abs, dir), 0o755); err != nil {
			return nil, fmt.Errorf("erreur lors de la création du dossier %s: %w", dir, err)
		}
	}
	return &LocalStorage{root: abs}, nil
}

// Root renvoie le dossier racine, servi sous /uploads
func (s *LocalStorage) Root() string {
	return s.root
}

// Path renvoie le chemin disque d'un fichier, sans jamais sortir de la racine
func (s *LocalStorage) Path(subdir, filename string) string {
	name := filepath.Base(filepath.Clean("/" + filename))
	return filepath.Join(s.root, subdir, name)
}

// URL renvoie l'URL publique d'un fichier
func (s *LocalStorage) URL(subdir, filename string) string {
	return path.Join("/uploads", subdir, filepath.Base(filepath.Clean("/"+filename)))
}

// Save copie r dans subdir/filename et renvoie le chemin et la taille écrite.
// Un fichier partiellement écrit est supprimé.
func (s *LocalStorage) Save(subdir, filename string, r io.Reader) (string, int64, error) {
	dst := s.Path(subdir, filename)

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("erreur lors de la création du fichier: %w", err)
	}

	n, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dst)
		return "", 0, fmt.Errorf("erreur lors de l'écriture du fichier: %w", err)
	}

	return dst, n, nil
}

// Remove supprime un fichier sous la racine (sans effet s'il n'existe pas)
func (s *LocalStorage) Remove(p string) error {
	if !strings.HasPrefix(p, s.root+string(os.PathSeparator)) {
		return fmt.Errorf("chemin hors du dossier d'upload: %s", p)
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

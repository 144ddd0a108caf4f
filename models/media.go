package models

import (
	"time"
)

// MediaKind distingue les photos des vidéos
type MediaKind string

const (
	MediaPhoto MediaKind = "photo"
	MediaVideo MediaKind = "video"
)

// Media représente un fichier (photo ou vidéo) déposé sur le mur
type Media struct {
	ID              int64      `json:"id" bson:"_id"`
	Kind            MediaKind  `json:"media_type" bson:"media_type"`
	Uploader        string     `json:"uploader" bson:"uploader"`
	UploaderID      string     `json:"uploader_id" bson:"uploader_id"`
	Filename        string     `json:"filename" bson:"filename"`
	OriginalName    string     `json:"original_name" bson:"original_name"`
	FileType        string     `json:"file_type" bson:"file_type"`
	FileSize        int64      `json:"file_size" bson:"file_size"`
	FilePath        string     `json:"-" bson:"file_path"`
	FileURL         string     `json:"file_url" bson:"file_url"`
	ThumbnailURL    string     `json:"thumbnail_url,omitempty" bson:"thumbnail_url,omitempty"`
	CloudFileID     string     `json:"cloud_file_id,omitempty" bson:"cloud_file_id,omitempty"`
	CloudURL        string     `json:"cloud_url,omitempty" bson:"cloud_url,omitempty"`
	CloudViewLink   string     `json:"cloud_view_link,omitempty" bson:"cloud_view_link,omitempty"`
	CloudUploaded   bool       `json:"cloud_uploaded" bson:"cloud_uploaded"`
	CloudUploadedAt *time.Time `json:"cloud_uploaded_at,omitempty" bson:"cloud_uploaded_at,omitempty"`
	UploadTime      time.Time  `json:"upload_time" bson:"upload_time"`
}

// CloudInfo décrit la copie distante d'un média après la sauvegarde cloud
type CloudInfo struct {
	FileID   string
	URL      string
	ViewLink string
}

// NewerThan indique si m précède other dans l'ordre canonique (plus récent d'abord)
func (m Media) NewerThan(other Media) bool {
	if !m.UploadTime.Equal(other.UploadTime) {
		return m.UploadTime.After(other.UploadTime)
	}
	return m.ID > other.ID
}

// MediaListResponse représente la réponse de liste des médias
type MediaListResponse struct {
	Total  int     `json:"total"`
	Medias []Media `json:"medias"`
}

package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"event-wall-backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore implémente Store en mémoire (développement local et tests)
type MemoryStore struct {
	mu sync.RWMutex

	medias   []models.Media
	messages []models.Message
	comments []models.Comment
	users    map[string]*models.User // par google_id
	config   models.SiteConfig

	mediaSeq   int64
	messageSeq int64
	commentSeq int64

	now func() time.Time
}

// NewMemoryStore crée un store vide
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:  make(map[string]*models.User),
		config: models.DefaultSiteConfig(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) InsertMedia(ctx context.Context, media *models.Media) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mediaSeq++
	media.ID = s.mediaSeq
	media.UploadTime = s.now()
	media.CloudUploaded = false
	s.medias = append(s.medias, *media)
	return nil
}

func (s *MemoryStore) ListMedia(ctx context.Context, limit int) ([]models.Media, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return newestMedia(s.medias, limit, func(models.Media) bool { return true }), nil
}

func (s *MemoryStore) UpdateMediaCloudInfo(ctx context.Context, id int64, info models.CloudInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.medias {
		m := &s.medias[i]
		if m.ID != id || m.CloudUploaded {
			continue
		}
		at := s.now()
		m.CloudFileID = info.FileID
		m.CloudURL = info.URL
		m.CloudViewLink = info.ViewLink
		m.CloudUploaded = true
		m.CloudUploadedAt = &at
		return nil
	}
	return ErrNotFound
}

func (s *MemoryStore) ListPhotosWithoutThumbnail(ctx context.Context, limit int) ([]models.Media, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return newestMedia(s.medias, limit, func(m models.Media) bool {
		return m.Kind == models.MediaPhoto && m.ThumbnailURL == ""
	}), nil
}

func (s *MemoryStore) UpdateMediaThumbnail(ctx context.Context, id int64, thumbnailURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.medias {
		if s.medias[i].ID == id {
			s.medias[i].ThumbnailURL = thumbnailURL
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) InsertMessage(ctx context.Context, msg *models.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messageSeq++
	msg.ID = s.messageSeq
	msg.CreatedAt = s.now()
	s.messages = append(s.messages, *msg)
	return nil
}

func (s *MemoryStore) ListMessages(ctx context.Context, limit int) ([]models.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Insertion chronologique : il suffit de parcourir à l'envers
	out := make([]models.Message, 0, len(s.messages))
	for i := len(s.messages) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, s.messages[i])
	}
	return out, nil
}

func (s *MemoryStore) InsertComment(ctx context.Context, comment *models.Comment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.commentSeq++
	comment.ID = s.commentSeq
	comment.CreatedAt = s.now()
	s.comments = append(s.comments, *comment)
	return nil
}

func (s *MemoryStore) FindOrCreateUser(ctx context.Context, profile models.GoogleProfile) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	user, ok := s.users[profile.ID]
	if !ok {
		user = &models.User{
			ID:        primitive.NewObjectID(),
			GoogleID:  profile.ID,
			CreatedAt: now,
		}
		s.users[profile.ID] = user
	}
	user.Email = profile.Email
	user.DisplayName = profile.Name
	user.ProfilePicture = profile.Picture
	user.LastLogin = &now

	copied := *user
	return &copied, nil
}

func (s *MemoryStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.ID.Hex() == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetSiteConfig(ctx context.Context) (models.SiteConfig, error) {
	if err := ctx.Err(); err != nil {
		return models.SiteConfig{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config, nil
}

func (s *MemoryStore) Statistics(ctx context.Context) (models.Statistics, error) {
	if err := ctx.Err(); err != nil {
		return models.Statistics{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := models.Statistics{
		MessageCount: int64(len(s.messages)),
		CommentCount: int64(len(s.comments)),
	}
	for _, m := range s.medias {
		switch m.Kind {
		case models.MediaPhoto:
			stats.PhotoCount++
		case models.MediaVideo:
			stats.VideoCount++
		}
	}
	return stats, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

func newestMedia(all []models.Media, limit int, keep func(models.Media) bool) []models.Media {
	out := make([]models.Media, 0, len(all))
	for _, m := range all {
		if keep(m) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NewerThan(out[j]) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

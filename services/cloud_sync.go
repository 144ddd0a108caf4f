package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"event-wall-backend/database"
	"event-wall-backend/logger"
	"event-wall-backend/models"
)

// EventPublisher diffuse un événement aux écrans connectés
type EventPublisher interface {
	Publish(t models.LiveEventType, payload interface{})
}

// CloudSync copie les médias déposés vers la sauvegarde cloud, en arrière-plan
type CloudSync struct {
	backup    CloudBackup
	store     database.MediaStore
	publisher EventPublisher
	alerts    *SlackService

	wg sync.WaitGroup
}

// NewCloudSync crée le synchroniseur ; alerts peut être nil
func NewCloudSync(backup CloudBackup, store database.MediaStore, publisher EventPublisher, alerts *SlackService) *CloudSync {
	return &CloudSync{
		backup:    backup,
		store:     store,
		publisher: publisher,
		alerts:    alerts,
	}
}

// Enabled indique si un fournisseur cloud est configuré
func (s *CloudSync) Enabled() bool {
	if s == nil || s.backup == nil {
		return false
	}
	_, disabled := s.backup.(DisabledBackup)
	return !disabled
}

// Start lance la sauvegarde du média sans attendre le résultat.
// La requête HTTP d'origine est déjà terminée quand la copie aboutit.
func (s *CloudSync) Start(media models.Media) {
	if !s.Enabled() {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Sync(context.Background(), media)
	}()
}

// Sync sauvegarde un média, enregistre sa copie cloud et diffuse cloudSyncComplete.
// Un échec est journalisé et signalé sur Slack, le média reste disponible en local.
func (s *CloudSync) Sync(ctx context.Context, media models.Media) {
	l := logger.L().With().
		Int64("media_id", media.ID).
		Str("provider", s.backup.Name()).
		Str("filename", media.Filename).
		Logger()

	start := time.Now()
	info, err := s.backup.Upload(ctx, media.FilePath, media.Filename, media.FileType, media.Kind)
	if err != nil {
		l.Error().Err(err).Msg("❌ Sauvegarde cloud échouée")
		s.alert(media, err)
		return
	}

	err = s.store.UpdateMediaCloudInfo(ctx, media.ID, info)
	if errors.Is(err, database.ErrNotFound) {
		l.Warn().Msg("⚠️  Média déjà sauvegardé ou supprimé, copie cloud ignorée")
		return
	}
	if err != nil {
		l.Error().Err(err).Msg("❌ Copie cloud non enregistrée")
		s.alert(media, err)
		return
	}

	l.Info().Float64("duration_ms", logger.Since(start)).Str("cloud_url", info.URL).Msg("☁️  Média sauvegardé")
	s.publisher.Publish(models.EventCloudSyncComplete, models.CloudSyncPayload{
		ID:       media.ID,
		CloudURL: info.URL,
	})
}

func (s *CloudSync) alert(media models.Media, cause error) {
	if s.alerts.Enabled() {
		s.alerts.SendBackupFailure(media.ID, s.backup.Name(), media.Filename, cause)
	}
}

// Wait attend la fin des sauvegardes en cours, ou l'expiration de ctx
func (s *CloudSync) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package services

import (
	"context"
	"fmt"
	"time"

	"event-wall-backend/database"
	"event-wall-backend/logger"

	"github.com/robfig/cron/v3"
)

const (
	backfillBatchSize   = 50
	backfillTimeout     = 5 * time.Minute
	limiterCleanupEvery = "@every 10m"
	limiterMaxIdle      = 30 * time.Minute
)

// IdleCleaner oublie les clients inactifs (limiteur de débit)
type IdleCleaner interface {
	Cleanup(maxIdle time.Duration) int
}

// MaintenanceCron gère les tâches périodiques du serveur
type MaintenanceCron struct {
	store    database.MediaStore
	thumbs   *ThumbnailGenerator
	limiter  IdleCleaner
	schedule string
	cron     *cron.Cron
}

// NewMaintenanceCron crée une nouvelle instance ; un schedule vide désactive le rattrapage des miniatures
func NewMaintenanceCron(store database.MediaStore, thumbs *ThumbnailGenerator, limiter IdleCleaner, schedule string) *MaintenanceCron {
	return &MaintenanceCron{
		store:    store,
		thumbs:   thumbs,
		limiter:  limiter,
		schedule: schedule,
		cron:     cron.New(),
	}
}

// Start démarre le cron job
func (mc *MaintenanceCron) Start() error {
	if mc.schedule != "" {
		if _, err := mc.cron.AddFunc(mc.schedule, mc.backfillThumbnails); err != nil {
			return fmt.Errorf("THUMBNAIL_BACKFILL_SCHEDULE invalide: %w", err)
		}
	}
	if mc.limiter != nil {
		if _, err := mc.cron.AddFunc(limiterCleanupEvery, mc.cleanupLimiter); err != nil {
			return err
		}
	}

	mc.cron.Start()
	logger.L().Info().Str("thumbnail_schedule", mc.schedule).Msg("✓ Cron job maintenance démarré")
	return nil
}

// Stop arrête le cron job et attend la fin des tâches en cours
func (mc *MaintenanceCron) Stop() context.Context {
	return mc.cron.Stop()
}

func (mc *MaintenanceCron) backfillThumbnails() {
	ctx, cancel := context.WithTimeout(context.Background(), backfillTimeout)
	defer cancel()

	res, err := BackfillThumbnails(ctx, mc.store, mc.thumbs, backfillBatchSize)
	if err != nil {
		logger.L().Error().Err(err).Msg("❌ Rattrapage des miniatures interrompu")
		return
	}
	if res.Generated == 0 && res.Failed == 0 {
		return // Rien à faire
	}
	logger.L().Info().Int("generated", res.Generated).Int("failed", res.Failed).Msg("🖼️  Rattrapage des miniatures terminé")
}

func (mc *MaintenanceCron) cleanupLimiter() {
	if removed := mc.limiter.Cleanup(limiterMaxIdle); removed > 0 {
		logger.L().Debug().Int("removed", removed).Msg("🧹 Limiteur de débit nettoyé")
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"event-wall-backend/config"
	"event-wall-backend/database"
	"event-wall-backend/logger"
	"event-wall-backend/services"

	"github.com/spf13/cobra"
)

func main() {
	var limit int

	cmd := &cobra.Command{
		Use:   "generate-thumbnails",
		Short: "Génère les miniatures manquantes des photos déjà déposées",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), limit)
		},
		SilenceUsage: true,
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "nombre maximal de photos traitées (0 : toutes)")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.L().Error().Err(err).Msg("❌ Échec")
		os.Exit(1)
	}
}

func run(ctx context.Context, limit int) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(logger.Config{Level: cfg.LogLevel, Pretty: true})

	store, err := database.Open(cfg.StoreDriver, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	storage, err := services.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		return err
	}

	res, err := services.BackfillThumbnails(ctx, store, services.NewThumbnailGenerator(storage), limit)
	if err != nil {
		return err
	}

	logger.L().Info().Int("generated", res.Generated).Int("failed", res.Failed).Msg("✅ Génération des miniatures terminée")
	return nil
}

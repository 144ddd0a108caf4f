package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"event-wall-backend/config"
	"event-wall-backend/database"
	"event-wall-backend/logger"
	"event-wall-backend/middleware"
	"event-wall-backend/services"
	"event-wall-backend/websocket"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Charger la configuration
	cfg, err := config.Load()
	if err != nil {
		logger.L().Fatal().Err(err).Msg("❌ Erreur lors du chargement de la configuration")
	}
	logger.Init(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	log := logger.L()

	// Stockage des données
	store, err := database.Open(cfg.StoreDriver, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Erreur de connexion au stockage")
	}

	storage, err := services.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Dossier d'upload inutilisable")
	}
	thumbs := services.NewThumbnailGenerator(storage)
	slack := services.NewSlackService(cfg.SlackWebhookURL)

	// Hub WebSocket des écrans du mur
	hub := websocket.NewHub(store, cfg.SnapshotLimit)
	go hub.Run()
	log.Info().Int("snapshot_limit", cfg.SnapshotLimit).Msg("✅ Hub WebSocket initialisé et en cours d'exécution")

	// Sauvegarde cloud (optionnelle)
	backup, err := services.NewCloudBackup(context.Background(), cfg)
	if err != nil {
		log.Error().Err(err).Str("provider", cfg.CloudBackup).Msg("⚠️  Sauvegarde cloud indisponible, le serveur démarre SANS sauvegarde")
		backup = services.DisabledBackup{}
	}
	cloud := services.NewCloudSync(backup, store, hub, slack)

	commentLimiter := middleware.NewRateLimiter(cfg.CommentRatePerMinute)

	maintenance := services.NewMaintenanceCron(store, thumbs, commentLimiter, cfg.ThumbnailBackfillCron)
	if err := maintenance.Start(); err != nil {
		log.Fatal().Err(err).Msg("❌ Erreur de démarrage du cron")
	}

	srv := &server{
		cfg:            cfg,
		store:          store,
		hub:            hub,
		storage:        storage,
		thumbs:         thumbs,
		cloud:          cloud,
		slack:          slack,
		commentLimiter: commentLimiter,
	}

	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Gérer l'arrêt gracieux du serveur
	go func() {
		log.Info().
			Str("addr", addr).
			Str("env", cfg.Environment).
			Str("store", cfg.StoreDriver).
			Str("cloud_backup", backup.Name()).
			Bool("google_auth", cfg.GoogleAuthEnabled()).
			Msg("🚀 Serveur démarré")

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("❌ Erreur du serveur")
		}
	}()

	// Attendre le signal d'arrêt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("🛑 Arrêt du serveur...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("❌ Erreur lors de l'arrêt du serveur HTTP")
	}
	if err := hub.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("❌ Erreur lors de l'arrêt du hub")
	}
	select {
	case <-maintenance.Stop().Done():
	case <-ctx.Done():
	}
	if err := cloud.Wait(ctx); err != nil {
		log.Warn().Err(err).Msg("⚠️  Sauvegardes cloud interrompues")
	}
	if err := store.Close(ctx); err != nil {
		log.Error().Err(err).Msg("❌ Erreur lors de la fermeture du stockage")
	}
	log.Info().Msg("✓ Serveur arrêté proprement")
}

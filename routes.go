package main

import (
	"net/http"

	"event-wall-backend/config"
	"event-wall-backend/database"
	"event-wall-backend/handlers"
	"event-wall-backend/middleware"
	"event-wall-backend/services"
	"event-wall-backend/websocket"

	"github.com/gorilla/mux"
)

// server regroupe les dépendances partagées par les routes
type server struct {
	cfg            *config.Config
	store          database.Store
	hub            *websocket.Hub
	storage        *services.LocalStorage
	thumbs         *services.ThumbnailGenerator
	cloud          *services.CloudSync
	slack          *services.SlackService
	commentLimiter *middleware.RateLimiter
}

// routes construit le handler HTTP complet
func (s *server) routes() http.Handler {
	router := mux.NewRouter()

	// Routeur sans middleware pour le WebSocket (pas de ResponseWriter enveloppé)
	rawRouter := mux.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.TrustedProxy(s.cfg.TrustedProxies))
	router.Use(middleware.Logging(s.slack))
	router.Use(middleware.CORS(s.cfg.CORSOrigins))

	requireAuth := middleware.Auth(s.cfg.JWTSecret)
	optionalAuth := middleware.OptionalAuth(s.cfg.JWTSecret)

	healthHandler := handlers.NewHealthHandler(s.cfg.Environment, s.cfg.StoreDriver, s.store, s.hub)
	authHandler := handlers.NewAuthHandler(s.store, s.cfg)
	mediaHandler := handlers.NewMediaHandler(s.store, s.storage, s.thumbs, s.hub, s.cloud, s.cfg.MaxUploadBytes)
	messageHandler := handlers.NewMessageHandler(s.store, s.hub)
	commentHandler := handlers.NewCommentHandler(s.store, s.hub)
	siteHandler := handlers.NewSiteHandler(s.store)
	wsHandler := websocket.NewHandler(s.hub, s.cfg.JWTSecret)

	// Route de santé (health check)
	router.HandleFunc("/api/health", healthHandler.Health).Methods("GET", "OPTIONS")

	// Connexion Google
	router.HandleFunc("/auth/google", authHandler.GoogleLogin).Methods("GET")
	router.HandleFunc("/auth/google/callback", authHandler.GoogleCallback).Methods("GET")
	router.HandleFunc("/auth/logout", authHandler.Logout).Methods("GET")
	router.Handle("/api/user", optionalAuth(http.HandlerFunc(authHandler.CurrentUser))).Methods("GET", "OPTIONS")

	// Médias
	router.Handle("/api/upload", requireAuth(http.HandlerFunc(mediaHandler.Upload))).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/media", mediaHandler.List).Methods("GET", "OPTIONS")

	// Livre d'or
	router.Handle("/api/messages", optionalAuth(http.HandlerFunc(messageHandler.Create))).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/messages", messageHandler.List).Methods("GET")

	// Commentaires flottants (danmaku : ancien nom, gardé pour compatibilité)
	comments := optionalAuth(s.commentLimiter.Middleware(http.HandlerFunc(commentHandler.Create)))
	router.Handle("/api/comments", comments).Methods("POST", "OPTIONS")
	router.Handle("/api/danmaku", comments).Methods("POST", "OPTIONS")

	// Statistiques, configuration et export
	router.HandleFunc("/api/statistics", siteHandler.Statistics).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/config", siteHandler.Config).Methods("GET", "OPTIONS")
	router.Handle("/api/export", requireAuth(http.HandlerFunc(siteHandler.Export))).Methods("GET", "OPTIONS")

	// Fichiers déposés
	router.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.storage.Root()))))

	rawRouter.HandleFunc("/ws", wsHandler.ServeWS).Methods("GET")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ws" {
			rawRouter.ServeHTTP(w, r)
			return
		}
		router.ServeHTTP(w, r)
	})
}

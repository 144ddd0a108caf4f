package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"event-wall-backend/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
)

func main() {
	var addr string

	cmd := &cobra.Command{
		Use:   "get-refresh-token",
		Short: "Obtient le refresh token Google Drive de la sauvegarde cloud",
		Long: "Ouvre l'écran de consentement Google pour GDRIVE_CLIENT_ID / GDRIVE_CLIENT_SECRET,\n" +
			"attend le retour sur un serveur local puis affiche GDRIVE_REFRESH_TOKEN.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), addr)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:3000", "adresse du serveur de retour OAuth")

	logger.Init(logger.Config{Level: "info", Pretty: true})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		logger.L().Error().Err(err).Msg("❌ Échec")
		os.Exit(1)
	}
}

func run(ctx context.Context, addr string) error {
	_ = godotenv.Load()

	clientID := os.Getenv("GDRIVE_CLIENT_ID")
	clientSecret := os.Getenv("GDRIVE_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		return errors.New("GDRIVE_CLIENT_ID et GDRIVE_CLIENT_SECRET doivent être définis dans .env")
	}

	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  "http://" + addr + "/oauth2callback",
		Scopes:       []string{drive.DriveFileScope},
		Endpoint:     google.Endpoint,
	}

	// prompt=consent force Google à renvoyer un refresh token
	authURL := conf.AuthCodeURL("event-wall", oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))

	codes := make(chan string, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "Autorisation refusée : aucun code reçu", http.StatusBadRequest)
			return
		}
		fmt.Fprintln(w, "Autorisation reçue, vous pouvez fermer cette page.")
		select {
		case codes <- code:
		default:
		}
	})
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Error().Err(err).Msg("❌ Serveur de retour OAuth arrêté")
		}
	}()
	defer srv.Shutdown(context.Background())

	fmt.Println("\n🔐 Ouvrez cette URL dans votre navigateur et autorisez l'accès :")
	fmt.Println("\n" + authURL + "\n")

	var code string
	select {
	case code = <-codes:
	case <-time.After(5 * time.Minute):
		return errors.New("délai d'autorisation dépassé")
	case <-ctx.Done():
		return ctx.Err()
	}

	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("échange du code impossible: %w", err)
	}
	if token.RefreshToken == "" {
		return errors.New("Google n'a pas renvoyé de refresh token (révoquez l'accès puis recommencez)")
	}

	fmt.Println("\n✅ Refresh token obtenu !")
	fmt.Print("\nAjoutez cette ligne dans votre fichier .env:\n\n")
	fmt.Println("GDRIVE_REFRESH_TOKEN=" + token.RefreshToken)
	fmt.Println("\n⚠️  Important: Ne partagez JAMAIS ce token!")
	return nil
}

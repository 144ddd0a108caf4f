package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"event-wall-backend/gallery"
	"event-wall-backend/logger"
	"event-wall-backend/models"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

type options struct {
	url      string
	name     string
	token    string
	capacity int
}

func main() {
	var opts options

	cmd := &cobra.Command{
		Use:   "wall-viewer",
		Short: "Écran du mur en mode texte : suit le flux en direct et navigue dans la galerie",
		Long: "Se connecte au websocket du mur et affiche la galerie.\n" +
			"Commandes : n (suivant), p (précédent), s (état), q (quitter).",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&opts.url, "url", "ws://localhost:5001/ws", "adresse du websocket")
	cmd.Flags().StringVar(&opts.name, "name", "", "nom de l'invité, pour reconnaître ses propres envois (déduit de --token si absent)")
	cmd.Flags().StringVar(&opts.token, "token", "", "jeton de session (facultatif)")
	cmd.Flags().IntVar(&opts.capacity, "capacity", gallery.DefaultCapacity, "nombre de médias gardés en mémoire")

	logger.Init(logger.Config{Level: "warn", Pretty: true})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		logger.L().Error().Err(err).Msg("❌ Échec")
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	header := http.Header{}
	if opts.token != "" {
		header.Set("Authorization", "Bearer "+opts.token)
	}

	identity, err := resolveIdentity(ctx, http.DefaultClient, opts.url, opts.token, opts.name)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, opts.url, header)
	if err != nil {
		return fmt.Errorf("connexion au mur impossible: %w", err)
	}
	defer conn.Close()

	session := gallery.NewSession(identity, opts.capacity)
	if identity != "" {
		fmt.Printf("🔌 Connecté à %s en tant que %s\n", opts.url, identity)
	} else {
		fmt.Printf("🔌 Connecté à %s\n", opts.url)
	}

	closed := make(chan error, 1)
	go func() {
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				closed <- err
				return
			}
			t, err := session.Apply(raw)
			if err != nil {
				logger.L().Warn().Err(err).Msg("⚠️  Trame ignorée")
				continue
			}
			printEvent(session, t)
		}
	}()

	commands := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			commands <- strings.TrimSpace(scanner.Text())
		}
		close(commands)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-closed:
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				fmt.Println("👋 Le serveur a fermé la connexion")
				return nil
			}
			return fmt.Errorf("connexion perdue: %w", err)
		case line, ok := <-commands:
			if !ok {
				return nil
			}
			switch line {
			case "n":
				session.Next()
				printCurrent(session.State())
			case "p":
				session.Previous()
				printCurrent(session.State())
			case "s":
				printStatus(session)
			case "q":
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return nil
			case "":
			default:
				fmt.Println("Commandes : n (suivant), p (précédent), s (état), q (quitter)")
			}
		}
	}
}

// resolveIdentity renvoie le nom sous lequel l'invité publie : --name s'il est fourni,
// sinon le nom affiché du compte lié au jeton (GET /api/user). Sans l'un ni l'autre, le viewer est anonyme.
func resolveIdentity(ctx context.Context, client *http.Client, wsURL, token, name string) (string, error) {
	if name = strings.TrimSpace(name); name != "" || token == "" {
		return name, nil
	}

	userURL, err := currentUserURL(wsURL)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("récupération de l'invité impossible: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("/api/user a répondu %d", resp.StatusCode)
	}
	var current models.CurrentUserResponse
	if err := json.NewDecoder(resp.Body).Decode(&current); err != nil {
		return "", fmt.Errorf("réponse /api/user illisible: %w", err)
	}
	if !current.Authenticated || current.User == nil {
		return "", errors.New("jeton refusé par le serveur (--token)")
	}
	return current.User.DisplayName, nil
}

// currentUserURL déduit l'adresse HTTP de /api/user depuis celle du websocket
func currentUserURL(wsURL string) (string, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return "", fmt.Errorf("adresse du websocket invalide: %w", err)
	}
	switch u.Scheme {
	case "ws":
		u.Scheme = "http"
	case "wss":
		u.Scheme = "https"
	case "http", "https":
	default:
		return "", fmt.Errorf("schéma non supporté: %q", u.Scheme)
	}
	u.Path = "/api/user"
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

func printEvent(session *gallery.Session, t models.LiveEventType) {
	st := session.State()
	switch t {
	case models.EventInitSnapshot:
		fmt.Printf("🖼️  Galerie chargée : %d média(s)\n", len(st.Items))
		printCurrent(st)
	case models.EventNewMedia:
		fmt.Println("📸 Nouveau média")
		printCurrent(st)
	case models.EventNewMessage:
		if len(st.Messages) > 0 {
			m := st.Messages[0]
			fmt.Printf("💬 %s : %s\n", m.UserName, m.MessageText)
		}
	case models.EventNewComment:
		overlays := session.Overlays()
		if len(overlays) > 0 {
			c := overlays[len(overlays)-1].Comment
			fmt.Printf("✨ %s : %s\n", c.UserName, c.CommentText)
		}
	case models.EventCloudSyncComplete:
		fmt.Println("☁️  Sauvegarde cloud terminée")
	}
}

func printCurrent(st gallery.State) {
	item, ok := st.CurrentItem()
	if !ok {
		fmt.Println("   (galerie vide)")
		return
	}
	cloud := ""
	if item.CloudUploaded {
		cloud = " ☁️"
	}
	fmt.Printf("   [%d/%d] #%d %s par %s%s\n", st.Current+1, len(st.Items), item.ID, item.OriginalName, item.Uploader, cloud)
}

func printStatus(session *gallery.Session) {
	st := session.State()
	fmt.Printf("📊 %d média(s), %d message(s), %d commentaire(s) affiché(s)\n", len(st.Items), len(st.Messages), len(session.Overlays()))
	printCurrent(st)
}

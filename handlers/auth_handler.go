package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"event-wall-backend/config"
	"event-wall-backend/constants"
	"event-wall-backend/database"
	"event-wall-backend/logger"
	"event-wall-backend/middleware"
	"event-wall-backend/models"
	"event-wall-backend/utils"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	oauthStateCookie   = "oauth_state"
	oauthStateDuration = 10 * time.Minute
	googleUserInfoURL  = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// AuthHandler gère la connexion Google et la session des invités
type AuthHandler struct {
	users       database.UserStore
	oauth       *oauth2.Config
	jwtSecret   string
	secure      bool
	userInfoURL string
}

// NewAuthHandler crée une nouvelle instance ; la connexion Google reste désactivée sans identifiants
func NewAuthHandler(users database.UserStore, cfg *config.Config) *AuthHandler {
	h := &AuthHandler{
		users:       users,
		jwtSecret:   cfg.JWTSecret,
		secure:      cfg.IsProduction(),
		userInfoURL: googleUserInfoURL,
	}
	if cfg.GoogleAuthEnabled() {
		h.oauth = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.AppURL + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}
	return h
}

// GoogleLogin redirige vers l'écran de consentement Google
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.oauth == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, constants.ErrGoogleAuthDisable)
		return
	}

	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/auth",
		MaxAge:   int(oauthStateDuration.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline), http.StatusFound)
}

// GoogleCallback termine la connexion : crée ou met à jour l'invité puis pose le cookie de session
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.oauth == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, constants.ErrGoogleAuthDisable)
		return
	}
	log := logger.Ctx(r.Context())

	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrOAuthState)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Path: "/auth", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrOAuthExchange)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	token, err := h.oauth.Exchange(ctx, code)
	if err != nil {
		log.Warn().Err(err).Msg("❌ Échange du code OAuth refusé")
		utils.RespondError(w, http.StatusUnauthorized, constants.ErrOAuthExchange)
		return
	}

	profile, err := h.fetchProfile(ctx, token)
	if err != nil {
		log.Error().Err(err).Msg("❌ Profil Google indisponible")
		utils.RespondError(w, http.StatusBadGateway, constants.ErrOAuthExchange)
		return
	}

	user, err := h.users.FindOrCreateUser(ctx, profile)
	if err != nil {
		log.Error().Err(err).Msg("❌ Erreur enregistrement invité")
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	sessionToken, err := utils.GenerateToken(user.ID.Hex(), user.Email, user.DisplayName, h.jwtSecret)
	if err != nil {
		log.Error().Err(err).Msg("❌ Erreur génération token")
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	h.setSessionCookie(w, sessionToken, int(utils.SessionDuration.Seconds()))
	log.Info().Str("user_id", user.ID.Hex()).Str("display_name", user.DisplayName).Msg("✅ Invité connecté")

	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) fetchProfile(ctx context.Context, token *oauth2.Token) (models.GoogleProfile, error) {
	var profile models.GoogleProfile

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.userInfoURL, nil)
	if err != nil {
		return profile, err
	}
	resp, err := h.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return profile, fmt.Errorf("appel userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return profile, fmt.Errorf("userinfo a répondu %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return profile, fmt.Errorf("profil illisible: %w", err)
	}
	if profile.ID == "" {
		return profile, errors.New("profil sans identifiant Google")
	}
	return profile, nil
}

// Logout efface le cookie de session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.setSessionCookie(w, "", -1)
	http.Redirect(w, r, "/", http.StatusFound)
}

// CurrentUser retourne l'invité connecté, ou authenticated=false
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		utils.RespondJSON(w, http.StatusOK, models.CurrentUserResponse{Authenticated: false})
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()
	user, err := h.users.FindUserByID(ctx, claims.UserID)
	if errors.Is(err, database.ErrNotFound) {
		utils.RespondJSON(w, http.StatusOK, models.CurrentUserResponse{Authenticated: false})
		return
	}
	if err != nil {
		logger.Ctx(r.Context()).Error().Err(err).Msg("❌ Erreur récupération invité")
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, models.CurrentUserResponse{Authenticated: true, User: user})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     utils.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"event-wall-backend/config"
	"event-wall-backend/database"
	"event-wall-backend/models"
	"event-wall-backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const testSecret = "test-secret"

func testAuthConfig(withGoogle bool) *config.Config {
	cfg := &config.Config{JWTSecret: testSecret, AppURL: "http://localhost:5001", Environment: "development"}
	if withGoogle {
		cfg.GoogleClientID = "client-id"
		cfg.GoogleClientSecret = "client-secret"
	}
	return cfg
}

func findCookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// fakeGoogle simule les endpoints token et userinfo de Google
func fakeGoogle(t *testing.T, profile models.GoogleProfile) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.Form.Get("code") != "bon-code" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "jeton-google",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer jeton-google" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(profile)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func callbackRequest(state, cookieState, code string) *http.Request {
	q := url.Values{"state": {state}, "code": {code}}
	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?"+q.Encode(), nil)
	if cookieState != "" {
		req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: cookieState})
	}
	return req
}

func TestAuthHandler_GoogleLogin_desactive(t *testing.T) {
	h := NewAuthHandler(database.NewMemoryStore(), testAuthConfig(false))

	rr := httptest.NewRecorder()
	h.GoogleLogin(rr, httptest.NewRequest(http.MethodGet, "/auth/google", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	rr = httptest.NewRecorder()
	h.GoogleCallback(rr, callbackRequest("a", "a", "bon-code"))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestAuthHandler_GoogleLogin(t *testing.T) {
	h := NewAuthHandler(database.NewMemoryStore(), testAuthConfig(true))

	rr := httptest.NewRecorder()
	h.GoogleLogin(rr, httptest.NewRequest(http.MethodGet, "/auth/google", nil))

	require.Equal(t, http.StatusFound, rr.Code)
	state := findCookie(rr, oauthStateCookie)
	require.NotNil(t, state)
	assert.True(t, state.HttpOnly)

	location, err := url.Parse(rr.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", location.Host)
	assert.Equal(t, state.Value, location.Query().Get("state"))
	assert.Equal(t, "http://localhost:5001/auth/google/callback", location.Query().Get("redirect_uri"))
}

func TestAuthHandler_GoogleCallback(t *testing.T) {
	store := database.NewMemoryStore()
	google := fakeGoogle(t, models.GoogleProfile{ID: "g-1", Email: "lea@example.com", Name: "Léa", Picture: "https://img.example/lea.png"})

	h := NewAuthHandler(store, testAuthConfig(true))
	h.oauth.Endpoint = oauth2.Endpoint{AuthURL: google.URL + "/auth", TokenURL: google.URL + "/token"}
	h.userInfoURL = google.URL + "/userinfo"

	rr := httptest.NewRecorder()
	h.GoogleCallback(rr, callbackRequest("etat", "etat", "bon-code"))

	require.Equal(t, http.StatusFound, rr.Code, rr.Body.String())
	assert.Equal(t, "/", rr.Header().Get("Location"))

	session := findCookie(rr, utils.SessionCookieName)
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)

	claims, err := utils.ValidateToken(session.Value, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "Léa", claims.DisplayName)
	assert.Equal(t, "lea@example.com", claims.Email)

	user, err := store.FindUserByID(context.Background(), claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, "g-1", user.GoogleID)
}

func TestAuthHandler_GoogleCallback_refus(t *testing.T) {
	google := fakeGoogle(t, models.GoogleProfile{ID: "g-1", Name: "Léa"})

	tests := []struct {
		name     string
		req      *http.Request
		wantCode int
	}{
		{"sans cookie d'état", callbackRequest("etat", "", "bon-code"), http.StatusBadRequest},
		{"état différent", callbackRequest("etat", "autre", "bon-code"), http.StatusBadRequest},
		{"code refusé", callbackRequest("etat", "etat", "mauvais-code"), http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(database.NewMemoryStore(), testAuthConfig(true))
			h.oauth.Endpoint = oauth2.Endpoint{AuthURL: google.URL + "/auth", TokenURL: google.URL + "/token"}
			h.userInfoURL = google.URL + "/userinfo"

			rr := httptest.NewRecorder()
			h.GoogleCallback(rr, tt.req)

			assert.Equal(t, tt.wantCode, rr.Code)
			assert.Nil(t, findCookie(rr, utils.SessionCookieName))
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	h := NewAuthHandler(database.NewMemoryStore(), testAuthConfig(false))

	rr := httptest.NewRecorder()
	h.Logout(rr, httptest.NewRequest(http.MethodGet, "/auth/logout", nil))

	assert.Equal(t, http.StatusFound, rr.Code)
	session := findCookie(rr, utils.SessionCookieName)
	require.NotNil(t, session)
	assert.Empty(t, session.Value)
	assert.Less(t, session.MaxAge, 0)
}

func TestAuthHandler_CurrentUser(t *testing.T) {
	store := database.NewMemoryStore()
	user, err := store.FindOrCreateUser(context.Background(), models.GoogleProfile{ID: "g-1", Email: "lea@example.com", Name: "Léa"})
	require.NoError(t, err)
	h := NewAuthHandler(store, testAuthConfig(false))

	t.Run("anonyme", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.CurrentUser(rr, httptest.NewRequest(http.MethodGet, "/api/user", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"authenticated":false}`, rr.Body.String())
	})

	t.Run("connecté", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.CurrentUser(rr, withClaims(httptest.NewRequest(http.MethodGet, "/api/user", nil), user.ID.Hex(), "Léa"))
		require.Equal(t, http.StatusOK, rr.Code)

		var resp models.CurrentUserResponse
		decodeBody(t, rr, &resp)
		assert.True(t, resp.Authenticated)
		require.NotNil(t, resp.User)
		assert.Equal(t, "Léa", resp.User.DisplayName)
	})

	t.Run("compte disparu", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.CurrentUser(rr, withClaims(httptest.NewRequest(http.MethodGet, "/api/user", nil), "inconnu", "Léa"))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"authenticated":false}`, rr.Body.String())
	})
}

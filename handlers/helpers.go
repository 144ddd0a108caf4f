package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"event-wall-backend/constants"
	"event-wall-backend/middleware"
	"event-wall-backend/utils"
)

const (
	// Durée maximale d'un appel au store depuis une requête
	storeTimeout = 5 * time.Second

	defaultListLimit = 100
	maxListLimit     = 500

	anonymousName = "Anonyme"
)

// RequireMethod vérifie que la méthode HTTP est correcte. Retourne false et écrit l'erreur si non.
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		utils.RespondError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
		return false
	}
	return true
}

// storeContext borne la durée d'un appel au store
func storeContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), storeTimeout)
}

// parseLimit lit ?limit= (défaut 100, plafonné à 500). Retourne false et écrit l'erreur si invalide.
func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultListLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidLimit)
		return 0, false
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return limit, true
}

// decodeJSON décode le body. Retourne false et écrit l'erreur si le JSON est invalide.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidJSONBody)
		return false
	}
	return true
}

// authorName renvoie le nom saisi, sinon celui de la session, sinon "Anonyme"
func authorName(r *http.Request, typed string) string {
	if name := strings.TrimSpace(typed); name != "" {
		return name
	}
	if claims := middleware.GetUserFromContext(r.Context()); claims != nil && claims.DisplayName != "" {
		return claims.DisplayName
	}
	return anonymousName
}

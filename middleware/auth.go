package middleware

import (
	"context"
	"net/http"

	"event-wall-backend/constants"
	"event-wall-backend/utils"
)

type contextKey string

const UserContextKey contextKey = "user"

// Auth exige un token JWT valide (en-tête Bearer ou cookie de session)
func Auth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := utils.TokenFromRequest(r)
			if !ok {
				utils.RespondError(w, http.StatusUnauthorized, constants.ErrInvalidTokenFmt)
				return
			}
			if tokenString == "" {
				utils.RespondError(w, http.StatusUnauthorized, constants.ErrMissingToken)
				return
			}

			claims, err := utils.ValidateToken(tokenString, jwtSecret)
			if err != nil {
				utils.RespondError(w, http.StatusUnauthorized, constants.ErrInvalidToken)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth ajoute l'invité au contexte si un token valide est présent, sans rien exiger
func OptionalAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenString, ok := utils.TokenFromRequest(r); ok && tokenString != "" {
				if claims, err := utils.ValidateToken(tokenString, jwtSecret); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), UserContextKey, claims))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUserFromContext récupère les informations de l'utilisateur depuis le contexte
func GetUserFromContext(ctx context.Context) *utils.Claims {
	claims, ok := ctx.Value(UserContextKey).(*utils.Claims)
	if !ok {
		return nil
	}
	return claims
}

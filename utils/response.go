package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"event-wall-backend/constants"
	"event-wall-backend/logger"
	"event-wall-backend/models"
)

// RespondJSON envoie une réponse JSON
func RespondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	if w.Header().Get(constants.HeaderContentType) == "" {
		w.Header().Set(constants.HeaderContentType, constants.HeaderApplicationJSON)
	}

	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	w.WriteHeader(statusCode)

	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Les en-têtes sont déjà partis : on ne peut que tronquer la réponse
		logger.L().Error().Err(err).Int("status", statusCode).Msg("❌ Erreur lors de l'encodage JSON")
	}
}

// RespondError envoie une réponse d'erreur JSON
func RespondError(w http.ResponseWriter, statusCode int, message string) {
	RespondJSON(w, statusCode, models.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

// RespondValidationError renvoie 400 avec le message de la première erreur de validation
func RespondValidationError(w http.ResponseWriter, err error) {
	var verr ValidationError
	if errors.As(err, &verr) {
		RespondError(w, http.StatusBadRequest, verr.Error())
		return
	}
	RespondError(w, http.StatusBadRequest, err.Error())
}

package constants

// Messages d'erreur HTTP courants
const (
	ErrMethodNotAllowed  = "Méthode non autorisée"
	ErrServerError       = "Erreur serveur"
	ErrNotAuthenticated  = "Non authentifié"
	ErrMissingToken      = "Token d'authentification manquant"
	ErrInvalidTokenFmt   = "Format du token invalide"
	ErrInvalidToken      = "Token invalide ou expiré"
	ErrInvalidJSONBody   = "Body JSON invalide"
	ErrInvalidLimit      = "Paramètre limit invalide"
	ErrFileRequired      = "Le champ file est requis (multipart/form-data)"
	ErrFileTooLarge      = "Fichier trop volumineux"
	ErrSaveFile          = "Erreur lors de l'enregistrement du fichier"
	ErrSaveMedia         = "Erreur lors de l'enregistrement du média"
	ErrSaveMessage       = "Erreur lors de l'enregistrement du message"
	ErrSaveComment       = "Erreur lors de l'enregistrement du commentaire"
	ErrLoadMedia         = "Erreur lors de la récupération des médias"
	ErrLoadMessages      = "Erreur lors de la récupération des messages"
	ErrLoadStatistics    = "Erreur lors du calcul des statistiques"
	ErrLoadConfig        = "Erreur lors de la lecture de la configuration"
	ErrTooManyComments   = "Trop de commentaires, réessayez dans un instant"
	ErrGoogleAuthDisable = "Connexion Google non configurée"
	ErrOAuthState        = "État OAuth invalide"
	ErrOAuthExchange     = "Échec de la connexion Google"
)

// En-têtes HTTP
const (
	HeaderContentType     = "Content-Type"
	HeaderApplicationJSON = "application/json"
	HeaderRequestID       = "X-Request-ID"
)

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User représente un invité connecté via Google
type User struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	GoogleID       string             `json:"-" bson:"google_id"`
	Email          string             `json:"email" bson:"email"`
	DisplayName    string             `json:"displayName" bson:"display_name"`
	ProfilePicture string             `json:"profilePicture,omitempty" bson:"profile_picture,omitempty"`
	LastLogin      *time.Time         `json:"last_login,omitempty" bson:"last_login,omitempty"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
}

// GoogleProfile représente le profil renvoyé par l'endpoint userinfo de Google
type GoogleProfile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// CurrentUserResponse représente la réponse de /api/user
type CurrentUserResponse struct {
	Authenticated bool  `json:"authenticated"`
	User          *User `json:"user,omitempty"`
}

// ErrorResponse représente une réponse d'erreur
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

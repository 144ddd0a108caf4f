package models

import (
	"time"
)

// Message représente un message laissé sur le livre d'or
type Message struct {
	ID          int64     `json:"id" bson:"_id"`
	UserName    string    `json:"userName" bson:"user_name"`
	MessageText string    `json:"messageText" bson:"message_text"`
	IPAddress   string    `json:"-" bson:"ip_address,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
}

// CreateMessageRequest représente la requête de publication d'un message
type CreateMessageRequest struct {
	UserName    string `json:"userName" validate:"omitempty,max=50"`
	MessageText string `json:"messageText" validate:"required,max=500"`
}

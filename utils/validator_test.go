package utils

import (
	"errors"
	"strings"
	"testing"

	"event-wall-backend/models"
)

func TestValidateStruct_message(t *testing.T) {
	tests := []struct {
		name      string
		req       models.CreateMessageRequest
		wantField string
	}{
		{"valide", models.CreateMessageRequest{UserName: "Lin", MessageText: "Bravo !"}, ""},
		{"texte manquant", models.CreateMessageRequest{UserName: "Lin"}, "messageText"},
		{"texte trop long", models.CreateMessageRequest{MessageText: strings.Repeat("a", 501)}, "messageText"},
		{"nom trop long", models.CreateMessageRequest{UserName: strings.Repeat("é", 51), MessageText: "ok"}, "userName"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.req)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateStruct() erreur inattendue = %v", err)
				}
				return
			}
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("ValidateStruct() = %v, attendu ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, attendu %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestValidateStruct_commentaire(t *testing.T) {
	pos := func(v float64) *float64 { return &v }

	tests := []struct {
		name      string
		req       models.CreateCommentRequest
		wantField string
	}{
		{"valide", models.CreateCommentRequest{CommentText: "wow", Color: "#FF00AA", Position: pos(10)}, ""},
		{"couleur invalide", models.CreateCommentRequest{CommentText: "wow", Color: "rouge"}, "color"},
		{"position hors bornes", models.CreateCommentRequest{CommentText: "wow", Position: pos(101)}, "position"},
		{"texte trop long", models.CreateCommentRequest{CommentText: strings.Repeat("x", 101)}, "commentText"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.req)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateStruct() erreur inattendue = %v", err)
				}
				return
			}
			var verr ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.wantField {
				t.Errorf("ValidateStruct() = %v, attendu une erreur sur %q", err, tt.wantField)
			}
		})
	}
}

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"event-wall-backend/database"
	"event-wall-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageHandler_Create(t *testing.T) {
	store := database.NewMemoryStore()
	pub := &recordingPublisher{}
	h := NewMessageHandler(store, pub)

	rr := httptest.NewRecorder()
	h.Create(rr, jsonRequest(http.MethodPost, "/api/messages", `{"userName":"Léa","messageText":"  Félicitations !  "}`))

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var msg models.Message
	decodeBody(t, rr, &msg)
	assert.Equal(t, int64(1), msg.ID)
	assert.Equal(t, "Léa", msg.UserName)
	assert.Equal(t, "Félicitations !", msg.MessageText)
	assert.False(t, msg.CreatedAt.IsZero())

	events := pub.Events()
	require.Len(t, events, 1)
	assert.Equal(t, models.EventNewMessage, events[0].Type)
	var broadcast models.Message
	require.NoError(t, events[0].Decode(&broadcast))
	assert.Equal(t, msg.ID, broadcast.ID)
	assert.Equal(t, msg.MessageText, broadcast.MessageText)
}

func TestMessageHandler_Create_nomParDefaut(t *testing.T) {
	store := database.NewMemoryStore()
	h := NewMessageHandler(store, &recordingPublisher{})

	rr := httptest.NewRecorder()
	h.Create(rr, jsonRequest(http.MethodPost, "/api/messages", `{"messageText":"Bravo"}`))
	require.Equal(t, http.StatusCreated, rr.Code)
	var anon models.Message
	decodeBody(t, rr, &anon)
	assert.Equal(t, anonymousName, anon.UserName)

	rr = httptest.NewRecorder()
	h.Create(rr, withClaims(jsonRequest(http.MethodPost, "/api/messages", `{"messageText":"Bravo"}`), "u1", "Marc"))
	require.Equal(t, http.StatusCreated, rr.Code)
	var named models.Message
	decodeBody(t, rr, &named)
	assert.Equal(t, "Marc", named.UserName)
}

func TestMessageHandler_Create_invalide(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"texte vide", `{"userName":"Léa","messageText":"   "}`},
		{"texte trop long", `{"messageText":"` + strings.Repeat("a", 501) + `"}`},
		{"nom trop long", `{"userName":"` + strings.Repeat("n", 51) + `","messageText":"ok"}`},
		{"json invalide", `{"messageText":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := database.NewMemoryStore()
			pub := &recordingPublisher{}
			h := NewMessageHandler(store, pub)

			rr := httptest.NewRecorder()
			h.Create(rr, jsonRequest(http.MethodPost, "/api/messages", tt.body))

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Empty(t, pub.Events())
			msgs, err := store.ListMessages(context.Background(), 0)
			require.NoError(t, err)
			assert.Empty(t, msgs)
		})
	}
}

func TestMessageHandler_Create_erreurStore(t *testing.T) {
	pub := &recordingPublisher{}
	h := NewMessageHandler(newFailingStore(), pub)

	rr := httptest.NewRecorder()
	h.Create(rr, jsonRequest(http.MethodPost, "/api/messages", `{"messageText":"Bravo"}`))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Empty(t, pub.Events())
}

func TestMessageHandler_List(t *testing.T) {
	store := database.NewMemoryStore()
	for _, text := range []string{"un", "deux", "trois"} {
		require.NoError(t, store.InsertMessage(context.Background(), &models.Message{UserName: "x", MessageText: text}))
	}
	h := NewMessageHandler(store, &recordingPublisher{})

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/api/messages?limit=2", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var msgs []models.Message
	decodeBody(t, rr, &msgs)
	require.Len(t, msgs, 2)
	assert.Equal(t, "trois", msgs[0].MessageText)
	assert.Equal(t, "deux", msgs[1].MessageText)
}

func TestMessageHandler_List_vide(t *testing.T) {
	h := NewMessageHandler(database.NewMemoryStore(), &recordingPublisher{})

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/api/messages", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestMessageHandler_List_erreurStore(t *testing.T) {
	h := NewMessageHandler(newFailingStore(), &recordingPublisher{})

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/api/messages", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

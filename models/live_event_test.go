package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitSnapshotEvent_videNonNull(t *testing.T) {
	ev, err := InitSnapshotEvent(nil)
	require.NoError(t, err)

	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"initSnapshot","data":[]}`, string(raw))
}

func TestParseLiveEvent(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"cloudSyncComplete", `{"type":"cloudSyncComplete","data":{"id":3,"cloudUrl":"https://x"}}`, false},
		{"type inconnu", `{"type":"initMedia","data":[]}`, true},
		{"json invalide", `{"type":`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLiveEvent([]byte(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLiveEventWireShape(t *testing.T) {
	created := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)
	ev, err := NewLiveEvent(EventNewMessage, Message{ID: 7, UserName: "Lin", MessageText: "Félicitations", IPAddress: "10.0.0.1", CreatedAt: created})
	require.NoError(t, err)

	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"newMessage","data":{"id":7,"userName":"Lin","messageText":"Félicitations","createdAt":"2025-06-01T20:00:00Z"}}`, string(raw))

	parsed, err := ParseLiveEvent(raw)
	require.NoError(t, err)
	var msg Message
	require.NoError(t, parsed.Decode(&msg))
	assert.Equal(t, int64(7), msg.ID)
	assert.Empty(t, msg.IPAddress, "l'adresse IP ne doit jamais être diffusée")
}

func TestNewLiveEvent_typeInconnu(t *testing.T) {
	_, err := NewLiveEvent("unknown", nil)
	assert.Error(t, err)
}

func TestMediaNewerThan(t *testing.T) {
	now := time.Now()
	a := Media{ID: 1, UploadTime: now}
	b := Media{ID: 2, UploadTime: now}
	c := Media{ID: 3, UploadTime: now.Add(-time.Minute)}

	assert.True(t, b.NewerThan(a), "à horodatage égal, l'id le plus grand est le plus récent")
	assert.True(t, a.NewerThan(c))
	assert.False(t, c.NewerThan(b))
}

func TestCreateCommentRequestNormalize(t *testing.T) {
	req := CreateCommentRequest{DanmakuText: "bravo"}
	req.Normalize()

	assert.Equal(t, "bravo", req.CommentText)
	assert.Equal(t, DefaultCommentColor, req.Color)
	require.NotNil(t, req.Position)
	assert.Equal(t, DefaultCommentPosition, *req.Position)
}

package websocket

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"event-wall-backend/database"
	"event-wall-backend/models"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sourceFunc func(ctx context.Context, limit int) ([]models.Media, error)

func (f sourceFunc) ListMedia(ctx context.Context, limit int) ([]models.Media, error) {
	return f(ctx, limit)
}

func staticSource(items ...models.Media) SnapshotSource {
	return sourceFunc(func(context.Context, int) ([]models.Media, error) {
		return items, nil
	})
}

func newTestClient(h *Hub, buffer int) *Client {
	return &Client{hub: h, send: make(chan []byte, buffer)}
}

func startHub(t *testing.T, source SnapshotSource) *Hub {
	t.Helper()
	h := NewHub(source, 50)
	go h.Run()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = h.Shutdown(ctx)
	})
	return h
}

func receive(t *testing.T, c *Client) models.LiveEvent {
	t.Helper()
	select {
	case raw, ok := <-c.send:
		require.True(t, ok, "canal fermé")
		ev, err := models.ParseLiveEvent(raw)
		require.NoError(t, err)
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("aucun message reçu")
	}
	return models.LiveEvent{}
}

func waitClosed(t *testing.T, c *Client) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-c.send:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("le canal du client n'a pas été fermé")
		}
	}
}

func TestHub_instantaneAvantDiffusion(t *testing.T) {
	gate := make(chan struct{})
	var calls atomic.Int32
	source := sourceFunc(func(ctx context.Context, _ int) ([]models.Media, error) {
		// Le deuxième écran attend l'ouverture de gate
		if calls.Add(1) == 2 {
			<-gate
		}
		return []models.Media{{ID: 1, Kind: models.MediaPhoto}}, nil
	})
	h := startHub(t, source)

	ready := newTestClient(h, 16)
	h.Register(ready)
	require.Equal(t, models.EventInitSnapshot, receive(t, ready).Type)

	loading := newTestClient(h, 16)
	h.Register(loading)

	h.Publish(models.EventNewMedia, models.Media{ID: 2, Kind: models.MediaPhoto})

	// Une fois reçu par l'écran prêt, l'événement est dans l'attente de l'autre
	require.Equal(t, models.EventNewMedia, receive(t, ready).Type)
	close(gate)

	first := receive(t, loading)
	assert.Equal(t, models.EventInitSnapshot, first.Type)
	var items []models.Media
	require.NoError(t, first.Decode(&items))
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].ID)

	second := receive(t, loading)
	assert.Equal(t, models.EventNewMedia, second.Type)
	var media models.Media
	require.NoError(t, second.Decode(&media))
	assert.Equal(t, int64(2), media.ID)
}

func TestHub_clientLentIsole(t *testing.T) {
	h := startHub(t, staticSource())

	slow := newTestClient(h, 1)
	h.Register(slow)
	require.Eventually(t, func() bool { return len(slow.send) == 1 }, 2*time.Second, 5*time.Millisecond)

	fast := newTestClient(h, 16)
	h.Register(fast)
	require.Equal(t, models.EventInitSnapshot, receive(t, fast).Type)
	assert.Equal(t, 2, h.ClientCount())

	h.Publish(models.EventNewMessage, models.Message{ID: 1, UserName: "Léa", MessageText: "Bravo"})

	assert.Equal(t, models.EventNewMessage, receive(t, fast).Type)
	waitClosed(t, slow)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, 2*time.Second, 5*time.Millisecond)

	// Les diffusions suivantes atteignent toujours l'écran restant
	h.Publish(models.EventNewMessage, models.Message{ID: 2})
	assert.Equal(t, models.EventNewMessage, receive(t, fast).Type)
}

func TestHub_instantaneIndisponible(t *testing.T) {
	h := startHub(t, sourceFunc(func(context.Context, int) ([]models.Media, error) {
		return nil, errors.New("base indisponible")
	}))

	c := newTestClient(h, 16)
	h.Register(c)

	waitClosed(t, c)
	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestHub_instantaneVide(t *testing.T) {
	h := startHub(t, staticSource())

	c := newTestClient(h, 16)
	h.Register(c)

	ev := receive(t, c)
	assert.Equal(t, models.EventInitSnapshot, ev.Type)
	assert.JSONEq(t, `[]`, string(ev.Data))
}

func TestHub_UnregisterIdempotent(t *testing.T) {
	h := startHub(t, staticSource())

	c := newTestClient(h, 16)
	h.Register(c)
	receive(t, c)

	assert.NotPanics(t, func() {
		h.Unregister(c)
		h.Unregister(c)
	})
	waitClosed(t, c)
	assert.Equal(t, 0, h.ClientCount())
}

func TestHub_BroadcastNeBloqueJamais(t *testing.T) {
	// Hub non démarré : la file se remplit puis les événements sont abandonnés
	h := NewHub(staticSource(), 50)

	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastQueueSize*2; i++ {
			h.Publish(models.EventNewComment, models.Comment{ID: int64(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast a bloqué l'appelant")
	}
	assert.Len(t, h.broadcast, broadcastQueueSize)
}

func TestHub_PublishTypeInconnu(t *testing.T) {
	h := NewHub(staticSource(), 50)
	h.Publish(models.LiveEventType("inconnu"), nil)
	assert.Len(t, h.broadcast, 0)
}

func TestHub_Shutdown(t *testing.T) {
	h := NewHub(staticSource(), 50)
	go h.Run()

	c := newTestClient(h, 16)
	h.Register(c)
	receive(t, c)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, h.Shutdown(ctx))
	require.NoError(t, h.Shutdown(ctx), "Shutdown peut être appelé deux fois")
	waitClosed(t, c)

	// Un écran arrivé après l'arrêt est refermé aussitôt
	late := newTestClient(h, 1)
	h.Register(late)
	waitClosed(t, late)
}

func TestServeWS_allerRetour(t *testing.T) {
	store := database.NewMemoryStore()
	require.NoError(t, store.InsertMedia(context.Background(), &models.Media{Kind: models.MediaPhoto, Filename: "a.jpg"}))

	h := startHub(t, store)
	srv := httptest.NewServer(http.HandlerFunc(NewHandler(h, "secret").ServeWS))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() models.LiveEvent {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)
		ev, err := models.ParseLiveEvent(raw)
		require.NoError(t, err)
		return ev
	}

	snapshot := read()
	require.Equal(t, models.EventInitSnapshot, snapshot.Type)
	var items []models.Media
	require.NoError(t, snapshot.Decode(&items))
	require.Len(t, items, 1)
	assert.Equal(t, "a.jpg", items[0].Filename)

	h.Publish(models.EventNewComment, models.Comment{ID: 9, CommentText: "Magnifique"})
	assert.Equal(t, models.EventNewComment, read().Type)
}

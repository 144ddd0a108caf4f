package gallery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-wall-backend/models"
)

var base = time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)

func media(id int64, uploader string) models.Media {
	return models.Media{
		ID:         id,
		Kind:       models.MediaPhoto,
		Uploader:   uploader,
		FileURL:    "/uploads/photos/p.jpg",
		UploadTime: base.Add(time.Duration(id) * time.Second),
	}
}

func mustEvent(t *testing.T, typ models.LiveEventType, payload interface{}) models.LiveEvent {
	t.Helper()
	ev, err := models.NewLiveEvent(typ, payload)
	require.NoError(t, err)
	return ev
}

func snapshot(t *testing.T, items ...models.Media) models.LiveEvent {
	t.Helper()
	ev, err := models.InitSnapshotEvent(items)
	require.NoError(t, err)
	return ev
}

func apply(t *testing.T, s State, evs ...models.LiveEvent) State {
	t.Helper()
	var err error
	for _, ev := range evs {
		s, err = Reconcile(s, ev)
		require.NoError(t, err)
	}
	return s
}

func ids(items []models.Media) []int64 {
	out := make([]int64, 0, len(items))
	for _, m := range items {
		out = append(out, m.ID)
	}
	return out
}

func TestReconcile_snapshotVide(t *testing.T) {
	s := apply(t, NewState("Lin", 10), snapshot(t))

	assert.True(t, s.Ready)
	assert.Empty(t, s.Items)
	assert.Equal(t, NoSelection, s.Current)
}

func TestReconcile_snapshotSelectionnePremier(t *testing.T) {
	s := apply(t, NewState("Lin", 10), snapshot(t, media(3, "A"), media(2, "B"), media(1, "C")))

	assert.Equal(t, []int64{3, 2, 1}, ids(s.Items))
	assert.Equal(t, 0, s.Current)
}

func TestReconcile_ignoreAvantSnapshot(t *testing.T) {
	s := apply(t, NewState("Lin", 10), mustEvent(t, models.EventNewMedia, media(9, "A")))

	assert.False(t, s.Ready)
	assert.Empty(t, s.Items)
	assert.Equal(t, NoSelection, s.Current)
}

func TestReconcile_nouveauMediaSurListeVide(t *testing.T) {
	s := apply(t, NewState("Lin", 10),
		snapshot(t),
		mustEvent(t, models.EventNewMedia, media(1, "Autre")),
	)

	assert.Equal(t, []int64{1}, ids(s.Items))
	assert.Equal(t, 0, s.Current)
}

func TestReconcile_nouveauMediaGardeLaPosition(t *testing.T) {
	s := apply(t, NewState("Lin", 10), snapshot(t, media(3, "A"), media(2, "B"), media(1, "C")))
	s = Next(s) // affiche 2
	shown, _ := s.CurrentItem()

	s = apply(t, s, mustEvent(t, models.EventNewMedia, media(4, "Autre")))

	assert.Equal(t, []int64{4, 3, 2, 1}, ids(s.Items))
	assert.Equal(t, 2, s.Current)
	now, ok := s.CurrentItem()
	require.True(t, ok)
	assert.Equal(t, shown.ID, now.ID)
}

func TestReconcile_proprePublicationAfficheeImmediatement(t *testing.T) {
	s := apply(t, NewState("Lin", 10), snapshot(t, media(3, "A"), media(2, "B"), media(1, "C")))
	s = Next(Next(s))

	s = apply(t, s, mustEvent(t, models.EventNewMedia, media(4, "Lin")))

	assert.Equal(t, 0, s.Current)
	cur, _ := s.CurrentItem()
	assert.Equal(t, int64(4), cur.ID)
}

func TestReconcile_dedoublonnageNouveauMedia(t *testing.T) {
	s := apply(t, NewState("Lin", 10), snapshot(t, media(2, "A"), media(1, "B")))
	before := s

	s = apply(t, s, mustEvent(t, models.EventNewMedia, media(2, "A")))

	assert.Equal(t, ids(before.Items), ids(s.Items))
	assert.Equal(t, before.Current, s.Current)
}

func TestReconcile_capaciteRespectee(t *testing.T) {
	s := apply(t, NewState("Lin", 3), snapshot(t, media(3, "A"), media(2, "A"), media(1, "A")))
	s = Next(Next(s)) // dernier élément

	s = apply(t, s, mustEvent(t, models.EventNewMedia, media(4, "B")))

	assert.Equal(t, []int64{4, 3, 2}, ids(s.Items))
	assert.Equal(t, 2, s.Current, "l'index est ramené dans les bornes")
}

func TestReconcile_snapshotTronqueALaCapacite(t *testing.T) {
	s := apply(t, NewState("Lin", 2), snapshot(t, media(3, "A"), media(2, "A"), media(1, "A")))
	assert.Equal(t, []int64{3, 2}, ids(s.Items))
}

func TestReconcile_cloudSyncIdempotent(t *testing.T) {
	s := apply(t, NewState("Lin", 10), snapshot(t, media(2, "A"), media(1, "B")))
	ev := mustEvent(t, models.EventCloudSyncComplete, models.CloudSyncPayload{ID: 1, CloudURL: "https://drive/x"})

	once := apply(t, s, ev)
	twice := apply(t, once, ev)

	assert.Equal(t, once, twice)
	assert.Equal(t, "https://drive/x", once.Items[1].CloudURL)
	assert.True(t, once.Items[1].CloudUploaded)
	assert.Empty(t, s.Items[1].CloudURL, "l'état d'origine n'est pas modifié")
}

func TestReconcile_cloudSyncInconnuIgnore(t *testing.T) {
	s := apply(t, NewState("Lin", 10), snapshot(t, media(1, "A")))
	after := apply(t, s, mustEvent(t, models.EventCloudSyncComplete, models.CloudSyncPayload{ID: 42, CloudURL: "https://x"}))
	assert.Equal(t, s, after)
}

func TestReconcile_messagesPlusRecentsDabord(t *testing.T) {
	s := apply(t, NewState("Lin", 10),
		snapshot(t),
		mustEvent(t, models.EventNewMessage, models.Message{ID: 1, UserName: "A", MessageText: "un"}),
		mustEvent(t, models.EventNewMessage, models.Message{ID: 2, UserName: "B", MessageText: "deux"}),
		mustEvent(t, models.EventNewMessage, models.Message{ID: 2, UserName: "B", MessageText: "deux"}),
	)

	require.Len(t, s.Messages, 2)
	assert.Equal(t, int64(2), s.Messages[0].ID)
}

func TestReconcile_commentaireNeModifiePasLEtat(t *testing.T) {
	s := apply(t, NewState("Lin", 10), snapshot(t, media(1, "A")))
	after := apply(t, s, mustEvent(t, models.EventNewComment, models.Comment{ID: 1, CommentText: "bravo"}))
	assert.Equal(t, s, after)
}

func TestReconcile_typeInconnu(t *testing.T) {
	s := apply(t, NewState("Lin", 10), snapshot(t))
	_, err := Reconcile(s, models.LiveEvent{Type: "unknown", Data: []byte(`{}`)})
	assert.Error(t, err)
}

func TestNavigation_bouclage(t *testing.T) {
	s := apply(t, NewState("Lin", 10), snapshot(t, media(3, "A"), media(2, "A"), media(1, "A")))

	assert.Equal(t, 2, Previous(s).Current)
	assert.Equal(t, 0, Next(Next(Next(s))).Current)
}

func TestNavigation_listeVide(t *testing.T) {
	s := apply(t, NewState("Lin", 10), snapshot(t))
	assert.Equal(t, NoSelection, Next(s).Current)
	assert.Equal(t, NoSelection, Previous(s).Current)
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name    string
		current int
		n       int
		want    int
	}{
		{"liste vide", 3, 0, NoSelection},
		{"négatif", -1, 4, 0},
		{"au-delà", 9, 4, 3},
		{"dans les bornes", 2, 4, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := State{Current: tt.current, Items: make([]models.Media, tt.n)}
			assert.Equal(t, tt.want, Clamp(s).Current)
		})
	}
}

// L'index reste valide quelle que soit la suite d'événements
func TestReconcile_indexToujoursValide(t *testing.T) {
	s := apply(t, NewState("Lin", 4), snapshot(t))
	for i := int64(1); i <= 20; i++ {
		uploader := "Autre"
		if i%3 == 0 {
			uploader = "Lin"
		}
		s = apply(t, s, mustEvent(t, models.EventNewMedia, media(i, uploader)))
		if i%2 == 0 {
			s = Next(s)
		}

		require.LessOrEqual(t, len(s.Items), 4)
		require.GreaterOrEqual(t, s.Current, 0)
		require.Less(t, s.Current, len(s.Items))
		for j := 1; j < len(s.Items); j++ {
			require.True(t, s.Items[j-1].NewerThan(s.Items[j]))
		}
	}
}

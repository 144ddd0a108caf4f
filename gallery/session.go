package gallery

import (
	"sync"
	"time"

	"event-wall-backend/models"
)

// CommentDisplayDuration est la durée d'affichage d'un commentaire flottant
const CommentDisplayDuration = 8 * time.Second

// Overlay est un commentaire en cours d'affichage
type Overlay struct {
	Comment   models.Comment
	ExpiresAt time.Time
}

// Session protège un State pour un écran et gère les commentaires éphémères
type Session struct {
	mu         sync.Mutex
	state      State
	overlays   []Overlay
	now        func() time.Time
	displayFor time.Duration
}

// NewSession crée une session non initialisée
func NewSession(identity string, capacity int) *Session {
	return &Session{
		state:      NewState(identity, capacity),
		now:        time.Now,
		displayFor: CommentDisplayDuration,
	}
}

// Apply décode une trame du websocket et l'applique
func (s *Session) Apply(raw []byte) (models.LiveEventType, error) {
	ev, err := models.ParseLiveEvent(raw)
	if err != nil {
		return "", err
	}
	return ev.Type, s.ApplyEvent(ev)
}

// ApplyEvent applique un événement déjà décodé
func (s *Session) ApplyEvent(ev models.LiveEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Reconcile(s.state, ev)
	if err != nil {
		return err
	}
	s.state = next

	if ev.Type == models.EventNewComment && s.state.Ready {
		var c models.Comment
		if err := ev.Decode(&c); err == nil {
			s.overlays = append(s.overlays, Overlay{Comment: c, ExpiresAt: s.now().Add(s.displayFor)})
		}
	}
	return nil
}

// State renvoie une copie de l'état courant
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	st.Items = append([]models.Media(nil), s.state.Items...)
	st.Messages = append([]models.Message(nil), s.state.Messages...)
	return st
}

// Next affiche le média suivant
func (s *Session) Next() {
	s.mu.Lock()
	s.state = Next(s.state)
	s.mu.Unlock()
}

// Previous affiche le média précédent
func (s *Session) Previous() {
	s.mu.Lock()
	s.state = Previous(s.state)
	s.mu.Unlock()
}

// Overlays renvoie les commentaires encore visibles et oublie ceux qui ont expiré
func (s *Session) Overlays() []Overlay {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	active := s.overlays[:0]
	for _, o := range s.overlays {
		if now.Before(o.ExpiresAt) {
			active = append(active, o)
		}
	}
	s.overlays = active
	return append([]Overlay(nil), active...)
}

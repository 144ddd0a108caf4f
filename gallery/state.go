// Package gallery maintient l'état local d'un écran du mur : la liste ordonnée des médias
// (plus récent d'abord), l'index affiché et le fil des messages.
//
// Reconcile est une fonction pure : elle reçoit un état et un événement diffusé par le hub
// et renvoie le nouvel état sans modifier l'ancien. Session l'enveloppe pour un usage
// concurrent et gère l'affichage temporaire des commentaires.
package gallery

import (
	"fmt"

	"event-wall-backend/models"
)

const (
	// NoSelection signifie qu'aucun média n'est affiché (liste vide)
	NoSelection = -1

	DefaultCapacity        = 50
	DefaultMessageCapacity = 100
)

// State est l'état d'un écran connecté
type State struct {
	Ready           bool
	Items           []models.Media
	Current         int
	Messages        []models.Message
	Identity        string
	Capacity        int
	MessageCapacity int
}

// NewState crée un état non initialisé pour l'identité donnée
func NewState(identity string, capacity int) State {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return State{
		Current:         NoSelection,
		Identity:        identity,
		Capacity:        capacity,
		MessageCapacity: DefaultMessageCapacity,
	}
}

// Reconcile applique un événement à l'état.
// Tant qu'aucun initSnapshot n'a été reçu, les autres événements sont ignorés.
func Reconcile(s State, ev models.LiveEvent) (State, error) {
	if ev.Type == models.EventInitSnapshot {
		return applySnapshot(s, ev)
	}
	if !s.Ready {
		return s, nil
	}

	switch ev.Type {
	case models.EventNewMedia:
		return applyNewMedia(s, ev)
	case models.EventNewMessage:
		return applyNewMessage(s, ev)
	case models.EventNewComment:
		// Les commentaires sont éphémères : ils ne font pas partie de l'état
		var c models.Comment
		if err := ev.Decode(&c); err != nil {
			return s, err
		}
		return s, nil
	case models.EventCloudSyncComplete:
		return applyCloudSync(s, ev)
	default:
		return s, fmt.Errorf("type d'événement inconnu: %q", ev.Type)
	}
}

func applySnapshot(s State, ev models.LiveEvent) (State, error) {
	var items []models.Media
	if err := ev.Decode(&items); err != nil {
		return s, err
	}
	if len(items) > capacityOf(s) {
		items = items[:capacityOf(s)]
	}

	s.Ready = true
	s.Items = items
	s.Current = NoSelection
	if len(items) > 0 {
		s.Current = 0
	}
	return s, nil
}

func applyNewMedia(s State, ev models.LiveEvent) (State, error) {
	var m models.Media
	if err := ev.Decode(&m); err != nil {
		return s, err
	}
	// Déjà reçu dans l'instantané
	if indexOf(s.Items, m.ID) >= 0 {
		return s, nil
	}

	wasEmpty := len(s.Items) == 0
	items := make([]models.Media, 0, len(s.Items)+1)
	items = append(items, m)
	items = append(items, s.Items...)

	current := s.Current
	switch {
	case wasEmpty || isOwnUpload(s, m):
		current = 0
	case current >= 0:
		// Tout a glissé d'un cran : on garde le même média à l'écran
		current++
	}

	if len(items) > capacityOf(s) {
		items = items[:capacityOf(s)]
	}

	s.Items = items
	s.Current = clamp(current, len(items))
	return s, nil
}

func applyNewMessage(s State, ev models.LiveEvent) (State, error) {
	var msg models.Message
	if err := ev.Decode(&msg); err != nil {
		return s, err
	}
	for _, existing := range s.Messages {
		if existing.ID == msg.ID {
			return s, nil
		}
	}

	limit := s.MessageCapacity
	if limit <= 0 {
		limit = DefaultMessageCapacity
	}
	messages := make([]models.Message, 0, len(s.Messages)+1)
	messages = append(messages, msg)
	messages = append(messages, s.Messages...)
	if len(messages) > limit {
		messages = messages[:limit]
	}
	s.Messages = messages
	return s, nil
}

func applyCloudSync(s State, ev models.LiveEvent) (State, error) {
	var p models.CloudSyncPayload
	if err := ev.Decode(&p); err != nil {
		return s, err
	}
	idx := indexOf(s.Items, p.ID)
	if idx < 0 {
		// Sorti de la liste locale ou antérieur à la connexion
		return s, nil
	}

	items := make([]models.Media, len(s.Items))
	copy(items, s.Items)
	items[idx].CloudURL = p.CloudURL
	items[idx].CloudUploaded = true
	s.Items = items
	return s, nil
}

// Next passe au média suivant, en revenant au début après le dernier
func Next(s State) State {
	n := len(s.Items)
	if n == 0 {
		return s
	}
	s.Current = (clamp(s.Current, n) + 1) % n
	return s
}

// Previous revient au média précédent, en repartant de la fin avant le premier
func Previous(s State) State {
	n := len(s.Items)
	if n == 0 {
		return s
	}
	s.Current = (clamp(s.Current, n) - 1 + n) % n
	return s
}

// Clamp ramène l'index courant dans les bornes de la liste
func Clamp(s State) State {
	s.Current = clamp(s.Current, len(s.Items))
	return s
}

// CurrentItem renvoie le média affiché
func (s State) CurrentItem() (models.Media, bool) {
	if s.Current < 0 || s.Current >= len(s.Items) {
		return models.Media{}, false
	}
	return s.Items[s.Current], true
}

// isOwnUpload compare le nom de l'uploader à l'identité de l'écran.
// TODO: comparer uploader_id au compte connecté, deux invités peuvent porter le même nom.
func isOwnUpload(s State, m models.Media) bool {
	return s.Identity != "" && m.Uploader == s.Identity
}

func capacityOf(s State) int {
	if s.Capacity <= 0 {
		return DefaultCapacity
	}
	return s.Capacity
}

func indexOf(items []models.Media, id int64) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func clamp(i, n int) int {
	switch {
	case n == 0:
		return NoSelection
	case i < 0:
		return 0
	case i >= n:
		return n - 1
	}
	return i
}

package memory

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// LocalStore is the anonymous working-notes fallback: a capped in-process
// list, newest first. It backs the demo endpoint only; durable per-identity
// persistence goes through Store. The cap keeps the payload the UI renders
// to at most six entries.
type LocalStore struct {
	mu    sync.Mutex
	cap   int
	notes []WorkingNote
}

func NewLocalStore(capacity int) *LocalStore {
	if capacity <= 0 {
		capacity = 6
	}
	return &LocalStore{cap: capacity}
}

// Add prepends a note and trims to capacity. Blank text is ignored and the
// current list is returned unchanged.
func (s *LocalStore) Add(text string) []WorkingNote {
	s.mu.Lock()
	defer s.mu.Unlock()
	text = strings.TrimSpace(text)
	if text != "" {
		note := WorkingNote{
			ID:        uuid.NewString(),
			Content:   text,
			CreatedAt: time.Now().UTC(),
		}
		s.notes = append([]WorkingNote{note}, s.notes...)
		if len(s.notes) > s.cap {
			s.notes = s.notes[:s.cap]
		}
	}
	return s.snapshot()
}

// List returns the current notes, newest first.
func (s *LocalStore) List() []WorkingNote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *LocalStore) snapshot() []WorkingNote {
	out := make([]WorkingNote, len(s.notes))
	copy(out, s.notes)
	return out
}

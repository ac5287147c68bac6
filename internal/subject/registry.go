package subject

import (
	"sync"

	"github.com/DasBoogs/news-fetcher/models"
)

// Registry keeps subject definitions in memory. Reads and writes may happen
// concurrently (subjects can be registered at runtime), so access is guarded
// and overwrites are last-writer-wins per id.
type Registry struct {
	mu       sync.RWMutex
	subjects map[string]models.Subject
	order    []string
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{subjects: map[string]models.Subject{}}
}

// NewRegistryWith builds a registry seeded with the given subjects, keeping
// their order as registration order.
func NewRegistryWith(subjects []models.Subject) *Registry {
	r := NewRegistry()
	for _, s := range subjects {
		r.Add(s)
	}
	return r
}

// Add inserts a subject or overwrites an existing one with the same id.
// An overwrite replaces the whole record (no keyword merge) and keeps the
// subject's original position in registration order.
func (r *Registry) Add(s models.Subject) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.subjects[s.ID]; !exists {
		r.order = append(r.order, s.ID)
	}
	r.subjects[s.ID] = s
}

// Get returns the subject for id, reporting whether it is registered.
func (r *Registry) Get(id string) (models.Subject, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.subjects[id]
	return s, ok
}

// GetAll returns all subjects in registration order.
func (r *Registry) GetAll() []models.Subject {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Subject, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.subjects[id])
	}
	return out
}

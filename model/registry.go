package model

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/loian/fclfuzzy/grid"
)

// Registry is the stable-index handle table a host process uses to own
// many models at once, replacing the linked-list registry of the engine
// this module descends from with a slot map (see spec's REDESIGN FLAGS).
// Handles are never reused, even after their model is closed, so a stale handle
// reliably fails Get rather than silently addressing a different model.
type Registry struct {
	mu     sync.Mutex
	models map[int]*Model
	nextID int
	log    zerolog.Logger
}

// NewRegistry builds an empty registry. A zero-value logger (zerolog's
// default) disables logging entirely; pass a configured logger to observe
// model lifecycle events.
func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{models: make(map[int]*Model), log: log}
}

// NewModel allocates a fresh empty model at the given resolution and
// returns its stable handle.
func (r *Registry) NewModel(res grid.Resolution, autoUnique bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	r.models[id] = New(res, autoUnique)
	r.log.Debug().Int("handle", id).Msg("model created")
	return id
}

// Get resolves a handle to its model.
func (r *Registry) Get(id int) (*Model, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.models[id]
	if !ok {
		return nil, fmt.Errorf("model: no model for handle %d", id)
	}
	return m, nil
}

// Close releases a model's handle. The handle is never reassigned.
func (r *Registry) Close(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.models[id]; !ok {
		return fmt.Errorf("model: no model for handle %d", id)
	}
	delete(r.models, id)
	r.log.Debug().Int("handle", id).Msg("model closed")
	return nil
}

// Len reports how many models are currently live.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.models)
}

// Package entity defines the capability every exposed sensor or update entity
// provides to the scheduler, the CLI tables and the HTTP API.
package entity

import (
	"context"
	"sort"
	"sync"
)

type Entity interface {
	ID() string
	Name() string
	Icon() string
	Value() any
	Attributes() map[string]any
}

// Poller is implemented by entities that refresh their own state on a poll
// cycle. Update must not return errors; failures degrade the entity's value.
type Poller interface {
	Update(ctx context.Context)
}

type State struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Icon       string         `json:"icon,omitempty"`
	Value      any            `json:"value"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

func Snapshot(e Entity) State {
	return State{
		ID:         e.ID(),
		Name:       e.Name(),
		Icon:       e.Icon(),
		Value:      e.Value(),
		Attributes: e.Attributes(),
	}
}

// Registry is an id-indexed, insertion-ordered set of entities.
type Registry struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]Entity
}

func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]Entity)}
}

// Add registers e, replacing any entity with the same id.
func (r *Registry) Add(e Entity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := e.ID()
	if _, ok := r.byID[id]; !ok {
		r.order = append(r.order, id)
	}
	r.byID[id] = e
}

// Remove drops the entity with the given id; it reports whether it existed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return false
	}
	delete(r.byID, id)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

func (r *Registry) Get(id string) (Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[id]
	return e, ok
}

func (r *Registry) All() []Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entity, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

func (r *Registry) States() []State {
	all := r.All()
	states := make([]State, 0, len(all))
	for _, e := range all {
		states = append(states, Snapshot(e))
	}
	sort.SliceStable(states, func(i, j int) bool { return states[i].ID < states[j].ID })
	return states
}

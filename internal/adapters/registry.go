// Package adapters maps columns of third-party exports onto domain fields.
package adapters

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/lifevault/internal/models"
)

// Transform rewrites a raw value before it is stored under the internal
// field name.
type Transform func(string) string

// FieldMapping renames one external column to a domain field.
type FieldMapping struct {
	ExternalField string    `json:"externalField"`
	InternalField string    `json:"internalField"`
	Transform     Transform `json:"-"`
}

// Adapter describes how rows from one source map onto a domain.
type Adapter struct {
	Source        string         `json:"source"`
	Label         string         `json:"label"`
	Domain        models.Domain  `json:"domain"`
	FieldMappings []FieldMapping `json:"fieldMappings"`
}

// Apply maps an external row to domain fields. Columns without a mapping
// are dropped. When several mappings target the same field the last present
// one wins.
func Apply(mappings []FieldMapping, row map[string]string) map[string]string {
	out := make(map[string]string, len(mappings))
	for _, m := range mappings {
		v, ok := row[m.ExternalField]
		if !ok {
			continue
		}
		if m.Transform != nil {
			v = m.Transform(v)
		}
		out[m.InternalField] = v
	}
	return out
}

// Apply maps row with a's field mappings.
func (a *Adapter) Apply(row map[string]string) map[string]string {
	return Apply(a.FieldMappings, row)
}

// Registry holds adapters by source name. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]*Adapter
	order    []string
}

// NewRegistry returns a registry preloaded with the built-in presets. It
// panics if a preset is invalid.
func NewRegistry() *Registry {
	r, err := newRegistry(Fitbit(), Monarch())
	if err != nil {
		panic(err)
	}
	return r
}

func newRegistry(presets ...*Adapter) (*Registry, error) {
	r := &Registry{adapters: make(map[string]*Adapter)}
	for _, a := range presets {
		if err := r.Register(a); err != nil {
			return nil, fmt.Errorf("preset: %w", err)
		}
	}
	return r, nil
}

// Register adds a or replaces the adapter with the same source.
func (r *Registry) Register(a *Adapter) error {
	if a == nil || a.Source == "" {
		return errors.New("adapter without source")
	}
	if !a.Domain.Valid() {
		return fmt.Errorf("adapter %q: domain %q: unknown", a.Source, a.Domain)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.adapters[a.Source]; !ok {
		r.order = append(r.order, a.Source)
	}
	r.adapters[a.Source] = a
	return nil
}

// Get returns the adapter for source, or nil and false.
func (r *Registry) Get(source string) (*Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[source]
	return a, ok
}

// List returns adapters in registration order.
func (r *Registry) List() []*Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Adapter, 0, len(r.order))
	for _, s := range r.order {
		out = append(out, r.adapters[s])
	}
	return out
}

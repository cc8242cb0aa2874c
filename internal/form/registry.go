package form

import (
	"context"
	"fmt"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	formIDSize     = 21
	formIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// Registry keeps the open forms, one per browser session
type Registry struct {
	pipeline *Pipeline
	ttl      time.Duration

	mu    sync.Mutex
	forms map[string]*Form
}

// NewRegistry creates a registry whose forms expire after ttl without use
func NewRegistry(pipeline *Pipeline, ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Registry{
		pipeline: pipeline,
		ttl:      ttl,
		forms:    make(map[string]*Form),
	}
}

// Create opens a new empty form and mounts it
func (r *Registry) Create(ctx context.Context) (*Form, error) {
	id, err := gonanoid.Generate(formIDAlphabet, formIDSize)
	if err != nil {
		return nil, fmt.Errorf("generate form id: %w", err)
	}

	f := r.pipeline.NewForm(id)
	f.Mount(ctx)

	r.mu.Lock()
	r.forms[id] = f
	r.mu.Unlock()

	return f, nil
}

// Get returns an open form by id
func (r *Registry) Get(id string) (*Form, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.forms[id]
	if !ok {
		return nil, false
	}
	if r.expired(f) {
		delete(r.forms, id)
		return nil, false
	}
	return f, true
}

// Len returns the number of open forms
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.forms)
}

// Sweep drops expired forms that are not mid-submission
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, f := range r.forms {
		if r.expired(f) {
			delete(r.forms, id)
			removed++
		}
	}
	return removed
}

// Run sweeps periodically until ctx is done
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.pipeline.logger.WithField("removed", n).Debug("expired forms swept")
			}
		}
	}
}

func (r *Registry) expired(f *Form) bool {
	return f.State() == Editing && r.pipeline.now().Sub(f.LastUsed()) > r.ttl
}

package ratelimiter

import (
	"slices"
	"sync"
)

// Registry holds one Limiter per model name. It is safe for concurrent use.
type Registry struct {
	limiters map[string]Limiter
	mu       sync.RWMutex
}

// NewRegistry creates an empty in-memory registry.
func NewRegistry() *Registry {
	return &Registry{
		limiters: make(map[string]Limiter),
	}
}

// Get returns the limiter for model, if one is registered.
func (r *Registry) Get(model string) (Limiter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	limiter, ok := r.limiters[model]
	return limiter, ok
}

// Set registers limiter for model, replacing any previous one.
// A nil limiter removes the entry.
func (r *Registry) Set(model string, limiter Limiter) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limiter == nil {
		delete(r.limiters, model)
		return
	}
	r.limiters[model] = limiter
}

// Models returns the registered model names, sorted.
func (r *Registry) Models() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	models := make([]string, 0, len(r.limiters))
	for m := range r.limiters {
		models = append(models, m)
	}
	slices.Sort(models)
	return models
}

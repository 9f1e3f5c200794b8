package definition

import (
	"context"
	"log"
	"sync"
)

// Provider answers definition requests.
type Provider interface {
	Lookup(ctx context.Context, req Request) ([]Location, error)
}

// Registration is one live provider registration.
type Registration struct {
	ID       uint64
	provider Provider
	registry *Registry
	disposed bool // guarded by registry.mu
}

// Dispose releases the registration. It is safe to call more than once.
func (r *Registration) Dispose() {
	r.registry.release(r)
}

// Registry owns at most one active registration. Requests are answered
// through it; with no registration they get an empty result.
type Registry struct {
	mu      sync.Mutex
	factory func() Provider
	active  *Registration
	nextID  uint64
	live    int
}

// NewRegistry returns a disabled registry. factory builds the provider each
// time the registry is enabled.
func NewRegistry(factory func() Provider) *Registry {
	return &Registry{factory: factory}
}

// Update disposes the active registration and, when enabled, creates a new
// one. Both steps happen under one lock.
func (r *Registry) Update(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != nil {
		r.releaseLocked(r.active)
	}
	if !enabled {
		log.Println("definition provider disabled")
		return
	}

	r.nextID++
	r.active = &Registration{ID: r.nextID, provider: r.factory(), registry: r}
	r.live++
	log.Printf("definition provider registered (#%d)", r.nextID)
}

// Active returns the current registration, nil when disabled.
func (r *Registry) Active() *Registration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Live counts registrations that were created and not yet disposed.
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.live
}

// Definition forwards req to the active provider.
func (r *Registry) Definition(ctx context.Context, req Request) ([]Location, error) {
	r.mu.Lock()
	var provider Provider
	if r.active != nil {
		provider = r.active.provider
	}
	r.mu.Unlock()
	if provider == nil {
		return nil, nil
	}
	return provider.Lookup(ctx, req)
}

// Dispose drops the active registration.
func (r *Registry) Dispose() {
	r.Update(false)
}

func (r *Registry) release(reg *Registration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.releaseLocked(reg)
}

func (r *Registry) releaseLocked(reg *Registration) {
	if reg.disposed {
		return
	}
	reg.disposed = true
	if r.active == reg {
		r.active = nil
	}
	r.live--
}

package service

import (
	"sync"

	"github.com/auditdesk/assistant-hub/internal/domain"
)

// Handle pairs an assistant's configuration with its orchestrator.
type Handle struct {
	Key          string
	Assistant    domain.Assistant
	Conversation *Conversation
}

// Registry holds the configured assistants, keyed by their short name.
// Assistants are registered once at startup and immutable afterwards.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	handles map[string]*Handle
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handles: make(map[string]*Handle)}
}

// Register adds an assistant under key. Re-registering a key replaces the
// handle but keeps its position.
func (r *Registry) Register(key string, assistant domain.Assistant, conv *Conversation) *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	h := &Handle{Key: key, Assistant: assistant, Conversation: conv}
	if _, ok := r.handles[key]; !ok {
		r.order = append(r.order, key)
	}
	r.handles[key] = h
	return h
}

// Lookup returns the handle registered under key.
func (r *Registry) Lookup(key string) (*Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handles[key]
	return h, ok
}

// Handles returns every registered handle in registration order.
func (r *Registry) Handles() []*Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Handle, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.handles[key])
	}
	return out
}

// List returns public metadata for every assistant whose remote identifier
// is configured, in registration order. It never exposes identifiers or
// instruction text.
func (r *Registry) List() []domain.AssistantInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.AssistantInfo, 0, len(r.order))
	for _, key := range r.order {
		h := r.handles[key]
		if !h.Assistant.Configured() {
			continue
		}
		out = append(out, domain.AssistantInfo{
			Key:         key,
			Name:        h.Assistant.Name,
			Description: h.Assistant.Description,
			Model:       h.Assistant.Model,
			Endpoints:   h.Assistant.Endpoints,
		})
	}
	return out
}

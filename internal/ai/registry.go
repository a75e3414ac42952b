package ai

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

type ProviderFactory func(ctx context.Context, model string) (Provider, error)

// Registry routes provider names to factories so sessions can pin a
// provider/model pair without the orchestrator knowing the concrete client.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]ProviderFactory
	def       string
}

func NewRegistry(defaultProvider string) *Registry {
	return &Registry{
		factories: make(map[string]ProviderFactory),
		def:       strings.ToLower(strings.TrimSpace(defaultProvider)),
	}
}

func (r *Registry) Register(name string, f ProviderFactory) {
	name = strings.ToLower(strings.TrimSpace(name))
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

func (r *Registry) Get(ctx context.Context, name string, model string) (Provider, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = r.def
	}
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown ai provider: %s", name)
	}
	return f(ctx, model)
}

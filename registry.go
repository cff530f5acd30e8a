package basilisk

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// A Registry binds one namespace to its backend clients and holds the
// name→model table for that namespace. Exactly one Registry exists per
// namespace for the lifetime of the process; it is built lazily from the
// namespace's configuration entry and never torn down.
type Registry struct {
	namespace string
	index     string
	kv        KV
	docs      DocStore
	log       zerolog.Logger

	mu     sync.RWMutex
	models map[string]*Model
}

var (
	registriesMu sync.Mutex
	registries   = make(map[string]*Registry)
)

// Namespace returns the registry for the given namespace, building its
// clients from the namespace configuration on first use. Subsequent calls
// return the same instance.
func Namespace(namespace string) (*Registry, error) {
	registriesMu.Lock()
	defer registriesMu.Unlock()
	if reg := registries[namespace]; reg != nil {
		return reg, nil
	}
	cfg, ok := configFor(namespace)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotConfigured, namespace)
	}
	reg := &Registry{
		namespace: namespace,
		index:     cfg.Index,
		log:       zerolog.Nop(),
		models:    make(map[string]*Model),
	}
	if reg.index == "" {
		reg.index = namespace
	}
	if cfg.Logger != nil {
		reg.log = *cfg.Logger
	}
	if cfg.OpenKV != nil {
		kv, err := cfg.OpenKV()
		if err != nil {
			return nil, fmt.Errorf("basilisk: namespace %q: opening key-value client: %w", namespace, err)
		}
		reg.kv = kv
	}
	if cfg.OpenDocs != nil {
		docs, err := cfg.OpenDocs()
		if err != nil {
			return nil, fmt.Errorf("basilisk: namespace %q: opening document client: %w", namespace, err)
		}
		reg.docs = docs
	}
	registries[namespace] = reg
	return reg, nil
}

// Name returns the namespace this registry belongs to.
func (reg *Registry) Name() string {
	return reg.namespace
}

// KV returns the namespace's key-value client, or nil if none is configured.
func (reg *Registry) KV() KV {
	return reg.kv
}

// Docs returns the namespace's document client, or nil if none is configured.
func (reg *Registry) Docs() DocStore {
	return reg.docs
}

// Register stores the model under name unless one is already registered.
// It reports whether the mapping was added; an existing mapping is left
// untouched.
func (reg *Registry) Register(name string, m *Model) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, ok := reg.models[name]; ok {
		return false
	}
	reg.models[name] = m
	return true
}

// Lookup returns the model registered under name, or nil.
func (reg *Registry) Lookup(name string) *Model {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.models[name]
}

func (reg *Registry) requireKV() (KV, error) {
	if reg.kv == nil {
		return nil, fmt.Errorf("basilisk: namespace %q has no key-value client", reg.namespace)
	}
	return reg.kv, nil
}

func (reg *Registry) requireDocs() (DocStore, error) {
	if reg.docs == nil {
		return nil, fmt.Errorf("basilisk: namespace %q has no document client", reg.namespace)
	}
	return reg.docs, nil
}

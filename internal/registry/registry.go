package registry

import (
	"fmt"
	"log/slog"

	"github.com/vk/kujuconsist/internal/object"
)

// Module is the interface that all core modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

type namedLoader struct {
	name   string
	loader object.Loader
}

// Registry holds the object loaders for a single application instance.
// Loaders are consulted in registration order.
type Registry struct {
	loaders []namedLoader
	names   map[string]struct{}
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		names: make(map[string]struct{}),
	}
}

// RegisterObjectLoader adds a loader under a unique name.
func (r *Registry) RegisterObjectLoader(name string, loader object.Loader) {
	if _, exists := r.names[name]; exists {
		panic(fmt.Sprintf("object loader with name '%s' already registered", name))
	}
	slog.Debug("Registering object loader.", "name", name)
	r.names[name] = struct{}{}
	r.loaders = append(r.loaders, namedLoader{name: name, loader: loader})
}

// LoaderFor returns the first registered loader that accepts path.
func (r *Registry) LoaderFor(path string) (string, object.Loader, bool) {
	for _, nl := range r.loaders {
		if nl.loader.CanLoad(path) {
			return nl.name, nl.loader, true
		}
	}
	return "", nil, false
}

// Names lists the registered loaders in consultation order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.loaders))
	for _, nl := range r.loaders {
		out = append(out, nl.name)
	}
	return out
}

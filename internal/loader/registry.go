package loader

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Registry holds the available loader engines.
type Registry struct {
	loaders []Loader
}

func NewRegistry() *Registry {
	return &Registry{
		loaders: []Loader{
			NewCSVLoader(),
			NewDuckDBLoader(),
		},
	}
}

// Get returns a loader by name. An empty name selects the CSV engine.
func (r *Registry) Get(name string) (Loader, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "csv"
	}
	for _, l := range r.loaders {
		if strings.ToLower(l.Name()) == name {
			return l, nil
		}
	}
	return nil, errors.Newf("loader not found: %s (available: %s)", name, strings.Join(r.Names(), ", "))
}

// Names lists registered engines in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.loaders))
	for _, l := range r.loaders {
		names = append(names, l.Name())
	}
	return names
}

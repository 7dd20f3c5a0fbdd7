package engine

import (
	"fmt"
	"sort"

	errs "turnserver/internal/errors"
)

// Registry maps engine names to engines. It is filled once at startup and
// only read afterwards.
type Registry struct {
	engines map[string]Engine
}

func NewRegistry() *Registry {
	return &Registry{engines: make(map[string]Engine)}
}

// Register makes an engine selectable by name. Empty names, nil engines and
// duplicates are rejected.
func (r *Registry) Register(name string, e Engine) error {
	if name == "" {
		return fmt.Errorf("engine: register with empty name")
	}
	if e == nil {
		return fmt.Errorf("engine: register %q with nil engine", name)
	}
	if _, dup := r.engines[name]; dup {
		return fmt.Errorf("engine: %q registered twice", name)
	}
	r.engines[name] = e
	return nil
}

func (r *Registry) Lookup(name string) (Engine, error) {
	e, ok := r.engines[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", errs.ErrUnknownEngine, name, r.Names())
	}
	return e, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package stone

import (
	"fmt"
)

// Registry holds a schema's composite type descriptors. It follows an
// explicit construction-then-freeze lifecycle: register every type, then
// freeze. A frozen registry is read-only and safe for unsynchronized
// concurrent lookups.
type Registry struct {
	types  map[string]CompositeType
	order  []string
	frozen bool
}

// NewRegistry returns an empty, unfrozen registry.
func NewRegistry() *Registry {
	return &Registry{types: map[string]CompositeType{}}
}

// Register adds a composite type. Names are unique; registering into a
// frozen registry is an error.
func (r *Registry) Register(t CompositeType) error {
	if r.frozen {
		return fmt.Errorf("stone: registry is frozen")
	}
	name := t.TypeName()
	if _, dup := r.types[name]; dup {
		return fmt.Errorf("stone: type %q already registered", name)
	}
	r.types[name] = t
	r.order = append(r.order, name)
	return nil
}

// Freeze marks the registry read-only. Freezing twice is harmless.
func (r *Registry) Freeze() { r.frozen = true }

// Frozen reports whether the registry has been frozen.
func (r *Registry) Frozen() bool { return r.frozen }

// Lookup resolves a composite type by name.
func (r *Registry) Lookup(name string) (CompositeType, bool) {
	t, ok := r.types[name]
	return t, ok
}

// Types returns the registered types in registration order.
func (r *Registry) Types() []CompositeType {
	out := make([]CompositeType, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.types[name])
	}
	return out
}

package typesys

import (
	"reflect"
	"sort"
	"sync"
)

// Registry is a mapping from fully-qualified message name to parsed
// definition. It is safe for concurrent use: registration is serialised
// against lookup with a single mutex. Every Lookup takes that mutex; the
// codecs look nested type names up on each encode/decode and do not cache
// the result.
type Registry struct {
	mu    sync.Mutex
	defs  map[string]*MessageDef
}

// NewRegistry returns an empty registry. Tests that need hermetic isolation
// from the process-wide default registry should construct their own.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*MessageDef)}
}

// Register adds a set of definitions to the registry atomically: either all
// of them are added, or (on a conflicting re-registration) none are.
// Re-registering an identical definition is a no-op.
func (r *Registry) Register(defs map[string]*MessageDef) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, def := range defs {
		if existing, ok := r.defs[name]; ok && !sameDef(existing, def) {
			return &TypeConflictError{Name: name}
		}
	}
	for name, def := range defs {
		r.defs[name] = def
	}
	return nil
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (*MessageDef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	def, ok := r.defs[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return def, nil
}

// Iterate returns the fully-qualified names of every registered definition,
// sorted for deterministic output.
func (r *Registry) Iterate() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// sameDef reports whether two definitions have identical shape: same fields
// in the same order with the same types, and the same constants. Defaults
// and constant values are compared as well, since they are part of the
// definition text even though they never reach the wire.
func sameDef(a, b *MessageDef) bool {
	if len(a.Fields) != len(b.Fields) || len(a.Constants) != len(b.Constants) {
		return false
	}
	for i := range a.Fields {
		if a.Fields[i].Name != b.Fields[i].Name {
			return false
		}
		if !reflect.DeepEqual(a.Fields[i].Type, b.Fields[i].Type) {
			return false
		}
		if !reflect.DeepEqual(a.Fields[i].Default, b.Fields[i].Default) {
			return false
		}
	}
	for i := range a.Constants {
		if a.Constants[i] != b.Constants[i] {
			return false
		}
	}
	return true
}

// defaultRegistry is the process-wide registry singleton, seeded with the
// built-in ROS2 message set at process init.
var defaultRegistry = func() *Registry {
	r := NewRegistry()
	if err := r.Register(builtinDefinitions()); err != nil {
		panic("typesys: built-in type set is internally inconsistent: " + err.Error())
	}
	return r
}()

// Default returns the process-wide type registry.
func Default() *Registry {
	return defaultRegistry
}

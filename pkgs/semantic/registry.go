package semantic

import (
	"sort"
	"sync"
)

// Method is the signature of a built-in instance method
type Method struct {
	Params  []Type
	Returns Type
}

// Registry maps built-in instance names to their method sets. User code can
// call instances but never add them.
type Registry struct {
	mu        sync.RWMutex
	instances map[string]map[string]Method
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{instances: make(map[string]map[string]Method)}
}

// Register adds or replaces an instance and its methods
func (r *Registry) Register(instance string, methods map[string]Method) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := make(map[string]Method, len(methods))
	for name, m := range methods {
		copied[name] = m
	}
	r.instances[instance] = copied
}

// Lookup returns the signature of instance.method
func (r *Registry) Lookup(instance, method string) (Method, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.instances[instance][method]
	return m, ok
}

// Has reports whether instance is registered
func (r *Registry) Has(instance string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.instances[instance]
	return ok
}

// Methods lists the method names of instance, sorted
func (r *Registry) Methods(instance string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.instances[instance]))
	for name := range r.instances[instance] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sig(returns Type, params ...Type) Method {
	return Method{Params: params, Returns: returns}
}

// DefaultRegistry returns a registry seeded with the drawing surface used by
// draw statements and the Platform metrics object.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("draw", map[string]Method{
		"clear":        sig(Unknown),
		"setFill":      sig(Unknown, String),
		"setStroke":    sig(Unknown, String),
		"lineWidth":    sig(Unknown, Int),
		"alpha":        sig(Unknown, Float),
		"rect":         sig(Unknown, Int, Int, Int, Int),
		"strokeRect":   sig(Unknown, Int, Int, Int, Int),
		"line":         sig(Unknown, Int, Int, Int, Int),
		"circle":       sig(Unknown, Int, Int, Int),
		"strokeCircle": sig(Unknown, Int, Int, Int),
		"font":         sig(Unknown, String),
		"text":         sig(Unknown, String, Int, Int),
		"move":         sig(Unknown, Int, Int),
		"rotate":       sig(Unknown, Float),
		"scale":        sig(Unknown, Float, Float),
	})
	r.Register("Platform", map[string]Method{
		"height": sig(Int),
		"width":  sig(Int),
	})
	return r
}

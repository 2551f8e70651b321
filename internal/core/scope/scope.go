// Package scope implements the layered variable namespace seen by recipes and
// build scripts.
package scope

import (
	"maps"
	"regexp"
	"slices"

	"go.trai.ch/zerr"
)

// ErrUndefinedVariable is returned when a key is absent from every layer.
var ErrUndefinedVariable = zerr.New("undefined variable")

// ErrInvalidFunc is returned when a callable value resolves to itself forever.
var ErrInvalidFunc = zerr.New("callable did not settle on a value")

// Func is a lazily computed value. It receives the scope it is read from.
type Func func(s *Scope) (any, error)

var environKey = regexp.MustCompile(`^[A-Z_]+$`)

// Scope is an ordered chain of layers, innermost first, root last. Children
// share their ancestors' layers, so writes to the root are visible everywhere.
type Scope struct {
	layers []map[string]any
}

// New creates a root scope holding a copy of vars.
func New(vars map[string]any) *Scope {
	root := make(map[string]any, len(vars))
	maps.Copy(root, vars)
	return &Scope{layers: []map[string]any{root}}
}

// NewChild pushes a layer holding a copy of overrides on top of s.
func (s *Scope) NewChild(overrides map[string]any) *Scope {
	layer := make(map[string]any, len(overrides))
	maps.Copy(layer, overrides)

	layers := make([]map[string]any, 0, len(s.layers)+1)
	layers = append(layers, layer)
	layers = append(layers, s.layers...)
	return &Scope{layers: layers}
}

// Depth returns the number of layers.
func (s *Scope) Depth() int {
	return len(s.layers)
}

// Lookup searches the layers from innermost to root. The value is returned
// unresolved.
func (s *Scope) Lookup(key string) (any, bool) {
	for _, layer := range s.layers {
		if v, ok := layer[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// Get returns the unresolved value of key or ErrUndefinedVariable.
func (s *Scope) Get(key string) (any, error) {
	v, ok := s.Lookup(key)
	if !ok {
		return nil, zerr.With(zerr.Wrap(ErrUndefinedVariable, key), "variable", key)
	}
	return v, nil
}

// Value returns the value of key with callables resolved.
func (s *Scope) Value(key string) (any, error) {
	v, err := s.Get(key)
	if err != nil {
		return nil, err
	}
	return s.Resolve(v)
}

// Set writes key into the innermost layer.
func (s *Scope) Set(key string, value any) {
	s.layers[0][key] = value
}

// Export writes key into the root layer.
func (s *Scope) Export(key string, value any) {
	s.layers[len(s.layers)-1][key] = value
}

// Keys returns the sorted union of keys across all layers.
func (s *Scope) Keys() []string {
	seen := make(map[string]struct{})
	for _, layer := range s.layers {
		for k := range layer {
			seen[k] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// maxResolve bounds the callable chain so a callable returning itself fails
// instead of spinning.
const maxResolve = 64

// Resolve invokes callables until the value is no longer callable.
func (s *Scope) Resolve(v any) (any, error) {
	for range maxResolve {
		f, ok := v.(Func)
		if !ok {
			if fn, isFn := v.(func(*Scope) (any, error)); isFn {
				f, ok = fn, true
			}
		}
		if !ok {
			return v, nil
		}

		var err error
		if v, err = f(s); err != nil {
			return nil, err
		}
	}
	return nil, ErrInvalidFunc
}

// ResolveDeep resolves v and every element of the sequences it contains.
func (s *Scope) ResolveDeep(v any) (any, error) {
	v, err := s.Resolve(v)
	if err != nil {
		return nil, err
	}

	items, ok := v.([]any)
	if !ok {
		return v, nil
	}

	out := make([]any, len(items))
	for i, item := range items {
		if out[i], err = s.ResolveDeep(item); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Environ returns the variables exported to subprocesses: keys made only of
// upper-case letters and underscores, resolved and flattened.
func (s *Scope) Environ() (map[string]string, error) {
	env := make(map[string]string)
	for _, k := range s.Keys() {
		if !environKey.MatchString(k) {
			continue
		}

		v, _ := s.Lookup(k)
		v, err := s.ResolveDeep(v)
		if err != nil {
			return nil, zerr.With(err, "variable", k)
		}
		env[k] = Flatten(v)
	}
	return env, nil
}

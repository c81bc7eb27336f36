// core/handlers.go
package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

// Verb is the request category a function is registered under.
type Verb string

const (
	VerbGet  Verb = "GET"  // read-style: input is the inline query after '?'
	VerbPost Verb = "POST" // write-style: input is the request body
)

// Supported reports whether v is one of the two dispatchable verbs.
func (v Verb) Supported() bool { return v == VerbGet || v == VerbPost }

// Handler is the signature for registered functions. svc is the shared service
// instance; in is the optional input extracted from the request.
type Handler[S any] func(ctx context.Context, svc S, in Text) Outcome

// Function names one registered route.
type Function struct {
	Verb Verb   `json:"verb"`
	Name string `json:"name"`
}

// Registry maps (verb, name) to a Handler. It is written only before Freeze;
// after that Resolve is safe from any number of goroutines without locking.
type Registry[S any] struct {
	mu     sync.Mutex // serializes writers against Freeze
	frozen atomic.Bool
	get    map[string]Handler[S]
	post   map[string]Handler[S]
}

func NewRegistry[S any]() *Registry[S] {
	return &Registry[S]{
		get:  map[string]Handler[S]{},
		post: map[string]Handler[S]{},
	}
}

// Register binds h under (verb, name). A second registration of the same pair
// replaces the first.
func (r *Registry[S]) Register(verb Verb, name string, h Handler[S]) error {
	if name == "" {
		return ErrEmptyName
	}
	if h == nil {
		return fmt.Errorf("%w: %s %s", ErrNilHandler, verb, name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen.Load() {
		return fmt.Errorf("%w: %s %s", ErrRegistryFrozen, verb, name)
	}
	m, ok := r.table(verb)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedVerb, verb)
	}
	m[name] = h
	return nil
}

// Resolve looks up the handler for (verb, name).
func (r *Registry[S]) Resolve(verb Verb, name string) (Handler[S], bool) {
	m, ok := r.table(verb)
	if !ok {
		return nil, false
	}
	h, ok := m[name]
	return h, ok
}

// Freeze ends the registration phase. It is idempotent.
func (r *Registry[S]) Freeze() {
	r.mu.Lock()
	r.frozen.Store(true)
	r.mu.Unlock()
}

func (r *Registry[S]) Frozen() bool { return r.frozen.Load() }

// Functions lists every registered route ordered by verb then name.
func (r *Registry[S]) Functions() []Function {
	out := make([]Function, 0, len(r.get)+len(r.post))
	for n := range r.get {
		out = append(out, Function{Verb: VerbGet, Name: n})
	}
	for n := range r.post {
		out = append(out, Function{Verb: VerbPost, Name: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Verb != out[j].Verb {
			return out[i].Verb < out[j].Verb
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (r *Registry[S]) table(verb Verb) (map[string]Handler[S], bool) {
	switch verb {
	case VerbGet:
		return r.get, true
	case VerbPost:
		return r.post, true
	default:
		return nil, false
	}
}

// Builder assembles a Registry fluently at startup.
type Builder[S any] struct {
	reg *Registry[S]
}

func NewBuilder[S any]() *Builder[S] { return &Builder[S]{reg: NewRegistry[S]()} }

// Get registers a read-style function. It panics on misuse, like the other
// Must-style startup helpers.
func (b *Builder[S]) Get(name string, h Handler[S]) *Builder[S] {
	return b.must(VerbGet, name, h)
}

// Post registers a write-style function.
func (b *Builder[S]) Post(name string, h Handler[S]) *Builder[S] {
	return b.must(VerbPost, name, h)
}

// Registry returns the registry being built.
func (b *Builder[S]) Registry() *Registry[S] { return b.reg }

func (b *Builder[S]) must(verb Verb, name string, h Handler[S]) *Builder[S] {
	if err := b.reg.Register(verb, name, h); err != nil {
		panic(err)
	}
	return b
}

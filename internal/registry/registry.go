// Package registry maps platform types to shadow classes, scoped by
// platform version range.
//
// Bindings for one real type never overlap; an overlapping registration is a
// ConflictError at registration time rather than an ambiguity at lookup
// time. Resolve still prefers the narrowest matching range, so an exact
// version override is the intended way to patch behavior for one release.
package registry

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/roach88/shade/internal/platform"
	"github.com/roach88/shade/internal/shadow"
)

// Binding maps a real type to a shadow class over a version range.
type Binding struct {
	RealType platform.Type
	Shadow   *shadow.Class
	Range    VersionRange
}

// Registry holds the bindings of one run.
//
// Thread-safety: registration and Reset take the write lock; Resolve takes
// the read lock. Mutation is expected only between runs.
type Registry struct {
	mu       sync.RWMutex
	bindings map[platform.Type][]Binding
	logger   *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		bindings: make(map[platform.Type][]Binding),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds b. It fails with *ConflictError if b's range overlaps a range
// already registered for the same real type, regardless of order.
func (r *Registry) Register(b Binding) error {
	if b.RealType == "" {
		return fmt.Errorf("%w: real type is required", ErrInvalidBinding)
	}
	if b.Shadow == nil {
		return fmt.Errorf("%w: %s has no shadow class", ErrInvalidBinding, b.RealType)
	}
	if err := b.Range.Validate(); err != nil {
		return fmt.Errorf("%s -> %s: %w", b.RealType, b.Shadow.Name(), err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.bindings[b.RealType] {
		if existing.Range.Overlaps(b.Range) {
			return &ConflictError{RealType: b.RealType, New: b, Existing: existing}
		}
	}
	r.bindings[b.RealType] = append(r.bindings[b.RealType], b)

	r.logger.Debug("binding registered",
		"real_type", b.RealType,
		"shadow", b.Shadow.Name(),
		"range", b.Range.String(),
	)
	return nil
}

// MustRegister is Register for catalog init code; it panics on error.
func (r *Registry) MustRegister(b Binding) {
	if err := r.Register(b); err != nil {
		panic(err)
	}
}

// Resolve returns the shadow class bound to realType at version.
//
// Overlap is rejected at registration, so at most one binding should match;
// if several do, the narrowest range wins. No match is *UnboundTypeError.
func (r *Registry) Resolve(realType platform.Type, version int) (*shadow.Class, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *Binding
	for i := range r.bindings[realType] {
		b := &r.bindings[realType][i]
		if !b.Range.Contains(version) {
			continue
		}
		if best == nil || b.Range.Width() < best.Range.Width() {
			best = b
		}
	}
	if best == nil {
		return nil, &UnboundTypeError{RealType: realType, Version: version}
	}
	return best.Shadow, nil
}

// Reset clears every binding.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings = make(map[platform.Type][]Binding)
}

// Len returns the number of registered bindings.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, bs := range r.bindings {
		n += len(bs)
	}
	return n
}

// Bindings returns a snapshot ordered by real type, then range start.
func (r *Registry) Bindings() []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Binding, 0, len(r.bindings))
	for _, bs := range r.bindings {
		out = append(out, bs...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RealType != out[j].RealType {
			return out[i].RealType < out[j].RealType
		}
		return out[i].Range.Min < out[j].Range.Min
	})
	return out
}

// Package linker pairs each real object with exactly one shadow object.
//
// A link is created the first time a real object of a bound type is seen
// and is never re-bound or partially updated; links disappear only when the
// run ends (Close). Lookups go both ways and are keyed by identity, so two
// value-equal real objects always get two links.
package linker

import (
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sync"

	"github.com/roach88/shade/internal/platform"
	"github.com/roach88/shade/internal/shadow"
)

// Resolver resolves the shadow class for a real type at a version.
// Implemented by *registry.Registry.
type Resolver interface {
	Resolve(realType platform.Type, version int) (*shadow.Class, error)
}

// Link is an established real/shadow pair.
type Link struct {
	Real    platform.Object
	Shadow  any
	Class   *shadow.Class
	Version int
}

// Factory produces a real object without running its platform constructor.
//
// Allocate returns the bare real object; Init then runs shadow-side logic
// against the freshly linked shadow.
type Factory struct {
	Allocate func() platform.Object
	Init     func(link *Link, args []any) error
}

// Linker records the links of one run.
//
// Thread-safety: BindNew, ConstructVia and Close serialize on the write
// lock. Links are immutable once created, so lookups share the read lock.
type Linker struct {
	mu       sync.RWMutex
	resolver Resolver
	version  int
	byReal   map[platform.Object]*Link
	byShadow map[any]*Link
	logger   *slog.Logger
}

// Option configures a Linker.
type Option func(*Linker)

// WithLogger sets the linker logger.
func WithLogger(l *slog.Logger) Option {
	return func(lk *Linker) {
		lk.logger = l
	}
}

// New creates a linker resolving shadows at version.
func New(resolver Resolver, version int, opts ...Option) *Linker {
	lk := &Linker{
		resolver: resolver,
		version:  version,
		byReal:   make(map[platform.Object]*Link),
		byShadow: make(map[any]*Link),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(lk)
	}
	return lk
}

// Version returns the version this linker resolves at.
func (lk *Linker) Version() int {
	return lk.version
}

// BindNew resolves the shadow class for real, constructs a shadow, links the
// pair and returns the shadow.
func (lk *Linker) BindNew(real platform.Object) (any, error) {
	link, err := lk.bind(real)
	if err != nil {
		return nil, err
	}
	return link.Shadow, nil
}

func (lk *Linker) bind(real platform.Object) (*Link, error) {
	if !isPointer(real) {
		return nil, fmt.Errorf("bind: %w", ErrInvalidHandle)
	}

	lk.mu.Lock()
	defer lk.mu.Unlock()

	if existing, ok := lk.byReal[real]; ok {
		return nil, &AlreadyLinkedError{RealType: real.PlatformType(), Shadow: existing.Class.Name()}
	}

	class, err := lk.resolver.Resolve(real.PlatformType(), lk.version)
	if err != nil {
		return nil, err
	}

	s := class.New(real)
	if !isPointer(s) {
		return nil, fmt.Errorf("bind: shadow %s: %w", class.Name(), ErrInvalidHandle)
	}
	if _, taken := lk.byShadow[s]; taken {
		return nil, fmt.Errorf("bind: shadow %s instance is already linked", class.Name())
	}

	link := &Link{Real: real, Shadow: s, Class: class, Version: lk.version}
	lk.byReal[real] = link
	lk.byShadow[s] = link

	lk.logger.Debug("link created",
		"real_type", real.PlatformType(),
		"shadow", class.Name(),
		"version", lk.version,
	)
	return link, nil
}

// ConstructVia obtains a real object through shadow-side logic that bypasses
// the real type's construction path. The link is established before Init
// runs; if Init fails the link is dropped, since the object never reached
// the caller.
func (lk *Linker) ConstructVia(f Factory, args ...any) (platform.Object, error) {
	if f.Allocate == nil {
		return nil, fmt.Errorf("construct: factory has no allocator")
	}
	real := f.Allocate()
	link, err := lk.bind(real)
	if err != nil {
		return nil, fmt.Errorf("construct: %w", err)
	}
	if f.Init != nil {
		if err := f.Init(link, args); err != nil {
			lk.unlink(link)
			return nil, fmt.Errorf("construct %s: %w", link.Class.Name(), err)
		}
	}
	return real, nil
}

// Lookup returns the link for real.
func (lk *Linker) Lookup(real platform.Object) (*Link, error) {
	if !isPointer(real) {
		return nil, fmt.Errorf("lookup: %w", ErrInvalidHandle)
	}
	lk.mu.RLock()
	defer lk.mu.RUnlock()

	link, ok := lk.byReal[real]
	if !ok {
		return nil, &NotLinkedError{Side: "real", Type: string(real.PlatformType())}
	}
	return link, nil
}

// Extract returns the shadow linked to real.
func (lk *Linker) Extract(real platform.Object) (any, error) {
	link, err := lk.Lookup(real)
	if err != nil {
		return nil, err
	}
	return link.Shadow, nil
}

// RealOf returns the real object linked to shadow.
func (lk *Linker) RealOf(s any) (platform.Object, error) {
	if !isPointer(s) {
		return nil, fmt.Errorf("real of: %w", ErrInvalidHandle)
	}
	lk.mu.RLock()
	defer lk.mu.RUnlock()

	link, ok := lk.byShadow[s]
	if !ok {
		return nil, &NotLinkedError{Side: "shadow", Type: fmt.Sprintf("%T", s)}
	}
	return link.Real, nil
}

// Len returns the number of live links.
func (lk *Linker) Len() int {
	lk.mu.RLock()
	defer lk.mu.RUnlock()
	return len(lk.byReal)
}

// Close tears down every link at the end of a run.
func (lk *Linker) Close() {
	lk.mu.Lock()
	defer lk.mu.Unlock()
	n := len(lk.byReal)
	lk.byReal = make(map[platform.Object]*Link)
	lk.byShadow = make(map[any]*Link)
	lk.logger.Debug("links torn down", "count", n)
}

// Unlink drops the link for a real object that never reached its caller,
// such as one whose constructor failed.
func (lk *Linker) Unlink(real platform.Object) error {
	link, err := lk.Lookup(real)
	if err != nil {
		return err
	}
	lk.unlink(link)
	lk.logger.Debug("link dropped", "real_type", real.PlatformType(), "shadow", link.Class.Name())
	return nil
}

func (lk *Linker) unlink(link *Link) {
	lk.mu.Lock()
	defer lk.mu.Unlock()
	delete(lk.byReal, link.Real)
	delete(lk.byShadow, link.Shadow)
}

// isPointer reports whether v is a non-nil pointer.
func isPointer(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && !rv.IsNil()
}

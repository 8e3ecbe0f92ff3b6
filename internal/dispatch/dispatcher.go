// Package dispatch routes calls on real objects to their linked shadows.
//
// Resolution order for Invoke:
//
//  1. the shadow method registered under the exact signature key;
//  2. the real object's original behavior (platform.Original);
//  3. the shadow class's explicitly registered default;
//  4. UnimplementedOperationError.
//
// Overloads are matched exactly. There is no widening between kinds, so an
// ambiguous catalog surfaces as an authoring error and never as a silently
// chosen substitute.
package dispatch

import (
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/roach88/shade/internal/linker"
	"github.com/roach88/shade/internal/platform"
	"github.com/roach88/shade/internal/shadow"
	"github.com/roach88/shade/internal/sig"
)

// Links looks up established links. Implemented by *linker.Linker.
type Links interface {
	Lookup(real platform.Object) (*linker.Link, error)
}

// Route records how a call was resolved.
type Route string

const (
	RouteShadow        Route = "shadow"
	RouteOriginal      Route = "original"
	RouteDefault       Route = "default"
	RouteUnimplemented Route = "unimplemented"
	RouteRejected      Route = "rejected" // not linked, or constructed twice
)

// Call is one trace entry.
type Call struct {
	Seq      int64
	RealType platform.Type
	Key      sig.Key
	Args     []any
	Route    Route
	Err      string
}

// Dispatcher invokes operations on real objects through their shadows.
//
// Thread-safety: Invoke may be called concurrently once links exist; the
// constructed set and the trace are guarded by a mutex.
type Dispatcher struct {
	links  Links
	fields shadow.FieldAccess
	clock  *Clock
	logger *slog.Logger

	mu          sync.Mutex
	constructed map[platform.Object]struct{}
	trace       []Call
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the dispatcher logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = l
	}
}

// WithFields hands shadow methods a privileged field capability.
func WithFields(f shadow.FieldAccess) Option {
	return func(d *Dispatcher) {
		d.fields = f
	}
}

// WithClock sets the logical clock used to stamp the trace.
func WithClock(c *Clock) Option {
	return func(d *Dispatcher) {
		d.clock = c
	}
}

// New creates a dispatcher over links.
func New(links Links, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		links:       links,
		clock:       NewClock(),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		constructed: make(map[platform.Object]struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Construct dispatches the constructor matching args. A real object can be
// constructed once; the attempt counts even when the constructor fails.
func (d *Dispatcher) Construct(real platform.Object, args ...any) error {
	_, err := d.Invoke(real, sig.Constructor, args...)
	return err
}

// Invoke dispatches op with args on real.
func (d *Dispatcher) Invoke(real platform.Object, op string, args ...any) (any, error) {
	key := sig.Of(op, args...)

	link, err := d.links.Lookup(real)
	if err != nil {
		var rt platform.Type
		if !errors.Is(err, linker.ErrInvalidHandle) {
			rt = real.PlatformType()
		}
		d.record(rt, key, args, RouteRejected, err)
		return nil, err
	}
	rt := real.PlatformType()

	if key.IsConstructor() && !d.markConstructed(real) {
		err := &DoubleConstructionError{RealType: rt, Key: key}
		d.record(rt, key, args, RouteRejected, err)
		return nil, err
	}

	inv := &shadow.Invocation{Key: key, Args: args, Real: real, Fields: d.fields}

	if m, ok := link.Class.Lookup(key); ok {
		res, err := m(link.Shadow, inv)
		d.record(rt, key, args, RouteShadow, err)
		return res, err
	}

	if orig, ok := real.(platform.Original); ok {
		res, handled, err := orig.InvokeOriginal(op, args)
		if handled {
			d.record(rt, key, args, RouteOriginal, err)
			return res, err
		}
	}

	if m, ok := link.Class.Default(); ok {
		res, err := m(link.Shadow, inv)
		d.record(rt, key, args, RouteDefault, err)
		return res, err
	}

	err = &UnimplementedOperationError{RealType: rt, Shadow: link.Class.Name(), Key: key}
	d.record(rt, key, args, RouteUnimplemented, err)
	return nil, err
}

// Trace returns a copy of the calls dispatched so far, in order.
func (d *Dispatcher) Trace() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Call, len(d.trace))
	copy(out, d.trace)
	return out
}

func (d *Dispatcher) markConstructed(real platform.Object) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, done := d.constructed[real]; done {
		return false
	}
	d.constructed[real] = struct{}{}
	return true
}

func (d *Dispatcher) record(rt platform.Type, key sig.Key, args []any, route Route, err error) {
	c := Call{
		RealType: rt,
		Key:      key,
		Args:     args,
		Route:    route,
	}
	if err != nil {
		c.Err = err.Error()
	}

	d.mu.Lock()
	c.Seq = d.clock.Next()
	d.trace = append(d.trace, c)
	d.mu.Unlock()

	d.logger.Debug("dispatch",
		"seq", c.Seq,
		"real_type", rt,
		"signature", key.String(),
		"route", route,
		"error", c.Err,
	)
}

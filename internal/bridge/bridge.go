// Package bridge is the privileged escape hatch through which shadow code
// reads and writes state its real object exposes through no public contract.
//
// Every access is scoped: elevation is acquired, the field is touched through
// the target's friend-only platform.Internals, and elevation is released on
// every exit path, panics included.
package bridge

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/roach88/shade/internal/platform"
)

// Elevator grants elevated access. Elevate returns the matching release.
type Elevator interface {
	Elevate() (release func(), err error)
}

// ElevatorFunc adapts a function to Elevator.
type ElevatorFunc func() (func(), error)

// Elevate implements Elevator.
func (f ElevatorFunc) Elevate() (func(), error) {
	return f()
}

// Permissive grants every request.
func Permissive() Elevator {
	return ElevatorFunc(func() (func(), error) {
		return func() {}, nil
	})
}

// Sandboxed refuses every request, as a locked-down host would.
func Sandboxed(reason string) Elevator {
	return ElevatorFunc(func() (func(), error) {
		return nil, &AccessDeniedError{Reason: reason}
	})
}

// Bridge performs scoped privileged field access.
//
// Elevation is assumed non-reentrant, so one mutex spans each
// acquire/use/release sequence.
type Bridge struct {
	mu       sync.Mutex
	elevator Elevator
	logger   *slog.Logger
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithElevator sets the elevation mechanism. The default is Permissive.
func WithElevator(e Elevator) Option {
	return func(b *Bridge) {
		b.elevator = e
	}
}

// WithLogger sets the bridge logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bridge) {
		b.logger = l
	}
}

// New creates a bridge.
func New(opts ...Option) *Bridge {
	b := &Bridge{
		elevator: Permissive(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ReadField returns the value of field name on target.
func (b *Bridge) ReadField(target platform.Object, name string) (any, error) {
	var v any
	err := b.withField(target, name, func(in platform.Internals) {
		v = in.LoadField(name)
	})
	return v, err
}

// WriteField sets field name on target to v.
func (b *Bridge) WriteField(target platform.Object, name string, v any) error {
	return b.withField(target, name, func(in platform.Internals) {
		in.StoreField(name, v)
	})
}

// FieldReader is the read half of a Bridge, as handed to shadow code.
type FieldReader interface {
	ReadField(target platform.Object, name string) (any, error)
}

// ReadAs reads field name through b and asserts it to T.
func ReadAs[T any](b FieldReader, target platform.Object, name string) (T, error) {
	var zero T
	v, err := b.ReadField(target, name)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("field %q holds %T, not %T", name, v, zero)
	}
	return typed, nil
}

func (b *Bridge) withField(target platform.Object, name string, fn func(platform.Internals)) error {
	if target == nil {
		return fmt.Errorf("field %q: nil target", name)
	}
	friend, ok := target.(platform.Friend)
	if !ok {
		return &NoSuchFieldError{RealType: target.PlatformType(), Field: name}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	release, err := b.elevator.Elevate()
	if err != nil {
		b.logger.Debug("elevation refused", "real_type", target.PlatformType(), "field", name, "error", err)
		return err
	}
	defer release()

	in := friend.Internals()
	if !in.HasField(name) {
		return &NoSuchFieldError{RealType: target.PlatformType(), Field: name}
	}
	fn(in)
	return nil
}

// Package session bundles everything one isolated run needs: the active
// platform version, a registry installed from the catalog for that version,
// and the linker, dispatcher and field bridge built on top of it.
//
// The version is fixed when the session is created and never changes. A new
// version means a new session, which is how the harness keeps links and
// bindings from leaking between runs.
package session

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/shade/internal/bridge"
	"github.com/roach88/shade/internal/dispatch"
	"github.com/roach88/shade/internal/linker"
	"github.com/roach88/shade/internal/platform"
	"github.com/roach88/shade/internal/registry"
)

// ErrClosed is returned by operations on a closed session.
var ErrClosed = errors.New("session closed")

// Catalog installs the bindings that apply at a version.
type Catalog interface {
	Install(reg *registry.Registry, version int) error
}

// CatalogFunc adapts a function to Catalog.
type CatalogFunc func(reg *registry.Registry, version int) error

// Install implements Catalog.
func (f CatalogFunc) Install(reg *registry.Registry, version int) error {
	return f(reg, version)
}

// Catalogs combines catalogs, installed in order.
func Catalogs(cs ...Catalog) Catalog {
	return CatalogFunc(func(reg *registry.Registry, version int) error {
		for _, c := range cs {
			if err := c.Install(reg, version); err != nil {
				return err
			}
		}
		return nil
	})
}

type config struct {
	logger   *slog.Logger
	ids      IDGenerator
	elevator bridge.Elevator
}

// Option configures a Session.
type Option func(*config)

// WithLogger sets the logger shared by every component of the session.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithIDGenerator sets the session ID source.
func WithIDGenerator(g IDGenerator) Option {
	return func(c *config) {
		c.ids = g
	}
}

// WithElevator sets the field bridge's elevation mechanism.
func WithElevator(e bridge.Elevator) Option {
	return func(c *config) {
		c.elevator = e
	}
}

// Session is the context of one run at one platform version.
type Session struct {
	id         string
	version    int
	registry   *registry.Registry
	linker     *linker.Linker
	dispatcher *dispatch.Dispatcher
	bridge     *bridge.Bridge
	logger     *slog.Logger
	closed     bool
}

// New creates a session at version with catalog installed into a fresh
// registry. A catalog error (typically *registry.ConflictError) aborts
// creation.
func New(version int, catalog Catalog, opts ...Option) (*Session, error) {
	cfg := &config{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		ids:      UUIDv7Generator{},
		elevator: bridge.Permissive(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	id := cfg.ids.Generate()
	logger := cfg.logger.With("session", id, "version", version)

	reg := registry.New(registry.WithLogger(logger))
	if catalog != nil {
		if err := catalog.Install(reg, version); err != nil {
			return nil, fmt.Errorf("install catalog at version %d: %w", version, err)
		}
	}

	br := bridge.New(bridge.WithElevator(cfg.elevator), bridge.WithLogger(logger))
	lk := linker.New(reg, version, linker.WithLogger(logger))
	d := dispatch.New(lk, dispatch.WithFields(br), dispatch.WithLogger(logger))

	logger.Debug("session opened", "bindings", reg.Len())

	return &Session{
		id:         id,
		version:    version,
		registry:   reg,
		linker:     lk,
		dispatcher: d,
		bridge:     br,
		logger:     logger,
	}, nil
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// Version returns the active platform version.
func (s *Session) Version() int { return s.version }

// Registry returns the session's registry.
func (s *Session) Registry() *registry.Registry { return s.registry }

// Linker returns the session's linker.
func (s *Session) Linker() *linker.Linker { return s.linker }

// Dispatcher returns the session's dispatcher.
func (s *Session) Dispatcher() *dispatch.Dispatcher { return s.dispatcher }

// Bridge returns the session's field bridge.
func (s *Session) Bridge() *bridge.Bridge { return s.bridge }

// Bind links real to a new shadow without running any constructor.
func (s *Session) Bind(real platform.Object) (any, error) {
	if s.closed {
		return nil, ErrClosed
	}
	return s.linker.BindNew(real)
}

// Construct links real to a new shadow and dispatches the constructor
// matching args, mirroring `new Real(args...)` on the platform. If the
// constructor fails the link is dropped, as with ConstructVia. The failed
// attempt still counts, so constructing real again is refused.
func (s *Session) Construct(real platform.Object, args ...any) (any, error) {
	sh, err := s.Bind(real)
	if err != nil {
		return nil, err
	}
	if err := s.dispatcher.Construct(real, args...); err != nil {
		_ = s.linker.Unlink(real)
		return nil, err
	}
	return sh, nil
}

// ConstructVia obtains a real object through a shadow-side factory.
func (s *Session) ConstructVia(f linker.Factory, args ...any) (platform.Object, error) {
	if s.closed {
		return nil, ErrClosed
	}
	return s.linker.ConstructVia(f, args...)
}

// Invoke dispatches op on real.
func (s *Session) Invoke(real platform.Object, op string, args ...any) (any, error) {
	if s.closed {
		return nil, ErrClosed
	}
	return s.dispatcher.Invoke(real, op, args...)
}

// Extract returns the shadow linked to real.
func (s *Session) Extract(real platform.Object) (any, error) {
	return s.linker.Extract(real)
}

// RealOf returns the real object linked to a shadow.
func (s *Session) RealOf(sh any) (platform.Object, error) {
	return s.linker.RealOf(sh)
}

// Trace returns the calls dispatched in this session.
func (s *Session) Trace() []dispatch.Call {
	return s.dispatcher.Trace()
}

// Close tears down every link and clears the registry.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.linker.Close()
	s.registry.Reset()
	s.logger.Debug("session closed")
}

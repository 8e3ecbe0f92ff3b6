package harness

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/roach88/shade/internal/session"
)

// Body is a test body run once per version against that version's session.
type Body func(s *session.Session) error

// Harness runs bodies across API versions.
type Harness struct {
	catalog     session.Catalog
	label       string
	logger      *slog.Logger
	sessionOpts []session.Option
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the harness logger. Sessions inherit it unless
// WithSessionOptions overrides it.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = l
	}
}

// WithLabel names the run in its Report.
func WithLabel(label string) Option {
	return func(h *Harness) {
		h.label = label
	}
}

// WithSessionOptions passes options to every session the harness creates.
func WithSessionOptions(opts ...session.Option) Option {
	return func(h *Harness) {
		h.sessionOpts = append(h.sessionOpts, opts...)
	}
}

// New creates a harness that installs catalog into each version's registry.
func New(catalog session.Catalog, opts ...Option) *Harness {
	h := &Harness{
		catalog: catalog,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RunAcrossVersions runs body once per version, in order.
//
// Catalog installation errors fail that version before the body runs. A
// failure or panic at one version never stops the next. A version listed
// more than once runs only at its first position, so the report holds one
// outcome per version.
func (h *Harness) RunAcrossVersions(versions []int, body Body) *Report {
	report := &Report{Label: h.label}
	seen := make(map[int]bool, len(versions))
	for _, v := range versions {
		if seen[v] {
			h.logger.Warn("version repeated, skipping", "label", h.label, "version", v)
			continue
		}
		seen[v] = true

		o := h.runVersion(v, body)
		report.Outcomes = append(report.Outcomes, o)
		if o.Pass {
			h.logger.Info("version passed", "label", h.label, "version", v, "calls", len(o.Trace))
		} else {
			h.logger.Info("version failed", "label", h.label, "version", v, "error", o.Err)
		}
	}
	return report
}

func (h *Harness) runVersion(version int, body Body) Outcome {
	out := Outcome{Version: version}

	s, err := h.newSession(version)
	if err != nil {
		out.Err = err
		return out
	}
	out.SessionID = s.ID()
	defer s.Close()

	deactivate, err := session.Activate(s)
	if err != nil {
		out.Err = err
		return out
	}

	err = runBody(s, body)
	deactivate()

	out.Trace = s.Trace()
	out.Err = err
	out.Pass = err == nil
	return out
}

func (h *Harness) newSession(version int) (*session.Session, error) {
	opts := append([]session.Option{session.WithLogger(h.logger)}, h.sessionOpts...)
	return session.New(version, h.catalog, opts...)
}

// runBody calls body, converting a panic into an error.
func runBody(s *session.Session, body Body) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return body(s)
}

// RunT runs body as a subtest named "api-N" for each version.
//
// Each subtest owns a fresh active session that is closed when it ends.
// A catalog installation error fails the subtest before body runs. Repeated
// versions run once.
func RunT(t *testing.T, versions []int, catalog session.Catalog, body func(t *testing.T, s *session.Session), opts ...session.Option) {
	t.Helper()
	seen := make(map[int]bool, len(versions))
	for _, v := range versions {
		if seen[v] {
			continue
		}
		seen[v] = true
		t.Run(fmt.Sprintf("api-%d", v), func(t *testing.T) {
			s, err := session.New(v, catalog, opts...)
			if err != nil {
				t.Fatalf("create session: %v", err)
			}
			t.Cleanup(s.Close)

			deactivate, err := session.Activate(s)
			if err != nil {
				t.Fatalf("activate session: %v", err)
			}
			t.Cleanup(deactivate)

			body(t, s)
		})
	}
}

package harness

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/roach88/shade/internal/dispatch"
)

// Outcome is the result of the body at one version.
type Outcome struct {
	Version   int
	SessionID string // empty when the session could not be created
	Pass      bool
	Err       error
	Trace     []dispatch.Call
}

// Report holds the outcomes of a run, keyed by version in run order.
type Report struct {
	Label    string
	Outcomes []Outcome
}

// VersionError attributes a failure to the version it happened at.
type VersionError struct {
	Version int
	Err     error
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("version %d: %v", e.Version, e.Err)
}

func (e *VersionError) Unwrap() error {
	return e.Err
}

// Pass reports whether every version passed.
func (r *Report) Pass() bool {
	for _, o := range r.Outcomes {
		if !o.Pass {
			return false
		}
	}
	return true
}

// Outcome returns the outcome recorded for version.
func (r *Report) Outcome(version int) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Version == version {
			return o, true
		}
	}
	return Outcome{}, false
}

// Passed returns the versions that passed, in run order.
func (r *Report) Passed() []int {
	return r.versions(true)
}

// Failed returns the versions that failed, in run order.
func (r *Report) Failed() []int {
	return r.versions(false)
}

func (r *Report) versions(pass bool) []int {
	var out []int
	for _, o := range r.Outcomes {
		if o.Pass == pass {
			out = append(out, o.Version)
		}
	}
	return out
}

// Err aggregates every failure as a *VersionError, or returns nil.
func (r *Report) Err() error {
	var result *multierror.Error
	for _, o := range r.Outcomes {
		if !o.Pass {
			result = multierror.Append(result, &VersionError{Version: o.Version, Err: o.Err})
		}
	}
	return result.ErrorOrNil()
}

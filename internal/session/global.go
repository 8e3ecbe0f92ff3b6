package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/roach88/shade/internal/platform"
)

var (
	// ErrSessionActive is returned by Activate while another session is active.
	ErrSessionActive = errors.New("another session is already active")
	// ErrNoSession is returned when no session is active.
	ErrNoSession = errors.New("no active session")
)

var (
	activeMu sync.RWMutex
	active   *Session
)

// Activate makes s the process-wide session behind Extract. Only one session
// may be active at a time; the returned func deactivates it.
func Activate(s *Session) (func(), error) {
	activeMu.Lock()
	defer activeMu.Unlock()
	if active != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionActive, active.ID())
	}
	active = s
	return func() {
		activeMu.Lock()
		defer activeMu.Unlock()
		if active == s {
			active = nil
		}
	}, nil
}

// Active returns the active session.
func Active() (*Session, error) {
	activeMu.RLock()
	defer activeMu.RUnlock()
	if active == nil {
		return nil, ErrNoSession
	}
	return active, nil
}

// Extract returns the shadow linked to real in the active session.
func Extract(real platform.Object) (any, error) {
	s, err := Active()
	if err != nil {
		return nil, err
	}
	return s.Extract(real)
}

// ExtractAs is Extract with the shadow asserted to T.
func ExtractAs[T any](real platform.Object) (T, error) {
	var zero T
	sh, err := Extract(real)
	if err != nil {
		return zero, err
	}
	typed, ok := sh.(T)
	if !ok {
		return zero, fmt.Errorf("shadow of %s is %T, not %T", real.PlatformType(), sh, zero)
	}
	return typed, nil
}

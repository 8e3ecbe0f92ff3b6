package registry

import (
	"errors"
	"fmt"

	"github.com/roach88/shade/internal/platform"
)

// ErrInvalidBinding is wrapped by registration errors that are not conflicts:
// inverted ranges, missing real type or missing shadow class.
var ErrInvalidBinding = errors.New("invalid binding")

// ConflictError reports a binding whose range overlaps an existing binding
// for the same real type. It is an authoring mistake and aborts catalog setup.
type ConflictError struct {
	RealType platform.Type
	New      Binding
	Existing Binding
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("binding conflict for %s: %s %s overlaps %s %s",
		e.RealType, e.New.Shadow.Name(), e.New.Range, e.Existing.Shadow.Name(), e.Existing.Range)
}

// UnboundTypeError reports that no binding for RealType covers Version.
type UnboundTypeError struct {
	RealType platform.Type
	Version  int
}

func (e *UnboundTypeError) Error() string {
	return fmt.Sprintf("no shadow bound for %s at version %d", e.RealType, e.Version)
}

// IsConflict reports whether err is or wraps a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsUnbound reports whether err is or wraps an UnboundTypeError.
func IsUnbound(err error) bool {
	var ue *UnboundTypeError
	return errors.As(err, &ue)
}

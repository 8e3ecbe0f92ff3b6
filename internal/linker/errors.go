package linker

import (
	"errors"
	"fmt"

	"github.com/roach88/shade/internal/platform"
)

// ErrInvalidHandle is returned for nil or non-pointer handles. Links are
// keyed by identity, which only pointers carry.
var ErrInvalidHandle = errors.New("invalid handle: must be a non-nil pointer")

// AlreadyLinkedError reports a second BindNew on the same real object.
type AlreadyLinkedError struct {
	RealType platform.Type
	Shadow   string
}

func (e *AlreadyLinkedError) Error() string {
	return fmt.Sprintf("%s is already linked to a %s", e.RealType, e.Shadow)
}

// NotLinkedError reports a lookup for an object that has no link.
//
// Side is "real" for Extract and "shadow" for RealOf.
type NotLinkedError struct {
	Side string
	Type string
}

func (e *NotLinkedError) Error() string {
	return fmt.Sprintf("%s object %s has no link", e.Side, e.Type)
}

// IsAlreadyLinked reports whether err is or wraps an AlreadyLinkedError.
func IsAlreadyLinked(err error) bool {
	var ae *AlreadyLinkedError
	return errors.As(err, &ae)
}

// IsNotLinked reports whether err is or wraps a NotLinkedError.
func IsNotLinked(err error) bool {
	var ne *NotLinkedError
	return errors.As(err, &ne)
}

package dispatch

import (
	"errors"
	"fmt"

	"github.com/roach88/shade/internal/platform"
	"github.com/roach88/shade/internal/sig"
)

// UnimplementedOperationError reports a call with no matching shadow method,
// no original behavior and no registered default.
type UnimplementedOperationError struct {
	RealType platform.Type
	Shadow   string
	Key      sig.Key
}

func (e *UnimplementedOperationError) Error() string {
	return fmt.Sprintf("%s (shadow %s) does not support %s", e.RealType, e.Shadow, e.Key)
}

// DoubleConstructionError reports a second constructor dispatch on the same
// real object.
type DoubleConstructionError struct {
	RealType platform.Type
	Key      sig.Key
}

func (e *DoubleConstructionError) Error() string {
	return fmt.Sprintf("%s already constructed; refusing %s", e.RealType, e.Key)
}

// IsUnimplemented reports whether err is or wraps an UnimplementedOperationError.
func IsUnimplemented(err error) bool {
	var ue *UnimplementedOperationError
	return errors.As(err, &ue)
}

// IsDoubleConstruction reports whether err is or wraps a DoubleConstructionError.
func IsDoubleConstruction(err error) bool {
	var de *DoubleConstructionError
	return errors.As(err, &de)
}

package bridge

import (
	"errors"
	"fmt"

	"github.com/roach88/shade/internal/platform"
)

// NoSuchFieldError reports a field missing from the target's declared shape.
type NoSuchFieldError struct {
	RealType platform.Type
	Field    string
}

func (e *NoSuchFieldError) Error() string {
	return fmt.Sprintf("%s has no field %q", e.RealType, e.Field)
}

// AccessDeniedError reports that the host refused elevated access.
type AccessDeniedError struct {
	Reason string
}

func (e *AccessDeniedError) Error() string {
	if e.Reason == "" {
		return "privileged field access denied"
	}
	return "privileged field access denied: " + e.Reason
}

// IsNoSuchField reports whether err is or wraps a NoSuchFieldError.
func IsNoSuchField(err error) bool {
	var ne *NoSuchFieldError
	return errors.As(err, &ne)
}

// IsAccessDenied reports whether err is or wraps an AccessDeniedError.
func IsAccessDenied(err error) bool {
	var ae *AccessDeniedError
	return errors.As(err, &ae)
}

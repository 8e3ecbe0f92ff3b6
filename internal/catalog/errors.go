package catalog

import (
	"errors"
	"fmt"

	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// CompileError is a manifest error with its CUE source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// UnknownShadowError reports a manifest entry naming a shadow class that
// was not supplied to Install.
type UnknownShadowError struct {
	Shadow string
	Pos    token.Pos
}

func (e *UnknownShadowError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: unknown shadow class %q",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Shadow)
	}
	return fmt.Sprintf("unknown shadow class %q", e.Shadow)
}

// IsUnknownShadow reports whether err is or wraps an UnknownShadowError.
func IsUnknownShadow(err error) bool {
	var ue *UnknownShadowError
	return errors.As(err, &ue)
}

// formatCUEError extracts position info from CUE errors.
// Only the first error is kept; CUE reports the rest as consequences.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}

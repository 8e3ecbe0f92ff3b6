package registry

import (
	"fmt"
	"math"
	"strconv"
)

// Unbounded marks a range with no upper limit.
const Unbounded = math.MaxInt

// VersionRange is an inclusive range of platform versions.
type VersionRange struct {
	Min int
	Max int
}

// NewRange returns [min, max]. Pass Unbounded as max for an open range.
func NewRange(min, max int) (VersionRange, error) {
	r := VersionRange{Min: min, Max: max}
	if err := r.Validate(); err != nil {
		return VersionRange{}, err
	}
	return r, nil
}

// AtLeast returns [min, ∞).
func AtLeast(min int) VersionRange {
	return VersionRange{Min: min, Max: Unbounded}
}

// Exactly returns [v, v].
func Exactly(v int) VersionRange {
	return VersionRange{Min: v, Max: v}
}

// All returns the range covering every version.
func All() VersionRange {
	return VersionRange{Min: 0, Max: Unbounded}
}

// Validate checks Min <= Max.
func (r VersionRange) Validate() error {
	if r.Min > r.Max {
		return fmt.Errorf("%w: min %d > max %d", ErrInvalidBinding, r.Min, r.Max)
	}
	return nil
}

// Contains reports whether v lies in r.
func (r VersionRange) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// Overlaps reports whether r and o share at least one version.
func (r VersionRange) Overlaps(o VersionRange) bool {
	return r.Min <= o.Max && o.Min <= r.Max
}

// Width is the number of versions in r, saturating at Unbounded.
func (r VersionRange) Width() int {
	if r.Max == Unbounded {
		return Unbounded
	}
	return r.Max - r.Min + 1
}

// IsBounded reports whether r has an upper limit.
func (r VersionRange) IsBounded() bool {
	return r.Max != Unbounded
}

func (r VersionRange) String() string {
	if r.Max == Unbounded {
		return "[" + strconv.Itoa(r.Min) + ", ∞)"
	}
	return "[" + strconv.Itoa(r.Min) + ", " + strconv.Itoa(r.Max) + "]"
}

package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionRange_Contains(t *testing.T) {
	r, err := NewRange(21, 23)
	require.NoError(t, err)
	assert.False(t, r.Contains(20))
	assert.True(t, r.Contains(21))
	assert.True(t, r.Contains(23))
	assert.False(t, r.Contains(24))

	assert.True(t, AtLeast(21).Contains(Unbounded))
	assert.True(t, Exactly(19).Contains(19))
	assert.False(t, Exactly(19).Contains(20))
}

func TestVersionRange_Overlaps(t *testing.T) {
	assert.True(t, AtLeast(21).Overlaps(Exactly(40)))
	assert.True(t, Exactly(21).Overlaps(VersionRange{Min: 16, Max: 21}))
	assert.False(t, Exactly(21).Overlaps(VersionRange{Min: 16, Max: 20}))
	assert.False(t, AtLeast(22).Overlaps(Exactly(21)))
}

func TestVersionRange_Width(t *testing.T) {
	assert.Equal(t, 1, Exactly(5).Width())
	assert.Equal(t, 3, VersionRange{Min: 21, Max: 23}.Width())
	assert.Equal(t, Unbounded, AtLeast(21).Width())
	assert.False(t, AtLeast(1).IsBounded())
	assert.True(t, Exactly(1).IsBounded())
}

func TestNewRange_RejectsInverted(t *testing.T) {
	_, err := NewRange(22, 21)
	assert.ErrorIs(t, err, ErrInvalidBinding)
}

func TestVersionRange_String(t *testing.T) {
	assert.Equal(t, "[21, ∞)", AtLeast(21).String())
	assert.Equal(t, "[16, 20]", VersionRange{Min: 16, Max: 20}.String())
}

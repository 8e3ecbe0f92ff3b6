package bridge

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shade/internal/platform"
)

const resultType platform.Type = "android.content.ContentProviderResult"

type result struct{ *platform.Base }

func newResult() *result { return &result{platform.NewBase(resultType, "uri", "count")} }

type opaque struct{}

func (*opaque) PlatformType() platform.Type { return "opaque" }

// countingElevator tracks outstanding elevations and flags overlap.
type countingElevator struct {
	active   atomic.Int32
	acquired atomic.Int32
	overlap  atomic.Bool
}

func (e *countingElevator) Elevate() (func(), error) {
	if e.active.Add(1) > 1 {
		e.overlap.Store(true)
	}
	e.acquired.Add(1)
	return func() { e.active.Add(-1) }, nil
}

func TestWriteThenRead(t *testing.T) {
	b := New()
	r := newResult()

	require.NoError(t, b.WriteField(r, "count", 7))

	v, err := b.ReadField(r, "count")
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, 7, r.Get("count"))

	n, err := ReadAs[int](b, r, "count")
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestReadAs_TypeMismatchAndUnset(t *testing.T) {
	b := New()
	r := newResult()

	s, err := ReadAs[string](b, r, "uri")
	require.NoError(t, err)
	assert.Equal(t, "", s, "unset field reads as zero value")

	require.NoError(t, b.WriteField(r, "count", 7))
	_, err = ReadAs[string](b, r, "count")
	assert.Error(t, err)
}

func TestNoSuchField(t *testing.T) {
	b := New()

	_, err := b.ReadField(newResult(), "missing")
	require.Error(t, err)
	assert.True(t, IsNoSuchField(err))
	assert.Contains(t, err.Error(), `has no field "missing"`)

	err = b.WriteField(&opaque{}, "anything", 1)
	assert.True(t, IsNoSuchField(err), "objects without internals expose no fields")
}

func TestAccessDenied(t *testing.T) {
	b := New(WithElevator(Sandboxed("sandboxed test process")))
	r := newResult()

	err := b.WriteField(r, "count", 1)
	require.Error(t, err)
	assert.True(t, IsAccessDenied(err))
	assert.Nil(t, r.Get("count"), "denied write leaves the field untouched")

	_, err = b.ReadField(r, "count")
	assert.True(t, IsAccessDenied(err))
}

func TestReleaseOnEveryExitPath(t *testing.T) {
	e := &countingElevator{}
	b := New(WithElevator(e))
	r := newResult()

	require.NoError(t, b.WriteField(r, "uri", "content://x"))
	_, err := b.ReadField(r, "missing")
	require.Error(t, err)

	assert.Equal(t, int32(2), e.acquired.Load())
	assert.Equal(t, int32(0), e.active.Load())
}

type panicky struct{ *platform.Base }

type panickingInternals struct{ platform.Internals }

func (panickingInternals) StoreField(string, any) { panic("store failed") }

func (p *panicky) Internals() platform.Internals {
	return panickingInternals{p.Base.Internals()}
}

func TestReleaseOnPanic(t *testing.T) {
	e := &countingElevator{}
	b := New(WithElevator(e))
	p := &panicky{platform.NewBase("panicky", "f")}

	assert.Panics(t, func() { _ = b.WriteField(p, "f", 1) })
	assert.Equal(t, int32(0), e.active.Load())

	require.NoError(t, func() error { _, err := b.ReadField(p, "f"); return err }(), "bridge usable after a panic")
}

func TestElevationDoesNotOverlap(t *testing.T) {
	e := &countingElevator{}
	b := New(WithElevator(e))
	r := newResult()

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = b.WriteField(r, "count", i)
			_, _ = b.ReadField(r, "count")
		}(i)
	}
	wg.Wait()

	assert.False(t, e.overlap.Load())
	assert.Equal(t, int32(128), e.acquired.Load())
}

func TestNilTarget(t *testing.T) {
	_, err := New().ReadField(nil, "x")
	require.Error(t, err)
	assert.False(t, IsAccessDenied(err))
	assert.False(t, IsNoSuchField(err))
}

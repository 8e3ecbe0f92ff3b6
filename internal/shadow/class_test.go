package shadow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shade/internal/platform"
	"github.com/roach88/shade/internal/sig"
)

type realThing struct{ *platform.Base }

type shadowThing struct {
	real  platform.Object
	calls []string
}

func newShadowThing() *shadowThing { return &shadowThing{} }

func TestDefine_BuildsDispatchTable(t *testing.T) {
	c, err := Define("ShadowThing", newShadowThing).
		RealObject(func(s *shadowThing, r platform.Object) { s.real = r }).
		Implement(sig.New("put", sig.KindInt), func(s *shadowThing, inv *Invocation) (any, error) {
			s.calls = append(s.calls, "put(int)")
			return Arg[int](inv, 0) * 2, nil
		}).
		Implement(sig.New("put", sig.KindString), func(s *shadowThing, inv *Invocation) (any, error) {
			s.calls = append(s.calls, "put(string)")
			return Arg[string](inv, 0) + "!", nil
		}).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "ShadowThing", c.Name())
	assert.Equal(t, []sig.Key{sig.New("put", sig.KindInt), sig.New("put", sig.KindString)}, c.Keys())

	real := &realThing{platform.NewBase("thing")}
	inst := c.New(real)
	s, ok := inst.(*shadowThing)
	require.True(t, ok)
	assert.Same(t, real, s.real)

	m, ok := c.Lookup(sig.Of("put", "a"))
	require.True(t, ok)
	got, err := m(s, &Invocation{Key: sig.Of("put", "a"), Args: []any{"a"}})
	require.NoError(t, err)
	assert.Equal(t, "a!", got)
	assert.Equal(t, []string{"put(string)"}, s.calls)

	_, ok = c.Lookup(sig.Of("put", true))
	assert.False(t, ok)
	_, ok = c.Default()
	assert.False(t, ok)
}

func TestDefine_ConstructorAndDefault(t *testing.T) {
	c, err := Define("ShadowThing", newShadowThing).
		Constructor(func(s *shadowThing, inv *Invocation) error {
			s.calls = append(s.calls, "ctor")
			return nil
		}, sig.KindInt).
		Default(func(s *shadowThing, inv *Invocation) (any, error) {
			return "default:" + inv.Key.Name, nil
		}).
		Build()
	require.NoError(t, err)

	ctor, ok := c.Lookup(sig.NewConstructor(sig.KindInt))
	require.True(t, ok)
	s := newShadowThing()
	res, err := ctor(s, &Invocation{Args: []any{1}})
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, []string{"ctor"}, s.calls)

	def, ok := c.Default()
	require.True(t, ok)
	res, err = def(s, &Invocation{Key: sig.New("anything")})
	require.NoError(t, err)
	assert.Equal(t, "default:anything", res)
}

func TestDefine_CollectsAuthoringErrors(t *testing.T) {
	noop := func(s *shadowThing, inv *Invocation) (any, error) { return nil, nil }

	_, err := Define("ShadowThing", newShadowThing).
		Implement(sig.New("get"), noop).
		Implement(sig.New("get"), noop).
		Implement(sig.New(""), noop).
		Implement(sig.New("nil"), nil).
		Default(noop).
		Default(noop).
		Build()

	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "get() registered twice")
	assert.Contains(t, msg, "method name is required")
	assert.Contains(t, msg, "nil() has no body")
	assert.Contains(t, msg, "default declared twice")
}

func TestDefine_RequiresNameAndConstructor(t *testing.T) {
	_, err := Define[*shadowThing]("", nil).Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), "constructor function is required")
}

func TestMustBuild_Panics(t *testing.T) {
	assert.Panics(t, func() {
		Define("ShadowThing", newShadowThing).
			RealObject(func(*shadowThing, platform.Object) {}).
			RealObject(func(*shadowThing, platform.Object) {}).
			MustBuild()
	})
}

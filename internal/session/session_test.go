package session

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shade/internal/bridge"
	"github.com/roach88/shade/internal/dispatch"
	"github.com/roach88/shade/internal/linker"
	"github.com/roach88/shade/internal/platform"
	"github.com/roach88/shade/internal/registry"
	"github.com/roach88/shade/internal/shadow"
	"github.com/roach88/shade/internal/sig"
	"github.com/roach88/shade/internal/testutil"
)

const counterType platform.Type = "android.util.Counter"

type counter struct{ *platform.Base }

func newCounter() *counter { return &counter{platform.NewBase(counterType, "value")} }

type shadowCounter struct {
	real  platform.Object
	start int
}

var counterClass = shadow.Define("ShadowCounter", func() *shadowCounter { return &shadowCounter{} }).
	RealObject(func(s *shadowCounter, r platform.Object) { s.real = r }).
	Constructor(func(s *shadowCounter, inv *shadow.Invocation) error {
		s.start = shadow.Arg[int](inv, 0)
		return inv.Fields.WriteField(inv.Real, "value", s.start)
	}, sig.KindInt).
	Implement(sig.New("get"), func(s *shadowCounter, inv *shadow.Invocation) (any, error) {
		return inv.Fields.ReadField(inv.Real, "value")
	}).
	MustBuild()

var counterCatalog = CatalogFunc(func(reg *registry.Registry, version int) error {
	return reg.Register(registry.Binding{RealType: counterType, Shadow: counterClass, Range: registry.AtLeast(21)})
})

func TestNew_InstallsCatalogAtVersion(t *testing.T) {
	s, err := New(23, counterCatalog, WithIDGenerator(testutil.NewSequentialGenerator("s")))
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "s-1", s.ID())
	assert.Equal(t, 23, s.Version())
	assert.Equal(t, 1, s.Registry().Len())
	assert.Equal(t, 23, s.Linker().Version())
}

func TestNew_DefaultIDIsUUIDv7(t *testing.T) {
	s, err := New(21, nil)
	require.NoError(t, err)
	defer s.Close()

	parsed, err := uuid.Parse(s.ID())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestNew_CatalogConflictAborts(t *testing.T) {
	conflicting := Catalogs(counterCatalog, counterCatalog)

	_, err := New(21, conflicting)
	require.Error(t, err)
	assert.True(t, registry.IsConflict(err))
	assert.Contains(t, err.Error(), "install catalog at version 21")
}

func TestConstruct_BindsAndRunsConstructor(t *testing.T) {
	s, err := New(21, counterCatalog)
	require.NoError(t, err)
	defer s.Close()

	real := newCounter()
	sh, err := s.Construct(real, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, sh.(*shadowCounter).start)

	v, err := s.Invoke(real, "get")
	require.NoError(t, err)
	assert.Equal(t, 5, v)
	assert.Equal(t, 5, real.Get("value"), "constructor wrote through the field bridge")

	back, err := s.RealOf(sh)
	require.NoError(t, err)
	assert.Same(t, real, back)

	trace := s.Trace()
	require.Len(t, trace, 2)
	assert.Equal(t, dispatch.RouteShadow, trace[0].Route)
}

func TestConstruct_UnboundVersion(t *testing.T) {
	s, err := New(19, counterCatalog)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Construct(newCounter(), 1)
	assert.True(t, registry.IsUnbound(err))
}

func TestConstruct_SandboxedBridge(t *testing.T) {
	s, err := New(21, counterCatalog, WithElevator(bridge.Sandboxed("no reflection")))
	require.NoError(t, err)
	defer s.Close()

	real := newCounter()
	_, err = s.Construct(real, 1)
	assert.True(t, bridge.IsAccessDenied(err))
	assert.Equal(t, 0, s.Linker().Len(), "a failed constructor drops the link")

	_, err = s.Extract(real)
	assert.True(t, linker.IsNotLinked(err))

	_, err = s.Construct(real, 1)
	assert.True(t, dispatch.IsDoubleConstruction(err), "the failed attempt still counts")
	assert.Equal(t, 0, s.Linker().Len())
}

func TestConstructVia(t *testing.T) {
	s, err := New(21, counterCatalog)
	require.NoError(t, err)
	defer s.Close()

	real, err := s.ConstructVia(linker.Factory{
		Allocate: func() platform.Object { return newCounter() },
		Init: func(link *linker.Link, args []any) error {
			return s.Bridge().WriteField(link.Real, "value", args[0])
		},
	}, 9)
	require.NoError(t, err)

	v, err := s.Invoke(real, "get")
	require.NoError(t, err)
	assert.Equal(t, 9, v)
}

func TestClose_IsolatesRuns(t *testing.T) {
	s, err := New(21, counterCatalog)
	require.NoError(t, err)
	real := newCounter()
	_, err = s.Bind(real)
	require.NoError(t, err)

	s.Close()
	s.Close()

	assert.Equal(t, 0, s.Linker().Len())
	assert.Equal(t, 0, s.Registry().Len())
	_, err = s.Bind(real)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.Invoke(real, "get")
	assert.ErrorIs(t, err, ErrClosed)

	next, err := New(22, counterCatalog)
	require.NoError(t, err)
	defer next.Close()
	_, err = next.Extract(real)
	assert.True(t, linker.IsNotLinked(err), "no link leaks into the next session")
}

func TestActivate_SingleWriter(t *testing.T) {
	a, err := New(21, counterCatalog)
	require.NoError(t, err)
	defer a.Close()
	b, err := New(22, counterCatalog)
	require.NoError(t, err)
	defer b.Close()

	_, err = Active()
	assert.ErrorIs(t, err, ErrNoSession)

	deactivate, err := Activate(a)
	require.NoError(t, err)

	_, err = Activate(b)
	assert.ErrorIs(t, err, ErrSessionActive)

	got, err := Active()
	require.NoError(t, err)
	assert.Same(t, a, got)

	deactivate()
	deactivate()
	_, err = Active()
	assert.ErrorIs(t, err, ErrNoSession)

	deactivateB, err := Activate(b)
	require.NoError(t, err)
	deactivateB()
}

func TestExtract_Global(t *testing.T) {
	s, err := New(21, counterCatalog)
	require.NoError(t, err)
	defer s.Close()

	real := newCounter()
	_, err = Extract(real)
	assert.ErrorIs(t, err, ErrNoSession)

	deactivate, err := Activate(s)
	require.NoError(t, err)
	defer deactivate()

	_, err = s.Construct(real, 3)
	require.NoError(t, err)

	sh, err := ExtractAs[*shadowCounter](real)
	require.NoError(t, err)
	assert.Equal(t, 3, sh.start)

	_, err = ExtractAs[*counter](real)
	assert.Error(t, err)

	_, err = Extract(newCounter())
	assert.True(t, linker.IsNotLinked(err))
}

func TestCatalogs_StopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	called := false
	c := Catalogs(
		CatalogFunc(func(*registry.Registry, int) error { return boom }),
		CatalogFunc(func(*registry.Registry, int) error { called = true; return nil }),
	)
	err := c.Install(registry.New(), 21)
	assert.ErrorIs(t, err, boom)
	assert.False(t, called)
}

package sig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shade/internal/platform"
)

type fakeURI struct{ *platform.Base }

type declaredURI struct{ *platform.Base }

func (*declaredURI) DeclaredType() platform.Type { return "android.net.Uri" }

type pair[K, V any] struct {
	k K
	v V
}

func TestKey_EqualityIsElementWise(t *testing.T) {
	assert.Equal(t, New("get", KindInt, KindString), New("get", KindInt, KindString))
	assert.NotEqual(t, New("get", KindInt, KindString), New("get", KindString, KindInt))
	assert.NotEqual(t, New("get", KindInt), New("set", KindInt))
	assert.NotEqual(t, New("get"), New("get", KindInt))
}

func TestKey_UsableAsMapKey(t *testing.T) {
	m := map[Key]string{
		New("put", KindInt):    "int",
		New("put", KindString): "string",
	}
	assert.Equal(t, "int", m[Of("put", 7)])
	assert.Equal(t, "string", m[Of("put", "x")])
	_, ok := m[Of("put", int64(7))]
	assert.False(t, ok, "no widening from int64 to int")
}

func TestOf_UsesRuntimeKinds(t *testing.T) {
	uri := fakeURI{platform.NewBase("android.net.Uri")}

	k := Of(Constructor, &uri, 3, nil, []byte("a"))

	assert.Equal(t, []Kind{"android.net.Uri", KindInt, KindNil, KindBytes}, k.Kinds())
	assert.True(t, k.IsConstructor())
	assert.Equal(t, 4, k.Arity())
}

func TestKindOf_FallsBackToGoTypeName(t *testing.T) {
	type local struct{}
	assert.Equal(t, Kind("sig.local"), KindOf(local{}))
	assert.Equal(t, KindFloat64, KindOf(1.5))
	assert.Equal(t, KindBool, KindOf(true))
}

func TestKey_StringAndParseRoundTrip(t *testing.T) {
	cases := []Key{
		New("getNetId"),
		NewConstructor(KindInt),
		New("query", "android.net.Uri", KindString, KindInt),
	}
	for _, k := range cases {
		t.Run(k.String(), func(t *testing.T) {
			parsed, err := Parse(k.String())
			require.NoError(t, err)
			assert.Equal(t, k, parsed)
		})
	}
}

func TestParse_ToleratesSpaces(t *testing.T) {
	k, err := Parse("open( int , string )")
	require.NoError(t, err)
	assert.Equal(t, New("open", KindInt, KindString), k)
}

func TestParse_Malformed(t *testing.T) {
	for _, s := range []string{"", "noparens", "(int)", "f(int", "f(int,)"} {
		_, err := Parse(s)
		assert.Error(t, err, s)
	}
}

func TestKey_EmptyParams(t *testing.T) {
	k := New("size")
	assert.Nil(t, k.Kinds())
	assert.Equal(t, 0, k.Arity())
	assert.Equal(t, "size()", k.String())
}

func TestKey_CommasInsideKindsDoNotSplit(t *testing.T) {
	one := Of("put", pair[int, string]{})
	two := New("put", "sig.pair[int", "string]")

	assert.NotEqual(t, one, two)
	assert.Equal(t, 1, one.Arity())
	assert.Equal(t, []Kind{"sig.pair[int,string]"}, one.Kinds())
	assert.Equal(t, 2, two.Arity())
}

func TestParse_KeepsNestedCommas(t *testing.T) {
	k := New("apply", "func(int, string) error", "sig.pair[int,string]", KindInt)

	parsed, err := Parse(k.String())
	require.NoError(t, err)
	assert.Equal(t, k, parsed)
	assert.Equal(t, 3, parsed.Arity())

	_, err = Parse("f(a], int)")
	assert.Error(t, err)
}

func TestKindOf_TypedNilPlatformObject(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.Equal(t, Kind("android.net.Uri"), KindOf((*declaredURI)(nil)))
		assert.Equal(t, KindNil, KindOf((*fakeURI)(nil)))
	})
	assert.Equal(t, Kind("android.net.Uri"), KindOf(&declaredURI{platform.NewBase("android.net.Uri")}))
}

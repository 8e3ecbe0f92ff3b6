package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shade/internal/platform"
	"github.com/roach88/shade/internal/registry"
	"github.com/roach88/shade/internal/session"
	"github.com/roach88/shade/internal/shadow"
)

type fakeShadow struct{ real platform.Object }

func testClass(name string) *shadow.Class {
	return shadow.Define(name, func() *fakeShadow { return &fakeShadow{} }).
		RealObject(func(s *fakeShadow, r platform.Object) { s.real = r }).
		MustBuild()
}

var (
	networkClass = testClass("ShadowNetwork")
	legacyClass  = testClass("ShadowLegacyNetwork")
	resultClass  = testClass("ShadowContentProviderResult")
	testClasses  = Classes(networkClass, legacyClass, resultClass)
)

const validManifest = `
bindings: [
	{real: "android.net.Network", shadow: "ShadowNetwork", min_version: 21},
	{real: "android.net.Network", shadow: "ShadowLegacyNetwork", min_version: 16, max_version: 20},
	{real: "android.content.ContentProviderResult", shadow: "ShadowContentProviderResult"},
]
`

func TestCompileSource_Valid(t *testing.T) {
	m, err := CompileSource("bindings.cue", validManifest)
	require.NoError(t, err)
	require.Len(t, m.Entries, 3)

	assert.Equal(t, platform.Type("android.net.Network"), m.Entries[0].Real)
	assert.Equal(t, "ShadowNetwork", m.Entries[0].Shadow)
	assert.Equal(t, registry.AtLeast(21), m.Entries[0].Range)
	assert.Equal(t, registry.VersionRange{Min: 16, Max: 20}, m.Entries[1].Range)
	assert.Equal(t, registry.All(), m.Entries[2].Range)
	assert.True(t, m.Entries[0].Pos.IsValid())
}

func TestCompileSource_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{"unknown field", `bindings: [{real: "a", shadow: "B", min_versoin: 21}]`, "min_versoin"},
		{"empty real", `bindings: [{real: "", shadow: "B"}]`, "real"},
		{"missing shadow", `bindings: [{real: "a"}]`, "shadow"},
		{"negative version", `bindings: [{real: "a", shadow: "B", min_version: -1}]`, "min_version"},
		{"inverted range", `bindings: [{real: "a", shadow: "B", min_version: 25, max_version: 21}]`, "bindings[0]"},
		{"no bindings", `other: 1`, "bindings list is required"},
		{"syntax", `bindings: [`, "bindings.cue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileSource("bindings.cue", tt.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCompileSource_ReportsEveryBadEntry(t *testing.T) {
	src := `bindings: [
	{real: "a", shadow: "A", min_version: 9, max_version: 1},
	{real: "b", shadow: "B"},
	{real: "c", shadow: "C", min_version: 5, max_version: 2},
]`
	_, err := CompileSource("bindings.cue", src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bindings[0]")
	assert.Contains(t, err.Error(), "bindings[2]")
	assert.NotContains(t, err.Error(), "bindings[1]")
}

func TestInstall_RegistersBindings(t *testing.T) {
	m, err := CompileSource("bindings.cue", validManifest)
	require.NoError(t, err)

	reg := registry.New()
	require.NoError(t, m.Install(reg, testClasses))
	assert.Equal(t, 3, reg.Len())

	c, err := reg.Resolve("android.net.Network", 23)
	require.NoError(t, err)
	assert.Same(t, networkClass, c)

	c, err = reg.Resolve("android.net.Network", 19)
	require.NoError(t, err)
	assert.Same(t, legacyClass, c)
}

func TestInstall_AggregatesErrors(t *testing.T) {
	src := `bindings: [
	{real: "android.net.Network", shadow: "ShadowNetwork", min_version: 21},
	{real: "android.net.Network", shadow: "ShadowLegacyNetwork", min_version: 23, max_version: 24},
	{real: "android.net.Uri", shadow: "ShadowUri"},
]`
	m, err := CompileSource("bindings.cue", src)
	require.NoError(t, err)

	reg := registry.New()
	err = m.Install(reg, testClasses)
	require.Error(t, err)
	assert.True(t, registry.IsConflict(err))
	assert.True(t, IsUnknownShadow(err))
	assert.Equal(t, 1, reg.Len(), "the first binding still registers")
}

func TestCatalog_InstallsIntoSession(t *testing.T) {
	m, err := CompileSource("bindings.cue", validManifest)
	require.NoError(t, err)

	s, err := session.New(21, m.Catalog(testClasses))
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, 3, s.Registry().Len())
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	src := "package manifests\n" + validManifest
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bindings.cue"), []byte(src), 0644))

	m, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Len(t, m.Entries, 3)
}

func TestLoadDir_Errors(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorContains(t, err, "manifest directory")

	_, err = LoadDir(t.TempDir())
	assert.ErrorContains(t, err, "no CUE files found")

	file := filepath.Join(t.TempDir(), "x.cue")
	require.NoError(t, os.WriteFile(file, []byte("bindings: []"), 0644))
	_, err = LoadDir(file)
	assert.ErrorContains(t, err, "not a directory")
}

package shadows

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shade/internal/catalog"
	"github.com/roach88/shade/internal/harness"
	"github.com/roach88/shade/internal/registry"
	"github.com/roach88/shade/internal/session"
	"github.com/roach88/shade/internal/testutil"
)

func TestManifest_CompilesEmbeddedCatalog(t *testing.T) {
	m, err := Manifest()
	require.NoError(t, err)
	require.Len(t, m.Entries, 3)

	bindings, err := m.Bindings(Classes())
	require.NoError(t, err)
	assert.Equal(t, registry.AtLeast(21), bindings[0].Range)
	assert.Same(t, ShadowNetworkClass, bindings[0].Shadow)
}

func TestCatalog_ManifestOverride(t *testing.T) {
	m, err := catalog.CompileSource("override.cue", `bindings: [
	{real: "android.net.Network", shadow: "ShadowNetwork", min_version: 16},
]`)
	require.NoError(t, err)

	s, err := session.New(19, Catalog(m))
	require.NoError(t, err)
	defer s.Close()

	n, err := NewNetwork(s, 5)
	require.NoError(t, err)
	id, err := s.Invoke(n, "getNetId")
	require.NoError(t, err)
	assert.Equal(t, 5, id)
}

func TestSelfTests_PassAcrossSupportedVersions(t *testing.T) {
	for _, st := range SelfTests() {
		t.Run(st.Name, func(t *testing.T) {
			report := harness.New(Catalog(nil), harness.WithLabel(st.Name)).
				RunAcrossVersions(harness.DefaultSupported, st.Body)
			assert.NoError(t, report.Err())
		})
	}
}

func TestSelfTests_Golden(t *testing.T) {
	h := harness.New(Catalog(nil),
		harness.WithLabel("network_net_id"),
		harness.WithSessionOptions(session.WithIDGenerator(testutil.NewSequentialGenerator(""))),
	)
	report := h.RunAcrossVersions([]int{19, 21}, networkNetID)
	require.NoError(t, harness.AssertGolden(t, "network_net_id", report))
}

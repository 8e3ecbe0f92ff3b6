package harness

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shade/internal/ir"
	"github.com/roach88/shade/internal/session"
	"github.com/roach88/shade/internal/store"
	"github.com/roach88/shade/internal/testutil"
)

func TestSave_WritesRunsAndTraces(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer st.Close()

	h := New(counterCatalog,
		WithLabel("counter"),
		WithSessionOptions(session.WithIDGenerator(testutil.NewSequentialGenerator("run"))),
	)
	report := h.RunAcrossVersions([]int{19, 21}, counterBody)

	ids, err := Save(ctx, st, report)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-1", "run-2"}, ids)

	runs, err := st.ListRuns(ctx, "counter")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, 19, runs[0].Version)
	assert.False(t, runs[0].Pass)
	assert.Equal(t, "no shadow bound for android.util.Counter at version 19", runs[0].Error)
	assert.Equal(t, 21, runs[1].Version)
	assert.True(t, runs[1].Pass)
	assert.Equal(t, int64(2), runs[1].Seq)
	assert.Len(t, runs[1].Digest, 64)

	calls, err := st.ReadCalls(ctx, "run-2")
	require.NoError(t, err)
	require.Len(t, calls, 3)
	assert.Equal(t, "__constructor__(int)", calls[0].Signature)
	assert.Equal(t, ir.IRArray{ir.IRInt(5)}, calls[0].Args)
	assert.Equal(t, ir.MustCallID("run-2", 1, "__constructor__(int)", ir.IRArray{ir.IRInt(5)}), calls[0].ID)
	assert.Equal(t, "unimplemented", calls[2].Route)
}

func TestSave_SkipsOutcomesWithoutSession(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer st.Close()

	report := &Report{Label: "x", Outcomes: []Outcome{{Version: 21}}}
	ids, err := Save(ctx, st, report)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

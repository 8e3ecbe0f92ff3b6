package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/shade/internal/dispatch"
	"github.com/roach88/shade/internal/ir"
)

// Snapshot returns the canonical value of a report: its label and, per
// version, the outcome and the dispatch trace. Session IDs are left out so
// snapshots do not depend on the ID generator.
func Snapshot(r *Report) ir.IRObject {
	outcomes := make(ir.IRArray, len(r.Outcomes))
	for i, o := range r.Outcomes {
		obj := ir.IRObject{
			"version": ir.IRInt(o.Version),
			"pass":    ir.IRBool(o.Pass),
			"trace":   traceValue(o.Trace),
		}
		if o.Err != nil {
			obj["error"] = ir.IRString(o.Err.Error())
		}
		outcomes[i] = obj
	}
	return ir.IRObject{
		"label":    ir.IRString(r.Label),
		"outcomes": outcomes,
	}
}

func traceValue(trace []dispatch.Call) ir.IRArray {
	out := make(ir.IRArray, len(trace))
	for i, c := range trace {
		obj := ir.IRObject{
			"seq":       ir.IRInt(c.Seq),
			"real_type": ir.IRString(c.RealType),
			"signature": ir.IRString(c.Key.String()),
			"route":     ir.IRString(c.Route),
			"args":      ir.FromArgs(c.Args),
		}
		if c.Err != "" {
			obj["error"] = ir.IRString(c.Err)
		}
		out[i] = obj
	}
	return out
}

// AssertGolden compares a report's canonical snapshot against
// testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./... -update
func AssertGolden(t *testing.T, name string, r *Report) error {
	t.Helper()

	data, err := ir.MarshalCanonical(Snapshot(r))
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}

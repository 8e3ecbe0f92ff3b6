package harness

import (
	"context"
	"fmt"

	"github.com/roach88/shade/internal/ir"
	"github.com/roach88/shade/internal/store"
)

// Save writes every outcome that ran a session to st, with its trace.
// Run IDs are the session IDs. It returns the IDs written, in run order.
func Save(ctx context.Context, st *store.Store, r *Report) ([]string, error) {
	var ids []string
	for _, o := range r.Outcomes {
		if o.SessionID == "" {
			continue
		}
		run, calls, err := records(r.Label, o)
		if err != nil {
			return ids, fmt.Errorf("version %d: %w", o.Version, err)
		}
		if run.Seq, err = st.NextRunSeq(ctx); err != nil {
			return ids, err
		}
		if err := st.WriteRun(ctx, run); err != nil {
			return ids, fmt.Errorf("version %d: %w", o.Version, err)
		}
		if err := st.WriteCalls(ctx, run.ID, calls); err != nil {
			return ids, fmt.Errorf("version %d: %w", o.Version, err)
		}
		ids = append(ids, run.ID)
	}
	return ids, nil
}

func records(label string, o Outcome) (store.RunRecord, []store.CallRecord, error) {
	calls := make([]store.CallRecord, len(o.Trace))
	for i, c := range o.Trace {
		args := ir.FromArgs(c.Args)
		signature := c.Key.String()
		id, err := ir.CallID(o.SessionID, c.Seq, signature, args)
		if err != nil {
			return store.RunRecord{}, nil, err
		}
		calls[i] = store.CallRecord{
			ID:        id,
			RunID:     o.SessionID,
			Seq:       c.Seq,
			RealType:  string(c.RealType),
			Signature: signature,
			Route:     string(c.Route),
			Args:      args,
			Error:     c.Err,
		}
	}

	digest, err := ir.RunDigest(o.Version, o.Pass, traceValue(o.Trace))
	if err != nil {
		return store.RunRecord{}, nil, err
	}

	run := store.RunRecord{
		ID:            o.SessionID,
		Label:         label,
		Version:       o.Version,
		SessionID:     o.SessionID,
		Pass:          o.Pass,
		Digest:        digest,
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
	}
	if o.Err != nil {
		run.Error = o.Err.Error()
	}
	return run, calls, nil
}

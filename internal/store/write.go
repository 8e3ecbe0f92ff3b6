package store

import (
	"context"
	"fmt"
)

// WriteRun inserts a run record.
// Uses ON CONFLICT(id) DO NOTHING, so rewriting the same run is a no-op.
func (s *Store) WriteRun(ctx context.Context, run RunRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, label, version, session_id, pass, error, digest, seq, engine_version, ir_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Label,
		run.Version,
		run.SessionID,
		boolToInt(run.Pass),
		run.Error,
		run.Digest,
		run.Seq,
		run.EngineVersion,
		run.IRVersion,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// WriteCalls inserts the trace of a run in one transaction.
// Each call's RunID is overwritten with runID. The run must already exist.
func (s *Store) WriteCalls(ctx context.Context, runID string, calls []CallRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write calls: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO calls
		(id, run_id, seq, real_type, signature, route, args, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("write calls: prepare: %w", err)
	}
	defer stmt.Close()

	for _, c := range calls {
		argsJSON, err := marshalArgs(c.Args)
		if err != nil {
			return fmt.Errorf("write calls: seq %d: %w", c.Seq, err)
		}
		if _, err := stmt.ExecContext(ctx,
			c.ID,
			runID,
			c.Seq,
			c.RealType,
			c.Signature,
			c.Route,
			argsJSON,
			c.Error,
		); err != nil {
			return fmt.Errorf("write calls: seq %d: %w", c.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write calls: commit: %w", err)
	}
	return nil
}

// NextRunSeq returns the next free run sequence number.
func (s *Store) NextRunSeq(ctx context.Context) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next run seq: %w", err)
	}
	return seq, nil
}

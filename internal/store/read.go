package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrRunNotFound is returned by ReadRun for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

const runColumns = `id, label, version, session_id, pass, error, digest, seq, engine_version, ir_version`

// ListRuns returns stored runs ordered by seq. An empty label lists all runs.
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ListRuns(ctx context.Context, label string) ([]RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs`
	var args []any
	if label != "" {
		query += ` WHERE label = ?`
		args = append(args, label)
	}
	query += ` ORDER BY seq ASC, id COLLATE BINARY ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunRecord{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun returns one run by ID.
func (s *Store) ReadRun(ctx context.Context, id string) (RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

// ReadCalls returns the trace of a run in seq order.
func (s *Store) ReadCalls(ctx context.Context, runID string) ([]CallRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, seq, real_type, signature, route, args, error
		FROM calls
		WHERE run_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query calls: %w", err)
	}
	defer rows.Close()

	calls := []CallRecord{}
	for rows.Next() {
		var (
			c        CallRecord
			argsJSON string
		)
		if err := rows.Scan(&c.ID, &c.RunID, &c.Seq, &c.RealType, &c.Signature, &c.Route, &argsJSON, &c.Error); err != nil {
			return nil, fmt.Errorf("scan call: %w", err)
		}
		if c.Args, err = unmarshalArgs(argsJSON); err != nil {
			return nil, fmt.Errorf("call %s: %w", c.ID, err)
		}
		calls = append(calls, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calls: %w", err)
	}
	return calls, nil
}

// CountByRoute counts stored calls per dispatch route across all runs.
func (s *Store) CountByRoute(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT route, COUNT(*) FROM calls GROUP BY route`)
	if err != nil {
		return nil, fmt.Errorf("count calls: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			route string
			n     int
		)
		if err := rows.Scan(&route, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[route] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}
	return counts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (RunRecord, error) {
	var (
		run  RunRecord
		pass int
	)
	err := row.Scan(&run.ID, &run.Label, &run.Version, &run.SessionID, &pass,
		&run.Error, &run.Digest, &run.Seq, &run.EngineVersion, &run.IRVersion)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, err
		}
		return RunRecord{}, fmt.Errorf("scan run: %w", err)
	}
	run.Pass = pass == 1
	return run, nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/shade/internal/ir"
	"github.com/roach88/shade/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Run      string // optional: show one run's calls
	Label    string // optional: filter the run list
}

// RunInfo is one stored run in the run list.
type RunInfo struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Version int    `json:"version"`
	Pass    bool   `json:"pass"`
	Error   string `json:"error,omitempty"`
}

// RunList is the trace command output without --run.
type RunList struct {
	Runs   []RunInfo      `json:"runs"`
	Routes map[string]int `json:"routes"`
}

func (l RunList) String() string {
	if len(l.Runs) == 0 {
		return "No runs found"
	}
	var b strings.Builder
	for _, r := range l.Runs {
		fmt.Fprintf(&b, "%s %-40s api-%-3d %s\n", passFail(r.Pass), r.Label, r.Version, r.ID)
	}
	return strings.TrimRight(b.String(), "\n")
}

// CallInfo is one dispatched call in a run trace.
type CallInfo struct {
	Seq       int64  `json:"seq"`
	RealType  string `json:"real_type"`
	Signature string `json:"signature"`
	Route     string `json:"route"`
	Args      string `json:"args"`
	Error     string `json:"error,omitempty"`
}

// RunTrace is the trace command output with --run.
type RunTrace struct {
	Run   RunInfo    `json:"run"`
	Calls []CallInfo `json:"calls"`
}

func (t RunTrace) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s api-%d (%s)\n", passFail(t.Run.Pass), t.Run.Label, t.Run.Version, t.Run.ID)
	if t.Run.Error != "" {
		fmt.Fprintf(&b, "  error: %s\n", t.Run.Error)
	}
	for _, c := range t.Calls {
		fmt.Fprintf(&b, "  %4d %-13s %s.%s %s", c.Seq, c.Route, c.RealType, c.Signature, c.Args)
		if c.Error != "" {
			fmt.Fprintf(&b, " -> %s", c.Error)
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect stored self-test runs",
		Long: `List the runs stored by selftest --db, or show the dispatch trace of one
run: every call in logical order, with the route it took (shadow, original,
default, unimplemented, rejected).

Examples:
  shade trace --db ./runs.db
  shade trace --db ./runs.db --label network_net_id
  shade trace --db ./runs.db --run 0190c1c6-...`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Run, "run", "", "run ID to show")
	cmd.Flags().StringVar(&opts.Label, "label", "", "only list runs with this label")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = f.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	if opts.Run == "" {
		return listRuns(ctx, f, st, opts.Label)
	}

	run, err := st.ReadRun(ctx, opts.Run)
	if err != nil {
		code := ErrCodeStore
		if errors.Is(err, store.ErrRunNotFound) {
			code = ErrCodeNotFound
		}
		_ = f.Error(code, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}
	calls, err := st.ReadCalls(ctx, run.ID)
	if err != nil {
		_ = f.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read calls", err)
	}

	out := RunTrace{Run: runInfo(run), Calls: []CallInfo{}}
	for _, c := range calls {
		args, err := ir.MarshalCanonical(c.Args)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to encode args", err)
		}
		out.Calls = append(out.Calls, CallInfo{
			Seq:       c.Seq,
			RealType:  c.RealType,
			Signature: c.Signature,
			Route:     c.Route,
			Args:      string(args),
			Error:     c.Error,
		})
	}
	return f.Success(out)
}

func listRuns(ctx context.Context, f *OutputFormatter, st *store.Store, label string) error {
	runs, err := st.ListRuns(ctx, label)
	if err != nil {
		_ = f.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}
	routes, err := st.CountByRoute(ctx)
	if err != nil {
		_ = f.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to count calls", err)
	}

	out := RunList{Runs: []RunInfo{}, Routes: routes}
	for _, r := range runs {
		out.Runs = append(out.Runs, runInfo(r))
	}
	return f.Success(out)
}

func runInfo(r store.RunRecord) RunInfo {
	return RunInfo{ID: r.ID, Label: r.Label, Version: r.Version, Pass: r.Pass, Error: r.Error}
}

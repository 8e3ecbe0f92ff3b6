package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/shade/internal/catalog"
	"github.com/roach88/shade/internal/harness"
	"github.com/roach88/shade/internal/session"
	"github.com/roach88/shade/internal/shadows"
	"github.com/roach88/shade/internal/store"
)

// SelftestOptions holds flags for the selftest command.
type SelftestOptions struct {
	*RootOptions
	Database string
	Only     string
}

// SelftestResult is the outcome of one self-test across versions.
type SelftestResult struct {
	Name     string            `json:"name"`
	Pass     bool              `json:"pass"`
	Passed   []int             `json:"passed"`
	Failures []SelftestFailure `json:"failures,omitempty"`
	RunIDs   []string          `json:"run_ids,omitempty"`
}

// SelftestFailure is one failed version.
type SelftestFailure struct {
	Version int    `json:"version"`
	Error   string `json:"error"`
}

// SelftestSummary is the output of the selftest command.
type SelftestSummary struct {
	Config   string           `json:"config"`
	Versions []int            `json:"versions"`
	Results  []SelftestResult `json:"results"`
	Pass     bool             `json:"pass"`
}

func (s SelftestSummary) String() string {
	var b strings.Builder
	for _, r := range s.Results {
		fmt.Fprintf(&b, "%s %s (%d/%d versions)\n", passFail(r.Pass), r.Name, len(r.Passed), len(s.Versions))
		for _, fl := range r.Failures {
			fmt.Fprintf(&b, "    api-%d: %s\n", fl.Version, fl.Error)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// NewSelftestCommand creates the selftest command.
func NewSelftestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SelftestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "selftest [config]",
		Short: "Run the built-in catalog self-tests across API versions",
		Long: `Run every built-in self-test once per API version, each version in a
fresh session. Without a config, all supported versions run.

With --db, each version's outcome and dispatch trace is stored for the
trace command.

Examples:
  shade selftest
  shade selftest ./network.yaml --db ./runs.db
  shade selftest --only network_net_id --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := ""
			if len(args) == 1 {
				cfgPath = args[0]
			}
			return runSelftest(opts, cfgPath, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database for run traces")
	cmd.Flags().StringVar(&opts.Only, "only", "", "run only the named self-test")

	return cmd
}

func runSelftest(opts *SelftestOptions, cfgPath string, cmd *cobra.Command) error {
	ctx := context.Background()
	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cfg := &harness.Config{Name: "selftest"}
	if cfgPath != "" {
		var err error
		if cfg, err = harness.LoadConfig(cfgPath); err != nil {
			_ = f.Error(ErrCodeConfig, err.Error(), nil)
			return WrapExitError(ExitCommandError, "load config", err)
		}
	}
	versions, err := cfg.Sequence()
	if err != nil {
		_ = f.Error(ErrCodeConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, "build version sequence", err)
	}

	var m *catalog.Manifest
	if cfg.Manifests != "" {
		if m, err = catalog.LoadDir(cfg.Manifests); err != nil {
			_ = f.Error(ErrCodeManifest, err.Error(), nil)
			return WrapExitError(ExitCommandError, "load manifests", err)
		}
	}

	tests := shadows.SelfTests()
	if opts.Only != "" {
		tests = filterSelfTests(tests, opts.Only)
		if len(tests) == 0 {
			_ = f.Error(ErrCodeNotFound, fmt.Sprintf("no self-test named %q", opts.Only), nil)
			return NewExitError(ExitCommandError, "unknown self-test "+opts.Only)
		}
	}

	var st *store.Store
	if opts.Database != "" {
		if st, err = store.Open(opts.Database); err != nil {
			_ = f.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "open database", err)
		}
		defer st.Close()
	}

	summary := SelftestSummary{Config: cfg.Name, Versions: versions, Pass: true}
	for _, test := range tests {
		f.VerboseLog("Running %s across %d version(s)", test.Name, len(versions))

		h := harness.New(shadows.Catalog(m),
			harness.WithLabel(test.Name),
			harness.WithLogger(opts.Logger()),
			harness.WithSessionOptions(session.WithLogger(opts.Logger())),
		)
		report := h.RunAcrossVersions(versions, test.Body)

		result := SelftestResult{Name: test.Name, Pass: report.Pass(), Passed: report.Passed()}
		if result.Passed == nil {
			result.Passed = []int{}
		}
		for _, o := range report.Outcomes {
			if !o.Pass {
				result.Failures = append(result.Failures, SelftestFailure{Version: o.Version, Error: o.Err.Error()})
			}
		}
		if st != nil {
			ids, err := harness.Save(ctx, st, report)
			if err != nil {
				_ = f.Error(ErrCodeStore, err.Error(), nil)
				return WrapExitError(ExitCommandError, "save runs", err)
			}
			result.RunIDs = ids
		}

		summary.Results = append(summary.Results, result)
		summary.Pass = summary.Pass && result.Pass
	}

	if err := f.Success(summary); err != nil {
		return err
	}
	if !summary.Pass {
		return NewExitError(ExitFailure, "self-tests failed")
	}
	return nil
}

func filterSelfTests(tests []shadows.SelfTest, name string) []shadows.SelfTest {
	for _, t := range tests {
		if t.Name == name {
			return []shadows.SelfTest{t}
		}
	}
	return nil
}

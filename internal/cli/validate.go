package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/shade/internal/catalog"
	"github.com/roach88/shade/internal/registry"
	"github.com/roach88/shade/internal/shadows"
)

// BindingInfo describes one manifest binding in CLI output.
type BindingInfo struct {
	Real   string `json:"real"`
	Shadow string `json:"shadow"`
	Range  string `json:"range"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool          `json:"valid"`
	Bindings []BindingInfo `json:"bindings"`
}

func (r ValidationResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d binding(s) valid\n", passFail(true), len(r.Bindings))
	for _, bi := range r.Bindings {
		fmt.Fprintf(&b, "  %-45s %-30s %s\n", bi.Real, bi.Shadow, bi.Range)
	}
	return strings.TrimRight(b.String(), "\n")
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <manifest-dir>",
		Short: "Validate binding manifests against the built-in shadow classes",
		Long: `Compile the CUE binding manifests in a directory, resolve every shadow
name against the built-in classes, and check that no two bindings for the
same real type have overlapping version ranges.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	files, _ := catalog.FindCUEFiles(dir)
	f.VerboseLog("Found %d CUE file(s) in %s", len(files), dir)

	m, err := catalog.LoadDir(dir)
	if err != nil {
		_ = f.Error(ErrCodeManifest, err.Error(), nil)
		return WrapExitError(ExitFailure, "invalid manifest", err)
	}

	reg := registry.New(registry.WithLogger(opts.Logger()))
	if err := m.Install(reg, shadows.Classes()); err != nil {
		code := ErrCodeManifest
		if registry.IsConflict(err) {
			code = ErrCodeConflict
		}
		_ = f.Error(code, err.Error(), nil)
		return WrapExitError(ExitFailure, "invalid bindings", err)
	}

	result := ValidationResult{Valid: true, Bindings: []BindingInfo{}}
	for _, b := range reg.Bindings() {
		result.Bindings = append(result.Bindings, BindingInfo{
			Real:   string(b.RealType),
			Shadow: b.Shadow.Name(),
			Range:  b.Range.String(),
		})
	}
	return f.Success(result)
}

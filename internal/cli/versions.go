package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/shade/internal/harness"
)

// VersionsResult is the output of the versions command.
type VersionsResult struct {
	Name     string `json:"name"`
	Versions []int  `json:"versions"`
}

func (r VersionsResult) String() string {
	parts := make([]string, len(r.Versions))
	for i, v := range r.Versions {
		parts[i] = strconv.Itoa(v)
	}
	return fmt.Sprintf("%s: %s", r.Name, strings.Join(parts, " "))
}

// NewVersionsCommand creates the versions command.
func NewVersionsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "versions <config>",
		Short: "Print the API versions a run configuration covers",
		Long: `Load a run configuration and print the versions it iterates, in order.

Examples:
  shade versions ./network.yaml
  shade versions ./network.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())

			cfg, err := harness.LoadConfig(args[0])
			if err != nil {
				_ = f.Error(ErrCodeConfig, err.Error(), nil)
				return WrapExitError(ExitCommandError, "load config", err)
			}
			seq, err := cfg.Sequence()
			if err != nil {
				_ = f.Error(ErrCodeConfig, err.Error(), nil)
				return WrapExitError(ExitCommandError, "build version sequence", err)
			}
			return f.Success(VersionsResult{Name: cfg.Name, Versions: seq})
		},
	}
}

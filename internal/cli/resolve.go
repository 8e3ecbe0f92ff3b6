package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/shade/internal/catalog"
	"github.com/roach88/shade/internal/platform"
	"github.com/roach88/shade/internal/registry"
	"github.com/roach88/shade/internal/shadows"
)

// ResolveOptions holds flags for the resolve command.
type ResolveOptions struct {
	*RootOptions
	Version   int
	Manifests string
}

// ResolveResult is the output of the resolve command.
type ResolveResult struct {
	Real    string `json:"real"`
	Version int    `json:"version"`
	Shadow  string `json:"shadow"`
}

func (r ResolveResult) String() string {
	return fmt.Sprintf("%s @ %d -> %s", r.Real, r.Version, r.Shadow)
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "resolve <real-type>",
		Short: "Show which shadow class serves a real type at a version",
		Long: `Resolve a real platform type to its shadow class at one API version.
Uses the built-in catalog unless --manifests names a manifest directory.

Examples:
  shade resolve android.net.Network --version 21
  shade resolve android.net.Network --version 19 --manifests ./manifests`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Version, "version", 0, "API version (required)")
	_ = cmd.MarkFlagRequired("version")
	cmd.Flags().StringVar(&opts.Manifests, "manifests", "", "directory of CUE binding manifests")

	return cmd
}

func runResolve(opts *ResolveOptions, realType string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	var m *catalog.Manifest
	if opts.Manifests != "" {
		var err error
		if m, err = catalog.LoadDir(opts.Manifests); err != nil {
			_ = f.Error(ErrCodeManifest, err.Error(), nil)
			return WrapExitError(ExitCommandError, "load manifests", err)
		}
	}

	reg := registry.New(registry.WithLogger(opts.Logger()))
	if err := shadows.Catalog(m).Install(reg, opts.Version); err != nil {
		_ = f.Error(ErrCodeManifest, err.Error(), nil)
		return WrapExitError(ExitCommandError, "install catalog", err)
	}

	class, err := reg.Resolve(platform.Type(realType), opts.Version)
	if err != nil {
		_ = f.Error(ErrCodeUnbound, err.Error(), nil)
		return WrapExitError(ExitFailure, "resolve", err)
	}
	return f.Success(ResolveResult{Real: realType, Version: opts.Version, Shadow: class.Name()})
}

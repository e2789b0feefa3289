// Package cli provides the command-line interface for fishtone.
package cli

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/fishtone/internal/version"
)

// envPrefix is prepended to flag names to form environment overrides,
// e.g. --palette-size becomes FISHTONE_PALETTE_SIZE.
const envPrefix = "FISHTONE"

// rootOptions holds global flags and state shared by subcommands.
type rootOptions struct {
	verbose bool
	quiet   bool
	logger  hclog.Logger
}

// NewRootCmd builds the fishtone command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{logger: hclog.NewNullLogger()}

	rootCmd := &cobra.Command{
		Use:   "fishtone",
		Short: "Extract fish colour palettes from images",
		Long: `fishtone extracts a small, ranked palette of representative colours from an
image using k-means clustering over sampled pixels.

The brightest and most vivid cluster colours come first. A palette needs at
least three colours to be usable for colouring a fish.

Every flag can also be set through the environment as FISHTONE_<FLAG>, with
dashes replaced by underscores (for example FISHTONE_PALETTE_SIZE=3).`,
		Version:      version.Short(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := applyEnv(cmd.Flags(), envPrefix); err != nil {
				return err
			}
			if opts.verbose && opts.quiet {
				return fmt.Errorf("--verbose and --quiet cannot be used together")
			}
			opts.logger = newLogger(cmd.ErrOrStderr(), opts.verbose, opts.quiet)
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress non-error output")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newExtractCmd(opts))

	return rootCmd
}

// newLogger builds the CLI logger. Verbose enables debug output, quiet
// limits output to errors.
func newLogger(w io.Writer, verbose, quiet bool) hclog.Logger {
	level := hclog.Info
	switch {
	case verbose:
		level = hclog.Debug
	case quiet:
		level = hclog.Error
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:        "fishtone",
		Output:      w,
		Level:       level,
		DisableTime: true,
		Color:       hclog.AutoColor,
	})
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

// Package cli implements the blog command line client.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/debemdeboas/blogsync/internal/api"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	APIURL     string
	LogLevel   string
	Format     string // "text" | "json"
	Color      bool

	// newClient overrides the HTTP client; tests use it to inject a mock.
	newClient func(*App) (api.Client, error)
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the blog CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blog",
		Short: "Browse and edit posts on a blog Posts API",
		Long: `Browse and edit posts on a blog Posts API.

Every command runs its request through the blog state synchronizer and
prints the resulting state.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "config.yaml", "configuration file")
	cmd.PersistentFlags().StringVar(&opts.APIURL, "api", "", "Posts API base URL (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVar(&opts.Color, "color", false, "syntax highlight JSON output")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))

	return cmd
}

// Package cli exposes the fetch as a cobra command.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/raysh454/pagesource/internal/app"
	"github.com/raysh454/pagesource/internal/fetcher"
	"github.com/raysh454/pagesource/internal/logging"
)

// NewRootCommand returns the pagesource command. The page goes to the
// command's stdout; logs and errors go to its stderr.
func NewRootCommand() *cobra.Command {
	cfg := app.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "pagesource",
		Short: "Fetch a web page, print its source and save it to " + fetcher.DefaultOutputPath,
		Example: `  pagesource
  pagesource --target https://example.com/`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewFromEnv(cmd.ErrOrStderr())
			return app.NewApplication(cfg, logger).Run(cmd.Context(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&cfg.Target, "target", cfg.Target, "Address to fetch")

	return cmd
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/nuchat/internal/logging"
	"github.com/diogo/nuchat/internal/widget"
)

// NewHealthCmd creates the backend health check command
func NewHealthCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the chat backend is reachable",
		Long: `Probe GET {base}/health and print the same banner the chat widget shows.
Exits with an error when the backend is unreachable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(deps, opts, logging.ModeCLI)
			if err != nil {
				return err
			}
			defer rt.close()

			out := cmd.OutOrStdout()
			if _, ok := rt.provider.(widget.HealthChecker); !ok {
				fmt.Fprintf(out, "The %s provider has no backend to check\n", rt.provider.Name())
				return nil
			}

			w := rt.newWidget()
			if err := w.CheckHealth(cmd.Context()); err != nil {
				text, _ := w.Reporter().Error()
				fmt.Fprintln(cmd.ErrOrStderr(), failure(text))
				return fmt.Errorf("health check failed for %s: %w", rt.cfg.BaseURL, err)
			}

			banner, _ := w.Reporter().Status()
			fmt.Fprintln(out, success(fmt.Sprintf("%s (%s)", banner.Text, rt.cfg.BaseURL)))
			return nil
		},
	}
}

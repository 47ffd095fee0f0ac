package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/nuchat/internal/logging"
	"github.com/diogo/nuchat/internal/models"
)

// NewModelsCmd creates the model listing command
func NewModelsCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models offered by the backend",
		Long: `List the models offered by GET {base}/models.
The built-in list is shown when the backend cannot list its models.
The configured default model is marked with *.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(deps, opts, logging.ModeCLI)
			if err != nil {
				return err
			}
			defer rt.close()

			client, err := rt.client()
			if err != nil {
				return err
			}

			list, err := client.Models(cmd.Context())
			if err != nil || len(list) == 0 {
				rt.logger.Warn().Err(err).Msg("backend model listing unavailable")
				fmt.Fprintln(cmd.ErrOrStderr(), warning("Backend model list unavailable, showing built-in models"))
				list = models.BuiltinModels()
			}

			fmt.Fprintln(cmd.OutOrStdout(), modelsTable(list, rt.cfg.DefaultModel))
			return nil
		},
	}
}

// modelsTable renders list with the current model marked
func modelsTable(list []models.ModelInfo, current string) string {
	t := newTable("", "ID", "NAME")

	for _, m := range list {
		mark := ""
		if m.ID == current {
			mark = "*"
		}
		t.Row(mark, m.ID, m.Name)
	}
	return t.Render()
}

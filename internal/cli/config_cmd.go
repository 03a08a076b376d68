package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/pingplot/internal/config"
)

func newConfigCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration pingplot would run with, after merging defaults,
the config file, PINGPLOT_* environment variables and flags.

The output is valid YAML and can be saved as a config file:
  pingplot config --interval 500ms > ~/.config/pingplot/config.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := config.Load(flags.configPath, cmd.Flags())
			if err != nil {
				return err
			}

			out, err := config.Dump(cfg)
			if err != nil {
				return err
			}

			if path != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "# loaded from %s\n", path)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

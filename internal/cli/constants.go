package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/domespec/pkg/config"
)

// constantsCommand prints the engineering constants in effect. The output
// is a valid --constants file.
func (c *CLI) constantsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "constants",
		Short: "Print the engineering constants as TOML",
		Example: `  domespec constants > hardware.toml
  domespec --constants hardware.toml calc`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loggerFromContext(cmd.Context()).Debug("constants", "profile", c.Config.Profile())
			return config.WriteConstants(cmd.OutOrStdout(), c.Config.Constants)
		},
	}
}

package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "watch [targets...] [name=value...] [--option[=value]...]",
		Short:              "Build targets, then rebuild them when files change",
		Long:               "Build targets, then rebuild them whenever a file under the Machfile directory changes.\n\n" + buildArgsHelp,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if wantsHelp(args) {
				return cmd.Help()
			}
			return c.app.Watch(cmd.Context(), args)
		},
	}
}

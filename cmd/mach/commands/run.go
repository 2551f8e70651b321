package commands

import (
	"github.com/spf13/cobra"
)

const buildArgsHelp = `Arguments are target names, name=value assignments to variables declared
with cli: true, and options:

  --file=PATH        use the given Machfile
  --dry-run          check scripts without running them
  --output=MODE      line, deferred or mute
  --shell=PATH       shell used for scripts
  --encoding=NAME    text encoding of scripts and their output

With no target, "main" is built.`

func (c *CLI) newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "run [targets...] [name=value...] [--option[=value]...]",
		Short:              "Build targets",
		Long:               "Build targets.\n\n" + buildArgsHelp,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if wantsHelp(args) {
				return cmd.Help()
			}
			return c.app.Run(cmd.Context(), args)
		},
	}
}

package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List command-line flags and public rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, _ := cmd.Flags().GetString("file")
			return c.app.List(cmd.Context(), file)
		},
	}
	cmd.Flags().StringP("file", "f", "", "Path to the Machfile")
	return cmd
}

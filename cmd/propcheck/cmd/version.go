package cmd

import (
	"github.com/spf13/cobra"
)

// set with -ldflags "-X github.com/rustyeddy/propcheck/cmd/propcheck/cmd.version=..."
var version = "0.1.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printf(cmd, "propcheck version %s\n", version)
			printf(cmd, "Prop firm strategy compliance checker\n")
		},
	}
}

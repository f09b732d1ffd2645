package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shotsort/shotsort/pkg/runtime"
)

func VersionCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Long:  `Print version info`,
		Example: `  shotsort version
  shotsort version --help`,
	}

	command.RunE = func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "shotsort version: %s commit: %s built at: %s\n",
			runtime.Version, runtime.GitCommit, runtime.Timestamp)
		return nil
	}

	return command
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shotsort/shotsort/cmd"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "shotsort",
		Short: "Sort Steam screenshots by game",
		Long: `A CLI application that sorts the uncompressed screenshots saved by Steam into one folder per game.
`,
	}

	// Parse persistent flags
	rootCmd.PersistentFlags().StringVar(&cmd.FlagConfigFolder, "config-dir", cmd.FlagConfigFolder, "Config folder")
	rootCmd.PersistentFlags().StringVarP(&cmd.FlagConfigFile, "config", "c", cmd.FlagConfigFile, "Config file")
	rootCmd.PersistentFlags().StringVarP(&cmd.FlagLogFile, "log", "l", cmd.FlagLogFile, "Log file")
	rootCmd.PersistentFlags().CountVarP(&cmd.FlagLogLevel, "verbose", "v", "Verbose level")

	rootCmd.PersistentFlags().BoolVar(&cmd.FlagDryRun, "dry-run", false, "Dry run mode")

	rootCmd.AddCommand(cmd.OrganizeCommand())
	rootCmd.AddCommand(cmd.VersionCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// cmd/main.go
package main

import (
	"fmt"
	"go-atm/config"
	"go-atm/logger"
	"os"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "atm",
		Short: "Self-service cash machine simulator",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadConfig(configPath)
			logger.Init()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "Directory containing config.yml")

	rootCmd.AddCommand(runCommand())
	rootCmd.AddCommand(adminCommand())
	rootCmd.AddCommand(seedCommand())
	rootCmd.AddCommand(migrateCommand())

	return rootCmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"go-atm/app"
	"go-atm/logger"

	"github.com/spf13/cobra"
)

// runCommand starts the interactive terminal.
func runCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the interactive terminal",
		Run: func(cmd *cobra.Command, args []string) {
			machine, err := app.Bootstrap()
			if err != nil {
				logger.Log.Fatalf("Failed to start machine: %v", err)
			}
			defer machine.Close()

			if err := machine.Run(); err != nil {
				logger.Log.Fatalf("Terminal session failed: %v", err)
			}
		},
	}
}

// adminCommand starts the terminal directly in the operator menu.
func adminCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "admin",
		Short: "Start the operator menu",
		Run: func(cmd *cobra.Command, args []string) {
			machine, err := app.Bootstrap()
			if err != nil {
				logger.Log.Fatalf("Failed to start machine: %v", err)
			}
			defer machine.Close()

			if err := machine.RunAdmin(); err != nil {
				logger.Log.Fatalf("Operator session failed: %v", err)
			}
		},
	}
}

package main

import (
	"go-atm/app"
	"go-atm/logger"

	"github.com/spf13/cobra"
)

// seedCommand provisions the demo accounts.
func seedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Provision demo accounts",
		Run: func(cmd *cobra.Command, args []string) {
			machine, err := app.Bootstrap()
			if err != nil {
				logger.Log.Fatalf("Failed to start machine: %v", err)
			}
			defer machine.Close()

			if err := machine.Seed(); err != nil {
				logger.Log.Fatalf("Failed to seed demo accounts: %v", err)
			}
			logger.Log.Info("Demo accounts ready")
		},
	}
}

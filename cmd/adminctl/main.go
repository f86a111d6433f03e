// Command adminctl is the administrative client for the booking platform.
// Every command navigates through the same guard chain the admin UI uses
// before touching the API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "adminctl",
		Short:         "Administrative client for the sport-space booking platform",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (yaml)")

	cmd.AddCommand(
		loginCmd(&configPath),
		logoutCmd(&configPath),
		whoamiCmd(&configPath),
		dashboardCmd(&configPath),
		usersCmd(&configPath),
		spacesCmd(&configPath),
		bookingsCmd(&configPath),
		reportsCmd(&configPath),
	)
	return cmd
}

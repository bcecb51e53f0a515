package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "orgsctl",
	Short: "Manage the organizations server",
	Long: `orgsctl manages the multi-tenant organizations server: the database
schema, organizations and their invitations, declarative manifests, and the
login-event webhook server itself.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

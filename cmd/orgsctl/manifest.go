package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// manifestCmd represents the manifest command
var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Manage organization manifests",
	Long:  `Apply declarative organization manifests.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'manifest' requires a subcommand (load, watch)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(manifestCmd)
}

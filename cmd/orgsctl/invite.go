package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// inviteCmd represents the invite command
var inviteCmd = &cobra.Command{
	Use:   "invite",
	Short: "Manage invitations",
	Long:  `Manage pending organization invitations.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'invite' requires a subcommand (create, list, revoke)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(inviteCmd)
}

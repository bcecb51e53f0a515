package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/orgs-in-go/pkg/audit"
	"github.com/doodlesbykumbi/orgs-in-go/pkg/db"
	gormstore "github.com/doodlesbykumbi/orgs-in-go/pkg/store/gorm"
)

// inviteRevokeCmd represents the invite revoke command
var inviteRevokeCmd = &cobra.Command{
	Use:   "revoke <invitation-id>",
	Short: "Revoke a pending invitation",
	Long: `Revoke a pending invitation.

Example:
  orgsctl invite revoke 7be2...`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := args[0]

		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
			os.Exit(1)
		}

		invitations := gormstore.NewInvitationsStore(database)
		inv, err := invitations.InvitationByID(id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to revoke invitation: %v\n", err)
			os.Exit(1)
		}

		if err := invitations.RevokeInvitation(id); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to revoke invitation: %v\n", err)
			os.Exit(1)
		}

		audit.Log(audit.InvitationEvent{
			OrgID:        inv.OrgID,
			InvitationID: inv.ID,
			Email:        inv.Email,
			Operation:    "revoke",
			Success:      true,
		})

		fmt.Fprintf(os.Stderr, "Revoked invitation for '%s'\n", inv.Email)
	},
}

func init() {
	inviteCmd.AddCommand(inviteRevokeCmd)
}

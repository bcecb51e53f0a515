package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/orgs-in-go/pkg/audit"
	"github.com/doodlesbykumbi/orgs-in-go/pkg/db"
	gormstore "github.com/doodlesbykumbi/orgs-in-go/pkg/store/gorm"
)

// inviteCreateCmd represents the invite create command
var inviteCreateCmd = &cobra.Command{
	Use:   "create <org-id> <email>",
	Short: "Invite an email address to an organization",
	Long: `Invite an email address to an organization.

The invitation converts into a membership automatically when a user with a
matching email logs in. Proposed roles that no longer exist at that point
are skipped.

Example:
  orgsctl invite create 2f1c... newhire@acme.com
  orgsctl invite create 2f1c... newhire@acme.com --role eat-apples --role prune-trees`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		orgID := args[0]
		email := args[1]
		inviter, _ := cmd.Flags().GetString("inviter")
		roles, _ := cmd.Flags().GetStringSlice("role")

		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
			os.Exit(1)
		}

		invitations := gormstore.NewInvitationsStore(database)
		inv, err := invitations.AddInvitation(orgID, email, inviter, roles)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create invitation: %v\n", err)
			os.Exit(1)
		}

		audit.Log(audit.InvitationEvent{
			OrgID:        inv.OrgID,
			InvitationID: inv.ID,
			Email:        inv.Email,
			Operation:    "create",
			Success:      true,
		})

		fmt.Fprintf(os.Stderr, "Invited '%s'\n", email)
		fmt.Println(inv.ID)
	},
}

func init() {
	inviteCmd.AddCommand(inviteCreateCmd)
	inviteCreateCmd.Flags().String("inviter", "orgsctl", "user id recorded as the inviter")
	inviteCreateCmd.Flags().StringSlice("role", nil, "role name proposed by the invitation (repeatable)")
}

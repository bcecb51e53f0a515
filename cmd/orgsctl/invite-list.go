package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/orgs-in-go/pkg/db"
	gormstore "github.com/doodlesbykumbi/orgs-in-go/pkg/store/gorm"
)

// inviteListCmd represents the invite list command
var inviteListCmd = &cobra.Command{
	Use:   "list <org-id>",
	Short: "List pending invitations of an organization",
	Long: `List pending invitations of an organization.

Example:
  orgsctl invite list 2f1c...`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		orgID := args[0]

		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
			os.Exit(1)
		}

		invitations := gormstore.NewInvitationsStore(database)
		pending, err := invitations.InvitationsByOrganization(orgID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list invitations: %v\n", err)
			os.Exit(1)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tEMAIL\tINVITER\tROLES\tCREATED")
		for _, inv := range pending {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				inv.ID, inv.Email, inv.InviterID,
				strings.Join(inv.Roles, ","),
				inv.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		_ = w.Flush()
	},
}

func init() {
	inviteCmd.AddCommand(inviteListCmd)
}

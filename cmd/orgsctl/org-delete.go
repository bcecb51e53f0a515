package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/orgs-in-go/pkg/audit"
	"github.com/doodlesbykumbi/orgs-in-go/pkg/db"
	gormstore "github.com/doodlesbykumbi/orgs-in-go/pkg/store/gorm"
)

// orgDeleteCmd represents the org delete command
var orgDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an organization",
	Long: `Delete an organization and everything it owns: groups, roles,
memberships, invitations, and domains.

Example:
  orgsctl org delete 2f1c...`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := args[0]

		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
			os.Exit(1)
		}

		orgs := gormstore.NewOrganizationsStore(database)
		org, err := orgs.OrganizationByID(id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to delete organization: %v\n", err)
			os.Exit(1)
		}

		if err := orgs.DeleteOrganization(id); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to delete organization: %v\n", err)
			os.Exit(1)
		}

		audit.Log(audit.OrganizationEvent{
			OrgID:   org.ID,
			OrgName: org.Name,
			RealmID: org.RealmID,
			ActorID: "orgsctl",
			Removed: true,
			Success: true,
		})

		fmt.Fprintf(os.Stderr, "Deleted organization '%s'\n", org.Name)
	},
}

func init() {
	orgCmd.AddCommand(orgDeleteCmd)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/orgs-in-go/pkg/audit"
	"github.com/doodlesbykumbi/orgs-in-go/pkg/db"
	gormstore "github.com/doodlesbykumbi/orgs-in-go/pkg/store/gorm"
)

// orgCreateCmd represents the org create command
var orgCreateCmd = &cobra.Command{
	Use:   "create <realm> <name>",
	Short: "Create an organization",
	Long: `Create an organization in a realm.

Example:
  orgsctl org create production acme
  orgsctl org create production acme --display-name "Acme Inc" --domain acme.com`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		realmID := args[0]
		name := args[1]
		createdBy, _ := cmd.Flags().GetString("created-by")

		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
			os.Exit(1)
		}

		orgs := gormstore.NewOrganizationsStore(database)
		org, err := orgs.CreateOrganization(realmID, name, createdBy)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create organization: %v\n", err)
			os.Exit(1)
		}

		displayName, _ := cmd.Flags().GetString("display-name")
		url, _ := cmd.Flags().GetString("url")
		domains, _ := cmd.Flags().GetStringSlice("domain")
		if displayName != "" || url != "" || len(domains) > 0 {
			org.DisplayName = displayName
			org.URL = url
			org.Domains = domains
			if err := orgs.UpdateOrganization(org); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to update organization: %v\n", err)
				os.Exit(1)
			}
		}

		audit.Log(audit.OrganizationEvent{
			OrgID:   org.ID,
			OrgName: org.Name,
			RealmID: realmID,
			ActorID: createdBy,
			Success: true,
		})

		fmt.Fprintf(os.Stderr, "Created organization '%s'\n", name)
		fmt.Println(org.ID)
	},
}

func init() {
	orgCmd.AddCommand(orgCreateCmd)
	orgCreateCmd.Flags().String("created-by", "orgsctl", "user id recorded as the creator")
	orgCreateCmd.Flags().String("display-name", "", "human-readable display name")
	orgCreateCmd.Flags().String("url", "", "organization URL")
	orgCreateCmd.Flags().StringSlice("domain", nil, "domain claimed by the organization (repeatable)")
}

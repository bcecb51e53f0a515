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

// orgListCmd represents the org list command
var orgListCmd = &cobra.Command{
	Use:   "list <realm>",
	Short: "List organizations in a realm",
	Long: `List organizations in a realm.

Example:
  orgsctl org list production
  orgsctl org list production --search acme`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		realmID := args[0]
		search, _ := cmd.Flags().GetString("search")
		limit, _ := cmd.Flags().GetInt("limit")

		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
			os.Exit(1)
		}

		orgs := gormstore.NewOrganizationsStore(database)
		result, err := orgs.SearchOrganizations(realmID, search, limit, 0)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list organizations: %v\n", err)
			os.Exit(1)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tDISPLAY NAME\tDOMAINS")
		for _, org := range result {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				org.ID, org.Name, org.DisplayName, strings.Join(org.Domains, ","))
		}
		_ = w.Flush()
	},
}

func init() {
	orgCmd.AddCommand(orgListCmd)
	orgListCmd.Flags().String("search", "", "filter by name substring")
	orgListCmd.Flags().Int("limit", 0, "maximum number of results")
}

package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/orgs-in-go/pkg/config"
	"github.com/doodlesbykumbi/orgs-in-go/pkg/db"
	"github.com/doodlesbykumbi/orgs-in-go/pkg/manifest"
	gormstore "github.com/doodlesbykumbi/orgs-in-go/pkg/store/gorm"
)

// manifestLoadCmd represents the manifest load command
var manifestLoadCmd = &cobra.Command{
	Use:   "load [file]",
	Short: "Apply an organization manifest",
	Long: `Apply an organization manifest.

The manifest declares organizations with their domains, roles, group trees
and pending invitations. Loading is idempotent: entities that already exist
are matched by name and reused.

If no file is given, the manifest_path from the configuration is used.

Example:
  orgsctl manifest load orgs.yml`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		filename := config.Get().ManifestPath
		if len(args) > 0 {
			filename = args[0]
		}
		if filename == "" {
			fmt.Fprintln(os.Stderr, "No manifest file given and manifest_path is not configured")
			os.Exit(1)
		}

		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
			os.Exit(1)
		}

		if err := loadManifestFile(database, filename); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load manifest: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Manifest %s applied\n", filename)
	},
}

func init() {
	manifestCmd.AddCommand(manifestLoadCmd)
}

func loadManifestFile(database *gorm.DB, filename string) error {
	m, err := manifest.ParseFile(filename)
	if err != nil {
		return err
	}

	loader := manifest.NewLoader(
		gormstore.NewOrganizationsStore(database),
		gormstore.NewGroupsStore(database),
		gormstore.NewRolesStore(database),
		gormstore.NewInvitationsStore(database),
		logrus.StandardLogger(),
	)
	return loader.Load(m)
}

package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/orgs-in-go/pkg/config"
	"github.com/doodlesbykumbi/orgs-in-go/pkg/db"
	"github.com/doodlesbykumbi/orgs-in-go/pkg/directory"
	"github.com/doodlesbykumbi/orgs-in-go/pkg/events"
	"github.com/doodlesbykumbi/orgs-in-go/pkg/listener"
	gormstore "github.com/doodlesbykumbi/orgs-in-go/pkg/store/gorm"
)

func defaultBindAddress() string {
	return config.Get().BindAddress
}

func defaultPort() string {
	return strconv.Itoa(config.Get().Port)
}

func defaultPortInt() int {
	return config.Get().Port
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the login-event webhook server",
	Long: `Run the login-event webhook server.

The server receives login events from the host platform and converts pending
invitations into memberships. It requires DATABASE_URL and
ORGS_EVENT_TOKEN_SECRET in the environment.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Get()

		secret := cfg.EventTokenSecret
		if secret == "" {
			fmt.Fprintln(os.Stderr, "ORGS_EVENT_TOKEN_SECRET environment variable is required")
			os.Exit(1)
		}

		if os.Getenv("DATABASE_URL") == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		// Run migrations unless --no-migrate is set
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		logger := logrus.New()
		if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
			logger.SetLevel(level)
		}

		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Println("Unable to connect to DB:", err)
			os.Exit(1)
		}

		orgs := gormstore.NewOrganizationsStore(database)
		roles := gormstore.NewRolesStore(database)
		invitations := gormstore.NewInvitationsStore(database)
		users := directory.NewGormDirectory(database)

		l := listener.New(orgs, roles, invitations, users, logger)

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s := events.NewServer(l, database, []byte(secret), host, port)

		// SIGHUP re-reads the config file (see `orgsctl configuration apply`)
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		go func() {
			for range hup {
				if err := config.Reload(); err != nil {
					logger.Errorf("configuration reload failed: %v", err)
					continue
				}
				if level, err := logrus.ParseLevel(config.Get().LogLevel); err == nil {
					logger.SetLevel(level)
				}
				logger.Info("configuration reloaded")
			}
		}()

		log.Printf("Running server at http://%s:%s...\n", host, port)
		log.Fatal(s.Start())
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}

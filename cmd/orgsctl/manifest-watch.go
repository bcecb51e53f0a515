package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/orgs-in-go/pkg/db"
)

// manifestWatchCmd represents the manifest watch command
var manifestWatchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Watch a manifest file and re-apply it on change",
	Long: `Watch a manifest file and re-apply it when it changes.

Loading is idempotent, so every change applies only the difference between
the manifest and the current database state.

Example:
  orgsctl manifest watch /run/orgs/manifest.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		filename := args[0]

		if err := watchManifest(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch manifest: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	manifestCmd.AddCommand(manifestWatchCmd)
}

func watchManifest(filename string) error {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filename); err != nil {
		return fmt.Errorf("failed to watch file %s: %w", filename, err)
	}

	fmt.Printf("Watching %s for manifest changes\n", filename)

	// Handle signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				fmt.Printf("[%s] File modified, re-applying manifest...\n", time.Now().Format(time.RFC3339))

				if err := loadManifestFile(database, filename); err != nil {
					fmt.Fprintf(os.Stderr, "Error applying manifest: %v\n", err)
				} else {
					fmt.Printf("Manifest applied successfully from %s\n", filename)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		case <-sigChan:
			fmt.Println("\nShutting down...")
			return nil
		}
	}
}

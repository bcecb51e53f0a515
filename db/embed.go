// Package db embeds the SQL migrations so production builds can run them
// without the source tree on disk.
package db

import "embed"

//go:embed migrations
var Migrations embed.FS

// Package main provides orgsctl, the CLI for the organizations server.
//
// The server maintains per-realm organizations with hierarchical groups,
// roles resolved through scope inheritance, and an invitation ledger that
// converts into memberships when invited users log in.
//
// # Architecture
//
//   - pkg/store: storage interfaces and records
//   - pkg/store/gorm: PostgreSQL-backed stores
//   - pkg/store/mem: in-memory stores for tests and local use
//   - pkg/resolver: effective-role resolution engine
//   - pkg/listener: invitation auto-acceptance on login events
//   - pkg/events: login-event webhook server
//   - pkg/manifest: declarative organization manifests
//   - pkg/directory: host platform user lookup
//   - pkg/audit: RFC5424 audit logging
//
// # Quick Start
//
//	# Run database migrations
//	orgsctl db migrate
//
//	# Create an organization
//	orgsctl org create production acme
//
//	# Start the webhook server
//	orgsctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - ORGS_EVENT_TOKEN_SECRET: shared secret for event tokens
//   - ORGS_LOG_LEVEL: log level (debug, info, warn, error)
//   - PORT: server port (default: 8080)
//   - AUDIT_DATABASE_URL: optional audit database
package main

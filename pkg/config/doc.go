// Package config provides configuration management for the organizations
// server.
//
// Configuration is loaded from an optional YAML file and overridden by
// environment variables.
//
// # Configuration Sources
//
//   - Environment variables (primary)
//   - /etc/orgs/config/orgs.yml (optional, ORGS_CONFIG_PATH overrides the
//     directory)
//
// # Key Configuration Options
//
//   - ORGS_BIND_ADDRESS / PORT: server listen address
//   - ORGS_EVENT_TOKEN_SECRET: shared secret for the login-event webhook
//   - ORGS_LOG_LEVEL: logging verbosity
//   - DATABASE_URL: database connection
//   - AUDIT_DATABASE_URL: optional audit database connection
package config

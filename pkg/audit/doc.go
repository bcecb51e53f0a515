// Package audit provides audit logging for organization operations.
//
// This package implements structured audit logging for security-relevant
// operations such as membership changes, role grants, group hierarchy
// mutations, and invitation conversion.
//
// # Event Types
//
// The package defines event types for various operations:
//
//   - Organization lifecycle events (create/remove)
//   - Membership events (grant/revoke)
//   - Group events (create/move/remove)
//   - Role grant events (user and group subjects)
//   - Invitation events (create/revoke/convert)
//
// # Usage
//
//	audit.Log(audit.MembershipEvent{OrgID: orgID, UserID: userID, Granted: true})
//
// Audit events are logged in RFC5424 syslog format suitable for security
// monitoring and compliance requirements, and optionally persisted to a
// dedicated audit database (AUDIT_DATABASE_URL).
package audit

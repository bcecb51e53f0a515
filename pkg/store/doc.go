// Package store defines the storage interfaces and domain records for the
// organization authorization core.
//
// Each interface covers one entity family:
//
//   - OrganizationsStore: organizations, domains, organization-level membership
//   - GroupsStore: the per-organization group forest, attributes, group membership
//   - RolesStore: named roles and their direct user/group grants
//   - InvitationsStore: pending invitations keyed by email
//
// Implementations live in subpackages: store/gorm (PostgreSQL) and store/mem
// (in-memory, for tests and local development). All implementations must
// enforce the same invariants: sibling group names unique per
// (organization, parent), role and organization names unique per scope,
// group membership requiring organization membership, and idempotent
// join/grant operations.
package store

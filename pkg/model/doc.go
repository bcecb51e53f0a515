// Package model defines the database models for the organization
// authorization core.
//
// This package contains GORM models that map to the PostgreSQL schema
// created by the migrations in db/migrations.
//
// # Core Models
//
//   - Organization: realm-scoped tenant container
//   - OrganizationDomain: domains claimed by an organization
//   - OrganizationMember: organization-level membership rows
//   - OrganizationGroup: nodes of the per-organization group forest
//   - OrganizationGroupAttribute: multi-valued group attributes
//   - OrganizationGroupMember: group membership rows
//   - OrganizationRole: named roles scoped to an organization
//   - UserRoleMapping: direct role grants to users
//   - GroupRoleMapping: direct role grants to groups
//   - Invitation: pending membership offers keyed by email
//   - PlatformUser: the host platform's user directory (dev/test stand-in)
//
// Root groups carry a NULL parent_id; children are found by reverse lookup
// on parent_id. Sibling-name uniqueness is enforced by partial unique
// indexes at the (organization_id, parent_id, name) grain.
package model

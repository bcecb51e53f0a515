package store

// Role is a named permission unit scoped to one organization, grantable
// directly to users and to groups.
type Role struct {
	ID          string
	OrgID       string
	Name        string
	Description string
}

// GroupGrant records a direct grant of a role to a group.
type GroupGrant struct {
	RoleID  string
	GroupID string
}

// RolesStore abstracts role and grant storage.
type RolesStore interface {
	// AddRole creates a role. The name must be unique within the
	// organization; a collision returns DuplicateNameError.
	AddRole(orgID, name string) (*Role, error)

	// RoleByID retrieves a role, NotFoundError if unknown.
	RoleByID(id string) (*Role, error)

	// RoleByName retrieves a role by its per-organization name,
	// NotFoundError if unknown.
	RoleByName(orgID, name string) (*Role, error)

	// RolesInOrganization lists every role of the organization.
	RolesInOrganization(orgID string) ([]Role, error)

	// RemoveRole deletes the role and every grant row referencing it, on
	// both the user and group sides.
	RemoveRole(orgID, name string) error

	// GrantToUser grants the role directly to a user. Idempotent: any
	// existing row for the (role, user) pair is replaced.
	GrantToUser(roleID, userID string) error

	// RevokeFromUser removes a direct user grant. No-op if absent.
	RevokeFromUser(roleID, userID string) error

	// GrantToGroup grants the role to a group. Idempotent like GrantToUser.
	GrantToGroup(roleID, groupID string) error

	// RevokeFromGroup removes a group grant. No-op if absent.
	RevokeFromGroup(roleID, groupID string) error

	// HasDirectUserGrant reports a direct (role, user) grant row.
	HasDirectUserGrant(roleID, userID string) (bool, error)

	// HasGroupGrant reports a direct (role, group) grant row. The group's
	// ancestors and descendants are not consulted.
	HasGroupGrant(roleID, groupID string) (bool, error)

	// RolesGrantedToUser lists roles with a direct user grant for the user
	// within the organization.
	RolesGrantedToUser(orgID, userID string) ([]Role, error)

	// GroupGrants lists every (role, group) grant pair in the organization.
	GroupGrants(orgID string) ([]GroupGrant, error)

	// GroupGrantsForRole lists ids of groups holding a direct grant of the
	// role.
	GroupGrantsForRole(roleID string) ([]string, error)

	// UserGrantees lists user ids holding a direct grant of the role.
	UserGrantees(roleID string) ([]string, error)
}

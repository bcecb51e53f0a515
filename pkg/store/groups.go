package store

import "time"

// Group is a named node in a per-organization hierarchy. ParentID is empty
// for root groups. Children are discovered by reverse lookup on ParentID,
// never stored as a forward collection.
type Group struct {
	ID          string
	OrgID       string
	Name        string
	Description string
	ParentID    string
	CreatedAt   time.Time
}

// GroupsStore abstracts group forest storage.
type GroupsStore interface {
	// CreateGroup creates a group under parentID (empty for a root group).
	// A sibling with the same name returns DuplicateNameError; an unknown
	// parent returns NotFoundError.
	CreateGroup(orgID, name, parentID string) (*Group, error)

	// GroupByID retrieves a group, NotFoundError if unknown.
	GroupByID(id string) (*Group, error)

	// GroupsInOrganization lists every group of the organization.
	GroupsInOrganization(orgID string) ([]Group, error)

	// SubGroups lists the direct children of a group.
	SubGroups(groupID string) ([]Group, error)

	// MoveGroup re-parents a group (empty newParentID moves it to the top
	// level). A same-named sibling under the new parent returns
	// DuplicateNameError and leaves the group unmoved. A move that would
	// make the group a descendant of itself returns PreconditionError.
	MoveGroup(groupID, newParentID string) error

	// SetDescription updates the group description.
	SetDescription(groupID, description string) error

	// DeleteGroup removes the group and its whole subtree: membership rows,
	// role-grant rows and attributes of every descendant, then the group
	// rows themselves, as one transactional unit.
	DeleteGroup(groupID string) error

	// Attributes returns the multi-valued attribute map of a group.
	Attributes(groupID string) (map[string][]string, error)

	// SetAttribute replaces all values stored under name.
	SetAttribute(groupID, name string, values []string) error

	// RemoveAttribute drops all values stored under name.
	RemoveAttribute(groupID, name string) error

	// RemoveAttributes drops every attribute of the group.
	RemoveAttributes(groupID string) error

	// JoinGroup adds the user to the group. The user must already be an
	// organization member (PreconditionError otherwise). Idempotent: a
	// prior membership row is replaced, never duplicated.
	JoinGroup(groupID, userID string) error

	// LeaveGroup removes the user from the group. No-op for non-members.
	// Organization membership and other group memberships are untouched.
	LeaveGroup(groupID, userID string) error

	// IsMember reports direct membership in the group (not in ancestors).
	IsMember(groupID, userID string) (bool, error)

	// GroupIDsForUser lists ids of groups in the organization the user is a
	// direct member of.
	GroupIDsForUser(orgID, userID string) ([]string, error)

	// GroupMembers lists the user ids directly in the group.
	GroupMembers(groupID string) ([]string, error)
}

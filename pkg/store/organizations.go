package store

import "time"

// Organization is a realm-scoped container of members, groups, roles and
// invitations.
type Organization struct {
	ID          string
	RealmID     string
	Name        string
	DisplayName string
	URL         string
	Domains     []string
	CreatedBy   string
	CreatedAt   time.Time
}

// OrganizationsStore abstracts organization and membership storage.
type OrganizationsStore interface {
	// CreateOrganization creates an organization in a realm. The name must
	// be unique within the realm; a collision returns DuplicateNameError.
	CreateOrganization(realmID, name, createdBy string) (*Organization, error)

	// OrganizationByID retrieves an organization, NotFoundError if unknown.
	OrganizationByID(id string) (*Organization, error)

	// OrganizationsByRealm lists all organizations in a realm.
	OrganizationsByRealm(realmID string) ([]Organization, error)

	// SearchOrganizations lists organizations whose name matches search.
	// limit <= 0 means no limit.
	SearchOrganizations(realmID, search string, limit, offset int) ([]Organization, error)

	// OrganizationsForDomain lists organizations claiming a domain.
	OrganizationsForDomain(realmID, domain string) ([]Organization, error)

	// OrganizationsForUser lists organizations the user is a member of.
	OrganizationsForUser(realmID, userID string) ([]Organization, error)

	// UpdateOrganization replaces display name, URL and the domain set.
	UpdateOrganization(org *Organization) error

	// DeleteOrganization removes the organization and everything it owns:
	// groups (with their memberships, attributes and grants), roles (with
	// their grants), members, invitations and domains.
	DeleteOrganization(id string) error

	// GrantMembership makes the user an organization member. Idempotent.
	GrantMembership(orgID, userID string) error

	// RevokeMembership removes organization membership. It does not touch
	// group membership rows; callers cascading a full removal should leave
	// groups first.
	RevokeMembership(orgID, userID string) error

	// HasMembership reports whether the user is an organization member.
	HasMembership(orgID, userID string) (bool, error)

	// Members lists the user ids of all organization members.
	Members(orgID string) ([]string, error)
}

package store

import "time"

// Invitation is a pending offer of organization membership plus proposed
// role names, keyed by email. It is consumed exactly once: explicitly
// revoked, or converted into membership and role grants on a matching login.
type Invitation struct {
	ID        string
	OrgID     string
	Email     string
	InviterID string
	Roles     []string
	CreatedAt time.Time
}

// InvitationsStore abstracts the invitation ledger.
type InvitationsStore interface {
	// AddInvitation records a pending invitation. Role names are stored
	// verbatim; they are resolved against the organization's roles only at
	// acceptance time.
	AddInvitation(orgID, email, inviterID string, roles []string) (*Invitation, error)

	// InvitationByID retrieves an invitation, NotFoundError if unknown.
	InvitationByID(id string) (*Invitation, error)

	// InvitationsByOrganization lists pending invitations of an organization.
	InvitationsByOrganization(orgID string) ([]Invitation, error)

	// InvitationsByEmail lists pending invitations of an organization for
	// one email address.
	InvitationsByEmail(orgID, email string) ([]Invitation, error)

	// PendingForEmail lists pending invitations for an email address across
	// every organization of a realm.
	PendingForEmail(realmID, email string) ([]Invitation, error)

	// RevokeInvitation deletes one invitation. No-op if absent.
	RevokeInvitation(id string) error

	// RevokeInvitations deletes all invitations of an organization for an
	// email address.
	RevokeInvitations(orgID, email string) error
}

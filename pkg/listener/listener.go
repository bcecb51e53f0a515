// Package listener converts pending invitations into memberships when the
// invited user logs in.
package listener

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/doodlesbykumbi/orgs-in-go/pkg/audit"
	"github.com/doodlesbykumbi/orgs-in-go/pkg/directory"
	"github.com/doodlesbykumbi/orgs-in-go/pkg/store"
)

// LoginEvent is the signal delivered once per successful authentication.
// Delivery is at-least-once; every step of the conversion is idempotent,
// so replays are safe.
type LoginEvent struct {
	RealmID string
	UserID  string
}

// Listener processes login events against the invitation ledger
type Listener struct {
	orgs        store.OrganizationsStore
	roles       store.RolesStore
	invitations store.InvitationsStore
	users       directory.UserDirectory
	log         *logrus.Logger
}

// New creates a Listener
func New(
	orgs store.OrganizationsStore,
	roles store.RolesStore,
	invitations store.InvitationsStore,
	users directory.UserDirectory,
	log *logrus.Logger,
) *Listener {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Listener{
		orgs:        orgs,
		roles:       roles,
		invitations: invitations,
		users:       users,
		log:         log,
	}
}

// OnLogin converts every pending invitation matching the user's email.
// Per invitation: grant organization membership, grant each proposed role
// that still exists, then delete the invitation. A failure in one
// invitation is logged and does not abort the others.
func (l *Listener) OnLogin(ctx context.Context, event LoginEvent) error {
	user, err := l.users.UserByID(ctx, event.RealmID, event.UserID)
	if err != nil {
		var notFound *store.NotFoundError
		if errors.As(err, &notFound) {
			l.log.WithFields(logrus.Fields{
				"realm": event.RealmID,
				"user":  event.UserID,
			}).Debug("login event for unknown user, ignoring")
			return nil
		}
		return fmt.Errorf("resolving user %s: %w", event.UserID, err)
	}
	if user.Email == "" {
		l.log.WithField("user", user.ID).Debug("user has no email, no invitations to match")
		return nil
	}

	pending, err := l.invitations.PendingForEmail(event.RealmID, user.Email)
	if err != nil {
		return fmt.Errorf("listing invitations for %s: %w", user.Email, err)
	}

	for _, inv := range pending {
		if err := l.convert(user, inv); err != nil {
			l.log.WithError(err).WithFields(logrus.Fields{
				"invitation":   inv.ID,
				"organization": inv.OrgID,
				"user":         user.ID,
			}).Error("invitation conversion failed")

			audit.Log(audit.InvitationEvent{
				OrgID:        inv.OrgID,
				InvitationID: inv.ID,
				Email:        inv.Email,
				Operation:    "convert",
				UserID:       user.ID,
				Success:      false,
				ErrorMessage: err.Error(),
			})
		}
	}
	return nil
}

// convert performs one invitation's conversion. The invitation is deleted
// last, after membership and role grants, so a crash partway re-runs
// idempotent grants on the next login rather than losing them.
func (l *Listener) convert(user *directory.User, inv store.Invitation) error {
	if err := l.orgs.GrantMembership(inv.OrgID, user.ID); err != nil {
		return fmt.Errorf("granting membership: %w", err)
	}

	for _, name := range inv.Roles {
		role, err := l.roles.RoleByName(inv.OrgID, name)
		if err != nil {
			var notFound *store.NotFoundError
			if errors.As(err, &notFound) {
				// The role may have been deleted since the invite was issued
				l.log.WithFields(logrus.Fields{
					"organization": inv.OrgID,
					"role":         name,
				}).Debug("invitation references unknown role, skipping")
				continue
			}
			return fmt.Errorf("resolving role %s: %w", name, err)
		}
		if err := l.roles.GrantToUser(role.ID, user.ID); err != nil {
			return fmt.Errorf("granting role %s: %w", name, err)
		}
	}

	if err := l.invitations.RevokeInvitation(inv.ID); err != nil {
		return fmt.Errorf("deleting invitation: %w", err)
	}

	l.log.WithFields(logrus.Fields{
		"invitation":   inv.ID,
		"organization": inv.OrgID,
		"user":         user.ID,
	}).Info("invitation converted to membership")

	audit.Log(audit.InvitationEvent{
		OrgID:        inv.OrgID,
		InvitationID: inv.ID,
		Email:        inv.Email,
		Operation:    "convert",
		UserID:       user.ID,
		Success:      true,
	})
	return nil
}

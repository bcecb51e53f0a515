package manifest

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/doodlesbykumbi/orgs-in-go/pkg/store"
)

// Loader applies manifests to the stores. Existing entities are matched by
// name and reused, so applying the same manifest twice changes nothing.
type Loader struct {
	orgs        store.OrganizationsStore
	groups      store.GroupsStore
	roles       store.RolesStore
	invitations store.InvitationsStore
	log         *logrus.Logger
}

// NewLoader creates a Loader
func NewLoader(
	orgs store.OrganizationsStore,
	groups store.GroupsStore,
	roles store.RolesStore,
	invitations store.InvitationsStore,
	log *logrus.Logger,
) *Loader {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Loader{
		orgs:        orgs,
		groups:      groups,
		roles:       roles,
		invitations: invitations,
		log:         log,
	}
}

// Load applies the manifest
func (l *Loader) Load(m *Manifest) error {
	for _, decl := range m.Organizations {
		if err := l.loadOrganization(m.Realm, decl); err != nil {
			return fmt.Errorf("organization %s: %w", decl.Name, err)
		}
	}
	return nil
}

func (l *Loader) loadOrganization(realmID string, decl Organization) error {
	org, err := l.ensureOrganization(realmID, decl)
	if err != nil {
		return err
	}

	for _, role := range decl.Roles {
		if err := l.ensureRole(org.ID, role); err != nil {
			return err
		}
	}

	if err := l.loadGroups(org.ID, "", decl.Groups); err != nil {
		return err
	}

	for _, inv := range decl.Invitations {
		if err := l.ensureInvitation(org.ID, inv); err != nil {
			return err
		}
	}

	l.log.WithFields(logrus.Fields{
		"organization": decl.Name,
		"realm":        realmID,
	}).Info("manifest applied")
	return nil
}

func (l *Loader) ensureOrganization(realmID string, decl Organization) (*store.Organization, error) {
	org, err := l.findOrganization(realmID, decl.Name)
	if err != nil {
		return nil, err
	}
	if org == nil {
		org, err = l.orgs.CreateOrganization(realmID, decl.Name, decl.CreatedBy)
		if err != nil {
			return nil, err
		}
	}

	if decl.DisplayName != "" || decl.URL != "" || len(decl.Domains) > 0 {
		updated := *org
		if decl.DisplayName != "" {
			updated.DisplayName = decl.DisplayName
		}
		if decl.URL != "" {
			updated.URL = decl.URL
		}
		if len(decl.Domains) > 0 {
			updated.Domains = decl.Domains
		}
		if err := l.orgs.UpdateOrganization(&updated); err != nil {
			return nil, err
		}
		org = &updated
	}
	return org, nil
}

func (l *Loader) findOrganization(realmID, name string) (*store.Organization, error) {
	orgs, err := l.orgs.OrganizationsByRealm(realmID)
	if err != nil {
		return nil, err
	}
	for i := range orgs {
		if orgs[i].Name == name {
			return &orgs[i], nil
		}
	}
	return nil, nil
}

func (l *Loader) ensureRole(orgID string, decl Role) error {
	_, err := l.roles.AddRole(orgID, decl.Name)
	var dup *store.DuplicateNameError
	if errors.As(err, &dup) {
		return nil
	}
	return err
}

func (l *Loader) loadGroups(orgID, parentID string, groups []Group) error {
	for _, decl := range groups {
		group, err := l.ensureGroup(orgID, parentID, decl)
		if err != nil {
			return fmt.Errorf("group %s: %w", decl.Name, err)
		}

		if decl.Description != "" && decl.Description != group.Description {
			if err := l.groups.SetDescription(group.ID, decl.Description); err != nil {
				return err
			}
		}

		for name, values := range decl.Attributes {
			if err := l.groups.SetAttribute(group.ID, name, values); err != nil {
				return err
			}
		}

		for _, roleName := range decl.Roles {
			role, err := l.roles.RoleByName(orgID, roleName)
			if err != nil {
				return fmt.Errorf("granting role %s: %w", roleName, err)
			}
			if err := l.roles.GrantToGroup(role.ID, group.ID); err != nil {
				return err
			}
		}

		if err := l.loadGroups(orgID, group.ID, decl.Groups); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) ensureGroup(orgID, parentID string, decl Group) (*store.Group, error) {
	group, err := l.groups.CreateGroup(orgID, decl.Name, parentID)
	var dup *store.DuplicateNameError
	if !errors.As(err, &dup) {
		return group, err
	}

	// Already present under this parent, find it
	all, err := l.groups.GroupsInOrganization(orgID)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Name == decl.Name && all[i].ParentID == parentID {
			return &all[i], nil
		}
	}
	return nil, &store.NotFoundError{Kind: "group", ID: decl.Name}
}

func (l *Loader) ensureInvitation(orgID string, decl Invitation) error {
	pending, err := l.invitations.InvitationsByEmail(orgID, decl.Email)
	if err != nil {
		return err
	}
	if len(pending) > 0 {
		return nil
	}

	_, err = l.invitations.AddInvitation(orgID, decl.Email, decl.Inviter, decl.Roles)
	return err
}

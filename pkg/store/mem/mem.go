// Package mem provides an in-memory implementation of the store
// interfaces. It enforces the same invariants as the PostgreSQL backend
// and is used by unit tests and local development.
package mem

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/doodlesbykumbi/orgs-in-go/pkg/store"
)

// Ensure Store implements all store interfaces
var (
	_ store.OrganizationsStore = (*Store)(nil)
	_ store.GroupsStore        = (*Store)(nil)
	_ store.RolesStore         = (*Store)(nil)
	_ store.InvitationsStore   = (*Store)(nil)
)

type orgRecord struct {
	store.Organization
	members map[string]bool
}

type groupRecord struct {
	store.Group
	members    map[string]bool
	attributes map[string][]string
}

type roleRecord struct {
	store.Role
	userGrants  map[string]bool
	groupGrants map[string]bool
}

// Store holds all entities behind a single mutex.
type Store struct {
	mu          sync.Mutex
	orgs        map[string]*orgRecord
	groups      map[string]*groupRecord
	roles       map[string]*roleRecord
	invitations map[string]*store.Invitation
}

// New creates an empty Store
func New() *Store {
	return &Store{
		orgs:        map[string]*orgRecord{},
		groups:      map[string]*groupRecord{},
		roles:       map[string]*roleRecord{},
		invitations: map[string]*store.Invitation{},
	}
}

// CreateOrganization creates an organization in a realm
func (s *Store) CreateOrganization(realmID, name, createdBy string) (*store.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, org := range s.orgs {
		if org.RealmID == realmID && org.Name == name {
			return nil, &store.DuplicateNameError{Kind: "organization", Name: name}
		}
	}

	rec := &orgRecord{
		Organization: store.Organization{
			ID:        uuid.NewString(),
			RealmID:   realmID,
			Name:      name,
			CreatedBy: createdBy,
			CreatedAt: time.Now(),
		},
		members: map[string]bool{},
	}
	s.orgs[rec.ID] = rec
	org := rec.Organization
	return &org, nil
}

// OrganizationByID retrieves an organization
func (s *Store) OrganizationByID(id string) (*store.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.orgs[id]
	if !ok {
		return nil, &store.NotFoundError{Kind: "organization", ID: id}
	}
	org := rec.Organization
	org.Domains = append([]string(nil), rec.Domains...)
	return &org, nil
}

// OrganizationsByRealm lists all organizations in a realm
func (s *Store) OrganizationsByRealm(realmID string) ([]store.Organization, error) {
	return s.selectOrgs(func(o *orgRecord) bool { return o.RealmID == realmID })
}

// SearchOrganizations lists organizations whose name matches search
func (s *Store) SearchOrganizations(realmID, search string, limit, offset int) ([]store.Organization, error) {
	orgs, err := s.selectOrgs(func(o *orgRecord) bool {
		return o.RealmID == realmID &&
			(search == "" || strings.Contains(strings.ToLower(o.Name), strings.ToLower(search)))
	})
	if err != nil {
		return nil, err
	}

	if offset > 0 {
		if offset >= len(orgs) {
			return nil, nil
		}
		orgs = orgs[offset:]
	}
	if limit > 0 && limit < len(orgs) {
		orgs = orgs[:limit]
	}
	return orgs, nil
}

// OrganizationsForDomain lists organizations claiming a domain
func (s *Store) OrganizationsForDomain(realmID, domain string) ([]store.Organization, error) {
	return s.selectOrgs(func(o *orgRecord) bool {
		if o.RealmID != realmID {
			return false
		}
		for _, d := range o.Domains {
			if d == domain {
				return true
			}
		}
		return false
	})
}

// OrganizationsForUser lists organizations the user is a member of
func (s *Store) OrganizationsForUser(realmID, userID string) ([]store.Organization, error) {
	return s.selectOrgs(func(o *orgRecord) bool {
		return o.RealmID == realmID && o.members[userID]
	})
}

// UpdateOrganization replaces display name, URL and the domain set
func (s *Store) UpdateOrganization(org *store.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.orgs[org.ID]
	if !ok {
		return &store.NotFoundError{Kind: "organization", ID: org.ID}
	}
	rec.DisplayName = org.DisplayName
	rec.URL = org.URL
	rec.Domains = append([]string(nil), org.Domains...)
	return nil
}

// DeleteOrganization removes the organization and everything it owns
func (s *Store) DeleteOrganization(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orgs[id]; !ok {
		return &store.NotFoundError{Kind: "organization", ID: id}
	}

	for gid, group := range s.groups {
		if group.OrgID == id {
			delete(s.groups, gid)
		}
	}
	for rid, role := range s.roles {
		if role.OrgID == id {
			delete(s.roles, rid)
		}
	}
	for iid, inv := range s.invitations {
		if inv.OrgID == id {
			delete(s.invitations, iid)
		}
	}
	delete(s.orgs, id)
	return nil
}

// GrantMembership makes the user an organization member
func (s *Store) GrantMembership(orgID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.orgs[orgID]
	if !ok {
		return &store.NotFoundError{Kind: "organization", ID: orgID}
	}
	rec.members[userID] = true
	return nil
}

// RevokeMembership removes organization membership
func (s *Store) RevokeMembership(orgID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.orgs[orgID]; ok {
		delete(rec.members, userID)
	}
	return nil
}

// HasMembership reports whether the user is an organization member
func (s *Store) HasMembership(orgID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.orgs[orgID]
	return ok && rec.members[userID], nil
}

// Members lists the user ids of all organization members
func (s *Store) Members(orgID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.orgs[orgID]
	if !ok {
		return nil, &store.NotFoundError{Kind: "organization", ID: orgID}
	}
	return sortedKeys(rec.members), nil
}

// CreateGroup creates a group under parentID (empty for a root group)
func (s *Store) CreateGroup(orgID, name, parentID string) (*store.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if parentID != "" {
		parent, ok := s.groups[parentID]
		if !ok || parent.OrgID != orgID {
			return nil, &store.NotFoundError{Kind: "group", ID: parentID}
		}
	}
	if s.siblingNameTaken(orgID, parentID, name, "") {
		return nil, &store.DuplicateNameError{Kind: "group", Name: name}
	}

	rec := &groupRecord{
		Group: store.Group{
			ID:        uuid.NewString(),
			OrgID:     orgID,
			Name:      name,
			ParentID:  parentID,
			CreatedAt: time.Now(),
		},
		members:    map[string]bool{},
		attributes: map[string][]string{},
	}
	s.groups[rec.ID] = rec
	group := rec.Group
	return &group, nil
}

// GroupByID retrieves a group
func (s *Store) GroupByID(id string) (*store.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.groups[id]
	if !ok {
		return nil, &store.NotFoundError{Kind: "group", ID: id}
	}
	group := rec.Group
	return &group, nil
}

// GroupsInOrganization lists every group of the organization
func (s *Store) GroupsInOrganization(orgID string) ([]store.Group, error) {
	return s.selectGroups(func(g *groupRecord) bool { return g.OrgID == orgID })
}

// SubGroups lists the direct children of a group
func (s *Store) SubGroups(groupID string) ([]store.Group, error) {
	s.mu.Lock()
	if _, ok := s.groups[groupID]; !ok {
		s.mu.Unlock()
		return nil, &store.NotFoundError{Kind: "group", ID: groupID}
	}
	s.mu.Unlock()

	return s.selectGroups(func(g *groupRecord) bool { return g.ParentID == groupID })
}

// MoveGroup re-parents a group
func (s *Store) MoveGroup(groupID, newParentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.groups[groupID]
	if !ok {
		return &store.NotFoundError{Kind: "group", ID: groupID}
	}

	if newParentID != "" {
		parent, ok := s.groups[newParentID]
		if !ok || parent.OrgID != rec.OrgID {
			return &store.NotFoundError{Kind: "group", ID: newParentID}
		}

		visited := map[string]bool{}
		for current := newParentID; current != "" && !visited[current]; {
			if current == groupID {
				return &store.PreconditionError{
					Message: fmt.Sprintf("group '%s' cannot be moved under its own subtree", groupID),
				}
			}
			visited[current] = true
			next, ok := s.groups[current]
			if !ok {
				break
			}
			current = next.ParentID
		}
	}

	if s.siblingNameTaken(rec.OrgID, newParentID, rec.Name, groupID) {
		return &store.DuplicateNameError{Kind: "group", Name: rec.Name}
	}

	rec.ParentID = newParentID
	return nil
}

// SetDescription updates the group description
func (s *Store) SetDescription(groupID, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.groups[groupID]
	if !ok {
		return &store.NotFoundError{Kind: "group", ID: groupID}
	}
	rec.Description = description
	return nil
}

// DeleteGroup removes the group and its whole subtree
func (s *Store) DeleteGroup(groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[groupID]; !ok {
		return &store.NotFoundError{Kind: "group", ID: groupID}
	}

	visited := map[string]bool{groupID: true}
	frontier := []string{groupID}
	for len(frontier) > 0 {
		var next []string
		for id, group := range s.groups {
			if visited[id] {
				continue
			}
			for _, parent := range frontier {
				if group.ParentID == parent {
					visited[id] = true
					next = append(next, id)
					break
				}
			}
		}
		frontier = next
	}

	for id := range visited {
		for _, role := range s.roles {
			delete(role.groupGrants, id)
		}
		delete(s.groups, id)
	}
	return nil
}

// Attributes returns the multi-valued attribute map of a group
func (s *Store) Attributes(groupID string) (map[string][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.groups[groupID]
	if !ok {
		return nil, &store.NotFoundError{Kind: "group", ID: groupID}
	}

	result := make(map[string][]string, len(rec.attributes))
	for name, values := range rec.attributes {
		result[name] = append([]string(nil), values...)
	}
	return result, nil
}

// SetAttribute replaces all values stored under name
func (s *Store) SetAttribute(groupID, name string, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.groups[groupID]
	if !ok {
		return &store.NotFoundError{Kind: "group", ID: groupID}
	}
	rec.attributes[name] = append([]string(nil), values...)
	return nil
}

// RemoveAttribute drops all values stored under name
func (s *Store) RemoveAttribute(groupID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.groups[groupID]; ok {
		delete(rec.attributes, name)
	}
	return nil
}

// RemoveAttributes drops every attribute of the group
func (s *Store) RemoveAttributes(groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.groups[groupID]; ok {
		rec.attributes = map[string][]string{}
	}
	return nil
}

// JoinGroup adds the user to the group, requiring organization membership
func (s *Store) JoinGroup(groupID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.groups[groupID]
	if !ok {
		return &store.NotFoundError{Kind: "group", ID: groupID}
	}

	org, ok := s.orgs[rec.OrgID]
	if !ok || !org.members[userID] {
		orgName := rec.OrgID
		if ok {
			orgName = org.Name
		}
		return &store.PreconditionError{
			Message: fmt.Sprintf("user '%s' must be a member of '%s' to be included into group", userID, orgName),
		}
	}

	rec.members[userID] = true
	return nil
}

// LeaveGroup removes the user from the group
func (s *Store) LeaveGroup(groupID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.groups[groupID]; ok {
		delete(rec.members, userID)
	}
	return nil
}

// IsMember reports direct membership in the group
func (s *Store) IsMember(groupID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.groups[groupID]
	return ok && rec.members[userID], nil
}

// GroupIDsForUser lists ids of groups the user is a direct member of
func (s *Store) GroupIDsForUser(orgID, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	for id, group := range s.groups {
		if group.OrgID == orgID && group.members[userID] {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// GroupMembers lists the user ids directly in the group
func (s *Store) GroupMembers(groupID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.groups[groupID]
	if !ok {
		return nil, &store.NotFoundError{Kind: "group", ID: groupID}
	}
	return sortedKeys(rec.members), nil
}

// AddRole creates a role with a per-organization unique name
func (s *Store) AddRole(orgID, name string) (*store.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, role := range s.roles {
		if role.OrgID == orgID && role.Name == name {
			return nil, &store.DuplicateNameError{Kind: "role", Name: name}
		}
	}

	rec := &roleRecord{
		Role: store.Role{
			ID:    uuid.NewString(),
			OrgID: orgID,
			Name:  name,
		},
		userGrants:  map[string]bool{},
		groupGrants: map[string]bool{},
	}
	s.roles[rec.ID] = rec
	role := rec.Role
	return &role, nil
}

// RoleByID retrieves a role
func (s *Store) RoleByID(id string) (*store.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.roles[id]
	if !ok {
		return nil, &store.NotFoundError{Kind: "role", ID: id}
	}
	role := rec.Role
	return &role, nil
}

// RoleByName retrieves a role by its per-organization name
func (s *Store) RoleByName(orgID, name string) (*store.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.roles {
		if rec.OrgID == orgID && rec.Name == name {
			role := rec.Role
			return &role, nil
		}
	}
	return nil, &store.NotFoundError{Kind: "role", ID: name}
}

// RolesInOrganization lists every role of the organization
func (s *Store) RolesInOrganization(orgID string) ([]store.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var roles []store.Role
	for _, rec := range s.roles {
		if rec.OrgID == orgID {
			roles = append(roles, rec.Role)
		}
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })
	return roles, nil
}

// RemoveRole deletes the role and every grant row referencing it
func (s *Store) RemoveRole(orgID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, rec := range s.roles {
		if rec.OrgID == orgID && rec.Name == name {
			delete(s.roles, id)
			return nil
		}
	}
	return &store.NotFoundError{Kind: "role", ID: name}
}

// GrantToUser grants the role directly to a user
func (s *Store) GrantToUser(roleID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.roles[roleID]
	if !ok {
		return &store.NotFoundError{Kind: "role", ID: roleID}
	}
	rec.userGrants[userID] = true
	return nil
}

// RevokeFromUser removes a direct user grant
func (s *Store) RevokeFromUser(roleID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.roles[roleID]; ok {
		delete(rec.userGrants, userID)
	}
	return nil
}

// GrantToGroup grants the role to a group
func (s *Store) GrantToGroup(roleID, groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.roles[roleID]
	if !ok {
		return &store.NotFoundError{Kind: "role", ID: roleID}
	}
	rec.groupGrants[groupID] = true
	return nil
}

// RevokeFromGroup removes a group grant
func (s *Store) RevokeFromGroup(roleID, groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.roles[roleID]; ok {
		delete(rec.groupGrants, groupID)
	}
	return nil
}

// HasDirectUserGrant reports a direct (role, user) grant
func (s *Store) HasDirectUserGrant(roleID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.roles[roleID]
	return ok && rec.userGrants[userID], nil
}

// HasGroupGrant reports a direct (role, group) grant
func (s *Store) HasGroupGrant(roleID, groupID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.roles[roleID]
	return ok && rec.groupGrants[groupID], nil
}

// RolesGrantedToUser lists roles with a direct user grant
func (s *Store) RolesGrantedToUser(orgID, userID string) ([]store.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var roles []store.Role
	for _, rec := range s.roles {
		if rec.OrgID == orgID && rec.userGrants[userID] {
			roles = append(roles, rec.Role)
		}
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })
	return roles, nil
}

// GroupGrants lists every (role, group) grant pair in the organization
func (s *Store) GroupGrants(orgID string) ([]store.GroupGrant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var grants []store.GroupGrant
	for _, rec := range s.roles {
		if rec.OrgID != orgID {
			continue
		}
		for groupID := range rec.groupGrants {
			grants = append(grants, store.GroupGrant{RoleID: rec.ID, GroupID: groupID})
		}
	}
	sort.Slice(grants, func(i, j int) bool {
		if grants[i].RoleID != grants[j].RoleID {
			return grants[i].RoleID < grants[j].RoleID
		}
		return grants[i].GroupID < grants[j].GroupID
	})
	return grants, nil
}

// GroupGrantsForRole lists ids of groups holding a direct grant of the role
func (s *Store) GroupGrantsForRole(roleID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.roles[roleID]
	if !ok {
		return nil, &store.NotFoundError{Kind: "role", ID: roleID}
	}
	return sortedKeys(rec.groupGrants), nil
}

// UserGrantees lists user ids holding a direct grant of the role
func (s *Store) UserGrantees(roleID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.roles[roleID]
	if !ok {
		return nil, &store.NotFoundError{Kind: "role", ID: roleID}
	}
	return sortedKeys(rec.userGrants), nil
}

// AddInvitation records a pending invitation
func (s *Store) AddInvitation(orgID, email, inviterID string, roles []string) (*store.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orgs[orgID]; !ok {
		return nil, &store.NotFoundError{Kind: "organization", ID: orgID}
	}

	inv := &store.Invitation{
		ID:        uuid.NewString(),
		OrgID:     orgID,
		Email:     email,
		InviterID: inviterID,
		Roles:     append([]string(nil), roles...),
		CreatedAt: time.Now(),
	}
	s.invitations[inv.ID] = inv
	copied := *inv
	return &copied, nil
}

// InvitationByID retrieves an invitation
func (s *Store) InvitationByID(id string) (*store.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invitations[id]
	if !ok {
		return nil, &store.NotFoundError{Kind: "invitation", ID: id}
	}
	copied := *inv
	return &copied, nil
}

// InvitationsByOrganization lists pending invitations of an organization
func (s *Store) InvitationsByOrganization(orgID string) ([]store.Invitation, error) {
	return s.selectInvitations(func(i *store.Invitation) bool { return i.OrgID == orgID })
}

// InvitationsByEmail lists pending invitations for one email address
func (s *Store) InvitationsByEmail(orgID, email string) ([]store.Invitation, error) {
	return s.selectInvitations(func(i *store.Invitation) bool {
		return i.OrgID == orgID && i.Email == email
	})
}

// PendingForEmail lists pending invitations for an email address across
// every organization of a realm
func (s *Store) PendingForEmail(realmID, email string) ([]store.Invitation, error) {
	return s.selectInvitations(func(i *store.Invitation) bool {
		org, ok := s.orgs[i.OrgID]
		return ok && org.RealmID == realmID && i.Email == email
	})
}

// RevokeInvitation deletes one invitation
func (s *Store) RevokeInvitation(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.invitations, id)
	return nil
}

// RevokeInvitations deletes all invitations of an organization for an email
// address
func (s *Store) RevokeInvitations(orgID, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, inv := range s.invitations {
		if inv.OrgID == orgID && inv.Email == email {
			delete(s.invitations, id)
		}
	}
	return nil
}

// siblingNameTaken reports whether a group named name already exists under
// the given parent, excluding excludeID (used when moving a group so it does
// not collide with itself). Callers hold s.mu.
func (s *Store) siblingNameTaken(orgID, parentID, name, excludeID string) bool {
	for id, group := range s.groups {
		if id == excludeID {
			continue
		}
		if group.OrgID == orgID && group.ParentID == parentID && group.Name == name {
			return true
		}
	}
	return false
}

func (s *Store) selectOrgs(keep func(*orgRecord) bool) ([]store.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var orgs []store.Organization
	for _, rec := range s.orgs {
		if keep(rec) {
			org := rec.Organization
			org.Domains = append([]string(nil), rec.Domains...)
			orgs = append(orgs, org)
		}
	}
	sort.Slice(orgs, func(i, j int) bool { return orgs[i].Name < orgs[j].Name })
	return orgs, nil
}

func (s *Store) selectGroups(keep func(*groupRecord) bool) ([]store.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var groups []store.Group
	for _, rec := range s.groups {
		if keep(rec) {
			groups = append(groups, rec.Group)
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups, nil
}

func (s *Store) selectInvitations(keep func(*store.Invitation) bool) ([]store.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var invs []store.Invitation
	for _, inv := range s.invitations {
		if keep(inv) {
			invs = append(invs, *inv)
		}
	}
	sort.Slice(invs, func(i, j int) bool { return invs[i].CreatedAt.Before(invs[j].CreatedAt) })
	return invs, nil
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

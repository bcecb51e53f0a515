// Package resolver computes the effective role set of a user within an
// organization. The set is the union of direct user grants and
// scope-inherited grants: a role granted to a group is held by members of
// that group and of every ancestor of that group. Nothing is cached;
// every call recomputes from current store state.
package resolver

import (
	"errors"
	"sort"

	"github.com/doodlesbykumbi/orgs-in-go/pkg/store"
)

// Resolver resolves effective roles against the group and role stores.
type Resolver struct {
	groups store.GroupsStore
	roles  store.RolesStore
}

// New creates a Resolver
func New(groups store.GroupsStore, roles store.RolesStore) *Resolver {
	return &Resolver{groups: groups, roles: roles}
}

// EffectiveRoles returns every role the user holds in the organization,
// via direct grants or scope inheritance.
func (r *Resolver) EffectiveRoles(orgID, userID string) ([]store.Role, error) {
	direct, err := r.roles.RolesGrantedToUser(orgID, userID)
	if err != nil {
		return nil, err
	}

	effective := map[string]store.Role{}
	for _, role := range direct {
		effective[role.ID] = role
	}

	memberOf, err := r.userGroupSet(orgID, userID)
	if err != nil {
		return nil, err
	}

	grants, err := r.roles.GroupGrants(orgID)
	if err != nil {
		return nil, err
	}
	for _, grant := range grants {
		if _, ok := effective[grant.RoleID]; ok {
			continue
		}

		held, err := r.grantReachesUser(grant.GroupID, memberOf)
		if err != nil {
			return nil, err
		}
		if !held {
			continue
		}

		role, err := r.roles.RoleByID(grant.RoleID)
		if err != nil {
			return nil, err
		}
		effective[role.ID] = *role
	}

	result := make([]store.Role, 0, len(effective))
	for _, role := range effective {
		result = append(result, role)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// HasRole reports whether the user holds the role, directly or via scope
// inheritance.
func (r *Resolver) HasRole(orgID, roleID, userID string) (bool, error) {
	direct, err := r.HasDirectRole(roleID, userID)
	if err != nil || direct {
		return direct, err
	}

	memberOf, err := r.userGroupSet(orgID, userID)
	if err != nil {
		return false, err
	}

	groupIDs, err := r.roles.GroupGrantsForRole(roleID)
	if err != nil {
		return false, err
	}
	for _, groupID := range groupIDs {
		held, err := r.grantReachesUser(groupID, memberOf)
		if err != nil {
			return false, err
		}
		if held {
			return true, nil
		}
	}
	return false, nil
}

// HasDirectRole reports only a direct user grant
func (r *Resolver) HasDirectRole(roleID, userID string) (bool, error) {
	return r.roles.HasDirectUserGrant(roleID, userID)
}

// RoleHeldByGroup reports whether the group itself holds a direct grant of
// the role. Ancestors and descendants do not count here.
func (r *Resolver) RoleHeldByGroup(roleID, groupID string) (bool, error) {
	return r.roles.HasGroupGrant(roleID, groupID)
}

// grantReachesUser walks the parent chain upward from the granted group.
// The role reaches the user when the user is a member of the granted group
// or of any of its ancestors. The visited set terminates malformed chains.
func (r *Resolver) grantReachesUser(grantedGroupID string, memberOf map[string]bool) (bool, error) {
	visited := map[string]bool{}
	current := grantedGroupID
	for current != "" && !visited[current] {
		if memberOf[current] {
			return true, nil
		}
		visited[current] = true

		group, err := r.groups.GroupByID(current)
		if err != nil {
			var notFound *store.NotFoundError
			if errors.As(err, &notFound) {
				return false, nil
			}
			return false, err
		}
		current = group.ParentID
	}
	return false, nil
}

func (r *Resolver) userGroupSet(orgID, userID string) (map[string]bool, error) {
	ids, err := r.groups.GroupIDsForUser(orgID, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

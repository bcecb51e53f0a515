package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/orgs-in-go/pkg/resolver"
	"github.com/doodlesbykumbi/orgs-in-go/pkg/store"
	"github.com/doodlesbykumbi/orgs-in-go/pkg/store/mem"
)

func roleNames(roles []store.Role) []string {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
	}
	return names
}

func TestEffectiveRolesInheritUpwardFromGrantedGroup(t *testing.T) {
	s := mem.New()
	r := resolver.New(s, s)

	org, err := s.CreateOrganization("realm", "acme", "admin")
	require.NoError(t, err)

	// root -> child1 -> child2 -> child3, each level granted its own role
	root, err := s.CreateGroup(org.ID, "root", "")
	require.NoError(t, err)
	child1, err := s.CreateGroup(org.ID, "child1", root.ID)
	require.NoError(t, err)
	child2, err := s.CreateGroup(org.ID, "child2", child1.ID)
	require.NoError(t, err)
	child3, err := s.CreateGroup(org.ID, "child3", child2.ID)
	require.NoError(t, err)

	groups := []*store.Group{root, child1, child2, child3}
	for i, name := range []string{"r0", "r1", "r2", "r3"} {
		role, err := s.AddRole(org.ID, name)
		require.NoError(t, err)
		require.NoError(t, s.GrantToGroup(role.ID, groups[i].ID))
	}

	require.NoError(t, s.GrantMembership(org.ID, "alice"))
	require.NoError(t, s.GrantMembership(org.ID, "bob"))
	require.NoError(t, s.JoinGroup(root.ID, "alice"))
	require.NoError(t, s.JoinGroup(child2.ID, "bob"))

	// a root member sees every role granted anywhere beneath
	roles, err := r.EffectiveRoles(org.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"r0", "r1", "r2", "r3"}, roleNames(roles))

	// a mid-level member sees its own grant and deeper ones only
	roles, err = r.EffectiveRoles(org.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"r2", "r3"}, roleNames(roles))
}

func TestEffectiveRolesNestedGrantInvisibleToDescendantsAndSiblings(t *testing.T) {
	s := mem.New()
	r := resolver.New(s, s)

	org, err := s.CreateOrganization("realm", "acme", "admin")
	require.NoError(t, err)

	parent, err := s.CreateGroup(org.ID, "parent", "")
	require.NoError(t, err)
	nested, err := s.CreateGroup(org.ID, "nested", parent.ID)
	require.NoError(t, err)
	deeper, err := s.CreateGroup(org.ID, "deeper", nested.ID)
	require.NoError(t, err)
	sibling, err := s.CreateGroup(org.ID, "sibling", parent.ID)
	require.NoError(t, err)

	role, err := s.AddRole(org.ID, "deploy")
	require.NoError(t, err)
	require.NoError(t, s.GrantToGroup(role.ID, nested.ID))

	for _, userID := range []string{"descendant", "cousin", "holder"} {
		require.NoError(t, s.GrantMembership(org.ID, userID))
	}
	require.NoError(t, s.JoinGroup(deeper.ID, "descendant"))
	require.NoError(t, s.JoinGroup(sibling.ID, "cousin"))
	require.NoError(t, s.JoinGroup(nested.ID, "holder"))

	held, err := r.HasRole(org.ID, role.ID, "holder")
	require.NoError(t, err)
	assert.True(t, held)

	// members below the granted group do not inherit it
	held, err = r.HasRole(org.ID, role.ID, "descendant")
	require.NoError(t, err)
	assert.False(t, held)

	// nor do members of an unrelated branch
	held, err = r.HasRole(org.ID, role.ID, "cousin")
	require.NoError(t, err)
	assert.False(t, held)
}

func TestEffectiveRolesCombineDirectAndInheritedGrants(t *testing.T) {
	s := mem.New()
	r := resolver.New(s, s)

	org, err := s.CreateOrganization("realm", "acme", "admin")
	require.NoError(t, err)

	group, err := s.CreateGroup(org.ID, "ops", "")
	require.NoError(t, err)

	inherited, err := s.AddRole(org.ID, "restart-services")
	require.NoError(t, err)
	direct, err := s.AddRole(org.ID, "read-logs")
	require.NoError(t, err)

	require.NoError(t, s.GrantToGroup(inherited.ID, group.ID))
	require.NoError(t, s.GrantMembership(org.ID, "alice"))
	require.NoError(t, s.JoinGroup(group.ID, "alice"))
	require.NoError(t, s.GrantToUser(direct.ID, "alice"))

	roles, err := r.EffectiveRoles(org.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"read-logs", "restart-services"}, roleNames(roles))

	hasDirect, err := r.HasDirectRole(direct.ID, "alice")
	require.NoError(t, err)
	assert.True(t, hasDirect)

	hasDirect, err = r.HasDirectRole(inherited.ID, "alice")
	require.NoError(t, err)
	assert.False(t, hasDirect)
}

func TestRoleHeldByGroupChecksOnlyTheGroupItself(t *testing.T) {
	s := mem.New()
	r := resolver.New(s, s)

	org, err := s.CreateOrganization("realm", "acme", "admin")
	require.NoError(t, err)

	parent, err := s.CreateGroup(org.ID, "parent", "")
	require.NoError(t, err)
	child, err := s.CreateGroup(org.ID, "child", parent.ID)
	require.NoError(t, err)

	role, err := s.AddRole(org.ID, "approve")
	require.NoError(t, err)
	require.NoError(t, s.GrantToGroup(role.ID, child.ID))

	held, err := r.RoleHeldByGroup(role.ID, child.ID)
	require.NoError(t, err)
	assert.True(t, held)

	held, err = r.RoleHeldByGroup(role.ID, parent.ID)
	require.NoError(t, err)
	assert.False(t, held)
}

func TestEffectiveRolesEmptyAfterRoleRemoval(t *testing.T) {
	s := mem.New()
	r := resolver.New(s, s)

	org, err := s.CreateOrganization("realm", "acme", "admin")
	require.NoError(t, err)

	group, err := s.CreateGroup(org.ID, "apples", "")
	require.NoError(t, err)
	role, err := s.AddRole(org.ID, "eat-apples")
	require.NoError(t, err)
	require.NoError(t, s.GrantToGroup(role.ID, group.ID))

	require.NoError(t, s.GrantMembership(org.ID, "alice"))
	require.NoError(t, s.JoinGroup(group.ID, "alice"))

	roles, err := r.EffectiveRoles(org.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"eat-apples"}, roleNames(roles))

	require.NoError(t, s.RemoveRole(org.ID, "eat-apples"))

	roles, err = r.EffectiveRoles(org.ID, "alice")
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestEffectiveRolesLoseSubtreeContributionOnGroupDeletion(t *testing.T) {
	s := mem.New()
	r := resolver.New(s, s)

	org, err := s.CreateOrganization("realm", "acme", "admin")
	require.NoError(t, err)

	root, err := s.CreateGroup(org.ID, "root", "")
	require.NoError(t, err)
	branch, err := s.CreateGroup(org.ID, "branch", root.ID)
	require.NoError(t, err)
	leaf, err := s.CreateGroup(org.ID, "leaf", branch.ID)
	require.NoError(t, err)

	role, err := s.AddRole(org.ID, "ship")
	require.NoError(t, err)
	require.NoError(t, s.GrantToGroup(role.ID, leaf.ID))

	require.NoError(t, s.GrantMembership(org.ID, "alice"))
	require.NoError(t, s.JoinGroup(root.ID, "alice"))

	held, err := r.HasRole(org.ID, role.ID, "alice")
	require.NoError(t, err)
	assert.True(t, held)

	// deleting the branch takes the leaf's grant with it
	require.NoError(t, s.DeleteGroup(branch.ID))

	held, err = r.HasRole(org.ID, role.ID, "alice")
	require.NoError(t, err)
	assert.False(t, held)
}

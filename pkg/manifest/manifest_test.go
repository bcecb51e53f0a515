package manifest_test

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/orgs-in-go/pkg/manifest"
	"github.com/doodlesbykumbi/orgs-in-go/pkg/resolver"
	"github.com/doodlesbykumbi/orgs-in-go/pkg/store/mem"
)

const sampleManifest = `
realm: production
organizations:
  - name: acme
    display_name: Acme Inc
    url: https://acme.example.com
    domains:
      - acme.com
    created_by: admin
    roles:
      - eat-apples
      - name: prune-trees
        description: Seasonal work
    groups:
      - name: orchard
        attributes:
          region:
            - north
        groups:
          - name: apples
            description: Apple pickers
            roles:
              - eat-apples
    invitations:
      - email: newhire@acme.com
        inviter: admin
        roles:
          - eat-apples
`

func TestParseManifest(t *testing.T) {
	m, err := manifest.Parse([]byte(sampleManifest))
	require.NoError(t, err)

	assert.Equal(t, "production", m.Realm)
	require.Len(t, m.Organizations, 1)

	org := m.Organizations[0]
	assert.Equal(t, "acme", org.Name)
	assert.Equal(t, []string{"acme.com"}, org.Domains)

	// scalar and mapping role forms both parse
	require.Len(t, org.Roles, 2)
	assert.Equal(t, "eat-apples", org.Roles[0].Name)
	assert.Equal(t, "prune-trees", org.Roles[1].Name)
	assert.Equal(t, "Seasonal work", org.Roles[1].Description)

	require.Len(t, org.Groups, 1)
	require.Len(t, org.Groups[0].Groups, 1)
	assert.Equal(t, "apples", org.Groups[0].Groups[0].Name)
	assert.Equal(t, []string{"eat-apples"}, org.Groups[0].Groups[0].Roles)
}

func TestParseRejectsInvalidManifests(t *testing.T) {
	_, err := manifest.Parse([]byte("organizations:\n  - name: acme\n"))
	assert.ErrorContains(t, err, "missing a realm")

	_, err = manifest.Parse([]byte("realm: r\norganizations:\n  - display_name: Acme\n"))
	assert.ErrorContains(t, err, "missing a name")

	_, err = manifest.Parse([]byte(`
realm: r
organizations:
  - name: acme
    groups:
      - name: dup
      - name: dup
`))
	assert.ErrorContains(t, err, "sibling groups")
}

func TestLoaderAppliesManifest(t *testing.T) {
	s := mem.New()
	log := logrus.New()
	log.SetOutput(io.Discard)
	loader := manifest.NewLoader(s, s, s, s, log)

	m, err := manifest.Parse([]byte(sampleManifest))
	require.NoError(t, err)
	require.NoError(t, loader.Load(m))

	orgs, err := s.OrganizationsByRealm("production")
	require.NoError(t, err)
	require.Len(t, orgs, 1)
	org := orgs[0]
	assert.Equal(t, "Acme Inc", org.DisplayName)
	assert.Equal(t, []string{"acme.com"}, org.Domains)

	groups, err := s.GroupsInOrganization(org.ID)
	require.NoError(t, err)
	assert.Len(t, groups, 2)

	role, err := s.RoleByName(org.ID, "eat-apples")
	require.NoError(t, err)

	// the nested group got the grant; a member of its parent inherits it
	r := resolver.New(s, s)
	require.NoError(t, s.GrantMembership(org.ID, "picker"))
	for _, g := range groups {
		if g.Name == "orchard" {
			require.NoError(t, s.JoinGroup(g.ID, "picker"))
		}
	}
	held, err := r.HasRole(org.ID, role.ID, "picker")
	require.NoError(t, err)
	assert.True(t, held)

	pending, err := s.InvitationsByEmail(org.ID, "newhire@acme.com")
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestLoaderIsIdempotent(t *testing.T) {
	s := mem.New()
	log := logrus.New()
	log.SetOutput(io.Discard)
	loader := manifest.NewLoader(s, s, s, s, log)

	m, err := manifest.Parse([]byte(sampleManifest))
	require.NoError(t, err)

	require.NoError(t, loader.Load(m))
	require.NoError(t, loader.Load(m))

	orgs, err := s.OrganizationsByRealm("production")
	require.NoError(t, err)
	require.Len(t, orgs, 1)

	groups, err := s.GroupsInOrganization(orgs[0].ID)
	require.NoError(t, err)
	assert.Len(t, groups, 2)

	roles, err := s.RolesInOrganization(orgs[0].ID)
	require.NoError(t, err)
	assert.Len(t, roles, 2)

	pending, err := s.InvitationsByEmail(orgs[0].ID, "newhire@acme.com")
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

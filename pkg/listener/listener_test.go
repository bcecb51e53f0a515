package listener_test

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/orgs-in-go/pkg/directory"
	"github.com/doodlesbykumbi/orgs-in-go/pkg/listener"
	"github.com/doodlesbykumbi/orgs-in-go/pkg/store"
	"github.com/doodlesbykumbi/orgs-in-go/pkg/store/mem"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestOnLoginConvertsInvitationSkippingUnknownRoles(t *testing.T) {
	s := mem.New()
	users := directory.NewMemDirectory()
	l := listener.New(s, s, s, users, quietLogger())

	org, err := s.CreateOrganization("realm", "acme", "admin")
	require.NoError(t, err)

	roleA, err := s.AddRole(org.ID, "a")
	require.NoError(t, err)

	// invitation proposes role "a" (exists) and "b" (does not)
	inv, err := s.AddInvitation(org.ID, "alice@example.com", "admin", []string{"a", "b"})
	require.NoError(t, err)

	users.AddUser(directory.User{ID: "alice", RealmID: "realm", Username: "alice", Email: "alice@example.com"})

	err = l.OnLogin(context.Background(), listener.LoginEvent{RealmID: "realm", UserID: "alice"})
	require.NoError(t, err)

	member, err := s.HasMembership(org.ID, "alice")
	require.NoError(t, err)
	assert.True(t, member)

	granted, err := s.HasDirectUserGrant(roleA.ID, "alice")
	require.NoError(t, err)
	assert.True(t, granted)

	roles, err := s.RolesGrantedToUser(org.ID, "alice")
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "a", roles[0].Name)

	// the invitation is consumed
	_, err = s.InvitationByID(inv.ID)
	var notFound *store.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestOnLoginConvertsAcrossOrganizations(t *testing.T) {
	s := mem.New()
	users := directory.NewMemDirectory()
	l := listener.New(s, s, s, users, quietLogger())

	first, err := s.CreateOrganization("realm", "first", "admin")
	require.NoError(t, err)
	second, err := s.CreateOrganization("realm", "second", "admin")
	require.NoError(t, err)

	_, err = s.AddInvitation(first.ID, "bob@example.com", "admin", nil)
	require.NoError(t, err)
	_, err = s.AddInvitation(second.ID, "bob@example.com", "admin", nil)
	require.NoError(t, err)

	users.AddUser(directory.User{ID: "bob", RealmID: "realm", Username: "bob", Email: "bob@example.com"})

	err = l.OnLogin(context.Background(), listener.LoginEvent{RealmID: "realm", UserID: "bob"})
	require.NoError(t, err)

	for _, orgID := range []string{first.ID, second.ID} {
		member, err := s.HasMembership(orgID, "bob")
		require.NoError(t, err)
		assert.True(t, member)
	}

	remaining, err := s.PendingForEmail("realm", "bob@example.com")
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestOnLoginIgnoresUsersWithoutInvitations(t *testing.T) {
	s := mem.New()
	users := directory.NewMemDirectory()
	l := listener.New(s, s, s, users, quietLogger())

	org, err := s.CreateOrganization("realm", "acme", "admin")
	require.NoError(t, err)

	users.AddUser(directory.User{ID: "carol", RealmID: "realm", Username: "carol", Email: "carol@example.com"})

	err = l.OnLogin(context.Background(), listener.LoginEvent{RealmID: "realm", UserID: "carol"})
	require.NoError(t, err)

	member, err := s.HasMembership(org.ID, "carol")
	require.NoError(t, err)
	assert.False(t, member)
}

func TestOnLoginIgnoresUnknownUsers(t *testing.T) {
	s := mem.New()
	users := directory.NewMemDirectory()
	l := listener.New(s, s, s, users, quietLogger())

	err := l.OnLogin(context.Background(), listener.LoginEvent{RealmID: "realm", UserID: "ghost"})
	assert.NoError(t, err)
}

func TestOnLoginReplaySafe(t *testing.T) {
	s := mem.New()
	users := directory.NewMemDirectory()
	l := listener.New(s, s, s, users, quietLogger())

	org, err := s.CreateOrganization("realm", "acme", "admin")
	require.NoError(t, err)
	role, err := s.AddRole(org.ID, "reader")
	require.NoError(t, err)
	_, err = s.AddInvitation(org.ID, "dave@example.com", "admin", []string{"reader"})
	require.NoError(t, err)

	users.AddUser(directory.User{ID: "dave", RealmID: "realm", Username: "dave", Email: "dave@example.com"})

	event := listener.LoginEvent{RealmID: "realm", UserID: "dave"}
	require.NoError(t, l.OnLogin(context.Background(), event))
	require.NoError(t, l.OnLogin(context.Background(), event))

	granted, err := s.HasDirectUserGrant(role.ID, "dave")
	require.NoError(t, err)
	assert.True(t, granted)

	grantees, err := s.UserGrantees(role.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"dave"}, grantees)
}

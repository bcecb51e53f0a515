package mem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/orgs-in-go/pkg/store"
	"github.com/doodlesbykumbi/orgs-in-go/pkg/store/mem"
)

func TestCreateGroupRejectsDuplicateSiblingName(t *testing.T) {
	s := mem.New()

	org, err := s.CreateOrganization("realm", "acme", "admin")
	require.NoError(t, err)

	orchard, err := s.CreateGroup(org.ID, "orchard", "")
	require.NoError(t, err)
	_, err = s.CreateGroup(org.ID, "apples", orchard.ID)
	require.NoError(t, err)

	// a second root group with the same name
	_, err = s.CreateGroup(org.ID, "orchard", "")
	var dup *store.DuplicateNameError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "group", dup.Kind)
	assert.Equal(t, "orchard", dup.Name)

	// a second child with the same name under the same parent
	_, err = s.CreateGroup(org.ID, "apples", orchard.ID)
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "apples", dup.Name)

	// the same name under a different parent is fine
	vineyard, err := s.CreateGroup(org.ID, "vineyard", "")
	require.NoError(t, err)
	_, err = s.CreateGroup(org.ID, "apples", vineyard.ID)
	assert.NoError(t, err)
}

func TestMoveGroupWithConflictingSiblingNameLeavesGroupUnmoved(t *testing.T) {
	s := mem.New()

	org, err := s.CreateOrganization("realm", "acme", "admin")
	require.NoError(t, err)

	orchard, err := s.CreateGroup(org.ID, "orchard", "")
	require.NoError(t, err)
	vineyard, err := s.CreateGroup(org.ID, "vineyard", "")
	require.NoError(t, err)
	_, err = s.CreateGroup(org.ID, "apples", orchard.ID)
	require.NoError(t, err)
	apples, err := s.CreateGroup(org.ID, "apples", vineyard.ID)
	require.NoError(t, err)

	// the target parent already has a same-named child
	err = s.MoveGroup(apples.ID, orchard.ID)
	var dup *store.DuplicateNameError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "apples", dup.Name)

	unmoved, err := s.GroupByID(apples.ID)
	require.NoError(t, err)
	assert.Equal(t, vineyard.ID, unmoved.ParentID)
}

func TestMoveGroupToTopLevelRejectsConflictingRootName(t *testing.T) {
	s := mem.New()

	org, err := s.CreateOrganization("realm", "acme", "admin")
	require.NoError(t, err)

	orchard, err := s.CreateGroup(org.ID, "orchard", "")
	require.NoError(t, err)
	nested, err := s.CreateGroup(org.ID, "orchard", orchard.ID)
	require.NoError(t, err)

	err = s.MoveGroup(nested.ID, "")
	var dup *store.DuplicateNameError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "orchard", dup.Name)

	unmoved, err := s.GroupByID(nested.ID)
	require.NoError(t, err)
	assert.Equal(t, orchard.ID, unmoved.ParentID)
}

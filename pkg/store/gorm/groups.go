package gorm

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/orgs-in-go/pkg/model"
	"github.com/doodlesbykumbi/orgs-in-go/pkg/store"
)

// Ensure GroupsStore implements store.GroupsStore
var _ store.GroupsStore = (*GroupsStore)(nil)

// GroupsStore implements store.GroupsStore using GORM
type GroupsStore struct {
	db *gorm.DB
}

// NewGroupsStore creates a new GroupsStore
func NewGroupsStore(db *gorm.DB) *GroupsStore {
	return &GroupsStore{db: db}
}

// CreateGroup creates a group under parentID (empty for a root group)
func (s *GroupsStore) CreateGroup(orgID, name, parentID string) (*store.Group, error) {
	if parentID != "" {
		parent, err := s.GroupByID(parentID)
		if err != nil {
			return nil, err
		}
		if parent.OrgID != orgID {
			return nil, &store.NotFoundError{Kind: "group", ID: parentID}
		}
	}

	taken, err := s.siblingNameTaken(orgID, parentID, name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, &store.DuplicateNameError{Kind: "group", Name: name}
	}

	group := model.OrganizationGroup{
		ID:       uuid.NewString(),
		OrgID:    orgID,
		Name:     name,
		ParentID: nullString(parentID),
	}
	if err := s.db.Create(&group).Error; err != nil {
		return nil, err
	}
	return s.GroupByID(group.ID)
}

// GroupByID retrieves a group
func (s *GroupsStore) GroupByID(id string) (*store.Group, error) {
	var group model.OrganizationGroup
	err := s.db.Where("id = ?", id).First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &store.NotFoundError{Kind: "group", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return toGroup(group), nil
}

// GroupsInOrganization lists every group of the organization
func (s *GroupsStore) GroupsInOrganization(orgID string) ([]store.Group, error) {
	var groups []model.OrganizationGroup
	err := s.db.Where("organization_id = ?", orgID).Order("name").Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return toGroups(groups), nil
}

// SubGroups lists the direct children of a group
func (s *GroupsStore) SubGroups(groupID string) ([]store.Group, error) {
	if _, err := s.GroupByID(groupID); err != nil {
		return nil, err
	}

	var groups []model.OrganizationGroup
	err := s.db.Where("parent_id = ?", groupID).Order("name").Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return toGroups(groups), nil
}

// MoveGroup re-parents a group. The group is left unmoved when the new
// parent already has a same-named child, and a move under the group's own
// subtree is rejected outright.
func (s *GroupsStore) MoveGroup(groupID, newParentID string) error {
	group, err := s.GroupByID(groupID)
	if err != nil {
		return err
	}

	if newParentID != "" {
		parent, err := s.GroupByID(newParentID)
		if err != nil {
			return err
		}
		if parent.OrgID != group.OrgID {
			return &store.NotFoundError{Kind: "group", ID: newParentID}
		}
		if err := s.checkNoCycle(groupID, newParentID); err != nil {
			return err
		}
	}

	taken, err := s.siblingNameTaken(group.OrgID, newParentID, group.Name, groupID)
	if err != nil {
		return err
	}
	if taken {
		return &store.DuplicateNameError{Kind: "group", Name: group.Name}
	}

	return s.db.Exec(`UPDATE organization_groups SET parent_id = ? WHERE id = ?`,
		nullString(newParentID), groupID).Error
}

// SetDescription updates the group description
func (s *GroupsStore) SetDescription(groupID, description string) error {
	if _, err := s.GroupByID(groupID); err != nil {
		return err
	}
	return s.db.Exec(`UPDATE organization_groups SET description = ? WHERE id = ?`,
		description, groupID).Error
}

// DeleteGroup removes the group and its whole subtree as one unit
func (s *GroupsStore) DeleteGroup(groupID string) error {
	if _, err := s.GroupByID(groupID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		subtree, err := collectSubtree(tx, groupID)
		if err != nil {
			return err
		}

		statements := []string{
			`DELETE FROM organization_group_members WHERE group_id IN ?`,
			`DELETE FROM group_role_mappings WHERE group_id IN ?`,
			`DELETE FROM organization_group_attributes WHERE group_id IN ?`,
			`DELETE FROM organization_groups WHERE id IN ?`,
		}
		for _, stmt := range statements {
			if err := tx.Exec(stmt, subtree).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Attributes returns the multi-valued attribute map of a group
func (s *GroupsStore) Attributes(groupID string) (map[string][]string, error) {
	if _, err := s.GroupByID(groupID); err != nil {
		return nil, err
	}

	var attrs []model.OrganizationGroupAttribute
	err := s.db.Where("group_id = ?", groupID).Order("name, value").Find(&attrs).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string][]string)
	for _, attr := range attrs {
		result[attr.Name] = append(result[attr.Name], attr.Value)
	}
	return result, nil
}

// SetAttribute replaces all values stored under name
func (s *GroupsStore) SetAttribute(groupID, name string, values []string) error {
	if _, err := s.GroupByID(groupID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(`DELETE FROM organization_group_attributes WHERE group_id = ? AND name = ?`,
			groupID, name).Error
		if err != nil {
			return err
		}
		for _, value := range values {
			attr := model.OrganizationGroupAttribute{
				ID:      uuid.NewString(),
				GroupID: groupID,
				Name:    name,
				Value:   value,
			}
			if err := tx.Create(&attr).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// RemoveAttribute drops all values stored under name
func (s *GroupsStore) RemoveAttribute(groupID, name string) error {
	return s.db.Exec(`DELETE FROM organization_group_attributes WHERE group_id = ? AND name = ?`,
		groupID, name).Error
}

// RemoveAttributes drops every attribute of the group
func (s *GroupsStore) RemoveAttributes(groupID string) error {
	return s.db.Exec(`DELETE FROM organization_group_attributes WHERE group_id = ?`, groupID).Error
}

// JoinGroup adds the user to the group. The user must already be an
// organization member; a prior membership row is replaced, never duplicated.
func (s *GroupsStore) JoinGroup(groupID, userID string) error {
	group, err := s.GroupByID(groupID)
	if err != nil {
		return err
	}

	var orgName string
	if err := s.db.Raw(`SELECT name FROM organizations WHERE id = ?`, group.OrgID).Scan(&orgName).Error; err != nil {
		return err
	}

	var member bool
	err = s.db.Raw(`SELECT EXISTS(SELECT 1 FROM organization_members WHERE organization_id = ? AND user_id = ?)`,
		group.OrgID, userID).Scan(&member).Error
	if err != nil {
		return err
	}
	if !member {
		return &store.PreconditionError{
			Message: fmt.Sprintf("user '%s' must be a member of '%s' to be included into group", userID, orgName),
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(`DELETE FROM organization_group_members WHERE group_id = ? AND user_id = ?`,
			groupID, userID).Error
		if err != nil {
			return err
		}
		m := model.OrganizationGroupMember{
			ID:      uuid.NewString(),
			GroupID: groupID,
			OrgID:   group.OrgID,
			UserID:  userID,
		}
		return tx.Create(&m).Error
	})
}

// LeaveGroup removes the user from the group
func (s *GroupsStore) LeaveGroup(groupID, userID string) error {
	return s.db.Exec(`DELETE FROM organization_group_members WHERE group_id = ? AND user_id = ?`,
		groupID, userID).Error
}

// IsMember reports direct membership in the group
func (s *GroupsStore) IsMember(groupID, userID string) (bool, error) {
	var exists bool
	err := s.db.Raw(`SELECT EXISTS(SELECT 1 FROM organization_group_members WHERE group_id = ? AND user_id = ?)`,
		groupID, userID).Scan(&exists).Error
	return exists, err
}

// GroupIDsForUser lists ids of groups the user is a direct member of
func (s *GroupsStore) GroupIDsForUser(orgID, userID string) ([]string, error) {
	var ids []string
	err := s.db.Raw(`SELECT group_id FROM organization_group_members WHERE organization_id = ? AND user_id = ?`,
		orgID, userID).Scan(&ids).Error
	return ids, err
}

// GroupMembers lists the user ids directly in the group
func (s *GroupsStore) GroupMembers(groupID string) ([]string, error) {
	var ids []string
	err := s.db.Raw(`SELECT user_id FROM organization_group_members WHERE group_id = ? ORDER BY user_id`,
		groupID).Scan(&ids).Error
	return ids, err
}

// siblingNameTaken reports whether a group named name already exists under
// the given parent, excluding excludeID (used when moving a group so it does
// not collide with itself).
func (s *GroupsStore) siblingNameTaken(orgID, parentID, name, excludeID string) (bool, error) {
	var exists bool
	err := s.db.Raw(`
		SELECT EXISTS(
			SELECT 1 FROM organization_groups
			WHERE organization_id = ? AND name = ? AND id <> ?
			AND parent_id IS NOT DISTINCT FROM ?
		)
	`, orgID, name, excludeID, nullString(parentID)).Scan(&exists).Error
	return exists, err
}

// checkNoCycle walks the parent chain upward from newParentID and rejects
// the move if it reaches groupID. The walk carries a visited set so a
// malformed chain already in the database terminates too.
func (s *GroupsStore) checkNoCycle(groupID, newParentID string) error {
	visited := map[string]bool{}
	current := newParentID
	for current != "" && !visited[current] {
		if current == groupID {
			return &store.PreconditionError{
				Message: fmt.Sprintf("group '%s' cannot be moved under its own subtree", groupID),
			}
		}
		visited[current] = true

		var parent sql.NullString
		err := s.db.Raw(`SELECT parent_id FROM organization_groups WHERE id = ?`, current).Scan(&parent).Error
		if err != nil {
			return err
		}
		current = parent.String
	}
	return nil
}

// collectSubtree returns the ids of a group and all its descendants,
// breadth-first with a visited set.
func collectSubtree(tx *gorm.DB, rootID string) ([]string, error) {
	visited := map[string]bool{rootID: true}
	subtree := []string{rootID}
	frontier := []string{rootID}

	for len(frontier) > 0 {
		var children []string
		err := tx.Raw(`SELECT id FROM organization_groups WHERE parent_id IN ?`, frontier).Scan(&children).Error
		if err != nil {
			return nil, err
		}

		frontier = frontier[:0]
		for _, id := range children {
			if visited[id] {
				continue
			}
			visited[id] = true
			subtree = append(subtree, id)
			frontier = append(frontier, id)
		}
	}
	return subtree, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func toGroup(group model.OrganizationGroup) *store.Group {
	return &store.Group{
		ID:          group.ID,
		OrgID:       group.OrgID,
		Name:        group.Name,
		Description: group.Description,
		ParentID:    group.ParentID.String,
		CreatedAt:   group.CreatedAt,
	}
}

func toGroups(groups []model.OrganizationGroup) []store.Group {
	result := make([]store.Group, 0, len(groups))
	for _, group := range groups {
		result = append(result, *toGroup(group))
	}
	return result
}

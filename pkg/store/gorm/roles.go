package gorm

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/orgs-in-go/pkg/model"
	"github.com/doodlesbykumbi/orgs-in-go/pkg/store"
)

// Ensure RolesStore implements store.RolesStore
var _ store.RolesStore = (*RolesStore)(nil)

// RolesStore implements store.RolesStore using GORM
type RolesStore struct {
	db *gorm.DB
}

// NewRolesStore creates a new RolesStore
func NewRolesStore(db *gorm.DB) *RolesStore {
	return &RolesStore{db: db}
}

// AddRole creates a role with a per-organization unique name
func (s *RolesStore) AddRole(orgID, name string) (*store.Role, error) {
	var exists bool
	err := s.db.Raw(`SELECT EXISTS(SELECT 1 FROM organization_roles WHERE organization_id = ? AND name = ?)`,
		orgID, name).Scan(&exists).Error
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &store.DuplicateNameError{Kind: "role", Name: name}
	}

	role := model.OrganizationRole{
		ID:    uuid.NewString(),
		OrgID: orgID,
		Name:  name,
	}
	if err := s.db.Create(&role).Error; err != nil {
		return nil, err
	}
	return toRole(role), nil
}

// RoleByID retrieves a role
func (s *RolesStore) RoleByID(id string) (*store.Role, error) {
	var role model.OrganizationRole
	err := s.db.Where("id = ?", id).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &store.NotFoundError{Kind: "role", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return toRole(role), nil
}

// RoleByName retrieves a role by its per-organization name
func (s *RolesStore) RoleByName(orgID, name string) (*store.Role, error) {
	var role model.OrganizationRole
	err := s.db.Where("organization_id = ? AND name = ?", orgID, name).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &store.NotFoundError{Kind: "role", ID: name}
	}
	if err != nil {
		return nil, err
	}
	return toRole(role), nil
}

// RolesInOrganization lists every role of the organization
func (s *RolesStore) RolesInOrganization(orgID string) ([]store.Role, error) {
	var roles []model.OrganizationRole
	err := s.db.Where("organization_id = ?", orgID).Order("name").Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return toRoles(roles), nil
}

// RemoveRole deletes the role and every grant row referencing it
func (s *RolesStore) RemoveRole(orgID, name string) error {
	role, err := s.RoleByName(orgID, name)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		statements := []string{
			`DELETE FROM user_role_mappings WHERE role_id = ?`,
			`DELETE FROM group_role_mappings WHERE role_id = ?`,
			`DELETE FROM organization_roles WHERE id = ?`,
		}
		for _, stmt := range statements {
			if err := tx.Exec(stmt, role.ID).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GrantToUser grants the role directly to a user. Any existing row for the
// (role, user) pair is replaced, so concurrent grants leave exactly one row.
func (s *RolesStore) GrantToUser(roleID, userID string) error {
	if _, err := s.RoleByID(roleID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(`DELETE FROM user_role_mappings WHERE role_id = ? AND user_id = ?`,
			roleID, userID).Error
		if err != nil {
			return err
		}
		m := model.UserRoleMapping{ID: uuid.NewString(), RoleID: roleID, UserID: userID}
		return tx.Create(&m).Error
	})
}

// RevokeFromUser removes a direct user grant
func (s *RolesStore) RevokeFromUser(roleID, userID string) error {
	return s.db.Exec(`DELETE FROM user_role_mappings WHERE role_id = ? AND user_id = ?`,
		roleID, userID).Error
}

// GrantToGroup grants the role to a group, replacing any existing row
func (s *RolesStore) GrantToGroup(roleID, groupID string) error {
	if _, err := s.RoleByID(roleID); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(`DELETE FROM group_role_mappings WHERE role_id = ? AND group_id = ?`,
			roleID, groupID).Error
		if err != nil {
			return err
		}
		m := model.GroupRoleMapping{ID: uuid.NewString(), RoleID: roleID, GroupID: groupID}
		return tx.Create(&m).Error
	})
}

// RevokeFromGroup removes a group grant
func (s *RolesStore) RevokeFromGroup(roleID, groupID string) error {
	return s.db.Exec(`DELETE FROM group_role_mappings WHERE role_id = ? AND group_id = ?`,
		roleID, groupID).Error
}

// HasDirectUserGrant reports a direct (role, user) grant row
func (s *RolesStore) HasDirectUserGrant(roleID, userID string) (bool, error) {
	var exists bool
	err := s.db.Raw(`SELECT EXISTS(SELECT 1 FROM user_role_mappings WHERE role_id = ? AND user_id = ?)`,
		roleID, userID).Scan(&exists).Error
	return exists, err
}

// HasGroupGrant reports a direct (role, group) grant row
func (s *RolesStore) HasGroupGrant(roleID, groupID string) (bool, error) {
	var exists bool
	err := s.db.Raw(`SELECT EXISTS(SELECT 1 FROM group_role_mappings WHERE role_id = ? AND group_id = ?)`,
		roleID, groupID).Scan(&exists).Error
	return exists, err
}

// RolesGrantedToUser lists roles with a direct user grant within the
// organization
func (s *RolesStore) RolesGrantedToUser(orgID, userID string) ([]store.Role, error) {
	var roles []model.OrganizationRole
	err := s.db.Raw(`
		SELECT r.* FROM organization_roles r
		JOIN user_role_mappings m ON m.role_id = r.id
		WHERE r.organization_id = ? AND m.user_id = ?
		ORDER BY r.name
	`, orgID, userID).Scan(&roles).Error
	if err != nil {
		return nil, err
	}
	return toRoles(roles), nil
}

// GroupGrants lists every (role, group) grant pair in the organization
func (s *RolesStore) GroupGrants(orgID string) ([]store.GroupGrant, error) {
	type grantRow struct {
		RoleID  string `gorm:"column:role_id"`
		GroupID string `gorm:"column:group_id"`
	}

	var rows []grantRow
	err := s.db.Raw(`
		SELECT m.role_id, m.group_id FROM group_role_mappings m
		JOIN organization_roles r ON r.id = m.role_id
		WHERE r.organization_id = ?
		ORDER BY m.role_id, m.group_id
	`, orgID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	grants := make([]store.GroupGrant, 0, len(rows))
	for _, row := range rows {
		grants = append(grants, store.GroupGrant{RoleID: row.RoleID, GroupID: row.GroupID})
	}
	return grants, nil
}

// GroupGrantsForRole lists ids of groups holding a direct grant of the role
func (s *RolesStore) GroupGrantsForRole(roleID string) ([]string, error) {
	var ids []string
	err := s.db.Raw(`SELECT group_id FROM group_role_mappings WHERE role_id = ? ORDER BY group_id`,
		roleID).Scan(&ids).Error
	return ids, err
}

// UserGrantees lists user ids holding a direct grant of the role
func (s *RolesStore) UserGrantees(roleID string) ([]string, error) {
	var ids []string
	err := s.db.Raw(`SELECT user_id FROM user_role_mappings WHERE role_id = ? ORDER BY user_id`,
		roleID).Scan(&ids).Error
	return ids, err
}

func toRole(role model.OrganizationRole) *store.Role {
	return &store.Role{
		ID:          role.ID,
		OrgID:       role.OrgID,
		Name:        role.Name,
		Description: role.Description,
	}
}

func toRoles(roles []model.OrganizationRole) []store.Role {
	result := make([]store.Role, 0, len(roles))
	for _, role := range roles {
		result = append(result, *toRole(role))
	}
	return result
}

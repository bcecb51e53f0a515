package model

import "time"

// OrganizationRole represents a named permission unit scoped to an
// organization
type OrganizationRole struct {
	ID          string    `gorm:"column:id;primaryKey"`
	OrgID       string    `gorm:"column:organization_id;not null"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (OrganizationRole) TableName() string {
	return "organization_roles"
}

// UserRoleMapping represents a direct role grant to a user
type UserRoleMapping struct {
	ID        string    `gorm:"column:id;primaryKey"`
	RoleID    string    `gorm:"column:role_id;not null"`
	UserID    string    `gorm:"column:user_id;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (UserRoleMapping) TableName() string {
	return "user_role_mappings"
}

// GroupRoleMapping represents a direct role grant to a group
type GroupRoleMapping struct {
	ID        string    `gorm:"column:id;primaryKey"`
	RoleID    string    `gorm:"column:role_id;not null"`
	GroupID   string    `gorm:"column:group_id;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (GroupRoleMapping) TableName() string {
	return "group_role_mappings"
}

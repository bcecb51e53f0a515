package model

import (
	"database/sql"
	"time"
)

// OrganizationGroup represents a node of the per-organization group forest.
// ParentID is NULL for root groups.
type OrganizationGroup struct {
	ID          string         `gorm:"column:id;primaryKey"`
	OrgID       string         `gorm:"column:organization_id;not null"`
	Name        string         `gorm:"column:name;not null"`
	Description string         `gorm:"column:description"`
	ParentID    sql.NullString `gorm:"column:parent_id"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
}

func (OrganizationGroup) TableName() string {
	return "organization_groups"
}

// OrganizationGroupAttribute represents one value of a multi-valued group
// attribute
type OrganizationGroupAttribute struct {
	ID      string `gorm:"column:id;primaryKey"`
	GroupID string `gorm:"column:group_id;not null"`
	Name    string `gorm:"column:name;not null"`
	Value   string `gorm:"column:value"`
}

func (OrganizationGroupAttribute) TableName() string {
	return "organization_group_attributes"
}

// OrganizationGroupMember represents group membership
type OrganizationGroupMember struct {
	ID        string    `gorm:"column:id;primaryKey"`
	GroupID   string    `gorm:"column:group_id;not null"`
	OrgID     string    `gorm:"column:organization_id;not null"`
	UserID    string    `gorm:"column:user_id;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (OrganizationGroupMember) TableName() string {
	return "organization_group_members"
}

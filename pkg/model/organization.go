package model

import "time"

// Organization represents a realm-scoped tenant
type Organization struct {
	ID          string    `gorm:"column:id;primaryKey"`
	RealmID     string    `gorm:"column:realm_id;not null"`
	Name        string    `gorm:"column:name;not null"`
	DisplayName string    `gorm:"column:display_name"`
	URL         string    `gorm:"column:url"`
	CreatedBy   string    `gorm:"column:created_by"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Organization) TableName() string {
	return "organizations"
}

// OrganizationDomain represents a domain claimed by an organization
type OrganizationDomain struct {
	OrgID  string `gorm:"column:organization_id;primaryKey"`
	Domain string `gorm:"column:domain;primaryKey"`
}

func (OrganizationDomain) TableName() string {
	return "organization_domains"
}

// OrganizationMember represents organization-level membership
type OrganizationMember struct {
	ID        string    `gorm:"column:id;primaryKey"`
	OrgID     string    `gorm:"column:organization_id;not null"`
	UserID    string    `gorm:"column:user_id;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (OrganizationMember) TableName() string {
	return "organization_members"
}

package model

import (
	"time"

	"github.com/lib/pq"
)

// Invitation represents a pending offer of organization membership. Role
// names are stored verbatim; they are resolved only at acceptance time, so
// a name may outlive the role it refers to.
type Invitation struct {
	ID        string         `gorm:"column:id;primaryKey"`
	OrgID     string         `gorm:"column:organization_id;not null"`
	Email     string         `gorm:"column:email;not null"`
	InviterID string         `gorm:"column:inviter_id"`
	Roles     pq.StringArray `gorm:"column:roles;type:text[]"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
}

func (Invitation) TableName() string {
	return "invitations"
}

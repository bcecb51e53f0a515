package model

import "time"

// PlatformUser mirrors the host platform's user directory. The core only
// ever reads it; account lifecycle belongs to the platform.
type PlatformUser struct {
	ID        string    `gorm:"column:id;primaryKey"`
	RealmID   string    `gorm:"column:realm_id;not null"`
	Username  string    `gorm:"column:username;not null"`
	Email     string    `gorm:"column:email"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (PlatformUser) TableName() string {
	return "platform_users"
}

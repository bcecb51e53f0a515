package directory

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/orgs-in-go/pkg/model"
	"github.com/doodlesbykumbi/orgs-in-go/pkg/store"
)

// Ensure GormDirectory implements UserDirectory
var _ UserDirectory = (*GormDirectory)(nil)

// GormDirectory reads the platform_users table
type GormDirectory struct {
	db *gorm.DB
}

// NewGormDirectory creates a GormDirectory
func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

// UserByID resolves a user by id within a realm
func (d *GormDirectory) UserByID(ctx context.Context, realmID, id string) (*User, error) {
	var user model.PlatformUser
	err := d.db.WithContext(ctx).Where("realm_id = ? AND id = ?", realmID, id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &store.NotFoundError{Kind: "user", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return toUser(user), nil
}

// UserByEmail resolves a user by primary email within a realm
func (d *GormDirectory) UserByEmail(ctx context.Context, realmID, email string) (*User, error) {
	var user model.PlatformUser
	err := d.db.WithContext(ctx).Where("realm_id = ? AND email = ?", realmID, email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &store.NotFoundError{Kind: "user", ID: email}
	}
	if err != nil {
		return nil, err
	}
	return toUser(user), nil
}

func toUser(user model.PlatformUser) *User {
	return &User{
		ID:       user.ID,
		RealmID:  user.RealmID,
		Username: user.Username,
		Email:    user.Email,
	}
}

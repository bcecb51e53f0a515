package directory

import (
	"context"
	"sync"

	"github.com/doodlesbykumbi/orgs-in-go/pkg/store"
)

// Ensure MemDirectory implements UserDirectory
var _ UserDirectory = (*MemDirectory)(nil)

// MemDirectory is an in-memory UserDirectory for tests and local
// development.
type MemDirectory struct {
	mu    sync.Mutex
	users map[string]User
}

// NewMemDirectory creates a MemDirectory
func NewMemDirectory() *MemDirectory {
	return &MemDirectory{users: map[string]User{}}
}

// AddUser registers a user
func (d *MemDirectory) AddUser(user User) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.users[user.ID] = user
}

// UserByID resolves a user by id within a realm
func (d *MemDirectory) UserByID(_ context.Context, realmID, id string) (*User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.users[id]
	if !ok || user.RealmID != realmID {
		return nil, &store.NotFoundError{Kind: "user", ID: id}
	}
	return &user, nil
}

// UserByEmail resolves a user by primary email within a realm
func (d *MemDirectory) UserByEmail(_ context.Context, realmID, email string) (*User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, user := range d.users {
		if user.RealmID == realmID && user.Email == email {
			return &user, nil
		}
	}
	return nil, &store.NotFoundError{Kind: "user", ID: email}
}

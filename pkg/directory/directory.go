// Package directory resolves users against the host platform's user
// directory. The core never creates or mutates users.
package directory

import "context"

// User is the handle the core needs from the platform: identity plus the
// primary email invitations are keyed on.
type User struct {
	ID       string
	RealmID  string
	Username string
	Email    string
}

// UserDirectory looks up users within a realm. Lookups may cross a network
// boundary, so both carry a context.
type UserDirectory interface {
	UserByID(ctx context.Context, realmID, id string) (*User, error)
	UserByEmail(ctx context.Context, realmID, email string) (*User, error)
}

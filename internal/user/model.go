package user

import (
	"context"
	"errors"
	"time"
)

// Role is the account type chosen at signup.
type Role string

const (
	RoleOwner Role = "owner"
	RoleBuyer Role = "buyer"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleBuyer
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // bcrypt hash, never returned
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

// Repository is the user store. Listings and enquiries reference users by id
// and only ever read name and email through it.
type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// FindByIDs returns the users that exist, keyed by id. Unknown ids are skipped.
	FindByIDs(ctx context.Context, ids []string) (map[string]*User, error)
	SetRole(ctx context.Context, email string, role Role) error
}

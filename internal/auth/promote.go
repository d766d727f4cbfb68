package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sudo-init-do/propnest/internal/user"
)

// Promote sets the role of the account registered under email.
func Promote(ctx context.Context, users user.Repository, email string, role user.Role) error {
	email = normalizeEmail(email)
	if email == "" {
		return errors.New("email required")
	}
	if !role.Valid() {
		return fmt.Errorf("unknown role %q", strings.TrimSpace(string(role)))
	}
	if err := users.SetRole(ctx, email, role); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return fmt.Errorf("no account for %s: %w", email, err)
		}
		return fmt.Errorf("set role: %w", err)
	}
	return nil
}

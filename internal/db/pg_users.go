package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sudo-init-do/propnest/internal/user"
)

const uniqueViolation = "23505"

// PostgresUsers stores accounts in the users table.
type PostgresUsers struct {
	pool *pgxpool.Pool
}

func NewPostgresUsers(pool *pgxpool.Pool) *PostgresUsers {
	return &PostgresUsers{pool: pool}
}

func (r *PostgresUsers) Create(ctx context.Context, u *user.User) error {
	id := uuid.New().String()
	err := r.pool.QueryRow(ctx, `
        INSERT INTO users (id, name, email, password, role)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at
    `, id, u.Name, u.Email, u.Password, string(u.Role)).Scan(&u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID = id
	return nil
}

func (r *PostgresUsers) scanOne(row pgx.Row) (*user.User, error) {
	var u user.User
	var role string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &role, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.Role = user.Role(role)
	return &u, nil
}

func (r *PostgresUsers) FindByID(ctx context.Context, id string) (*user.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, user.ErrNotFound
	}
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT id::text, name, email, password, role, created_at FROM users WHERE id = $1`, id))
}

func (r *PostgresUsers) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT id::text, name, email, password, role, created_at FROM users WHERE email = $1`, email))
}

func (r *PostgresUsers) FindByIDs(ctx context.Context, ids []string) (map[string]*user.User, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	out := make(map[string]*user.User, len(valid))
	if len(valid) == 0 {
		return out, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id::text, name, email, password, role, created_at FROM users WHERE id = ANY($1::uuid[])`, valid)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		u, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		out[u.ID] = u
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return out, nil
}

func (r *PostgresUsers) SetRole(ctx context.Context, email string, role user.Role) error {
	ct, err := r.pool.Exec(ctx, `UPDATE users SET role = $1 WHERE email = $2`, string(role), email)
	if err != nil {
		return fmt.Errorf("update user role: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

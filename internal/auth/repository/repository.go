package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bess_quote_backend/platform/apperr"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a Postgres-backed user repository.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const userColumns = `id, username, email, password_hash, full_name, role, department,
		phone, avatar, is_active, created_at, last_login_at`

func (r *postgresRepository) Create(ctx context.Context, user *User) error {
	const op = "auth.repository.Create"

	_, err := r.pool.Exec(ctx, `
		INSERT INTO bess_users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		user.ID, user.Username, user.Email, user.PasswordHash, user.FullName, user.Role,
		user.Department, user.Phone, user.Avatar, user.IsActive, user.CreatedAt, user.LastLoginAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperr.Conflict("user already exists").WithOp(op).WithCode("user_exists")
		}
		return apperr.Internal("failed to insert user", err).WithOp(op)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	const op = "auth.repository.GetByID"
	return r.getOne(ctx, op, `SELECT `+userColumns+` FROM bess_users WHERE id = $1`, id)
}

func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	const op = "auth.repository.GetByEmail"
	return r.getOne(ctx, op, `SELECT `+userColumns+` FROM bess_users WHERE email = $1`, email)
}

func (r *postgresRepository) getOne(ctx context.Context, op, query string, arg any) (*User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("user not found").WithOp(op).WithCode("user_not_found")
		}
		return nil, apperr.Internal("failed to get user", err).WithOp(op)
	}
	return user, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]User, error) {
	const op = "auth.repository.List"

	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM bess_users
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, apperr.Internal("failed to query users", err).WithOp(op)
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, apperr.Internal("failed to scan user", err).WithOp(op)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("failed to read users", err).WithOp(op)
	}
	return users, nil
}

func (r *postgresRepository) Update(ctx context.Context, user *User) error {
	const op = "auth.repository.Update"

	tag, err := r.pool.Exec(ctx, `
		UPDATE bess_users
		SET email = $2, full_name = $3, role = $4, department = $5, phone = $6,
			avatar = $7, is_active = $8
		WHERE id = $1
	`, user.ID, user.Email, user.FullName, user.Role, user.Department, user.Phone,
		user.Avatar, user.IsActive)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperr.Conflict("email already in use").WithOp(op).WithCode("user_exists")
		}
		return apperr.Internal("failed to update user", err).WithOp(op)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user not found").WithOp(op).WithCode("user_not_found")
	}
	return nil
}

func (r *postgresRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	const op = "auth.repository.UpdatePassword"
	return r.execOne(ctx, op, `UPDATE bess_users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
}

func (r *postgresRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	const op = "auth.repository.SetActive"
	return r.execOne(ctx, op, `UPDATE bess_users SET is_active = $2 WHERE id = $1`, id, active)
}

func (r *postgresRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	const op = "auth.repository.UpdateLastLogin"
	return r.execOne(ctx, op, `UPDATE bess_users SET last_login_at = $2 WHERE id = $1`, id, at)
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "auth.repository.Delete"
	return r.execOne(ctx, op, `DELETE FROM bess_users WHERE id = $1`, id)
}

func (r *postgresRepository) Count(ctx context.Context) (int, error) {
	const op = "auth.repository.Count"

	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM bess_users`).Scan(&count); err != nil {
		return 0, apperr.Internal("failed to count users", err).WithOp(op)
	}
	return count, nil
}

func (r *postgresRepository) execOne(ctx context.Context, op, query string, args ...any) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return apperr.Internal("user update failed", err).WithOp(op)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user not found").WithOp(op).WithCode("user_not_found")
	}
	return nil
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName, &u.Role,
		&u.Department, &u.Phone, &u.Avatar, &u.IsActive, &u.CreatedAt, &u.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

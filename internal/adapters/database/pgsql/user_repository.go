package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/campusbooks/school_admin_app/internal/apperrors"
	"github.com/campusbooks/school_admin_app/internal/core/domain"
	portsrepo "github.com/campusbooks/school_admin_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxUserRepository struct {
	pool *pgxpool.Pool
}

// NewPgxUserRepository creates a new repository for staff logins.
func NewPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{pool: pool}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const userColumns = `user_id, username, name, password_hash, role, created_at, created_by, last_updated_at, last_updated_by, deleted_at`

func scanUser(row pgx.Row, u *domain.User) error {
	return row.Scan(
		&u.UserID,
		&u.Username,
		&u.Name,
		&u.PasswordHash,
		&u.Role,
		&u.CreatedAt,
		&u.CreatedBy,
		&u.LastUpdatedAt,
		&u.LastUpdatedBy,
		&u.DeletedAt,
	)
}

// FindUserByID retrieves a staff login by id. Soft-deleted logins are excluded.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE user_id = $1 AND deleted_at IS NULL;`, userColumns)

	var u domain.User
	err := scanUser(r.pool.QueryRow(ctx, query, userID), &u)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user %s: %w", userID, err)
	}

	return &u, nil
}

// FindUserByUsername retrieves a staff login by username.
func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1 AND deleted_at IS NULL;`, userColumns)

	var u domain.User
	err := scanUser(r.pool.QueryRow(ctx, query, username), &u)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}

	return &u, nil
}

// ListUsers retrieves a limit/offset page of active staff logins.
func (r *PgxUserRepository) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE deleted_at IS NULL
		ORDER BY username ASC LIMIT $1 OFFSET $2;`, userColumns)

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var u domain.User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, nil
}

// SaveUser inserts a new staff login.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	query := `
		INSERT INTO users (user_id, username, name, password_hash, role, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		user.UserID,
		user.Username,
		user.Name,
		user.PasswordHash,
		user.Role,
		user.CreatedAt,
		user.CreatedBy,
		user.LastUpdatedAt,
		user.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to insert user %s: %w", user.UserID, err)
	}

	return nil
}

// UpdateUser persists the mutable login fields.
func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE users SET name = $2, role = $3, password_hash = $4, last_updated_at = $5, last_updated_by = $6
		WHERE user_id = $1 AND deleted_at IS NULL;`,
		user.UserID,
		user.Name,
		user.Role,
		user.PasswordHash,
		user.LastUpdatedAt,
		user.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", user.UserID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkUserDeleted soft-deletes a staff login.
func (r *PgxUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedBy string) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE users SET deleted_at = NOW(), last_updated_at = NOW(), last_updated_by = $2
		WHERE user_id = $1 AND deleted_at IS NULL;`, userID, deletedBy)
	if err != nil {
		return fmt.Errorf("failed to soft-delete user %s: %w", userID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/custodia-labs/identity-core/internal/core/domain"
	"github.com/custodia-labs/identity-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.UserStore = (*UserStore)(nil)

// pgUniqueViolation is the PostgreSQL error code for unique_violation
const pgUniqueViolation = "23505"

// UserStore implements driven.UserStore using PostgreSQL
type UserStore struct {
	db *DB
}

// NewUserStore creates a new UserStore
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = "id, email, password_hash, first_name, last_name, role, created_at, updated_at"

const saveUserQuery = `
	INSERT INTO users (id, email, password_hash, first_name, last_name, role, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (id) DO UPDATE SET
		email = EXCLUDED.email,
		password_hash = EXCLUDED.password_hash,
		first_name = EXCLUDED.first_name,
		last_name = EXCLUDED.last_name,
		role = EXCLUDED.role,
		updated_at = EXCLUDED.updated_at
`

// Save creates or updates a user. The email column carries a unique
// constraint, so two concurrent registrations for the same address
// cannot both succeed; the loser gets domain.ErrAlreadyExists.
func (s *UserStore) Save(ctx context.Context, user *domain.User) error {
	_, err := s.db.ExecContext(ctx, saveUserQuery,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		string(user.Role),
		user.CreatedAt,
		user.UpdatedAt,
	)
	return mapConstraintErr(err)
}

// SaveWithAudit persists the user and its audit entry in one transaction
func (s *UserStore) SaveWithAudit(ctx context.Context, user *domain.User, entry *domain.AuditEntry) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, saveUserQuery,
			user.ID,
			user.Email,
			user.PasswordHash,
			user.FirstName,
			user.LastName,
			string(user.Role),
			user.CreatedAt,
			user.UpdatedAt,
		)
		if err != nil {
			return mapConstraintErr(err)
		}
		return insertAuditEntry(ctx, tx, entry)
	})
}

// Get retrieves a user by ID
func (s *UserStore) Get(ctx context.Context, id string) (*domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1", userColumns)
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a user by email
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE email = $1", userColumns)
	return s.scanUser(s.db.QueryRowContext(ctx, query, email))
}

// ExistsByEmail reports whether a user with the email is registered
func (s *UserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", email,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// List retrieves all users, newest first
func (s *UserStore) List(ctx context.Context) ([]*domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users ORDER BY created_at DESC", userColumns)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var user domain.User
		err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.PasswordHash,
			&user.FirstName,
			&user.LastName,
			&user.Role,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// Delete removes a user and records the audit entry in the same transaction
func (s *UserStore) Delete(ctx context.Context, id string, entry *domain.AuditEntry) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
		if err != nil {
			return err
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rowsAffected == 0 {
			return domain.ErrNotFound
		}

		return insertAuditEntry(ctx, tx, entry)
	})
}

func (s *UserStore) scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// mapConstraintErr translates a unique_violation into domain.ErrAlreadyExists
func mapConstraintErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
		return domain.ErrAlreadyExists
	}
	return err
}

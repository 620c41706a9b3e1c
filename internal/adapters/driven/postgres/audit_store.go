package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/custodia-labs/identity-core/internal/core/domain"
	"github.com/custodia-labs/identity-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.AuditStore = (*AuditStore)(nil)

// AuditStore implements driven.AuditStore using PostgreSQL
type AuditStore struct {
	db *DB
}

// NewAuditStore creates a new AuditStore
func NewAuditStore(db *DB) *AuditStore {
	return &AuditStore{db: db}
}

// Record writes one audit entry
func (s *AuditStore) Record(ctx context.Context, entry *domain.AuditEntry) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		return insertAuditEntry(ctx, tx, entry)
	})
}

// ListByUser retrieves audit entries for a user, newest first
func (s *AuditStore) ListByUser(ctx context.Context, userID string) ([]*domain.AuditEntry, error) {
	query := `
		SELECT id, user_id, action, details, old_value, new_value, created_at
		FROM audit_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.AuditEntry
	for rows.Next() {
		var entry domain.AuditEntry
		var oldValue, newValue sql.NullString

		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Action,
			&entry.Details,
			&oldValue,
			&newValue,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		entry.OldValue = oldValue.String
		entry.NewValue = newValue.String
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// PurgeOlderThan deletes entries created before the cutoff
func (s *AuditStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM audit_logs WHERE created_at < $1", cutoff)
	if err != nil {
		return 0, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rowsAffected), nil
}

// insertAuditEntry writes an entry using the given transaction so callers
// can bundle it with the user mutation it describes
func insertAuditEntry(ctx context.Context, tx *sql.Tx, entry *domain.AuditEntry) error {
	if entry == nil {
		return nil
	}

	query := `
		INSERT INTO audit_logs (id, user_id, action, details, old_value, new_value, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := tx.ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		string(entry.Action),
		entry.Details,
		nullIfEmpty(entry.OldValue),
		nullIfEmpty(entry.NewValue),
		entry.CreatedAt,
	)
	return err
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

package domain

import "time"

// AuditAction identifies what kind of user action an audit entry records
type AuditAction string

const (
	AuditActionUserRegistered AuditAction = "user_registered"
	AuditActionUserLoggedIn   AuditAction = "user_logged_in"
	AuditActionUserUpdated    AuditAction = "user_updated"
	AuditActionUserDeleted    AuditAction = "user_deleted"
)

// AuditEntry records one user action for the audit trail
type AuditEntry struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Action    AuditAction `json:"action"`
	Details   string      `json:"details,omitempty"`
	OldValue  string      `json:"old_value,omitempty"`
	NewValue  string      `json:"new_value,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/identity-core/internal/core/domain"
	"github.com/custodia-labs/identity-core/internal/core/ports/driven"
	"github.com/custodia-labs/identity-core/internal/core/ports/driving"
)

// Ensure authService implements AuthService
var _ driving.AuthService = (*authService)(nil)

// authService implements the AuthService interface
type authService struct {
	userStore   driven.UserStore
	authAdapter driven.AuthAdapter
	taskQueue   driven.TaskQueue // optional, audit events are dropped without it
	logger      *slog.Logger
}

// NewAuthService creates a new AuthService. The task queue may be nil;
// audit events are then skipped rather than failing requests.
func NewAuthService(
	userStore driven.UserStore,
	authAdapter driven.AuthAdapter,
	taskQueue driven.TaskQueue,
	logger *slog.Logger,
) driving.AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &authService{
		userStore:   userStore,
		authAdapter: authAdapter,
		taskQueue:   taskQueue,
		logger:      logger,
	}
}

// Register creates a new USER-role account and issues its first token
func (s *authService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	return s.register(ctx, req, domain.RoleUser)
}

// RegisterAdmin creates an ADMIN-role account. The privileged gate lives
// at the request boundary; this method itself cannot be reached with a
// USER-role token through the HTTP adapter.
func (s *authService) RegisterAdmin(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	return s.register(ctx, req, domain.RoleAdmin)
}

func (s *authService) register(ctx context.Context, req domain.RegisterRequest, role domain.Role) (*domain.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	exists, err := s.userStore.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("existence check for %s: %w", email, err)
	}
	if exists {
		return nil, fmt.Errorf("email %s: %w", email, domain.ErrAlreadyExists)
	}

	passwordHash, err := s.authAdapter.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Two concurrent registrations can pass the existence check; the
	// store's uniqueness constraint resolves the race and surfaces here.
	if err := s.userStore.Save(ctx, user); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("email %s: %w", email, domain.ErrAlreadyExists)
		}
		return nil, err
	}

	s.recordAudit(ctx, user.ID, domain.AuditActionUserRegistered, "role="+string(role))

	return s.issueResponse(user)
}

// Login verifies credentials and issues a token
func (s *authService) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	// Unknown email and wrong password collapse into the same error so
	// responses cannot be used to enumerate registered identifiers.
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.authAdapter.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	s.recordAudit(ctx, user.ID, domain.AuditActionUserLoggedIn, "")

	return s.issueResponse(user)
}

// Authorize verifies a bearer token and checks the current role.
// The record is re-fetched so a demotion or deletion after issuance is
// honored even while the token is still cryptographically valid.
func (s *authService) Authorize(ctx context.Context, token string, required domain.Role) (*domain.AuthContext, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}

	subject, err := s.authAdapter.ExtractSubject(token)
	if err != nil {
		// Keep the cause in the chain so callers can distinguish an
		// expired token from a forged one.
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}

	user, err := s.userStore.GetByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	if !user.Role.Satisfies(required) {
		return nil, domain.ErrForbidden
	}

	return &domain.AuthContext{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}, nil
}

func (s *authService) issueResponse(user *domain.User) (*domain.AuthResponse, error) {
	token, err := s.authAdapter.IssueToken(user.Email, nil)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &domain.AuthResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: time.Now().Add(s.authAdapter.TokenTTL()),
		User:      user.ToSummary(),
	}, nil
}

// recordAudit enqueues an audit event for the background writer.
// Best effort: a queue failure is logged and never fails the request.
func (s *authService) recordAudit(ctx context.Context, userID string, action domain.AuditAction, details string) {
	if s.taskQueue == nil {
		return
	}

	entry := &domain.AuditEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Action:    action,
		Details:   details,
		CreatedAt: time.Now(),
	}

	task, err := domain.NewAuditTask(entry)
	if err != nil {
		s.logger.Error("failed to build audit task", "action", action, "error", err)
		return
	}

	if err := s.taskQueue.Enqueue(ctx, task); err != nil {
		s.logger.Error("failed to enqueue audit task", "action", action, "error", err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

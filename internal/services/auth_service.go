package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/hrms/internal/auth"
	"github.com/charlesng35/hrms/internal/models"
	"github.com/charlesng35/hrms/pkg/crypto"
	"github.com/charlesng35/hrms/pkg/logger"
	"github.com/charlesng35/hrms/pkg/metrics"
)

const (
	MinPasswordLength = 6
	// bcrypt ignores input beyond 72 bytes and newer releases reject it outright.
	maxPasswordBytes = 72
)

// RegisterInput carries the fields needed to create an organisation and its first admin.
type RegisterInput struct {
	OrgName   string
	AdminName string
	Email     string
	Password  string
}

// LoginInput carries user credentials.
type LoginInput struct {
	Email    string
	Password string
}

// UserSummary is the public view of a user joined with its organisation.
type UserSummary struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	OrganisationID   string `json:"organisationId"`
	OrganisationName string `json:"organisationName"`
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      UserSummary `json:"user"`
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithPasswordCost overrides the bcrypt cost used when hashing new passwords.
func WithPasswordCost(cost int) AuthOption {
	return func(s *AuthService) {
		if cost > 0 {
			s.passwordCost = cost
		}
	}
}

// AuthService registers organisations and authenticates their users.
type AuthService struct {
	db           *gorm.DB
	audit        *AuditService
	tokens       *auth.JWTService
	passwordCost int
}

// NewAuthService constructs an AuthService.
func NewAuthService(db *gorm.DB, audit *AuditService, tokens *auth.JWTService, opts ...AuthOption) (*AuthService, error) {
	if db == nil {
		return nil, errors.New("auth service: db is required")
	}
	if audit == nil {
		return nil, errors.New("auth service: audit service is required")
	}
	if tokens == nil {
		return nil, errors.New("auth service: jwt service is required")
	}
	svc := &AuthService{
		db:           db,
		audit:        audit,
		tokens:       tokens,
		passwordCost: crypto.DefaultPasswordCost,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Register creates an organisation and its admin user atomically and signs them in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (result *AuthResult, err error) {
	ctx = ensureContext(ctx)
	defer func() { observeAuthAttempt("register", err) }()

	orgName := strings.TrimSpace(input.OrgName)
	adminName := strings.TrimSpace(input.AdminName)
	email := normaliseEmail(input.Email)

	if orgName == "" || adminName == "" || email == "" || input.Password == "" {
		return nil, ErrValidation("All fields are required: orgName, adminName, email, password")
	}
	if utf8.RuneCountInString(input.Password) < MinPasswordLength {
		return nil, ErrValidation("Password must be at least 6 characters long")
	}
	if len(input.Password) > maxPasswordBytes {
		return nil, ErrValidation("Password must be at most 72 bytes long")
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("auth service: check email: %w", err)
	}
	if existing > 0 {
		return nil, ErrDuplicateEmail
	}

	hash, err := crypto.HashPasswordWithCost(input.Password, s.passwordCost)
	if err != nil {
		return nil, fmt.Errorf("auth service: hash password: %w", err)
	}

	org := models.Organisation{Name: orgName}
	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         adminName,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&org).Error; err != nil {
			return fmt.Errorf("create organisation: %w", err)
		}

		user.OrganisationID = org.ID
		if err := tx.Create(&user).Error; err != nil {
			if isUniqueConstraintError(err) {
				return ErrDuplicateEmail
			}
			return fmt.Errorf("create user: %w", err)
		}

		return s.audit.Record(ctx, tx, AuditEntry{
			OrganisationID: org.ID,
			UserID:         user.ID,
			Action:         ActionOrganisationCreated,
			Meta: map[string]any{
				"organisationId":   org.ID,
				"organisationName": org.Name,
			},
		})
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("auth service: register: %w", err)
	}

	return s.issue(UserSummary{
		ID:               user.ID,
		Name:             user.Name,
		Email:            user.Email,
		OrganisationID:   org.ID,
		OrganisationName: org.Name,
	})
}

// Login verifies credentials and returns a fresh token.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (result *AuthResult, err error) {
	ctx = ensureContext(ctx)
	defer func() { observeAuthAttempt("login", err) }()

	email := normaliseEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, ErrValidation("Email and password are required")
	}

	summary, hash, err := s.findUser(ctx, "users.email = ?", email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("auth service: load user: %w", err)
	}

	if !crypto.VerifyPassword(hash, input.Password) {
		return nil, ErrInvalidCredentials
	}

	if err := s.audit.Record(ctx, nil, AuditEntry{
		OrganisationID: summary.OrganisationID,
		UserID:         summary.ID,
		Action:         ActionUserLogin,
		Meta:           map[string]any{"email": summary.Email},
	}); err != nil {
		return nil, err
	}

	return s.issue(*summary)
}

// Logout records the sign-out. Tokens are stateless and stay valid until they expire.
func (s *AuthService) Logout(ctx context.Context) error {
	ctx = ensureContext(ctx)

	actor, err := actorFromContext(ctx)
	if err != nil {
		return err
	}

	return s.audit.Record(ctx, nil, AuditEntry{
		Action: ActionUserLogout,
		Meta:   map[string]any{"email": actor.Email},
	})
}

// CurrentUser returns the caller's profile with its organisation name.
func (s *AuthService) CurrentUser(ctx context.Context) (*UserSummary, error) {
	ctx = ensureContext(ctx)

	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	summary, _, err := s.findUser(ctx, "users.id = ? AND users.organisation_id = ?", actor.UserID, actor.OrganisationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("auth service: load user: %w", err)
	}
	return summary, nil
}

type userRow struct {
	ID               string
	Name             string
	Email            string
	PasswordHash     string
	OrganisationID   string
	OrganisationName string
}

func (s *AuthService) findUser(ctx context.Context, query string, args ...any) (*UserSummary, string, error) {
	var row userRow
	err := s.db.WithContext(ctx).
		Table("users").
		Select("users.id, users.name, users.email, users.password_hash, users.organisation_id, organisations.name AS organisation_name").
		Joins("JOIN organisations ON organisations.id = users.organisation_id").
		Where(query, args...).
		Take(&row).Error
	if err != nil {
		return nil, "", err
	}
	return &UserSummary{
		ID:               row.ID,
		Name:             row.Name,
		Email:            row.Email,
		OrganisationID:   row.OrganisationID,
		OrganisationName: row.OrganisationName,
	}, row.PasswordHash, nil
}

func (s *AuthService) issue(summary UserSummary) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.GenerateAccessToken(auth.Identity{
		UserID:         summary.ID,
		OrganisationID: summary.OrganisationID,
		Email:          summary.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("auth service: issue token: %w", err)
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: summary}, nil
}

func observeAuthAttempt(kind string, err error) {
	result := "success"
	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidCredentials):
		result = "invalid_credentials"
	case errors.Is(err, ErrDuplicateEmail):
		result = "duplicate"
	default:
		result = "failure"
		logger.WithModule("auth").Debug("authentication attempt failed", zap.String("kind", kind), zap.Error(err))
	}
	metrics.AuthAttempts.WithLabelValues(kind, result).Inc()
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/charlesng35/hrms/internal/models"
	"github.com/charlesng35/hrms/pkg/metrics"
)

// Audit action tags.
const (
	ActionOrganisationCreated = "organisation_created"
	ActionUserLogin           = "user_login"
	ActionUserLogout          = "user_logout"
	ActionEmployeeCreated     = "employee_created"
	ActionEmployeeUpdated     = "employee_updated"
	ActionEmployeeDeleted     = "employee_deleted"
	ActionTeamCreated         = "team_created"
	ActionTeamUpdated         = "team_updated"
	ActionTeamDeleted         = "team_deleted"
	ActionEmployeeAssigned    = "employee_assigned_to_team"
	ActionEmployeeUnassigned  = "employee_unassigned_from_team"
)

const (
	DefaultLogLimit = 100
	MaxLogLimit     = 1000
)

// AuditEntry captures a single audit event to persist. OrganisationID and UserID default to
// the actor on the context when left empty.
type AuditEntry struct {
	OrganisationID string
	UserID         string
	Action         string
	Meta           map[string]any
}

// LogQuery filters the organisation's audit trail.
type LogQuery struct {
	Limit  int
	Action string
}

// AuditOption customises an AuditService.
type AuditOption func(*AuditService)

// WithLogLimits overrides the default and maximum page size of List.
func WithLogLimits(defaultLimit, maxLimit int) AuditOption {
	return func(s *AuditService) {
		if defaultLimit > 0 {
			s.defaultLimit = defaultLimit
		}
		if maxLimit > 0 {
			s.maxLimit = maxLimit
		}
	}
}

// AuditService persists and retrieves audit log entries.
type AuditService struct {
	db           *gorm.DB
	defaultLimit int
	maxLimit     int
}

// NewAuditService constructs an AuditService using the provided database handle.
func NewAuditService(db *gorm.DB, opts ...AuditOption) (*AuditService, error) {
	if db == nil {
		return nil, errors.New("audit service: db is required")
	}
	svc := &AuditService{
		db:           db,
		defaultLimit: DefaultLogLimit,
		maxLimit:     MaxLogLimit,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.defaultLimit > svc.maxLimit {
		svc.defaultLimit = svc.maxLimit
	}
	return svc, nil
}

// Record appends an audit row. Pass the transaction of the surrounding mutation as tx so the
// row commits or rolls back with it; a nil tx writes through the service's own handle.
func (s *AuditService) Record(ctx context.Context, tx *gorm.DB, entry AuditEntry) error {
	ctx = ensureContext(ctx)

	action := strings.TrimSpace(entry.Action)
	if action == "" {
		return errors.New("audit service: action is required")
	}

	orgID, userID := entry.OrganisationID, entry.UserID
	if actor, err := actorFromContext(ctx); err == nil {
		if orgID == "" {
			orgID = actor.OrganisationID
		}
		if userID == "" {
			userID = actor.UserID
		}
	}

	record := models.Log{
		Action: action,
		Meta:   datatypes.JSONMap(entry.Meta),
	}
	if orgID != "" {
		record.OrganisationID = &orgID
	}
	if userID != "" {
		record.UserID = &userID
	}

	if tx == nil {
		tx = s.db
	}
	if err := tx.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("audit service: record %s: %w", action, err)
	}

	metrics.AuditEvents.WithLabelValues(action).Inc()
	return nil
}

// List returns the caller organisation's audit logs, newest first.
func (s *AuditService) List(ctx context.Context, query LogQuery) ([]models.Log, error) {
	ctx = ensureContext(ctx)

	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	limit := s.clampLimit(query.Limit)

	q := s.db.WithContext(ctx).
		Model(&models.Log{}).
		Where("organisation_id = ?", actor.OrganisationID)
	if action := strings.TrimSpace(query.Action); action != "" {
		q = q.Where("action = ?", action)
	}

	logs := make([]models.Log, 0)
	if err := q.Order("timestamp DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("audit service: list logs: %w", err)
	}
	return logs, nil
}

func (s *AuditService) clampLimit(limit int) int {
	if limit <= 0 {
		return s.defaultLimit
	}
	if limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}

// CleanupOlderThan removes audit rows older than the retention window across all organisations.
func (s *AuditService) CleanupOlderThan(ctx context.Context, retentionDays int) (int64, error) {
	ctx = ensureContext(ctx)
	if retentionDays <= 0 {
		return 0, nil
	}

	cutoff := s.db.NowFunc().AddDate(0, 0, -retentionDays)
	result := s.db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(&models.Log{})
	if result.Error != nil {
		return 0, fmt.Errorf("audit service: cleanup logs: %w", result.Error)
	}
	return result.RowsAffected, nil
}

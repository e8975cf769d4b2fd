package maintenance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/hrms/internal/models"
	"github.com/charlesng35/hrms/internal/monitoring"
	"github.com/charlesng35/hrms/internal/services"
	"github.com/charlesng35/hrms/pkg/logger"
	"github.com/charlesng35/hrms/pkg/metrics"
)

const (
	JobMetricsRefresh = "metrics_refresh"
	JobAuditRetention = "audit_retention"

	defaultMetricsSpec = "@every 1m"
	defaultAuditSpec   = "@daily"
)

// Scheduler runs background maintenance jobs: refreshing the tenant gauges and,
// when a retention window is configured, pruning old audit rows.
type Scheduler struct {
	db        *gorm.DB
	audit     *services.AuditService
	tracker   *monitoring.JobTracker
	cron      *cron.Cron
	log       *zap.Logger
	retention int

	metricsSchedule string
	auditSchedule   string
}

// Option customises the Scheduler.
type Option func(*Scheduler)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.cron = c
		}
	}
}

// WithTracker records job outcomes so health probes can report on them.
func WithTracker(tracker *monitoring.JobTracker) Option {
	return func(s *Scheduler) {
		s.tracker = tracker
	}
}

// WithMetricsSchedule overrides the cron specification for the gauge refresh.
func WithMetricsSchedule(spec string) Option {
	return func(s *Scheduler) {
		if spec != "" {
			s.metricsSchedule = spec
		}
	}
}

// WithAuditRetention enables audit pruning for rows older than days.
func WithAuditRetention(days int, spec string) Option {
	return func(s *Scheduler) {
		if days > 0 {
			s.retention = days
		}
		if spec != "" {
			s.auditSchedule = spec
		}
	}
}

// NewScheduler constructs a Scheduler. A nil audit service disables the retention job.
func NewScheduler(db *gorm.DB, audit *services.AuditService, opts ...Option) (*Scheduler, error) {
	if db == nil {
		return nil, errors.New("maintenance: db is required")
	}

	s := &Scheduler{
		db:              db,
		audit:           audit,
		metricsSchedule: defaultMetricsSpec,
		auditSchedule:   defaultAuditSpec,
		log:             logger.WithModule("maintenance"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.cron == nil {
		s.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}
	return s, nil
}

// Start registers the jobs with the cron scheduler and launches it.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.metricsSchedule, func() {
		_ = s.run(context.Background(), JobMetricsRefresh, s.refreshMetrics)
	}); err != nil {
		return fmt.Errorf("maintenance: schedule %s: %w", JobMetricsRefresh, err)
	}
	s.tracker.Register(JobMetricsRefresh, scheduleInterval(s.metricsSchedule))

	if s.retentionEnabled() {
		if _, err := s.cron.AddFunc(s.auditSchedule, func() {
			_ = s.run(context.Background(), JobAuditRetention, s.pruneAudit)
		}); err != nil {
			return fmt.Errorf("maintenance: schedule %s: %w", JobAuditRetention, err)
		}
		s.tracker.Register(JobAuditRetention, scheduleInterval(s.auditSchedule))
	}

	s.cron.Start()
	return nil
}

// scheduleInterval measures the gap between two consecutive activations of spec.
// Zero is returned for specs cron cannot parse.
func scheduleInterval(spec string) time.Duration {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return 0
	}
	next := schedule.Next(time.Now())
	return schedule.Next(next).Sub(next)
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (s *Scheduler) Stop() context.Context {
	if s.cron == nil {
		return context.Background()
	}
	return s.cron.Stop()
}

// RunOnce executes every configured job sequentially and aggregates failures.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	errs := s.run(ctx, JobMetricsRefresh, s.refreshMetrics)
	if s.retentionEnabled() {
		errs = multierr.Append(errs, s.run(ctx, JobAuditRetention, s.pruneAudit))
	}
	return errs
}

func (s *Scheduler) retentionEnabled() bool {
	return s.audit != nil && s.retention > 0
}

func (s *Scheduler) run(ctx context.Context, job string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	s.tracker.RecordRun(job, err, time.Since(start))
	if err != nil {
		s.log.Warn("maintenance job failed", zap.String("job", job), zap.Error(err))
		return fmt.Errorf("%s: %w", job, err)
	}
	return nil
}

// TenantCounts summarises row counts across all organisations.
type TenantCounts struct {
	Organisations int64
	Employees     int64
	Teams         int64
}

// CountTenants reads the row counts exported as gauges.
func CountTenants(ctx context.Context, db *gorm.DB) (TenantCounts, error) {
	if db == nil {
		return TenantCounts{}, errors.New("count tenants: db is required")
	}

	var counts TenantCounts
	if err := db.WithContext(ctx).Model(&models.Organisation{}).Count(&counts.Organisations).Error; err != nil {
		return counts, fmt.Errorf("count tenants: organisations: %w", err)
	}
	if err := db.WithContext(ctx).Model(&models.Employee{}).Count(&counts.Employees).Error; err != nil {
		return counts, fmt.Errorf("count tenants: employees: %w", err)
	}
	if err := db.WithContext(ctx).Model(&models.Team{}).Count(&counts.Teams).Error; err != nil {
		return counts, fmt.Errorf("count tenants: teams: %w", err)
	}
	return counts, nil
}

func (s *Scheduler) refreshMetrics(ctx context.Context) error {
	counts, err := CountTenants(ctx, s.db)
	if err != nil {
		return err
	}
	metrics.Organisations.Set(float64(counts.Organisations))
	metrics.Employees.Set(float64(counts.Employees))
	metrics.Teams.Set(float64(counts.Teams))
	return nil
}

func (s *Scheduler) pruneAudit(ctx context.Context) error {
	removed, err := s.audit.CleanupOlderThan(ctx, s.retention)
	if err != nil {
		return err
	}
	if removed > 0 {
		s.log.Info("pruned audit logs", zap.Int64("removed", removed), zap.Int("retention_days", s.retention))
	}
	return nil
}

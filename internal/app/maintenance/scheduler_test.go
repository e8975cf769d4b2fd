package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/require"

	dbtestutil "github.com/charlesng35/hrms/internal/database/testutil"
	"github.com/charlesng35/hrms/internal/models"
	"github.com/charlesng35/hrms/internal/monitoring"
	"github.com/charlesng35/hrms/internal/services"
	"github.com/charlesng35/hrms/pkg/metrics"
)

func TestCountTenants(t *testing.T) {
	db := dbtestutil.MustOpenTestDB(t, dbtestutil.WithDemoData())

	counts, err := CountTenants(context.Background(), db)
	require.NoError(t, err)
	require.EqualValues(t, 1, counts.Organisations)
	require.EqualValues(t, 5, counts.Employees)
	require.EqualValues(t, 3, counts.Teams)

	_, err = CountTenants(context.Background(), nil)
	require.Error(t, err)
}

func TestSchedulerRunOnce(t *testing.T) {
	db := dbtestutil.MustOpenTestDB(t, dbtestutil.WithDemoData())
	audit, err := services.NewAuditService(db)
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.Log{Action: "ancient", Timestamp: time.Now().UTC().AddDate(-1, 0, 0)}).Error)

	tracker := monitoring.NewJobTracker()
	scheduler, err := NewScheduler(db, audit, WithTracker(tracker), WithAuditRetention(30, ""))
	require.NoError(t, err)

	require.NoError(t, scheduler.RunOnce(context.Background()))

	require.Equal(t, float64(5), testutil.ToFloat64(metrics.Employees))
	require.Equal(t, float64(3), testutil.ToFloat64(metrics.Teams))
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.Organisations))

	var remaining int64
	require.NoError(t, db.Model(&models.Log{}).Where("action = ?", "ancient").Count(&remaining).Error)
	require.Zero(t, remaining)

	jobs := tracker.Snapshot()
	require.Len(t, jobs, 2)
	require.Equal(t, JobAuditRetention, jobs[0].Job)
	require.Equal(t, JobMetricsRefresh, jobs[1].Job)
	for _, job := range jobs {
		require.Equal(t, "success", job.LastStatus)
	}
}

func TestSchedulerRunOnceReportsFailures(t *testing.T) {
	db := dbtestutil.MustOpenTestDB(t)

	tracker := monitoring.NewJobTracker()
	scheduler, err := NewScheduler(db, nil, WithTracker(tracker))
	require.NoError(t, err)

	err = scheduler.RunOnce(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), JobMetricsRefresh)

	jobs := tracker.Snapshot()
	require.Len(t, jobs, 1)
	require.EqualValues(t, 1, jobs[0].ConsecutiveFailures)
}

func TestSchedulerStartRegistersJobs(t *testing.T) {
	db := dbtestutil.MustOpenTestDB(t, dbtestutil.WithAutoMigrate())
	audit, err := services.NewAuditService(db)
	require.NoError(t, err)

	c := cron.New(cron.WithLogger(cron.DiscardLogger))
	tracker := monitoring.NewJobTracker()
	scheduler, err := NewScheduler(db, audit,
		WithCron(c),
		WithTracker(tracker),
		WithMetricsSchedule("@every 1h"),
		WithAuditRetention(7, "@every 2h"),
	)
	require.NoError(t, err)

	require.NoError(t, scheduler.Start())
	t.Cleanup(func() { <-scheduler.Stop().Done() })

	require.Len(t, c.Entries(), 2)

	jobs := tracker.Snapshot()
	require.Len(t, jobs, 2)
	require.Equal(t, JobAuditRetention, jobs[0].Job)
	require.Equal(t, 2*time.Hour, jobs[0].Interval)
	require.Equal(t, JobMetricsRefresh, jobs[1].Job)
	require.Equal(t, time.Hour, jobs[1].Interval)
}

func TestScheduleInterval(t *testing.T) {
	require.Equal(t, 24*time.Hour, scheduleInterval("@daily"))
	require.Equal(t, 5*time.Minute, scheduleInterval("*/5 * * * *"))
	require.Zero(t, scheduleInterval("nonsense"))
}

func TestSchedulerRejectsBadSchedule(t *testing.T) {
	db := dbtestutil.MustOpenTestDB(t, dbtestutil.WithAutoMigrate())

	scheduler, err := NewScheduler(db, nil, WithMetricsSchedule("not a schedule"))
	require.NoError(t, err)
	require.Error(t, scheduler.Start())

	_, err = NewScheduler(nil, nil)
	require.Error(t, err)
}

package monitoring

import (
	"sort"
	"sync"
	"time"

	"github.com/charlesng35/hrms/pkg/metrics"
)

// JobSummary describes the recent history of a background job.
type JobSummary struct {
	Job                 string        `json:"job"`
	LastStatus          string        `json:"lastStatus"`
	LastRunAt           time.Time     `json:"lastRunAt"`
	LastDuration        time.Duration `json:"lastDuration"`
	LastError           string        `json:"lastError,omitempty"`
	Interval            time.Duration `json:"interval,omitempty"`
	ConsecutiveFailures uint64        `json:"consecutiveFailures"`
	TotalRuns           uint64        `json:"totalRuns"`
}

// JobTracker records maintenance job outcomes for health probes and metrics.
type JobTracker struct {
	mu   sync.RWMutex
	jobs map[string]*JobSummary
	now  func() time.Time
}

// NewJobTracker constructs an empty tracker.
func NewJobTracker() *JobTracker {
	return &JobTracker{jobs: make(map[string]*JobSummary), now: time.Now}
}

// RecordRun stores the outcome of one run of job.
func (t *JobTracker) RecordRun(job string, err error, duration time.Duration) {
	if t == nil || job == "" {
		return
	}
	if duration < 0 {
		duration = 0
	}

	result := "success"
	if err != nil {
		result = "failure"
	}
	metrics.MaintenanceRuns.WithLabelValues(job, result).Inc()
	metrics.MaintenanceDuration.WithLabelValues(job).Observe(duration.Seconds())

	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.jobs[job]
	if !ok {
		entry = &JobSummary{Job: job}
		t.jobs[job] = entry
	}
	entry.LastStatus = result
	entry.LastRunAt = t.now()
	entry.LastDuration = duration
	entry.TotalRuns++
	if err != nil {
		entry.LastError = err.Error()
		entry.ConsecutiveFailures++
	} else {
		entry.LastError = ""
		entry.ConsecutiveFailures = 0
	}
}

// Register makes the job known before its first run. interval is the expected gap between
// runs; zero leaves staleness to the probe's default window.
func (t *JobTracker) Register(job string, interval time.Duration) {
	if t == nil || job == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.jobs[job]
	if !ok {
		entry = &JobSummary{Job: job}
		t.jobs[job] = entry
	}
	entry.Interval = interval
}

// Snapshot returns a copy of every job summary sorted by name.
func (t *JobTracker) Snapshot() []JobSummary {
	if t == nil {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]JobSummary, 0, len(t.jobs))
	for _, entry := range t.jobs {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Job < out[j].Job })
	return out
}

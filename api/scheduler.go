/*
scheduler.go - Automated periodic pipeline runs

PURPOSE:
  Periodically fires a scheduling pipeline run for a configured office,
  so assignments are recomputed on a cadence instead of only on manual
  trigger. This adapts the teacher's ReconciliationScheduler ticker
  pattern to the scheduling pipeline's single Run entry point.

CONFIGURATION:
  - CheckInterval: how often to run (default: 1 hour)
  - Enabled: whether the scheduler is active (default: true)
  - WeekStartFunc: computes the target week_start for each tick; defaults
    to "the Monday on or before now"

USAGE:
  scheduler := NewRunScheduler(dp, runs, "STL", logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: CreateRun (manual trigger)
  - pipeline/pipeline.go: Run
*/
package api

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aininja-pro/media-scheduler/domain"
	"github.com/aininja-pro/media-scheduler/pipeline"
	"github.com/aininja-pro/media-scheduler/provider"
)

// RunScheduler fires a pipeline.Run for a single office on a fixed
// interval and records the result in a RunStore.
type RunScheduler struct {
	DataProvider  provider.DataProvider
	Runs          *RunStore
	Office        string
	CheckInterval time.Duration
	Enabled       bool
	ConfigFor     func(office string, weekStart domain.Date) pipeline.Config
	WeekStartFunc func(now time.Time) domain.Date
	Logger        *zap.SugaredLogger

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewRunScheduler creates a new scheduler for office, using
// pipeline.DefaultConfig and a Monday-aligned week_start by default.
func NewRunScheduler(dp provider.DataProvider, runs *RunStore, office string, logger *zap.SugaredLogger) *RunScheduler {
	return &RunScheduler{
		DataProvider:  dp,
		Runs:          runs,
		Office:        office,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		ConfigFor:     pipeline.DefaultConfig,
		WeekStartFunc: mostRecentMonday,
		Logger:        logger,
		stop:          make(chan struct{}),
	}
}

// Start begins the scheduler's background goroutine.
func (rs *RunScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled {
		rs.Logger.Infow("scheduler disabled, not starting")
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.wg.Add(1)
	go rs.run()

	rs.Logger.Infow("scheduler started", "office", rs.Office, "check_interval", rs.CheckInterval)
}

// Stop halts the scheduler and waits for the in-flight tick, if any, to finish.
func (rs *RunScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		rs.Logger.Infow("scheduler stopped", "office", rs.Office)
	}
}

func (rs *RunScheduler) run() {
	defer rs.wg.Done()

	rs.tick()
	for {
		select {
		case <-rs.ticker.C:
			rs.tick()
		case <-rs.stop:
			return
		}
	}
}

func (rs *RunScheduler) tick() {
	ctx := context.Background()
	weekStart := rs.WeekStartFunc(time.Now())

	cfg := rs.ConfigFor(rs.Office, weekStart)
	result, err := pipeline.Run(ctx, rs.DataProvider, cfg)
	if err != nil {
		rs.Logger.Errorw("scheduled run failed", "office", rs.Office, "week_start", weekStart.String(), "error", err)
		return
	}

	rs.Runs.Put(result)
	rs.Logger.Infow("scheduled run completed",
		"run_id", result.RunID, "office", rs.Office, "week_start", weekStart.String(),
		"candidates_admitted", result.Stats.CandidatesAdmitted, "candidates_considered", result.Stats.CandidatesConsidered)
}

// RunNow triggers an immediate tick (for testing/admin use).
func (rs *RunScheduler) RunNow() { rs.tick() }

// mostRecentMonday returns the Date of the Monday on or before now, in UTC.
func mostRecentMonday(now time.Time) domain.Date {
	now = now.UTC()
	offset := int(now.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	d := domain.NewDate(now.Year(), now.Month(), now.Day())
	return d.AddDays(-offset)
}

// Package scheduler runs catalog reconciliation on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/boushrabettir/ginder-backend/internal/crawler"
	"github.com/boushrabettir/ginder-backend/pkg/log"
	"github.com/robfig/cron/v3"
)

type Reconciler interface {
	ReconcileCatalog(ctx context.Context, token string) (*crawler.SyncReport, error)
}

type Scheduler struct {
	Logger     log.Logger
	reconciler Reconciler
	token      string
	timeout    time.Duration
	cron       *cron.Cron
	entryID    cron.EntryID
}

// NewScheduler registers one reconciliation job; overlapping runs are skipped.
func NewScheduler(logger log.Logger, reconciler Reconciler, schedule, token string, timeout time.Duration) (*Scheduler, error) {
	s := &Scheduler{
		Logger:     logger,
		reconciler: reconciler,
		token:      token,
		timeout:    timeout,
		cron:       cron.New(cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger))),
	}

	id, err := s.cron.AddFunc(schedule, s.runOnce)
	if err != nil {
		return nil, fmt.Errorf("invalid sync schedule %q: %w", schedule, err)
	}
	s.entryID = id
	return s, nil
}

func (s *Scheduler) Start(ctx context.Context) {
	s.cron.Start()
	s.Logger.Info(ctx, "Sync scheduler started, next run at %s", s.Next().Format(time.RFC1123))
}

// Stop waits for a running job to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
	s.Logger.Info(ctx, "Sync scheduler stopped")
}

func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entryID).Next
}

func (s *Scheduler) runOnce() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	report, err := s.reconciler.ReconcileCatalog(ctx, s.token)
	if err != nil {
		s.Logger.Error(ctx, "Scheduled sync finished with errors: %v", err)
	}
	if report != nil {
		s.Logger.Info(ctx, "Scheduled sync took %v: checked=%d updated=%d deleted=%d failed=%d",
			time.Since(started).Round(time.Millisecond), report.Checked, report.Updated, report.Deleted, report.Failed)
	}
}

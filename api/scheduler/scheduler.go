package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sajhasahayog/relief-api/models"
	"github.com/sajhasahayog/relief-api/notify"
)

// OverdueLister finds rehab cases past their target date
type OverdueLister interface {
	Overdue(ctx context.Context, now time.Time) ([]models.RehabCase, error)
}

// Scheduler runs the periodic overdue rehab digest
type Scheduler struct {
	cron   *cron.Cron
	Cases  OverdueLister
	Mailer notify.Mailer
	To     string
	Now    func() time.Time
}

// NewScheduler creates a new scheduler instance in UTC
func NewScheduler(cases OverdueLister, mailer notify.Mailer, to string) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		Cases:  cases,
		Mailer: mailer,
		To:     to,
	}
}

// Start registers the digest job on the cron spec and starts the scheduler
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.sendOverdueDigest); err != nil {
		return err
	}
	s.cron.Start()
	zap.S().Infow("Rehab digest scheduler started", "schedule", spec, "to", s.To)
	return nil
}

// Stop waits for a running job and stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Rehab digest scheduler stopped")
}

func (s *Scheduler) sendOverdueDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := s.RunDigest(ctx); err != nil {
		zap.S().Errorw("failed to send overdue rehab digest", "error", err)
	}
}

// RunDigest emails every overdue case. Nothing is sent when no case is overdue.
func (s *Scheduler) RunDigest(ctx context.Context) error {
	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now()
	}
	cases, err := s.Cases.Overdue(ctx, now)
	if err != nil {
		return err
	}
	zap.S().Infow("Running overdue rehab digest", "overdue", len(cases))
	return notify.SendDigest(ctx, s.Mailer, s.To, cases)
}

package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler rebuilds the catalog snapshot on a fixed interval so price
// changes in the CSV exports reach the API without a restart.
type Scheduler struct {
	cron    *cron.Cron
	service *Service
	log     *slog.Logger
}

// NewScheduler creates a Scheduler that refreshes the service's snapshot
// every refreshInterval.
func NewScheduler(svc *Service, refreshInterval time.Duration, log *slog.Logger) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:    c,
		service: svc,
		log:     log,
	}

	if _, err := c.AddFunc("@every "+refreshInterval.String(), s.runRefresh); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins running scheduled refreshes.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
}

// Stop gracefully stops the scheduler, waiting for a running refresh to
// finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) runRefresh() {
	ctx := context.Background()
	s.log.Info("scheduled catalog refresh starting")
	if err := s.service.Refresh(ctx); err != nil {
		s.log.Error("scheduled catalog refresh failed", "error", err)
	}
}

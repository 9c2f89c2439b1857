package cronjob

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/todo-service/internal/metrics"
	"github.com/GoSim-25-26J-441/todo-service/internal/todos/domain"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const refreshTimeout = 5 * time.Second

type Counter interface {
	Count(ctx context.Context) (domain.Counts, error)
}

// Scheduler periodically refreshes the item gauges from the store.
type Scheduler struct {
	cron    *cron.Cron
	store   Counter
	metrics *metrics.Collector
	log     *zap.Logger
}

func NewScheduler(store Counter, m *metrics.Collector, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		cron:    cron.New(),
		store:   store,
		metrics: m,
		log:     log.Named("cron"),
	}
}

// Start registers the refresh job on schedule and starts the cron runner.
// An empty or "off" schedule leaves the scheduler idle.
func (s *Scheduler) Start(schedule string) error {
	if schedule == "" || strings.EqualFold(schedule, "off") {
		s.log.Info("item stats refresh disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(schedule, s.runRefresh); err != nil {
		return fmt.Errorf("schedule item stats %q: %w", schedule, err)
	}

	s.cron.Start()
	s.log.Info("cron scheduler started", zap.String("schedule", schedule))
	return nil
}

// Stop halts the runner; the returned context is done once a running job finishes.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// Refresh reads the current counts and publishes them as gauges.
func (s *Scheduler) Refresh(ctx context.Context) (domain.Counts, error) {
	c, err := s.store.Count(ctx)
	if err != nil {
		return domain.Counts{}, err
	}
	s.metrics.SetItemCounts(c.Done, c.Open())
	return c, nil
}

func (s *Scheduler) runRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	c, err := s.Refresh(ctx)
	if err != nil {
		s.metrics.IncStoreError("count")
		s.log.Warn("item stats refresh failed", zap.Error(err))
		return
	}
	s.log.Debug("item stats refreshed", zap.Int("total", c.Total), zap.Int("done", c.Done))
}

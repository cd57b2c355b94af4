// Package scheduler runs periodic ratings refresh and retraining jobs.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside-totals/internal/service"
)

// Scheduler manages scheduled ingestion and retraining jobs
type Scheduler struct {
	cron         *cron.Cron
	ingestionSvc *service.IngestionService
	logger       *logrus.Logger
	mu           sync.RWMutex
	isRunning    bool
	jobIDs       []cron.EntryID
}

// NewScheduler creates a new scheduler
func NewScheduler(ingestionSvc *service.IngestionService, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Scheduler{
		cron:         cron.New(cron.WithLocation(time.UTC)),
		ingestionSvc: ingestionSvc,
		logger:       logger,
		jobIDs:       make([]cron.EntryID, 0),
	}
}

// ScheduleRatingsRefresh schedules periodic re-ingestion of the ratings table
func (s *Scheduler) ScheduleRatingsRefresh(cronExpression string, season int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		if _, err := s.ingestionSvc.IngestSeason(ctx, season); err != nil {
			s.logger.WithError(err).Error("Scheduled ratings refresh failed")
		}
	}

	id, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", cronExpression, err)
	}
	s.jobIDs = append(s.jobIDs, id)
	return nil
}

// ScheduleRetraining schedules a periodic retraining callback
func (s *Scheduler) ScheduleRetraining(cronExpression string, retrain func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
		defer cancel()

		if err := retrain(ctx); err != nil {
			s.logger.WithError(err).Error("Scheduled retraining failed")
		}
	}

	id, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", cronExpression, err)
	}
	s.jobIDs = append(s.jobIDs, id)
	return nil
}

// Start begins executing scheduled jobs
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return
	}
	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")
}

// Stop halts job execution and waits for running jobs to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")
}

package scheduler

import (
	"context"

	"go-helpdesk/internal/config"
	"go-helpdesk/internal/features/ticket"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs the periodic SLA escalation sweep.
type Scheduler struct {
	cron       *cron.Cron
	config     *config.Config
	escalation ticket.EscalationService
	logger     *zap.Logger
}

func NewScheduler(cfg *config.Config, escalation ticket.EscalationService, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		config:     cfg,
		escalation: escalation,
		logger:     logger,
	}
}

// Start registers the escalation sweep and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.config.EscalationSweepSpec, func() {
		if _, err := s.escalation.ProcessOverdue(context.Background(), s.config.EscalationSweepLimit); err != nil {
			s.logger.Error("SLA escalation sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started",
		zap.String("escalation_sweep", s.config.EscalationSweepSpec))
	return nil
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop(ctx context.Context) error {
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package cronjob

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/failure_analysis/service"
	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/logging"
)

// RunFunc is the job the scheduler fires; service.Run in production.
type RunFunc func(ctx context.Context, opts service.Options) (*service.RunResult, error)

// Scheduler runs the analysis pipeline on a cron spec with a seconds field,
// e.g. "0 0 0 * * *" for every midnight.
type Scheduler struct {
	spec string
	opts service.Options
	run  RunFunc

	mu   sync.Mutex
	cron *cron.Cron
}

func NewScheduler(spec string, opts service.Options) *Scheduler {
	return &Scheduler{spec: spec, opts: opts, run: service.Run}
}

// Start registers the job and starts the cron loop. An invalid spec is an error.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(s.spec, func() { s.runOnce(ctx) }); err != nil {
		return fmt.Errorf("failed to create cron job %q: %w", s.spec, err)
	}

	logging.New("scheduler").Info("cron scheduler started", "spec", s.spec)
	c.Start()
	s.cron = c
	return nil
}

// Stop halts the loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	log := logging.FromContext(logging.WithRequestID(ctx, "cron"), "scheduler")
	log.Info("run", "scheduled analysis started")

	res, err := s.run(ctx, s.opts)
	if err != nil {
		log.Error("run", err)
		return
	}
	if res.Path == "" {
		log.Info("run", "scheduled analysis found no failures")
		return
	}
	log.Infof("run", "scheduled analysis wrote %s", res.Path)
}

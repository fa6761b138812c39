package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Job is a unit of periodic background work.
type Job interface {
	Name() string
	Execute(ctx context.Context) error
}

// Scheduler runs registered jobs on fixed intervals until stopped.
type Scheduler struct {
	jobs    map[string]*scheduledJob
	mu      sync.RWMutex
	logger  *slog.Logger
	timeout time.Duration
	running bool
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

type scheduledJob struct {
	job      Job
	interval time.Duration
}

// NewScheduler creates a scheduler whose job runs are bounded by timeout.
func NewScheduler(logger *slog.Logger, timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		jobs:    make(map[string]*scheduledJob),
		logger:  logger,
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// AddJob registers job to run every interval. Jobs added after Start are not picked up.
func (s *Scheduler) AddJob(job Job, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs[job.Name()] = &scheduledJob{job: job, interval: interval}
}

// Start launches one goroutine per job.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	jobs := make([]*scheduledJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job)
	}
	s.mu.Unlock()

	for _, scheduled := range jobs {
		s.wg.Add(1)
		go s.runJob(scheduled)
	}

	s.logger.Info("job scheduler started", slog.Int("jobs", len(jobs)))
}

func (s *Scheduler) runJob(scheduled *scheduledJob) {
	defer s.wg.Done()

	ticker := time.NewTicker(scheduled.interval)
	defer ticker.Stop()

	s.logger.Info("starting job",
		slog.String("name", scheduled.job.Name()),
		slog.Duration("interval", scheduled.interval),
	)

	for {
		select {
		case <-ticker.C:
			s.executeJob(scheduled.job)
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeJob(job Job) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("job panic", slog.String("name", job.Name()), slog.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	start := time.Now()
	if err := job.Execute(ctx); err != nil {
		s.logger.Error("job execution failed",
			slog.String("name", job.Name()),
			slog.String("error", err.Error()),
			slog.Duration("duration", time.Since(start)),
		)
		return
	}
	s.logger.Debug("job completed", slog.String("name", job.Name()), slog.Duration("duration", time.Since(start)))
}

// Stop cancels all running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	s.logger.Info("job scheduler stopped")
}

// RunOnce executes a registered job immediately.
func (s *Scheduler) RunOnce(ctx context.Context, name string) error {
	s.mu.RLock()
	scheduled, exists := s.jobs[name]
	s.mu.RUnlock()

	if !exists {
		return fmt.Errorf("job not found: %s", name)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return scheduled.job.Execute(ctx)
}

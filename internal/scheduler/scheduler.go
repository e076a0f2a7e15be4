// Package scheduler runs the named background tasks configured under
// scheduler.tasks on cron schedules.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/edgard/nutriplan/internal/config"
)

// ErrStopped is returned by Start once the scheduler has been stopped.
var ErrStopped = errors.New("scheduler has been stopped")

// TaskFunc is the signature of every scheduled task. The context is
// cancelled when the scheduler stops.
type TaskFunc func(ctx context.Context) error

// Scheduler manages scheduled tasks using the gocron library.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
	cfg       *config.SchedulerConfig
	taskMap   map[string]TaskFunc

	mu      sync.Mutex
	running bool
	stopped bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates a scheduler for the tasks in taskMap. Jobs are registered by
// Start. A Scheduler runs once: after Stop it cannot be started again.
func New(logger *slog.Logger, cfg *config.SchedulerConfig, taskMap map[string]TaskFunc) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "scheduler")

	s, err := gocron.NewScheduler(gocron.WithLogger(newGocronLogger(log)))
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		scheduler: s,
		logger:    log,
		cfg:       cfg,
		taskMap:   taskMap,
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// Start schedules every enabled task and starts the scheduler. Tasks that are
// disabled, unknown, unscheduled or carry an invalid cron expression are
// skipped with a log line.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("scheduler is already running")
	}
	if s.stopped {
		return ErrStopped
	}

	scheduled := 0
	if s.cfg == nil || len(s.cfg.Tasks) == 0 {
		s.logger.Warn("No scheduler tasks configured.")
	}
	if s.cfg != nil {
		for name, taskCfg := range s.cfg.Tasks {
			if !taskCfg.Enabled {
				s.logger.Info("Skipping disabled task", "task_name", name)
				continue
			}
			fn, ok := s.taskMap[name]
			if !ok {
				s.logger.Warn("Scheduled task configured but not found in registry, skipping", "task_name", name)
				continue
			}
			if taskCfg.Schedule == "" {
				s.logger.Warn("Scheduled task enabled but has empty schedule, skipping", "task_name", name)
				continue
			}

			_, err := s.scheduler.NewJob(
				gocron.CronJob(taskCfg.Schedule, true),
				gocron.NewTask(func() { s.run(name, fn) }),
				gocron.WithName(name),
				gocron.WithSingletonMode(gocron.LimitModeReschedule),
			)
			if err != nil {
				s.logger.Error("Failed to schedule task", "task_name", name, "schedule", taskCfg.Schedule, "error", err)
				continue
			}
			s.logger.Info("Scheduled task", "task_name", name, "schedule", taskCfg.Schedule)
			scheduled++
		}
	}

	s.scheduler.Start()
	s.running = true
	s.logger.Info("Scheduler started", "tasks_scheduled", scheduled)
	return nil
}

// Stop cancels the task context and waits for running jobs to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	s.cancel()
	err := s.scheduler.Shutdown()
	if err != nil {
		s.logger.Error("Error during scheduler shutdown", "error", err)
	} else {
		s.logger.Info("Scheduler stopped gracefully.")
	}
	s.running = false
	s.stopped = true
	return err
}

// Run starts the scheduler, blocks until ctx is done and stops it.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	return s.Stop()
}

// JobNames returns the names of the registered jobs.
func (s *Scheduler) JobNames() []string {
	jobs := s.scheduler.Jobs()
	names := make([]string, 0, len(jobs))
	for _, j := range jobs {
		names = append(names, j.Name())
	}
	return names
}

func (s *Scheduler) run(name string, fn TaskFunc) {
	s.logger.Info("Running scheduled task", "task_name", name)
	start := time.Now()
	if err := fn(s.ctx); err != nil {
		s.logger.Error("Scheduled task failed", "task_name", name, "error", err)
	}
	s.logger.Info("Finished scheduled task", "task_name", name, "duration", time.Since(start))
}

// gocronLogger forwards gocron's internal logging to slog.
type gocronLogger struct {
	log *slog.Logger
}

func newGocronLogger(log *slog.Logger) gocron.Logger {
	return &gocronLogger{log: log.With("source", "gocron")}
}

func (l *gocronLogger) Debug(msg string, args ...any) { l.log.Debug(msg, args...) }
func (l *gocronLogger) Info(msg string, args ...any)  { l.log.Info(msg, args...) }
func (l *gocronLogger) Warn(msg string, args ...any)  { l.log.Warn(msg, args...) }
func (l *gocronLogger) Error(msg string, args ...any) { l.log.Error(msg, args...) }

package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Task is a unit of periodic work
type Task interface {
	Run(ctx context.Context) error
	Interval() time.Duration
	Name() string
}

// Scheduler runs each task on its own ticker until stopped
type Scheduler struct {
	ctx    context.Context
	cancel context.CancelFunc
	tasks  []Task
	wg     sync.WaitGroup
	mu     sync.Mutex // serializes runs that touch the same repository
}

// New creates a new task scheduler
func New(ctx context.Context) *Scheduler {
	ctx, cancel := context.WithCancel(ctx)
	return &Scheduler{
		ctx:    ctx,
		cancel: cancel,
		tasks:  make([]Task, 0),
	}
}

// AddTask adds a task to the scheduler
func (s *Scheduler) AddTask(task Task) {
	s.tasks = append(s.tasks, task)
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() {
	slog.Info("Starting task scheduler")
	for _, task := range s.tasks {
		s.wg.Add(1)
		go s.runTask(task)
	}
	slog.Info("Task scheduler started", "task_count", len(s.tasks))
}

// Stop cancels all tasks and waits for in-flight runs to return
func (s *Scheduler) Stop() {
	slog.Info("Stopping task scheduler")
	s.cancel()
	s.wg.Wait()
	slog.Info("Task scheduler stopped")
}

// RunOnce runs every task a single time, in the order added
func (s *Scheduler) RunOnce(ctx context.Context) error {
	for _, task := range s.tasks {
		if err := s.run(ctx, task); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) run(ctx context.Context, task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	err := task.Run(ctx)
	slog.Debug("Task run finished", "task", task.Name(), "duration", time.Since(start))
	return err
}

// runTask runs a single task on its schedule
func (s *Scheduler) runTask(task Task) {
	defer s.wg.Done()

	ticker := time.NewTicker(task.Interval())
	defer ticker.Stop()

	// Run immediately on start
	if err := s.run(s.ctx, task); err != nil {
		slog.Error("Error running task", "task", task.Name(), "error", err)
	}

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if err := s.run(s.ctx, task); err != nil {
				slog.Error("Error running task", "task", task.Name(), "error", err)
			}
		}
	}
}

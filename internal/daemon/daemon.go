package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ato_builder/internal/database"
	"ato_builder/internal/scheduler"
	"ato_builder/internal/tasks"
)

// Daemon imports records dropped in the inbox and keeps the outbox exports current
type Daemon struct {
	cancel    context.CancelFunc
	scheduler *scheduler.Scheduler
	database  database.Repository
}

// Config holds daemon configuration
type Config struct {
	InboxDir       string
	InboxInterval  int // seconds
	OutboxDir      string
	OutboxInterval int // seconds
}

// New creates a daemon over repo. The daemon owns repo and closes it on Stop.
func New(repo database.Repository, cfg Config) (*Daemon, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if cfg.InboxDir == "" || cfg.OutboxDir == "" {
		return nil, fmt.Errorf("inbox and outbox directories are required")
	}

	inboxInterval := 30 * time.Second
	if cfg.InboxInterval > 0 {
		inboxInterval = time.Duration(cfg.InboxInterval) * time.Second
	}
	outboxInterval := 60 * time.Second
	if cfg.OutboxInterval > 0 {
		outboxInterval = time.Duration(cfg.OutboxInterval) * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())

	sched := scheduler.New(ctx)
	sched.AddTask(tasks.NewInboxImporter(repo, cfg.InboxDir, inboxInterval))
	sched.AddTask(tasks.NewOutboxExporter(repo, cfg.OutboxDir, outboxInterval))

	return &Daemon{
		cancel:    cancel,
		scheduler: sched,
		database:  repo,
	}, nil
}

func (d *Daemon) Start() error {
	slog.Info("Starting daemon")

	d.scheduler.Start()

	slog.Info("Daemon started successfully")
	return nil
}

// RunOnce imports the inbox and refreshes the outbox a single time
func (d *Daemon) RunOnce(ctx context.Context) error {
	return d.scheduler.RunOnce(ctx)
}

// Stop gracefully stops the daemon. It is safe to call without Start.
func (d *Daemon) Stop() error {
	slog.Info("Stopping daemon")
	d.cancel()
	d.scheduler.Stop()

	if err := d.database.Close(); err != nil {
		slog.Error("Error closing database", "error", err)
	}

	slog.Info("Daemon stopped")
	return nil
}

package tasks

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"ato_builder/internal/models"
	"ato_builder/internal/usmtf"
	"ato_builder/internal/validation"

	"golang.org/x/sync/errgroup"
)

// ATOReader lists stored ATOs
type ATOReader interface {
	LoadAll() ([]models.ATO, error)
}

// OutboxExporter renders every valid stored ATO to <dir>/<id>.txt. Files are
// rewritten only when the rendered text changed; invalid documents are skipped.
// Documents are rendered concurrently; identities are unique so no two workers
// share a file.
type OutboxExporter struct {
	repo      ATOReader
	dir       string
	interval  time.Duration
	validator *validation.Validator
	workers   int // concurrent renders
}

// NewOutboxExporter creates an exporter writing to dir every interval
func NewOutboxExporter(repo ATOReader, dir string, interval time.Duration) *OutboxExporter {
	return &OutboxExporter{
		repo:      repo,
		dir:       dir,
		interval:  interval,
		validator: validation.NewValidator(time.Now),
		workers:   4,
	}
}

func (e *OutboxExporter) Name() string {
	return "outbox_exporter"
}

func (e *OutboxExporter) Interval() time.Duration {
	return e.interval
}

// Run exports the current collection
func (e *OutboxExporter) Run(ctx context.Context) error {
	atos, err := e.repo.LoadAll()
	if err != nil {
		return fmt.Errorf("failed to load atos: %w", err)
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create outbox %s: %w", e.dir, err)
	}

	var written, skipped atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for _, ato := range atos {
		ato := ato
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			if ato.ID == "" || filepath.Base(ato.ID) != ato.ID {
				slog.Warn("Skipping ATO with unusable identity", "id", ato.ID, "name", ato.Name)
				skipped.Add(1)
				return nil
			}

			if violations := e.validator.Validate(ato); !violations.Valid() {
				slog.Warn("Skipping invalid ATO", "id", ato.ID, "name", ato.Name, "violations", len(violations))
				skipped.Add(1)
				return nil
			}

			changed, err := e.write(ato)
			if err != nil {
				slog.Error("Failed to export ATO", "id", ato.ID, "error", err)
				return nil
			}
			if changed {
				written.Add(1)
				slog.Debug("Exported ATO", "id", ato.ID, "name", ato.Name)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if written.Load() > 0 || skipped.Load() > 0 {
		slog.Info("Exported outbox", "dir", e.dir, "written", written.Load(), "skipped", skipped.Load())
	}
	return nil
}

// write renders ato and reports whether the file content changed
func (e *OutboxExporter) write(ato models.ATO) (bool, error) {
	path := filepath.Join(e.dir, ato.ID+".txt")
	var buf bytes.Buffer
	if err := usmtf.Write(&buf, ato); err != nil {
		return false, err
	}
	text := buf.Bytes()

	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, text) {
		return false, nil
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, text, 0o644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return false, fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return true, nil
}

package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"ato_builder/internal/migration"
	"ato_builder/internal/models"
)

// Subdirectories of the inbox that receive handled files
const (
	ProcessedDir = "processed"
	FailedDir    = "failed"
)

// ATOWriter persists ATOs
type ATOWriter interface {
	UpsertBatch(atos []models.ATO) error
}

// InboxImporter picks up JSON and YAML records in any historical layout from a
// directory, migrates them and stores them. Each handled file is moved to
// processed/ or failed/ so it is imported once.
type InboxImporter struct {
	repo     ATOWriter
	dir      string
	interval time.Duration
	loader   *migration.Loader
}

// NewInboxImporter creates an importer polling dir every interval
func NewInboxImporter(repo ATOWriter, dir string, interval time.Duration) *InboxImporter {
	return &InboxImporter{
		repo:     repo,
		dir:      dir,
		interval: interval,
		loader:   migration.NewLoader(),
	}
}

func (i *InboxImporter) Name() string {
	return "inbox_importer"
}

func (i *InboxImporter) Interval() time.Duration {
	return i.interval
}

// Run imports every pending file in the inbox
func (i *InboxImporter) Run(ctx context.Context) error {
	entries, err := os.ReadDir(i.dir)
	if os.IsNotExist(err) {
		slog.Debug("Inbox does not exist yet", "dir", i.dir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read inbox %s: %w", i.dir, err)
	}

	imported, failed := 0, 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := migration.FormatForPath(entry.Name()); !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		path := filepath.Join(i.dir, entry.Name())
		atos, err := i.ImportFile(path)
		if err != nil {
			slog.Error("Failed to import inbox file", "file", path, "error", err)
			failed++
			i.moveTo(path, FailedDir)
			continue
		}

		imported += len(atos)
		i.moveTo(path, ProcessedDir)
	}

	if imported > 0 || failed > 0 {
		slog.Info("Processed inbox", "dir", i.dir, "imported", imported, "failed_files", failed)
	}
	return nil
}

// ImportFile migrates and stores every record in the file at path
func (i *InboxImporter) ImportFile(path string) ([]models.ATO, error) {
	format, ok := migration.FormatForPath(path)
	if !ok {
		return nil, fmt.Errorf("unsupported file type: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	records, err := migration.DecodeRecords(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	atos := make([]models.ATO, 0, len(records))
	for _, record := range records {
		ato, report := i.loader.LoadWithReport(record)
		slog.Debug("Migrated record",
			"file", path,
			"id", ato.ID,
			"source_version", report.SourceVersion,
			"generated_ids", report.GeneratedIDs,
		)
		for _, issue := range report.Issues {
			slog.Warn("Record migrated with issues", "file", path, "id", ato.ID, "issue", issue)
		}
		atos = append(atos, ato)
	}

	if err := i.repo.UpsertBatch(atos); err != nil {
		return nil, fmt.Errorf("failed to store records from %s: %w", path, err)
	}
	return atos, nil
}

func (i *InboxImporter) moveTo(path, sub string) {
	target := filepath.Join(i.dir, sub)
	if err := os.MkdirAll(target, 0o755); err != nil {
		slog.Error("Failed to create inbox subdirectory", "dir", target, "error", err)
		return
	}
	if err := os.Rename(path, filepath.Join(target, filepath.Base(path))); err != nil {
		slog.Error("Failed to move inbox file", "file", path, "dir", target, "error", err)
	}
}

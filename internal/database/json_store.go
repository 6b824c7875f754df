package database

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"ato_builder/internal/migration"
	"ato_builder/internal/models"
)

// JSONRepository keeps the collection in a single indented JSON array file.
// Reads tolerate an absent or empty file. Writes replace the file atomically.
type JSONRepository struct {
	path string
	mu   sync.Mutex
}

// NewJSONRepository returns a repository backed by the file at path
func NewJSONRepository(path string) *JSONRepository {
	return &JSONRepository{path: path}
}

// Path returns the backing file path
func (r *JSONRepository) Path() string {
	return r.path
}

// readRecords returns the raw stored records. Records stored without an
// identity are given one and the file is rewritten, so the identity a caller
// sees stays stable across reads. Callers hold mu.
func (r *JSONRepository) readRecords() ([]map[string]any, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var records []map[string]any
	if err := migration.DecodeJSON(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", r.path, err)
	}

	assigned := 0
	for i, record := range records {
		if record == nil {
			record = map[string]any{}
			records[i] = record
		}
		if recordID(record) == "" {
			record["id"] = models.NewID()
			assigned++
		}
	}
	if assigned > 0 {
		if err := r.writeRecords(records); err != nil {
			return nil, err
		}
		slog.Info("Assigned identities to stored ATOs", "path", r.path, "count", assigned)
	}
	return records, nil
}

func (r *JSONRepository) writeRecords(records []map[string]any) error {
	if records == nil {
		records = []map[string]any{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode collection: %w", err)
	}

	if dir := filepath.Dir(r.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", r.path, err)
	}
	return nil
}

func recordID(record map[string]any) string {
	switch id := record["id"].(type) {
	case string:
		return id
	case json.Number:
		return id.String()
	default:
		return ""
	}
}

// LoadAll returns every stored ATO in file order
func (r *JSONRepository) LoadAll() ([]models.ATO, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.readRecords()
	if err != nil {
		return nil, err
	}

	atos := make([]models.ATO, 0, len(records))
	for _, record := range records {
		atos = append(atos, migration.Load(record))
	}
	return atos, nil
}

// Get returns the ATO with the given identity
func (r *JSONRepository) Get(id string) (models.ATO, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.readRecords()
	if err != nil {
		return models.ATO{}, err
	}
	for _, record := range records {
		if id != "" && recordID(record) == id {
			return migration.Load(record), nil
		}
	}
	return models.ATO{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Upsert replaces the record with the same identity in place, or appends
func (r *JSONRepository) Upsert(ato models.ATO) error {
	return r.UpsertBatch([]models.ATO{ato})
}

// UpsertBatch upserts several ATOs with a single rewrite of the file
func (r *JSONRepository) UpsertBatch(atos []models.ATO) error {
	if len(atos) == 0 {
		return nil
	}
	if err := checkIdentities(atos); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.readRecords()
	if err != nil {
		return err
	}

	for _, ato := range atos {
		records = upsertRecord(records, ato.ToMap())
	}
	return r.writeRecords(records)
}

func upsertRecord(records []map[string]any, record map[string]any) []map[string]any {
	id := recordID(record)
	for i, existing := range records {
		if id != "" && recordID(existing) == id {
			records[i] = record
			return records
		}
	}
	return append(records, record)
}

// Delete removes the record with the given identity
func (r *JSONRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.readRecords()
	if err != nil {
		return err
	}

	kept := records[:0]
	found := false
	for _, record := range records {
		if id != "" && recordID(record) == id {
			found = true
			continue
		}
		kept = append(kept, record)
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r.writeRecords(kept)
}

// Close is a no-op; the file is opened per operation
func (r *JSONRepository) Close() error {
	return nil
}

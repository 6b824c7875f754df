package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"ato_builder/internal/migration"
	"ato_builder/internal/models"
)

const upsertATO = `INSERT INTO atos (id, name, schema_version, document)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		schema_version = excluded.schema_version,
		document = excluded.document,
		updated_at = CURRENT_TIMESTAMP`

// encodeDocument returns the canonical dictionary of ato as JSON
func encodeDocument(ato models.ATO) (string, error) {
	data, err := json.Marshal(ato.ToMap())
	if err != nil {
		return "", fmt.Errorf("failed to encode ato %s: %w", ato.ID, err)
	}
	return string(data), nil
}

// decodeDocument migrates a stored document into the current model
func decodeDocument(document string) (models.ATO, error) {
	var raw map[string]any
	if err := migration.DecodeJSON([]byte(document), &raw); err != nil {
		return models.ATO{}, fmt.Errorf("failed to decode stored document: %w", err)
	}
	return migration.Load(raw), nil
}

// LoadAll returns every stored ATO in insertion order
func (d *DB) LoadAll() ([]models.ATO, error) {
	rows, err := d.db.Query(`SELECT document FROM atos ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query atos: %w", err)
	}
	defer rows.Close()

	var atos []models.ATO
	for rows.Next() {
		var document string
		if err := rows.Scan(&document); err != nil {
			return nil, fmt.Errorf("failed to scan ato: %w", err)
		}
		ato, err := decodeDocument(document)
		if err != nil {
			return nil, err
		}
		atos = append(atos, ato)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate atos: %w", err)
	}

	return atos, nil
}

// Get returns the ATO with the given identity
func (d *DB) Get(id string) (models.ATO, error) {
	var document string
	err := d.db.QueryRow(`SELECT document FROM atos WHERE id = ?`, id).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ATO{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return models.ATO{}, fmt.Errorf("failed to query ato %s: %w", id, err)
	}
	return decodeDocument(document)
}

// Upsert inserts ato or replaces the stored document with the same identity
func (d *DB) Upsert(ato models.ATO) error {
	if err := checkIdentities([]models.ATO{ato}); err != nil {
		return err
	}
	document, err := encodeDocument(ato)
	if err != nil {
		return err
	}

	if _, err := d.db.Exec(upsertATO, ato.ID, ato.Name, models.SchemaVersion, document); err != nil {
		return fmt.Errorf("failed to upsert ato %s: %w", ato.ID, err)
	}
	return nil
}

// UpsertBatch upserts several ATOs in a single transaction
func (d *DB) UpsertBatch(atos []models.ATO) error {
	if len(atos) == 0 {
		return nil
	}
	if err := checkIdentities(atos); err != nil {
		return err
	}

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(upsertATO)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, ato := range atos {
		document, err := encodeDocument(ato)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(ato.ID, ato.Name, models.SchemaVersion, document); err != nil {
			return fmt.Errorf("failed to upsert ato %s: %w", ato.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Delete removes the ATO with the given identity
func (d *DB) Delete(id string) error {
	result, err := d.db.Exec(`DELETE FROM atos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ato %s: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete ato %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

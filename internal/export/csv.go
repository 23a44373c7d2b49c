package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"college-sync/internal/domain"
)

// WriteCSVSnapshot rewrites the whole CSV with the current batch. Records
// should already be deduplicated by the caller.
func (e *Exporter) WriteCSVSnapshot(dir, filename string, records []domain.RawCollege) (string, error) {
	if e.ReadOnly {
		return "", nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export: create output dir: %w", err)
	}

	path := filepath.Join(dir, filename)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("export: create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return "", err
	}
	for _, rec := range records {
		if err := w.Write(csvRow(rec)); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return path, nil
}

// AppendCSV appends a single record, creating the file with a header row on
// first write. The name cache makes repeated calls for the same college
// idempotent: an identity already present in the file is a silent success.
// Appends are open-append, never a rewrite.
func (e *Exporter) AppendCSV(dir, filename string, rec domain.RawCollege) error {
	if e.ReadOnly {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("export: create output dir: %w", err)
	}

	path := filepath.Join(dir, filename)
	name := rec.Name()
	if name != "" && e.cache.Contains(path, name) {
		return nil
	}

	_, statErr := os.Stat(path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("export: open csv for append: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(csvHeader); err != nil {
			return err
		}
	}
	if err := w.Write(csvRow(rec)); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("export: append csv: %w", err)
	}

	if name != "" {
		e.cache.Add(path, name)
	}
	return nil
}

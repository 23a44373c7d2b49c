package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/andybalholm/brotli"

	"college-sync/internal/domain"
)

// WriteDocument writes the {"colleges":[...]} envelope as indented JSON.
func (e *Exporter) WriteDocument(dir, filename string, doc domain.Document) (string, error) {
	if e.ReadOnly {
		return "", nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export: create output dir: %w", err)
	}

	path := filepath.Join(dir, filename)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("export: create json: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("export: write json: %w", err)
	}
	return path, nil
}

// CompressFile writes a brotli-compressed copy of path next to it, for
// cheaper SFTP uploads of large snapshots. Returns the .br path.
func (e *Exporter) CompressFile(path string) (string, error) {
	if e.ReadOnly {
		return "", nil
	}

	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("export: open for compression: %w", err)
	}
	defer src.Close()

	outPath := path + ".br"
	dst, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("export: create compressed file: %w", err)
	}
	defer dst.Close()

	w := brotli.NewWriterLevel(dst, brotli.DefaultCompression)
	if _, err := io.Copy(w, src); err != nil {
		w.Close()
		return "", fmt.Errorf("export: compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("export: flush compressed file: %w", err)
	}
	return outPath, nil
}

package export

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"college-sync/internal/domain"
)

// AppendJSONL appends one record as a single JSON line. This sink is a pure
// O(1) append with no duplicate check: throughput over correctness. Callers
// that need intra-run dedup must keep their own processed set, and nothing
// guarantees cross-run uniqueness.
func (e *Exporter) AppendJSONL(dir, filename string, rec domain.RawCollege) error {
	if e.ReadOnly {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("export: create output dir: %w", err)
	}

	path := filepath.Join(dir, filename)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("export: open jsonl for append: %w", err)
	}
	defer f.Close()

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("export: marshal record: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("export: append jsonl: %w", err)
	}
	return nil
}

// ReadJSONLRecords loads the raw records from a JSONL file, skipping
// malformed lines. Used both to resume interrupted scrapes and as the
// input reader of the export pipeline.
func ReadJSONLRecords(path string) ([]domain.RawCollege, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []domain.RawCollege
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	skipped := 0
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var rec domain.RawCollege
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			skipped++
			continue
		}
		out = append(out, rec)
	}
	if skipped > 0 {
		log.Warn().Int("lines", skipped).Str("path", path).Msg("skipped malformed JSONL lines")
	}
	if err := sc.Err(); err != nil {
		return out, fmt.Errorf("export: read jsonl: %w", err)
	}
	return out, nil
}

// readJSONLNames collects normalized college names from a JSONL export,
// tolerating malformed lines.
func readJSONLNames(path string) (map[string]struct{}, error) {
	names := map[string]struct{}{}
	records, err := ReadJSONLRecords(path)
	for _, rec := range records {
		if n := normName(rec.Name()); n != "" {
			names[n] = struct{}{}
		}
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return names, err
	}
	return names, nil
}

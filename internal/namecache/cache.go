package namecache

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// IdentityColumn is the CSV column holding the college identity attribute.
const IdentityColumn = "College Name"

// Cache memoizes, per CSV path, the set of lower-cased college names the
// file already contains. It exists so that incremental appends don't reread
// the whole file per record. One Cache belongs to one run; it is not safe
// for concurrent use.
type Cache struct {
	names map[string]map[string]struct{}
}

func New() *Cache {
	return &Cache{names: map[string]map[string]struct{}{}}
}

// Names returns the known name set for path, reading the file on first
// access. A missing file yields an empty (but cached) set.
func (c *Cache) Names(path string) map[string]struct{} {
	if set, ok := c.names[path]; ok {
		return set
	}

	set := map[string]struct{}{}
	if _, err := os.Stat(path); err == nil {
		set = ReadNames(path)
	}
	c.names[path] = set
	return set
}

// Add records a name that was just appended to path, keeping the memo in
// sync without a reread. No-op if the path was never loaded.
func (c *Cache) Add(path, name string) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return
	}
	if set, ok := c.names[path]; ok {
		set[name] = struct{}{}
	}
}

// Contains reports whether name is already present in the file at path.
func (c *Cache) Contains(path, name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return false
	}
	_, ok := c.Names(path)[name]
	return ok
}

// ReadNames parses a CSV defensively and returns the normalized names it
// holds. Rows whose column count differs from the header are skipped, and
// any read error returns whatever was collected so far; this function never
// fails the caller over a half-written or malformed file.
func ReadNames(path string) map[string]struct{} {
	names := map[string]struct{}{}

	f, err := os.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to open CSV for name cache")
		return names
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			log.Warn().Err(err).Str("path", path).Msg("failed to read CSV header")
		}
		return names
	}

	nameIndex := -1
	for i, col := range header {
		if strings.TrimSpace(col) == IdentityColumn {
			nameIndex = i
			break
		}
	}
	if nameIndex < 0 {
		return names
	}

	expected := len(header)
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("stopped reading CSV names")
			break
		}
		if len(row) != expected {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(row[nameIndex]))
		if name != "" {
			names[name] = struct{}{}
		}
	}

	return names
}

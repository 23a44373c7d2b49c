package export

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"college-sync/internal/namecache"
)

// LoadExistingNames returns the already-exported college names grouped per
// requested format ("csv" reads the CSV snapshot, "json" reads the JSONL
// stream). Returning a per-format map lets the caller decide whether a
// college must exist in all formats before it gets skipped, e.g. to
// regenerate a missing CSV row while the JSONL still has the record.
func LoadExistingNames(dir, baseFilename string, formats []string) map[string]map[string]struct{} {
	if len(formats) == 0 {
		formats = []string{"csv", "json"}
	}

	existing := map[string]map[string]struct{}{}
	for _, f := range formats {
		existing[strings.ToLower(f)] = map[string]struct{}{}
	}

	if set, ok := existing["csv"]; ok {
		path := filepath.Join(dir, baseFilename+".csv")
		if _, err := os.Stat(path); err == nil {
			for name := range namecache.ReadNames(path) {
				set[name] = struct{}{}
			}
			log.Info().Int("count", len(set)).Msg("loaded existing records from CSV")
		}
	}

	if set, ok := existing["json"]; ok {
		path := filepath.Join(dir, baseFilename+".jsonl")
		if _, err := os.Stat(path); err == nil {
			names, err := readJSONLNames(path)
			if err != nil {
				log.Warn().Err(err).Msg("failed to read existing JSONL for resumability")
			}
			for name := range names {
				set[name] = struct{}{}
			}
			log.Info().Int("count", len(set)).Msg("loaded existing records from JSONL")
		}
	}

	return existing
}

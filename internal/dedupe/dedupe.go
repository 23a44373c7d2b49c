package dedupe

import (
	"strings"

	"college-sync/internal/domain"
)

// Deduplicate collapses records that share the same college name
// (case-insensitive). Records without a name are dropped. When two records
// collide, the one with strictly more truthy fields wins; on a tie the
// first-seen record survives. Output keeps the first-seen order of the
// surviving keys, so the result is deterministic for a given input order.
func Deduplicate(records []domain.RawCollege) []domain.RawCollege {
	seen := map[string]domain.RawCollege{}
	order := make([]string, 0, len(records))

	for _, rec := range records {
		key := strings.ToLower(rec.Name())
		if key == "" {
			continue
		}

		existing, ok := seen[key]
		if !ok {
			seen[key] = rec
			order = append(order, key)
			continue
		}

		if rec.TruthyFields() > existing.TruthyFields() {
			seen[key] = rec
		}
	}

	out := make([]domain.RawCollege, 0, len(order))
	for _, key := range order {
		out = append(out, seen[key])
	}
	return out
}

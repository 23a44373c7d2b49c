package export

import (
	"fmt"
	"strings"

	"college-sync/internal/domain"
	"college-sync/internal/namecache"
)

// CSV snapshot/append schema. Keep header order EXACT: readers locate the
// identity column by name but align data positionally.
var csvHeader = []string{
	"College Name",
	"Location",
	"College Type",
	"Course Category",
	"Total Courses",
	"Match Percentage",
	"Match Level",
	"Has Website Link",
	"College ID",
}

// pairs of (legacy key, normalized key) aligned with csvHeader.
var csvColumns = [][2]string{
	{"College Name", "name"},
	{"Location", "city"},
	{"College Type", "type"},
	{"Course Category", "course_category"},
	{"Total Courses", "total_courses"},
	{"Match Percentage", "match_percentage"},
	{"Match Level", "match_level"},
	{"Has Website Link", "has_website_link"},
	{"College ID", "college_id"},
}

// Exporter owns the local flat-file sinks. In read-only mode (serverless
// deployments without writable disk) every write call is a successful
// no-op.
type Exporter struct {
	ReadOnly bool

	cache *namecache.Cache
}

func NewExporter(readOnly bool, cache *namecache.Cache) *Exporter {
	if cache == nil {
		cache = namecache.New()
	}
	return &Exporter{ReadOnly: readOnly, cache: cache}
}

func csvRow(rec domain.RawCollege) []string {
	row := make([]string, len(csvColumns))
	for i, keys := range csvColumns {
		row[i] = getString(rec, keys[0], keys[1])
	}
	return row
}

func getString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			switch t := v.(type) {
			case string:
				return t
			default:
				return fmt.Sprintf("%v", t)
			}
		}
	}
	return ""
}

func normName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

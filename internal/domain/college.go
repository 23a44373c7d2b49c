package domain

import (
	"fmt"
	"strings"
)

// RawCollege is a scraped record as it comes off the wire: a loose map of
// attributes keyed either by the legacy scraper names ("College Name",
// "Location", ...) or by the normalized names ("name", "city", ...).
type RawCollege map[string]any

// Name returns the identity attribute of the record, checking the legacy
// key first and falling back to the normalized one. The result is trimmed
// but NOT lower-cased; callers that need a comparison key should fold it.
func (r RawCollege) Name() string {
	for _, k := range []string{"College Name", "name"} {
		if v, ok := r[k]; ok && v != nil {
			if s := strings.TrimSpace(stringify(v)); s != "" {
				return s
			}
		}
	}
	return ""
}

// TruthyFields counts attributes carrying actual data. A field counts when
// its value is non-nil, non-empty after trimming, and not a zero/false
// scalar. Used by the deduplicator to pick the richest duplicate.
func (r RawCollege) TruthyFields() int {
	n := 0
	for _, v := range r {
		if truthy(v) {
			n++
		}
	}
	return n
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	case bool:
		return t
	case float64:
		return t != 0
	case float32:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case []any:
		return len(t) > 0
	case []string:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t)) != ""
	}
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// College is the normalized output shape. Every scalar field is always
// present (empty string when the source lacks it) and Courses is never nil.
type College struct {
	City            string   `json:"city"`
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	CourseCategory  string   `json:"course_category"`
	TotalCourses    string   `json:"total_courses"`
	MatchPercentage string   `json:"match_percentage"`
	MatchLevel      string   `json:"match_level"`
	HasWebsiteLink  string   `json:"has_website_link"`
	CollegeID       string   `json:"college_id"`
	Courses         []Course `json:"courses"`
}

// Course is the normalized sub-entity nested inside a College.
type Course struct {
	Name          string   `json:"name"`
	AnnualFees    string   `json:"annual_fees"`
	Duration      string   `json:"duration"`
	DegreeLevel   string   `json:"degree_level"`
	EntranceExams []string `json:"entrance_exams"`
}

// Document is the structured export envelope.
type Document struct {
	Colleges []College `json:"colleges"`
}

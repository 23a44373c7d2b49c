package transform

import (
	"fmt"
	"strings"

	"college-sync/internal/domain"
)

// Colleges maps raw scraped records into the normalized output shape. It is
// a pure function: no I/O, input untouched. Missing scalar fields become ""
// and a missing course list becomes an empty slice, so every output record
// carries the full fixed field set.
func Colleges(records []domain.RawCollege) []domain.College {
	out := make([]domain.College, 0, len(records))
	for _, rec := range records {
		out = append(out, college(rec))
	}
	return out
}

func college(rec domain.RawCollege) domain.College {
	// Location arrives as "City" or "City, State"; city is everything
	// before the first comma.
	location := strings.TrimSpace(getString(rec, "Location", "location"))
	city := ""
	if location != "" {
		city = strings.TrimSpace(strings.SplitN(location, ",", 2)[0])
	}

	c := domain.College{
		City:            city,
		Name:            getString(rec, "College Name", "name"),
		Type:            getString(rec, "College Type", "type"),
		CourseCategory:  getString(rec, "Course Category", "course_category"),
		TotalCourses:    getString(rec, "Total Courses", "total_courses"),
		MatchPercentage: getString(rec, "Match Percentage", "match_percentage"),
		MatchLevel:      getString(rec, "Match Level", "match_level"),
		HasWebsiteLink:  getString(rec, "Has Website Link", "has_website_link"),
		CollegeID:       getString(rec, "College ID", "college_id"),
		Courses:         []domain.Course{},
	}

	for _, raw := range courseMaps(rec) {
		c.Courses = append(c.Courses, domain.Course{
			Name:          getString(raw, "Course Name", "name"),
			AnnualFees:    getString(raw, "Fees", "annual_fees"),
			Duration:      getString(raw, "Duration", "duration"),
			DegreeLevel:   getString(raw, "Degree Type", "degree_level"),
			EntranceExams: EntranceExams(firstValue(raw, "Entrance Exams", "entrance_exams")),
		})
	}

	return c
}

// EntranceExams normalizes the three encodings the scraper produces for
// exam lists: an actual list, a comma-separated string, or nothing at all.
// Empty and whitespace-only entries are dropped.
func EntranceExams(v any) []string {
	switch t := v.(type) {
	case []string:
		return cleanList(t)
	case []any:
		items := make([]string, 0, len(t))
		for _, e := range t {
			if e == nil {
				continue
			}
			items = append(items, fmt.Sprintf("%v", e))
		}
		return cleanList(items)
	case string:
		if strings.TrimSpace(t) == "" {
			return []string{}
		}
		return cleanList(strings.Split(t, ","))
	default:
		return []string{}
	}
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

func courseMaps(rec domain.RawCollege) []map[string]any {
	v := firstValue(rec, "Courses", "courses")
	switch t := v.(type) {
	case []map[string]any:
		return t
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, e := range t {
			if m, ok := e.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}

func firstValue(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func getString(m map[string]any, keys ...string) string {
	v := firstValue(m, keys...)
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}

package transform

import (
	"reflect"
	"testing"

	"college-sync/internal/domain"
)

func TestCollegesFullRecord(t *testing.T) {
	records := []domain.RawCollege{{
		"College Name":     "ABC Engineering College",
		"Location":         "Mumbai, Maharashtra",
		"College Type":     "Private",
		"Course Category":  "Engineering",
		"Total Courses":    "12",
		"Match Percentage": "87%",
		"Match Level":      "High",
		"Has Website Link": "Yes",
		"College ID":       "c-101",
		"Courses": []any{
			map[string]any{
				"Course Name":    "B.Tech CSE",
				"Fees":           "1,50,000",
				"Duration":       "4 years",
				"Degree Type":    "Bachelors",
				"Entrance Exams": "JEE, MHT-CET",
			},
		},
	}}

	out := Colleges(records)
	if len(out) != 1 {
		t.Fatalf("Expected 1 college, got %d", len(out))
	}

	c := out[0]
	if c.City != "Mumbai" {
		t.Errorf("Expected city %q, got %q", "Mumbai", c.City)
	}
	if c.Name != "ABC Engineering College" || c.Type != "Private" || c.CollegeID != "c-101" {
		t.Errorf("Unexpected college mapping: %+v", c)
	}
	if len(c.Courses) != 1 {
		t.Fatalf("Expected 1 course, got %d", len(c.Courses))
	}

	course := c.Courses[0]
	if course.Name != "B.Tech CSE" || course.AnnualFees != "1,50,000" || course.DegreeLevel != "Bachelors" {
		t.Errorf("Unexpected course mapping: %+v", course)
	}
	if !reflect.DeepEqual(course.EntranceExams, []string{"JEE", "MHT-CET"}) {
		t.Errorf("Unexpected entrance exams: %v", course.EntranceExams)
	}
}

func TestCollegesMinimalRecordHasAllFields(t *testing.T) {
	out := Colleges([]domain.RawCollege{{"name": "ABC"}})
	if len(out) != 1 {
		t.Fatalf("Expected 1 college, got %d", len(out))
	}

	want := domain.College{Name: "ABC", Courses: []domain.Course{}}
	if !reflect.DeepEqual(out[0], want) {
		t.Errorf("Expected empty-string defaults, got %+v", out[0])
	}
}

func TestCollegesCityFromBareCity(t *testing.T) {
	out := Colleges([]domain.RawCollege{{"name": "X", "Location": " Pune "}})
	if out[0].City != "Pune" {
		t.Errorf("Expected city %q, got %q", "Pune", out[0].City)
	}
}

func TestEntranceExams(t *testing.T) {
	testCases := []struct {
		name     string
		input    any
		expected []string
	}{
		{"comma string", "JEE, NEET", []string{"JEE", "NEET"}},
		{"single string", "JEE", []string{"JEE"}},
		{"list of any", []any{"JEE", " NEET ", ""}, []string{"JEE", "NEET"}},
		{"list of strings", []string{"JEE"}, []string{"JEE"}},
		{"empty string", "", []string{}},
		{"whitespace string", "   ", []string{}},
		{"absent", nil, []string{}},
		{"trailing comma", "JEE,", []string{"JEE"}},
		{"unexpected type", 42, []string{}},
	}

	for _, tc := range testCases {
		if got := EntranceExams(tc.input); !reflect.DeepEqual(got, tc.expected) {
			t.Errorf("%s: EntranceExams(%v) = %v, want %v", tc.name, tc.input, got, tc.expected)
		}
	}
}

func TestCollegesIsPure(t *testing.T) {
	rec := domain.RawCollege{"College Name": "ABC", "Location": "Delhi, NCR"}
	_ = Colleges([]domain.RawCollege{rec})

	if rec["Location"] != "Delhi, NCR" || len(rec) != 2 {
		t.Errorf("Transform mutated its input: %v", rec)
	}
}

func TestCollegesCoursesAsMapSlice(t *testing.T) {
	out := Colleges([]domain.RawCollege{{
		"name": "X",
		"courses": []map[string]any{
			{"name": "BBA", "entrance_exams": []any{"CUET"}},
		},
	}})

	if len(out[0].Courses) != 1 {
		t.Fatalf("Expected 1 course, got %d", len(out[0].Courses))
	}
	if out[0].Courses[0].Name != "BBA" {
		t.Errorf("Unexpected course: %+v", out[0].Courses[0])
	}
}

package domain

import (
	"encoding/json"
	"testing"
)

func TestRawCollegeName(t *testing.T) {
	testCases := []struct {
		rec      RawCollege
		expected string
	}{
		{RawCollege{"College Name": "ABC College"}, "ABC College"},
		{RawCollege{"name": "XYZ College"}, "XYZ College"},
		{RawCollege{"College Name": "  Padded  "}, "Padded"},
		{RawCollege{"College Name": "", "name": "Fallback"}, "Fallback"},
		{RawCollege{"College Name": nil, "name": "Fallback"}, "Fallback"},
		{RawCollege{"Location": "Delhi"}, ""},
		{RawCollege{}, ""},
	}

	for _, tc := range testCases {
		if got := tc.rec.Name(); got != tc.expected {
			t.Errorf("Name() of %v = %q, want %q", tc.rec, got, tc.expected)
		}
	}
}

func TestTruthyFields(t *testing.T) {
	testCases := []struct {
		rec      RawCollege
		expected int
	}{
		{RawCollege{"name": "X", "type": "Govt"}, 2},
		{RawCollege{"name": "X", "type": ""}, 1},
		{RawCollege{"name": "X", "type": "  "}, 1},
		{RawCollege{"name": "X", "count": float64(0)}, 1},
		{RawCollege{"name": "X", "count": float64(3)}, 2},
		{RawCollege{"name": "X", "flag": false}, 1},
		{RawCollege{"name": "X", "flag": true}, 2},
		{RawCollege{"name": "X", "courses": []any{}}, 1},
		{RawCollege{"name": "X", "courses": []any{map[string]any{}}}, 2},
		{RawCollege{"name": "X", "extra": nil}, 1},
	}

	for _, tc := range testCases {
		if got := tc.rec.TruthyFields(); got != tc.expected {
			t.Errorf("TruthyFields() of %v = %d, want %d", tc.rec, got, tc.expected)
		}
	}
}

func TestDocumentMarshalShape(t *testing.T) {
	doc := Document{Colleges: []College{{
		Name:    "ABC",
		Courses: []Course{{Name: "B.Tech", EntranceExams: []string{}}},
	}}}

	b, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}

	colleges, ok := decoded["colleges"].([]any)
	if !ok || len(colleges) != 1 {
		t.Fatalf("Expected a colleges array with 1 entry, got %v", decoded)
	}

	college := colleges[0].(map[string]any)
	for _, key := range []string{
		"city", "name", "type", "course_category", "total_courses",
		"match_percentage", "match_level", "has_website_link", "college_id", "courses",
	} {
		if _, ok := college[key]; !ok {
			t.Errorf("Expected key %q to be present", key)
		}
	}

	course := college["courses"].([]any)[0].(map[string]any)
	if exams, ok := course["entrance_exams"].([]any); !ok {
		t.Errorf("Expected entrance_exams to marshal as an array, got %v", course["entrance_exams"])
	} else if len(exams) != 0 {
		t.Errorf("Expected empty entrance_exams, got %v", exams)
	}
}

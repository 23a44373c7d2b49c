package refine

import (
	"encoding/json"
	"errors"
	"strings"
)

// Generated is the JSON payload the model is asked to return.
type Generated struct {
	AskYourself     []string `json:"ask_yourself"`
	RoleDescription string   `json:"role_description"`
	ImpactSentence  string   `json:"impact_sentence"`
}

// ParseGenerated extracts the JSON object from a model response. Models
// wrap output in markdown fences or add prose around it more often than
// not, so the cleanup strips fences and trims to the outermost braces
// before parsing. This is a bounded repair, not a general JSON fixer.
func ParseGenerated(text string) (*Generated, error) {
	cleaned := CleanJSON(text)
	if cleaned == "" {
		return nil, errors.New("no JSON object in response")
	}

	var out Generated
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, err
	}

	questions := make([]string, 0, len(out.AskYourself))
	for _, q := range out.AskYourself {
		if q = strings.TrimSpace(q); q != "" {
			questions = append(questions, q)
		}
	}
	out.AskYourself = questions
	out.RoleDescription = strings.TrimSpace(out.RoleDescription)
	out.ImpactSentence = strings.TrimSpace(out.ImpactSentence)
	return &out, nil
}

// CleanJSON strips markdown code fences and any text outside the outermost
// JSON object.
func CleanJSON(text string) string {
	s := strings.TrimSpace(text)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return ""
	}
	return strings.TrimSpace(s[start : end+1])
}

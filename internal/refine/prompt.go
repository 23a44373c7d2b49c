package refine

import (
	"fmt"
	"strings"
)

const (
	maxDescriptionContext = 800
	maxSkillsContext      = 300
)

// BuildPrompt assembles the generation prompt from the row's name,
// description, and skills context. The description column may hold a JSON
// object; its "overview" key is preferred when present.
func BuildPrompt(career Career) string {
	name := career.str("name")
	if name == "" {
		name = "Unknown"
	}

	desc := descriptionContext(career)
	skills := clip(career.str("key_skills_required"), maxSkillsContext)

	return fmt.Sprintf(`You are an expert career counselor for Indian students (Grade 9-12).

Generate content for the career: %s

Task 1: Generate 3 SELF-DISCOVERY questions (ask_yourself)
- Start with "Do you" or "Are you"
- Focus on personality fit and interests
- Help students determine if this career suits them
- Keep each question under 100 characters

Task 2: Write a ROLE DESCRIPTION (role_description)
- 2-3 engaging sentences describing what this professional does day-to-day
- Target audience: Indian teenagers - make it relatable and clear
- Cover: What problems do they solve? What do they create or work on?
- Avoid textbook definitions - be conversational and real

Task 3: Write an IMPACT STATEMENT (impact_sentence)
- 2-3 inspiring sentences about the career's impact on society
- Why does this career matter? How does it change lives or improve the world?
- Make it motivational - help students feel excited about this path

Context:
Original Description: %s
Skills: %s

Return ONLY valid JSON:
{
    "ask_yourself": ["Question 1?", "Question 2?", "Question 3?"],
    "role_description": "2-3 sentences describing what they do day-to-day.",
    "impact_sentence": "2-3 sentences about their impact on society."
}`, name, desc, skills)
}

func descriptionContext(career Career) string {
	v, ok := career["description"]
	if !ok || v == nil {
		return ""
	}
	if m, isMap := v.(map[string]any); isMap {
		if overview, ok := m["overview"].(string); ok {
			return clip(overview, maxDescriptionContext)
		}
		return clip(fmt.Sprintf("%v", m), maxDescriptionContext)
	}
	return clip(fmt.Sprintf("%v", v), maxDescriptionContext)
}

func clip(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max]
}

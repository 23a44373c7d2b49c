// Package refine fills in AI-synthesized presentation fields on career
// rows: three self-discovery questions, a day-to-day role description, and
// an impact statement. Rows that already carry all three fields are left
// alone unless a regeneration is forced.
package refine

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"college-sync/internal/llm"
	"college-sync/internal/supabase"
)

const (
	// DefaultNumQuestions bounds the ask_yourself list.
	DefaultNumQuestions = 3

	defaultTemperature = 0.7
	defaultTopP        = 0.9
)

type Service struct {
	db       *supabase.Client
	provider llm.Provider

	Table        string
	NumQuestions int
}

func NewService(db *supabase.Client, provider llm.Provider) *Service {
	return &Service{
		db:           db,
		provider:     provider,
		Table:        "career_path",
		NumQuestions: DefaultNumQuestions,
	}
}

// Career is a raw row from the career table.
type Career map[string]any

func (c Career) str(key string) string {
	if v, ok := c[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprintf("%v", v)
	}
	return ""
}

func (c Career) empty(key string) bool {
	v, ok := c[key]
	if !ok || v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	default:
		return false
	}
}

// FetchAll returns every career row. The remote default page size caps the
// result; batches beyond that need explicit ranges, which no current
// deployment hits.
func (s *Service) FetchAll(ctx context.Context) ([]Career, error) {
	rows, err := s.db.Select(ctx, s.Table, nil, 0)
	if err != nil {
		return nil, err
	}
	return toCareers(rows), nil
}

func (s *Service) FetchByName(ctx context.Context, name string) (Career, error) {
	return s.fetchOne(ctx, "name", name)
}

func (s *Service) FetchBySlug(ctx context.Context, slug string) (Career, error) {
	return s.fetchOne(ctx, "slug", slug)
}

func (s *Service) fetchOne(ctx context.Context, column, value string) (Career, error) {
	rows, err := s.db.Select(ctx, s.Table, []supabase.Filter{supabase.Eq(column, value)}, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("refine: career not found (%s=%q)", column, value)
	}
	return Career(rows[0]), nil
}

func toCareers(rows []map[string]any) []Career {
	out := make([]Career, 0, len(rows))
	for _, r := range rows {
		out = append(out, Career(r))
	}
	return out
}

// NeedsGeneration reports whether any of the synthesized fields is missing.
func NeedsGeneration(c Career) bool {
	return c.empty("ask_yourself") || c.empty("role_description") || c.empty("impact_sentence")
}

// Process checks one row, generates the missing content, and updates the
// row in place. A row that already has content (and no force) is a
// successful no-op.
func (s *Service) Process(ctx context.Context, career Career, force bool) error {
	name := career.str("name")
	slug := career.str("slug")
	log.Info().Str("name", name).Str("slug", slug).Msg("processing career")

	if !force && !NeedsGeneration(career) {
		log.Info().Str("slug", slug).Msg("content already exists, skipping")
		return nil
	}

	log.Info().Str("slug", slug).Msg("generating content")
	resp, err := s.provider.Generate(ctx, llm.GenerateRequest{
		Prompt:      BuildPrompt(career),
		Temperature: defaultTemperature,
		TopP:        defaultTopP,
	})
	if err != nil {
		return fmt.Errorf("refine: generation failed for %q: %w", slug, err)
	}

	gen, err := ParseGenerated(resp.Text)
	if err != nil {
		return fmt.Errorf("refine: unusable model response for %q: %w", slug, err)
	}

	patch := map[string]any{}
	if len(gen.AskYourself) > 0 {
		questions := gen.AskYourself
		if len(questions) > s.NumQuestions {
			questions = questions[:s.NumQuestions]
		}
		patch["ask_yourself"] = questions
	}
	if gen.RoleDescription != "" {
		patch["role_description"] = gen.RoleDescription
	}
	if gen.ImpactSentence != "" {
		patch["impact_sentence"] = gen.ImpactSentence
	}
	if len(patch) == 0 {
		return errors.New("refine: model returned no usable fields")
	}

	id, ok := career["id"]
	if !ok || id == nil {
		return errors.New("refine: career id missing, cannot update")
	}
	if err := s.db.UpdateByID(ctx, s.Table, id, patch); err != nil {
		return fmt.Errorf("refine: update failed for %q: %w", slug, err)
	}

	log.Info().Str("slug", slug).Msg("updated career")
	return nil
}

// Package reconcile pushes export documents into Supabase. Rows are matched
// by a composite identity filter instead of a primary key: find at most one
// existing row, then update it or insert a new one.
package reconcile

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"

	"college-sync/internal/domain"
	"college-sync/internal/supabase"
)

type Reconciler struct {
	db *supabase.Client

	// Table names are deploy configuration, not algorithm.
	CriteriaTable string
	JobsTable     string
	CollegeTable  string
	CourseTable   string
	MappingTable  string
}

func New(db *supabase.Client) *Reconciler {
	return &Reconciler{
		db:            db,
		CriteriaTable: "search_criteria",
		JobsTable:     "scrape_jobs",
		CollegeTable:  "st_college",
		CourseTable:   "st_course",
		MappingTable:  "st_college_courses",
	}
}

// NormalizeCase maps an identity value to its canonical form: trimmed,
// first rune upper-cased, rest untouched. Empty input is a true absence and
// becomes nil, never an empty string.
func NormalizeCase(value string) *string {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return nil
	}
	runes := []rune(cleaned)
	runes[0] = unicode.ToUpper(runes[0])
	out := string(runes)
	return &out
}

func identityFilter(column string, value *string) supabase.Filter {
	if value == nil {
		return supabase.Null(column)
	}
	return supabase.Eq(column, *value)
}

// SaveSearchCriteria stores the export document against the identity tuple
// (career_path, specialization, university, location). Location is
// mandatory; the other three may be absent. Exactly-one-match semantics:
// the first row matching all four filters (NULL filters match NULL columns)
// is updated in place, otherwise a new row is inserted. Never returns an
// error to the caller; the outcome is a success flag plus a message, and a
// non-empty jobID gets the outcome recorded best-effort.
func (r *Reconciler) SaveSearchCriteria(
	ctx context.Context,
	doc domain.Document,
	careerPath, specialization, university, location string,
	jobID string,
) (bool, string) {
	if !r.db.Configured() {
		msg := "Supabase credentials not found. Skipping Supabase save."
		log.Warn().Msg(msg)
		return false, msg
	}

	if strings.TrimSpace(location) == "" {
		msg := "Location is required to save data to Supabase."
		log.Error().Msg(msg)
		r.updateJobStatus(ctx, jobID, false, msg)
		return false, msg
	}

	normCareer := NormalizeCase(careerPath)
	normSpecialization := NormalizeCase(specialization)
	normUniversity := NormalizeCase(university)
	normLocation := NormalizeCase(location)

	record := map[string]any{
		"career_path":    optional(normCareer),
		"specialization": optional(normSpecialization),
		"university":     optional(normUniversity),
		"location":       optional(normLocation),
		"llm_json":       doc,
	}

	filters := []supabase.Filter{
		identityFilter("career_path", normCareer),
		identityFilter("specialization", normSpecialization),
		identityFilter("university", normUniversity),
		identityFilter("location", normLocation),
	}

	existing, err := r.db.Select(ctx, r.CriteriaTable, filters, 1)
	if err != nil {
		return r.fail(ctx, jobID, fmt.Sprintf("Error saving to Supabase: %v", err))
	}

	if len(existing) > 0 {
		if id, ok := existing[0]["id"]; ok && id != nil {
			if err := r.db.UpdateByID(ctx, r.CriteriaTable, id, record); err != nil {
				return r.fail(ctx, jobID, fmt.Sprintf("Error saving to Supabase: %v", err))
			}
			msg := fmt.Sprintf("Updated existing record in Supabase (ID: %v)", id)
			log.Info().Msg(msg)
			r.updateJobStatus(ctx, jobID, true, msg)
			return true, msg
		}
	}

	inserted, err := r.db.Insert(ctx, r.CriteriaTable, []map[string]any{record})
	if err != nil {
		return r.fail(ctx, jobID, fmt.Sprintf("Error saving to Supabase: %v", err))
	}
	if len(inserted) == 0 {
		msg := "Supabase insert returned no data"
		log.Warn().Msg(msg)
		r.updateJobStatus(ctx, jobID, false, msg)
		return false, msg
	}

	msg := fmt.Sprintf("Inserted new record in Supabase (ID: %v)", idOf(inserted[0]))
	log.Info().Msg(msg)
	r.updateJobStatus(ctx, jobID, true, msg)
	return true, msg
}

func (r *Reconciler) fail(ctx context.Context, jobID, msg string) (bool, string) {
	log.Error().Msg(msg)
	r.updateJobStatus(ctx, jobID, false, msg)
	return false, msg
}

// updateJobStatus records the save outcome on the scrape job row. It is
// best-effort: its own failures are logged and never propagated.
func (r *Reconciler) updateJobStatus(ctx context.Context, jobID string, success bool, message string) {
	if jobID == "" || !r.db.Configured() {
		return
	}
	log.Info().Str("job_id", jobID).Bool("success", success).Msg("updating job save status")
	err := r.db.UpdateByID(ctx, r.JobsTable, jobID, map[string]any{
		"save_success": success,
		"save_message": message,
	})
	if err != nil {
		log.Error().Err(err).Str("job_id", jobID).Msg("failed to update job status")
	}
}

func optional(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func idOf(row map[string]any) any {
	if id, ok := row["id"]; ok && id != nil {
		return id
	}
	return "N/A"
}

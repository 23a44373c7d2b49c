package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"college-sync/internal/domain"
	"college-sync/internal/supabase"
)

// SaveStaging projects the document into the normalized staging tables:
// colleges, courses, and their many-to-many mapping. Colleges and courses
// are deduplicated by exact name across the whole store, so re-running a
// batch only adds mapping rows that are genuinely new. Courses looked up
// once per run are memoized locally to avoid repeated remote round-trips.
func (r *Reconciler) SaveStaging(ctx context.Context, doc domain.Document, jobID string) (bool, string) {
	if !r.db.Configured() {
		msg := "Supabase credentials not found. Skipping staging table save."
		log.Warn().Msg(msg)
		return false, msg
	}

	if len(doc.Colleges) == 0 {
		msg := "No colleges found in JSON data"
		log.Warn().Msg(msg)
		return false, msg
	}

	log.Info().Int("colleges", len(doc.Colleges)).Msg("saving colleges to staging tables")

	var (
		collegesInserted int
		collegesSkipped  int
		coursesInserted  int
		mappingsInserted int
	)

	// Per-call memo: course name -> id.
	courseIDs := map[string]any{}

	for _, college := range doc.Colleges {
		name := strings.TrimSpace(college.Name)
		if name == "" {
			continue
		}

		collegeID, inserted, err := r.collegeID(ctx, college, name)
		if err != nil {
			log.Warn().Err(err).Str("college", name).Msg("failed to stage college")
			continue
		}
		if inserted {
			collegesInserted++
		} else {
			collegesSkipped++
		}

		for _, course := range college.Courses {
			courseName := strings.TrimSpace(course.Name)
			if courseName == "" {
				continue
			}

			courseID, ok := courseIDs[courseName]
			if !ok {
				var inserted bool
				var err error
				courseID, inserted, err = r.courseID(ctx, course, courseName)
				if err != nil {
					log.Warn().Err(err).Str("course", courseName).Msg("failed to stage course")
					continue
				}
				courseIDs[courseName] = courseID
				if inserted {
					coursesInserted++
				}
			}

			created, err := r.ensureMapping(ctx, collegeID, courseID)
			if err != nil {
				log.Warn().Err(err).Str("college", name).Str("course", courseName).Msg("failed to stage mapping")
				continue
			}
			if created {
				mappingsInserted++
			}
		}
	}

	msg := fmt.Sprintf(
		"Staging tables updated: %d colleges inserted, %d skipped, %d courses, %d mappings",
		collegesInserted, collegesSkipped, coursesInserted, mappingsInserted,
	)
	log.Info().Msg(msg)
	r.updateJobStatus(ctx, jobID, true, msg)
	return true, msg
}

// collegeID returns the staging row id for the college, inserting the row
// if no record with that exact name exists yet.
func (r *Reconciler) collegeID(ctx context.Context, college domain.College, name string) (any, bool, error) {
	existing, err := r.db.Select(ctx, r.CollegeTable, []supabase.Filter{supabase.Eq("name", name)}, 1)
	if err != nil {
		return nil, false, err
	}
	if len(existing) > 0 {
		log.Debug().Str("college", name).Msg("college already staged, reusing")
		return existing[0]["id"], false, nil
	}

	city := strings.TrimSpace(college.City)
	typ := strings.TrimSpace(college.Type)
	row, err := r.db.InsertOne(ctx, r.CollegeTable, map[string]any{
		"name":        name,
		"description": fmt.Sprintf("%s is located in %s, . Type: %s", name, city, typ),
		"city":        city,
		"type":        typ,
	})
	if err != nil {
		return nil, false, err
	}
	return row["id"], true, nil
}

func (r *Reconciler) courseID(ctx context.Context, course domain.Course, name string) (any, bool, error) {
	existing, err := r.db.Select(ctx, r.CourseTable, []supabase.Filter{supabase.Eq("name", name)}, 1)
	if err != nil {
		return nil, false, err
	}
	if len(existing) > 0 {
		return existing[0]["id"], false, nil
	}

	row, err := r.db.InsertOne(ctx, r.CourseTable, map[string]any{
		"name":         name,
		"description":  course.DegreeLevel,
		"duration":     course.Duration,
		"degree_level": course.DegreeLevel,
		"annual_fees":  course.AnnualFees,
	})
	if err != nil {
		return nil, false, err
	}
	return row["id"], true, nil
}

// ensureMapping inserts the (college, course) join row when it does not
// exist yet. Reports whether a row was created.
func (r *Reconciler) ensureMapping(ctx context.Context, collegeID, courseID any) (bool, error) {
	existing, err := r.db.Select(ctx, r.MappingTable, []supabase.Filter{
		supabase.Eq("college_id", fmt.Sprintf("%v", collegeID)),
		supabase.Eq("course_id", fmt.Sprintf("%v", courseID)),
	}, 1)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	if _, err := r.db.InsertOne(ctx, r.MappingTable, map[string]any{
		"college_id": collegeID,
		"course_id":  courseID,
	}); err != nil {
		return false, err
	}
	return true, nil
}

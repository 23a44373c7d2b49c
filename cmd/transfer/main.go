// One-off migration: copy career descriptions out of the scraped JSON
// blobs in the staging table into flat columns of the destination table.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/rs/zerolog/log"

	"college-sync/internal/config"
	"college-sync/internal/logging"
	"college-sync/internal/supabase"
)

func main() {
	var (
		source     = flag.String("source", "st_career_path", "source table holding json_data blobs")
		dest       = flag.String("dest", "career_path1", "destination table")
		dryRun     = flag.Bool("dry-run", false, "map records but do not insert")
		configFile = flag.String("config", "", "optional YAML config file")
	)
	flag.Parse()

	cfg, err := config.LoadWithFile(*configFile)
	if err != nil {
		logging.Init("info", "")
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Init(cfg.LogLevel, cfg.LogFile)

	db := supabase.New(cfg.SupabaseURL, cfg.SupabaseKey)
	if !db.Configured() {
		log.Fatal().Msg("missing env: SUPABASE_URL / SUPABASE_KEY")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	rows, err := db.Select(ctx, *source, nil, 0)
	if err != nil {
		log.Fatal().Err(err).Str("table", *source).Msg("failed to fetch source rows")
	}
	log.Info().Int("rows", len(rows)).Str("table", *source).Msg("fetched source rows")

	records := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		rec, ok := mapRecord(row)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	log.Info().Int("prepared", len(records)).Msg("prepared records for insertion")

	if *dryRun || len(records) == 0 {
		return
	}

	inserted, err := db.Insert(ctx, *dest, records)
	if err != nil {
		log.Fatal().Err(err).Str("table", *dest).Msg("insert failed")
	}
	log.Info().Int("inserted", len(inserted)).Str("table", *dest).Msg("migration complete")
}

// mapRecord flattens one json_data blob into destination columns. Rows
// without a blob or without a description are skipped.
func mapRecord(row map[string]any) (map[string]any, bool) {
	blob, ok := row["json_data"].(map[string]any)
	if !ok || len(blob) == 0 {
		return nil, false
	}

	description, _ := blob["description"].(string)
	if description == "" {
		return nil, false
	}

	return map[string]any{
		"name":                  blob["career_path"],
		"description":           description,
		"role_responsibilities": blob["role_responsibilities"],
		"education_required":    blob["education_required"],
		"salary_demand":         blob["salary_demand"],
		"career_options":        blob["career_options"],
		"key_skills_required":   blob["key_skills_required"],
	}, true
}

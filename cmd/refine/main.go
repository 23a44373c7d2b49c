package main

import (
	"context"
	"flag"
	"time"

	"github.com/rs/zerolog/log"

	"college-sync/internal/concurrency"
	"college-sync/internal/config"
	"college-sync/internal/llm"
	"college-sync/internal/logging"
	"college-sync/internal/refine"
	"college-sync/internal/supabase"
)

func main() {
	var (
		name       = flag.String("name", "", "single career name to process (e.g. 'Civil Engineer')")
		slug       = flag.String("slug", "", "single career slug to process (e.g. 'civil-engineer')")
		all        = flag.Bool("all", false, "process all careers from the DB")
		force      = flag.Bool("force", false, "regenerate existing content")
		workers    = flag.Int("workers", 1, "concurrent careers to process (batch mode)")
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
	if cfg.GeminiAPIKey == "" {
		log.Fatal().Msg("missing env: GEMINI_API_KEY")
	}

	svc := refine.NewService(db, llm.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel))
	svc.NumQuestions = cfg.NumQuestions

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	start := time.Now()
	switch {
	case *name != "":
		runOne(ctx, svc, func() (refine.Career, error) { return svc.FetchByName(ctx, *name) }, *force)
	case *slug != "":
		runOne(ctx, svc, func() (refine.Career, error) { return svc.FetchBySlug(ctx, *slug) }, *force)
	case *all:
		runAll(ctx, svc, *force, *workers, cfg.BatchSize)
	default:
		flag.Usage()
		return
	}
	log.Info().Dur("elapsed", time.Since(start)).Msg("done")
}

func runOne(ctx context.Context, svc *refine.Service, fetch func() (refine.Career, error), force bool) {
	career, err := fetch()
	if err != nil {
		log.Fatal().Err(err).Msg("career not found")
	}
	if err := svc.Process(ctx, career, force); err != nil {
		log.Fatal().Err(err).Msg("processing failed")
	}
}

func runAll(ctx context.Context, svc *refine.Service, force bool, workers, batchSize int) {
	log.Info().Msg("fetching all careers")
	careers, err := svc.FetchAll(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to fetch careers")
	}
	log.Info().Int("count", len(careers)).Msg("found careers")

	if workers > 1 {
		_, errs := concurrency.ProcessParallel(ctx, careers, concurrency.Options{MaxWorkers: workers},
			func(ctx context.Context, _ int, c refine.Career) (struct{}, error) {
				return struct{}{}, svc.Process(ctx, c, force)
			})
		failed := 0
		for _, err := range errs {
			if err != nil {
				failed++
				log.Error().Err(err).Msg("career failed")
			}
		}
		log.Info().Int("failed", failed).Int("total", len(careers)).Msg("batch finished")
		return
	}

	if batchSize <= 0 {
		batchSize = 10
	}
	failed := 0
	for i, career := range careers {
		if err := svc.Process(ctx, career, force); err != nil {
			failed++
			log.Error().Err(err).Msg("career failed")
		}
		// brief pause between batches to stay under provider rate limits
		if (i+1)%batchSize == 0 {
			time.Sleep(time.Second)
		}
	}
	log.Info().Int("failed", failed).Int("total", len(careers)).Msg("batch finished")
}

package main

import (
	"context"
	"flag"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"college-sync/internal/config"
	"college-sync/internal/domain"
	"college-sync/internal/export"
	"college-sync/internal/logging"
	"college-sync/internal/namecache"
	"college-sync/internal/persist"
	"college-sync/internal/reconcile"
	"college-sync/internal/sftpclient"
	"college-sync/internal/supabase"
)

func main() {
	var (
		input          = flag.String("input", "", "JSONL file with raw scraped records (required)")
		outDir         = flag.String("out-dir", "", "output directory (default from config)")
		base           = flag.String("base", "colleges_data", "base filename without extension")
		formats        = flag.String("formats", "csv,json", "comma-separated export formats")
		stream         = flag.Bool("stream", false, "append records one by one instead of writing snapshots")
		push           = flag.Bool("push", false, "push the JSON document to Supabase")
		staging        = flag.Bool("staging", false, "also project into the staging tables (implies -push)")
		careerPath     = flag.String("career-path", "", "career path identity filter")
		specialization = flag.String("specialization", "", "specialization identity filter")
		university     = flag.String("university", "", "university identity filter")
		location       = flag.String("location", "", "location identity filter (required for -push)")
		jobID          = flag.String("job-id", "", "scrape job id to record the save outcome on")
		compress       = flag.Bool("compress", false, "write a brotli-compressed copy of the JSON snapshot")
		uploadSFTP     = flag.Bool("sftp", false, "upload generated files via SFTP")
		configFile     = flag.String("config", "", "optional YAML config file")
	)
	flag.Parse()

	cfg, err := config.LoadWithFile(*configFile)
	if err != nil {
		logging.Init("info", "")
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Init(cfg.LogLevel, cfg.LogFile)

	if *input == "" {
		log.Fatal().Msg("missing -input: path to the raw JSONL records")
	}
	if *outDir == "" {
		*outDir = cfg.OutputDir
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Hour)
	defer cancel()

	records, err := export.ReadJSONLRecords(*input)
	if err != nil {
		log.Fatal().Err(err).Str("path", *input).Msg("failed to read input records")
	}
	log.Info().Int("records", len(records)).Str("path", *input).Msg("loaded raw records")

	exporter := export.NewExporter(cfg.ServerlessMode, namecache.New())
	reconciler := reconcile.New(supabase.New(cfg.SupabaseURL, cfg.SupabaseKey))
	formatList := splitFormats(*formats)

	var saved map[string]string
	if *stream {
		saved = streamRecords(exporter, records, *outDir, *base, formatList)
	} else {
		saver := persist.NewSaver(exporter, reconciler)
		saved = saver.Save(ctx, records, persist.Options{
			OutputDir:      *outDir,
			BaseFilename:   *base,
			Formats:        formatList,
			PushToSupabase: *push || *staging,
			PushStaging:    *staging,
			CareerPath:     *careerPath,
			Specialization: *specialization,
			University:     *university,
			Location:       *location,
			JobID:          *jobID,
			Compress:       *compress,
		})
	}

	for format, path := range saved {
		log.Info().Str("format", format).Str("path", path).Msg("saved")
	}

	if *uploadSFTP {
		uploadAll(ctx, cfg, saved)
	}
}

// streamRecords exercises the incremental sinks: each record is appended
// individually, with the CSV sink skipping names already present from an
// earlier run and the JSONL sink guarded by the existing-name set.
func streamRecords(
	exporter *export.Exporter,
	records []domain.RawCollege,
	outDir, base string,
	formats []string,
) map[string]string {
	existing := export.LoadExistingNames(outDir, base, formats)
	saved := map[string]string{}

	wantCSV := existing["csv"] != nil
	wantJSON := existing["json"] != nil

	for _, rec := range records {
		name := strings.ToLower(rec.Name())

		if wantCSV {
			if err := exporter.AppendCSV(outDir, base+".csv", rec); err != nil {
				log.Error().Err(err).Msg("failed to append to CSV")
			} else {
				saved["csv"] = filepath.Join(outDir, base+".csv")
			}
		}

		if wantJSON {
			if _, done := existing["json"][name]; done && name != "" {
				continue
			}
			if err := exporter.AppendJSONL(outDir, base+".jsonl", rec); err != nil {
				log.Error().Err(err).Msg("failed to append to JSONL")
				continue
			}
			if name != "" {
				existing["json"][name] = struct{}{}
			}
			saved["json"] = filepath.Join(outDir, base+".jsonl")
		}
	}

	return saved
}

func uploadAll(ctx context.Context, cfg config.Config, saved map[string]string) {
	upCfg := sftpclient.Config{
		Host:                  cfg.SFTPHost,
		Port:                  cfg.SFTPPort,
		User:                  cfg.SFTPUser,
		Pass:                  cfg.SFTPPass,
		RemoteDir:             cfg.SFTPDir,
		InsecureIgnoreHostKey: cfg.SFTPInsecureIgnoreHostKey,
	}

	for format, path := range saved {
		upCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
		err := sftpclient.UploadFile(upCtx, upCfg, path, filepath.Base(path))
		cancel()
		if err != nil {
			log.Error().Err(err).Str("format", format).Str("path", path).Msg("sftp upload failed")
			continue
		}
		log.Info().Str("path", path).Str("remote_dir", upCfg.RemoteDir).Msg("uploaded via sftp")
	}
}

func splitFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

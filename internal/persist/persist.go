// Package persist orchestrates the end-of-run save: dedupe once, transform
// once, write the requested flat-file snapshots, and optionally reconcile
// the document into Supabase.
package persist

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"college-sync/internal/dedupe"
	"college-sync/internal/domain"
	"college-sync/internal/export"
	"college-sync/internal/reconcile"
	"college-sync/internal/transform"
)

type Options struct {
	OutputDir    string
	BaseFilename string
	Formats      []string // "csv", "json"

	// Remote push (json format only).
	PushToSupabase bool
	PushStaging    bool
	CareerPath     string
	Specialization string
	University     string
	Location       string
	JobID          string

	// Also write a brotli-compressed copy of the JSON snapshot.
	Compress bool
}

type Saver struct {
	exporter   *export.Exporter
	reconciler *reconcile.Reconciler
}

func NewSaver(exporter *export.Exporter, reconciler *reconcile.Reconciler) *Saver {
	return &Saver{exporter: exporter, reconciler: reconciler}
}

// Save writes the batch in every requested format and returns a map of
// format -> output path. A format whose write failed, or an empty batch, is
// simply absent from the result; "no data" is not an error. Deduplication
// and transformation happen once and are shared across formats.
func (s *Saver) Save(ctx context.Context, records []domain.RawCollege, opts Options) map[string]string {
	saved := map[string]string{}

	if len(records) == 0 {
		log.Warn().Msg("no data to save")
		return saved
	}

	log.Info().Int("records", len(records)).Msg("removing duplicates")
	deduped := dedupe.Deduplicate(records)
	log.Info().Int("records", len(deduped)).Msg("after deduplication")

	var doc domain.Document
	transformed := false

	for _, format := range opts.Formats {
		switch strings.ToLower(format) {
		case "csv":
			filename := ensureExt(opts.BaseFilename, ".csv")
			path, err := s.exporter.WriteCSVSnapshot(opts.OutputDir, filename, deduped)
			if err != nil {
				log.Error().Err(err).Msg("failed to write CSV snapshot")
				continue
			}
			if path != "" {
				log.Info().Str("path", path).Msg("CSV saved")
				saved["csv"] = path
			}

		case "json":
			if !transformed {
				log.Info().Msg("transforming data to target format")
				doc = domain.Document{Colleges: transform.Colleges(deduped)}
				transformed = true
			}

			filename := ensureExt(strings.TrimSuffix(opts.BaseFilename, ".csv"), ".json")
			path, err := s.exporter.WriteDocument(opts.OutputDir, filename, doc)
			if err != nil {
				log.Error().Err(err).Msg("failed to write JSON document")
				continue
			}
			if path != "" {
				log.Info().Str("path", path).Msg("JSON saved")
				saved["json"] = path

				if opts.Compress {
					brPath, err := s.exporter.CompressFile(path)
					if err != nil {
						log.Error().Err(err).Msg("failed to compress JSON document")
					} else if brPath != "" {
						saved["json.br"] = brPath
					}
				}
			}

			if opts.PushToSupabase && s.reconciler != nil {
				log.Info().Msg("saving to Supabase")
				ok, msg := s.reconciler.SaveSearchCriteria(
					ctx, doc,
					opts.CareerPath, opts.Specialization, opts.University, opts.Location,
					opts.JobID,
				)
				if !ok {
					log.Error().Msg(msg)
				}

				if opts.PushStaging {
					ok, msg := s.reconciler.SaveStaging(ctx, doc, opts.JobID)
					if !ok {
						log.Error().Msg(msg)
					}
				}
			}

		default:
			log.Warn().Str("format", format).Msg("unknown export format, skipping")
		}
	}

	return saved
}

func ensureExt(base, ext string) string {
	if strings.HasSuffix(base, ext) {
		return base
	}
	return base + ext
}

// Package format drives a validation run: it batches model names for the AI
// cleaner, validates every record, and accumulates the run report. Failures
// are isolated per record and per batch; only an empty input set stops a run.
package format

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/catalog-tools/catqa/internal/aiclient"
	"github.com/catalog-tools/catqa/internal/catalog"
	"github.com/catalog-tools/catqa/internal/fileload"
	"github.com/catalog-tools/catqa/internal/keypool"
	"github.com/catalog-tools/catqa/internal/report"
	"github.com/catalog-tools/catqa/internal/validate"
)

// ErrNoInput is returned when none of the provided sources parsed.
var ErrNoInput = errors.New("format: no valid JSON input")

// Runner owns one formatting run end to end.
type Runner struct {
	cleaner   aiclient.Cleaner
	validator *validate.Validator
	batchSize int
	log       zerolog.Logger
}

// NewRunner wires a run driver. batchSize bounds the number of model names
// sent to the cleaner per call.
func NewRunner(cleaner aiclient.Cleaner, validator *validate.Validator, batchSize int, log zerolog.Logger) *Runner {
	return &Runner{cleaner: cleaner, validator: validator, batchSize: batchSize, log: log}
}

// Run validates every model from the given sources and returns the report
// together with the cleaned models. Sources that failed to parse are
// recorded as run errors; records that fail validation are counted and
// skipped. Pool exhaustion during name cleanup degrades to original names.
func (r *Runner) Run(ctx context.Context, sources []fileload.Source) (*report.Report, []catalog.Model, error) {
	rep := report.New()

	var models []catalog.Model
	for _, src := range sources {
		if src.Err != nil {
			rep.AddError("%v", src.Err)
			continue
		}
		models = append(models, src.Models...)
	}
	if len(models) == 0 {
		return nil, nil, ErrNoInput
	}
	rep.TotalModels = len(models)

	if err := r.prebatchNames(ctx, models, rep); err != nil {
		return nil, nil, err
	}

	cleaned := make([]catalog.Model, 0, len(models))
	for i := range models {
		res := r.validator.Validate(&models[i])
		rep.AddResult(res)
		if !res.Failed {
			cleaned = append(cleaned, models[i])
		}
	}

	rep.Finalize()
	r.log.Info().
		Int("total", rep.TotalModels).
		Int("processed", rep.ProcessedModels).
		Int("failed", rep.FailedModels).
		Int("issues", rep.TotalIssues()).
		Msg("run complete")
	return rep, cleaned, nil
}

// prebatchNames collects the unique model names across all inputs and fills
// the validator's name cache batch by batch. A degraded batch keeps its
// original names and is noted in the report; a canceled context stops the
// run.
func (r *Runner) prebatchNames(ctx context.Context, models []catalog.Model, rep *report.Report) error {
	names := make([]string, 0, len(models))
	for i := range models {
		if m := models[i].General.Model; m != nil {
			names = append(names, *m)
		}
	}
	unique := UniqueNames(names)
	if len(unique) == 0 {
		return nil
	}

	batches := Partition(unique, r.batchSize)
	r.log.Info().Int("names", len(unique)).Int("batches", len(batches)).Msg("starting name cleanup")

	for i, batch := range batches {
		if err := ctx.Err(); err != nil {
			return err
		}

		mapping, err := r.cleaner.TitleCaseBatch(ctx, batch)
		if err != nil {
			if errors.Is(err, keypool.ErrExhausted) && i == 0 {
				// Nothing was ever cleanable; surface it to the operator.
				return err
			}
			rep.AddError("batch %d/%d: %v", i+1, len(batches), err)
		}
		for orig, fixed := range mapping {
			r.validator.Names[orig] = fixed
		}
		r.log.Debug().Int("batch", i+1).Int("of", len(batches)).Msg("name batch complete")
	}
	return nil
}

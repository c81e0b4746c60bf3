package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/catalog-tools/catqa/internal/aiclient"
	"github.com/catalog-tools/catqa/internal/catalog"
	"github.com/catalog-tools/catqa/internal/cliconfig"
	"github.com/catalog-tools/catqa/internal/fileload"
	"github.com/catalog-tools/catqa/internal/format"
	"github.com/catalog-tools/catqa/internal/keypool"
	"github.com/catalog-tools/catqa/internal/validate"
)

const outTimestamp = "2006-01-02_15-04-05"

func newFormatCmd(cfg *cliconfig.Config, log *zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "format <file>...",
		Short: "Validate and fix catalog files, writing cleaned JSON and a report",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(cfg.APIKeys) == 0 {
				return fmt.Errorf("format needs at least one API key (--api-key, CATQA_API_KEY_1, or the config file)")
			}

			ctx, cancel := signalContext(*log)
			defer cancel()

			sources, err := fileload.LoadAll(args)
			if err != nil {
				return err
			}
			return runFormat(ctx, cfg, *log, sources)
		},
	}
}

// runFormat runs the full formatting pipeline over sources and writes the
// cleaned JSON and report into cfg.OutDir. Each run gets its own key pool so
// per-key caps apply per run.
func runFormat(ctx context.Context, cfg *cliconfig.Config, log zerolog.Logger, sources []fileload.Source) error {
	pool, err := keypool.New(cfg.APIKeys, cfg.MaxCallsPerKey)
	if err != nil {
		return err
	}
	if cfg.URLRate > 0 {
		// Reuse the probe rate as a gentle cap on AI calls too.
		pool.SetLimiter(rate.NewLimiter(rate.Limit(cfg.URLRate), 1))
	}
	log.Info().Int("keys", pool.Size()).Int("cap", cfg.MaxCallsPerKey).Msg("key pool ready")

	cleaner := aiclient.New(pool, aiclient.Config{
		Model:     cfg.Model,
		RetryBase: cfg.RetryBase,
		RetryMax:  cfg.RetryMax,
	}, log)
	runner := format.NewRunner(cleaner, validate.New(cfg.Countries), cfg.BatchSize, log)

	rep, cleaned, err := runner.Run(ctx, sources)
	if err != nil {
		return err
	}

	stamp := time.Now().Format(outTimestamp)
	jsonPath := filepath.Join(cfg.OutDir, fmt.Sprintf("formatted_json_%s.json", stamp))
	reportPath := filepath.Join(cfg.OutDir, fmt.Sprintf("formatting_report_%s.md", stamp))

	data, err := catalog.Encode(cleaned)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return fmt.Errorf("write cleaned JSON: %w", err)
	}
	if err := rep.WriteFile(reportPath); err != nil {
		return err
	}

	log.Info().Str("json", jsonPath).Str("report", reportPath).Msg("format complete")
	return nil
}

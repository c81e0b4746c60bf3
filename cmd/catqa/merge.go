package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/catalog-tools/catqa/internal/catalog"
	"github.com/catalog-tools/catqa/internal/cliconfig"
	"github.com/catalog-tools/catqa/internal/fileload"
	"github.com/catalog-tools/catqa/internal/merge"
)

func newMergeCmd(cfg *cliconfig.Config, log *zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "merge <file>...",
		Short: "Merge JSON files and archives into a single catalog file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := fileload.LoadAll(args)
			if err != nil {
				return err
			}

			res := merge.Merge(sources)
			for _, name := range res.InvalidFiles {
				log.Warn().Str("file", name).Msg("skipped invalid file")
			}
			if len(res.Models) == 0 {
				return fmt.Errorf("no valid JSON files found in the upload")
			}

			data, err := catalog.Encode(res.Models)
			if err != nil {
				return err
			}
			outPath := filepath.Join(cfg.OutDir,
				fmt.Sprintf("merged_json_%s.json", time.Now().Format(outTimestamp)))
			if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("write merged JSON: %w", err)
			}

			log.Info().
				Int("models", len(res.Models)).
				Int("skipped", len(res.InvalidFiles)).
				Str("out", outPath).
				Msg("merge complete")
			return nil
		},
	}
}

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
	"github.com/catalog-tools/catqa/internal/remove"
)

func newRemoveCmd(cfg *cliconfig.Config, log *zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <catalog.json> <models.xlsx>",
		Short: "Remove models listed in an Excel sheet from a catalog",
		Long: `Remove reads model names from the first column of the first sheet
of the Excel file and drops every matching model from the catalog.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := fileload.Load(args[0])
			if err != nil {
				return err
			}
			var models []catalog.Model
			for _, src := range sources {
				if src.Err != nil {
					return fmt.Errorf("load %s: %w", args[0], src.Err)
				}
				models = append(models, src.Models...)
			}

			names, err := remove.LoadNames(args[1])
			if err != nil {
				return fmt.Errorf("load %s: %w", args[1], err)
			}
			if len(names) == 0 {
				return fmt.Errorf("%s: no model names found in the first column", args[1])
			}

			res := remove.Filter(models, names)

			data, err := catalog.Encode(res.Kept)
			if err != nil {
				return err
			}
			outPath := filepath.Join(cfg.OutDir,
				fmt.Sprintf("cleaned_json_%s.json", time.Now().Format(outTimestamp)))
			if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("write cleaned JSON: %w", err)
			}

			log.Info().
				Int("kept", len(res.Kept)).
				Int("removed", res.Removed).
				Str("out", outPath).
				Msg("remove complete")
			return nil
		},
	}
}

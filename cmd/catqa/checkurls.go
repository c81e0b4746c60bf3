package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/catalog-tools/catqa/internal/cliconfig"
	"github.com/catalog-tools/catqa/internal/fileload"
	"github.com/catalog-tools/catqa/internal/urlcheck"
)

func newCheckURLsCmd(cfg *cliconfig.Config, log *zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "checkurls <file>...",
		Short: "Probe image, PDF and product URLs and report their status",
		Long: `Checkurls extracts every image, attachment and product URL from the
given catalog files, probes each one, and writes a zip of Excel workbooks
with one status sheet per URL kind per input file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(*log)
			defer cancel()

			checker := urlcheck.New(urlcheck.Config{
				Timeout: cfg.URLTimeout,
				Workers: cfg.URLWorkers,
				Rate:    cfg.URLRate,
			}, *log)

			var results []urlcheck.FileResult
			var totalURLs, totalBroken int
			for _, arg := range args {
				sources, err := fileload.Load(arg)
				if err != nil {
					return err
				}
				for _, src := range sources {
					if src.Err != nil {
						log.Warn().Str("file", src.Name).Err(src.Err).Msg("skipped invalid file")
						continue
					}

					entries := urlcheck.Extract(src.Models)
					if len(entries) == 0 {
						log.Warn().Str("file", src.Name).Msg("no URLs found")
						continue
					}
					log.Info().Str("file", src.Name).Int("urls", len(entries)).Msg("checking URLs")
					outcomes := checker.CheckAll(ctx, entries)

					wb, err := urlcheck.BuildWorkbook(entries, outcomes)
					if err != nil {
						return fmt.Errorf("build workbook for %s: %w", src.Name, err)
					}
					broken := 0
					for _, o := range outcomes {
						if o.Broken() {
							broken++
						}
					}
					base := strings.TrimSuffix(filepath.Base(src.Name), filepath.Ext(src.Name))
					results = append(results, urlcheck.FileResult{
						Name:     base + "_url_status.xlsx",
						Workbook: wb,
						Broken:   broken,
					})
					totalURLs += len(entries)
					totalBroken += broken
				}
			}
			if len(results) == 0 {
				return fmt.Errorf("no URLs to check in the given files")
			}

			outPath := filepath.Join(cfg.OutDir,
				fmt.Sprintf("url_check_results_%s.zip", time.Now().Format(outTimestamp)))
			if err := urlcheck.WriteZip(outPath, results); err != nil {
				return err
			}

			log.Info().
				Int("urls", totalURLs).
				Int("broken", totalBroken).
				Str("out", outPath).
				Msg("URL check complete")
			return nil
		},
	}
}

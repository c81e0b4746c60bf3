package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/catalog-tools/catqa/internal/cliconfig"
)

const helpDescription = `
catqa validates, merges, de-duplicates and link-checks JSON product-catalog
files, using the Gemini API to correct model-name letter case.

Highlights:
  - Deterministic fixes first: units, required fields, countries, media URLs.
  - AI name cleanup batched across a rotating pool of API keys with per-key
    call caps, so a single key never burns its quota.
  - Every fix and failure lands in a markdown run report.

Configure via ~/.catqa/config.toml, CATQA_* environment variables, or flags.
`

var exampleUsage = strings.TrimSpace(`
  catqa format catalog.json --api-key <key>
  catqa merge a.json b.json archive.zip -o out/
  catqa remove merged.json removals.xlsx
  catqa checkurls catalog.json
  catqa watch ./dropbox
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string
	log := cliconfig.Logger(false)

	root := &cobra.Command{
		Use:     "catqa",
		Short:   "QA toolkit for JSON product catalogs",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })
			cmd.Root().PersistentFlags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log = cliconfig.Logger(cfg.Verbose)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.catqa/config.toml)")
	pf.StringVar(&cfg.Model, "model", cfg.Model, "text model for name correction")
	pf.StringArrayVar(&cfg.APIKeys, "api-key", nil, "API key for the text model (repeatable)")
	pf.IntVar(&cfg.MaxCallsPerKey, "max-calls-per-key", cfg.MaxCallsPerKey, "call cap per API key for one run")
	pf.IntVar(&cfg.BatchSize, "batch-size", cfg.BatchSize, "model names per AI request")
	pf.StringSliceVar(&cfg.Countries, "countries", cfg.Countries, "accepted country codes")
	pf.DurationVar(&cfg.URLTimeout, "url-timeout", cfg.URLTimeout, "per-URL probe timeout")
	pf.IntVar(&cfg.URLWorkers, "url-workers", cfg.URLWorkers, "concurrent URL probes")
	pf.Float64Var(&cfg.URLRate, "url-rate", cfg.URLRate, "URL probes per second (0 disables pacing)")
	pf.StringVarP(&cfg.OutDir, "out-dir", "o", cfg.OutDir, "output directory")
	pf.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "enable debug logging")

	root.AddCommand(
		newFormatCmd(&cfg, &log),
		newMergeCmd(&cfg, &log),
		newRemoveCmd(&cfg, &log),
		newCheckURLsCmd(&cfg, &log),
		newWatchCmd(&cfg, &log),
	)

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("catqa")
		os.Exit(1)
	}
}

// signalContext returns a context canceled on SIGINT/SIGTERM.
func signalContext(log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			log.Info().Msg("received signal, stopping...")
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/catalog-tools/catqa/internal/cliconfig"
	"github.com/catalog-tools/catqa/internal/fileload"
	"github.com/catalog-tools/catqa/internal/watch"
)

func newWatchCmd(cfg *cliconfig.Config, log *zerolog.Logger) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Watch a directory and format every catalog file dropped into it",
		Long: `Watch monitors a drop directory. Each JSON file that appears (or is
rewritten) is formatted once it stops changing, with the cleaned JSON and
report written into the output directory (--out-dir).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(cfg.APIKeys) == 0 {
				return fmt.Errorf("watch needs at least one API key (--api-key, CATQA_API_KEY_1, or the config file)")
			}
			info, err := os.Stat(args[0])
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", args[0])
			}

			ctx, cancel := signalContext(*log)
			defer cancel()

			handler := func(ctx context.Context, path string) error {
				sources, err := fileload.Load(path)
				if err != nil {
					return err
				}
				return runFormat(ctx, cfg, *log, sources)
			}
			w := watch.New(args[0], watch.Config{DebounceDelay: debounce}, handler, *log)
			if err := w.Run(ctx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond,
		"how long a file must stay quiet before it is processed")
	return cmd
}

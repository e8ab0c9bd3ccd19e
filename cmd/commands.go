package main

import (
	"context"
	"os"

	"github.com/ColinFX/UniProtKB-Preprocessing/internal/config"
	"github.com/ColinFX/UniProtKB-Preprocessing/internal/corpus"
	"github.com/ColinFX/UniProtKB-Preprocessing/internal/uniprot"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// stage is one batch job run over the configured splits.
type stage func(ctx context.Context, cfg *config.Config, logger *log.Logger) error

func fetchStage(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	return uniprot.NewFetcher(cfg, logger).Run(ctx)
}

func extractStage(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	b, err := corpus.NewBuilder(cfg, logger)
	if err != nil {
		return err
	}
	return b.Run(ctx)
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		verbose    bool
	)

	// runStages loads and validates the configuration before any stage starts.
	runStages := func(stages ...stage) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger, closeLog, err := newLogger(cfg, os.Stderr, verbose)
			if err != nil {
				return err
			}
			defer closeLog()

			logger.Debug("loaded config", "input_dir", cfg.InputDir, "download_dir", cfg.DownloadDir, "processed_dir", cfg.ProcessedDir,
				"splits", cfg.Splits, "base_url", cfg.BaseURL, "max_len", cfg.MaxLen, "overlap_len", cfg.OverlapLen, "log_file", cfg.LogFile)
			for _, s := range stages {
				if err := s(cmd.Context(), cfg, logger); err != nil {
					logger.Error("stage failed", "err", err)
					return err
				}
			}
			return nil
		}
	}

	rootCmd := &cobra.Command{
		Use:   "uniprotkb",
		Short: "Download UniProtKB entries and turn them into a JSONL training corpus",
		Long: `uniprotkb builds a text corpus from UniProtKB protein entries in two stages:

1. fetch: download <base-url>/<accession>.json for every accession listed in
   <input-dir>/<split>.txt into <download-dir>/<split>/<accession>.json
2. extract: read every entry of <download-dir>/<split>, keep the annotation
   fields, strip PubMed citations, cut long sequences into overlapping
   windows and write <processed-dir>/<split>.jsonl`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "path to a config file (default ./config.{json,yaml,toml})")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable verbose (debug) logging")
	pf.String("log-file", "", "append logs to this file as well as stderr")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("input-dir", "", "directory holding <split>.txt accession lists")
	pf.String("download-dir", "", "root directory of raw entries")
	pf.String("processed-dir", "", "directory of the JSONL corpus")
	pf.StringSliceP("split", "s", nil, "splits to process, in order (default test,val,train)")
	pf.String("base-url", "", "UniProtKB REST base URL")
	pf.Int("max-len", 0, "maximum segment length")
	pf.Int("overlap-len", 0, "overlap between consecutive segments")
	pf.Duration("timeout", 0, "HTTP request timeout")
	pf.Duration("delay", 0, "pause between two requests")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "fetch",
			Short: "Download the raw JSON entry of every listed accession",
			Args:  cobra.NoArgs,
			RunE:  runStages(fetchStage),
		},
		&cobra.Command{
			Use:   "extract",
			Short: "Build the per-split JSONL corpus from downloaded entries",
			Args:  cobra.NoArgs,
			RunE:  runStages(extractStage),
		},
		&cobra.Command{
			Use:   "run",
			Short: "Fetch, then extract",
			Args:  cobra.NoArgs,
			RunE:  runStages(fetchStage, extractStage),
		},
	)
	return rootCmd
}

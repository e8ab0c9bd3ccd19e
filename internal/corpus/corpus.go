package corpus

// Package corpus turns the raw entries of a split into one JSONL file with a
// line per sequence segment.

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ColinFX/UniProtKB-Preprocessing/internal/config"
	"github.com/ColinFX/UniProtKB-Preprocessing/internal/features"
	"github.com/ColinFX/UniProtKB-Preprocessing/internal/segment"

	"github.com/charmbracelet/log"
	"github.com/segmentio/encoding/json"
)

// BuildStats counts the outcome of one split.
type BuildStats struct {
	Files   int
	Skipped int
	Records int
	Lines   int
}

// Builder extracts, segments and writes the corpus of each split.
type Builder struct {
	cfg       *config.Config
	extractor *features.Extractor
	logger    *log.Logger
}

// NewBuilder fails when the configured window cannot advance along a
// sequence, before any file is touched.
func NewBuilder(cfg *config.Config, logger *log.Logger) (*Builder, error) {
	if err := segment.Validate(cfg.MaxLen, cfg.OverlapLen); err != nil {
		return nil, err
	}
	return &Builder{
		cfg:       cfg,
		extractor: features.NewExtractor(logger),
		logger:    logger,
	}, nil
}

// Run builds every configured split in order.
func (b *Builder) Run(ctx context.Context) error {
	for _, split := range b.cfg.Splits {
		if _, err := b.BuildSplit(ctx, split); err != nil {
			return err
		}
	}
	return nil
}

// BuildSplit rewrites the corpus file of split from its download directory.
// Files are visited in lexical order so unchanged inputs give identical
// output. Unreadable entries are logged and skipped.
func (b *Builder) BuildSplit(ctx context.Context, split string) (BuildStats, error) {
	var stats BuildStats

	inDir := b.cfg.SplitDownloadDir(split)
	entries, err := os.ReadDir(inDir)
	if err != nil {
		return stats, fmt.Errorf("read split dir: %w", err)
	}
	if err := os.MkdirAll(b.cfg.ProcessedDir, 0o755); err != nil {
		return stats, fmt.Errorf("create processed dir: %w", err)
	}

	outPath := b.cfg.CorpusPath(split)
	out, err := os.Create(outPath)
	if err != nil {
		return stats, fmt.Errorf("create corpus file: %w", err)
	}
	defer out.Close()

	bw := bufio.NewWriterSize(out, 64<<10)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)

	b.logger.Info("extracting split", "split", split, "files", len(entries), "out", outPath)
	start := time.Now()
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if !entry.Type().IsRegular() {
			continue
		}
		stats.Files++

		path := filepath.Join(inDir, entry.Name())
		lines, err := b.linesFor(path)
		if err != nil {
			stats.Skipped++
			b.logger.Warn("skipping entry", "split", split, "file", entry.Name(), "err", err)
			continue
		}
		for i := range lines {
			if err := enc.Encode(&lines[i]); err != nil {
				return stats, fmt.Errorf("write corpus line: %w", err)
			}
		}
		stats.Records++
		stats.Lines += len(lines)
	}

	if err := bw.Flush(); err != nil {
		return stats, fmt.Errorf("flush corpus file: %w", err)
	}
	if err := out.Close(); err != nil {
		return stats, fmt.Errorf("close corpus file: %w", err)
	}
	b.logger.Info("split extracted", "split", split, "records", stats.Records, "lines", stats.Lines, "skipped", stats.Skipped, "duration_ms", time.Since(start).Milliseconds())
	return stats, nil
}

// linesFor decodes one raw entry and returns its corpus lines.
func (b *Builder) linesFor(path string) ([]features.Line, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entry map[string]any
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to load: %w", err)
	}
	if entry == nil {
		return nil, errors.New("failed to load: entry is not a JSON object")
	}

	fs, err := b.extractor.Extract(entry)
	if err != nil {
		return nil, err
	}
	segments, err := segment.Split(fs.Get(features.Sequence), b.cfg.MaxLen, b.cfg.OverlapLen)
	if err != nil {
		return nil, err
	}
	lines := make([]features.Line, len(segments))
	for i, s := range segments {
		lines[i] = fs.Line(s)
	}
	return lines, nil
}

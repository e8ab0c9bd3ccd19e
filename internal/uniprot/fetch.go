package uniprot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ColinFX/UniProtKB-Preprocessing/internal/accession"
	"github.com/ColinFX/UniProtKB-Preprocessing/internal/config"

	"github.com/charmbracelet/log"
	"github.com/segmentio/encoding/json"
)

// FetchStats counts the outcome of one split download.
type FetchStats struct {
	Requested int
	Saved     int
	Failed    int
}

// Fetcher downloads the raw entry of every listed accession, one split at a
// time, sequentially.
type Fetcher struct {
	cfg    *config.Config
	client *Client
	logger *log.Logger
}

func NewFetcher(cfg *config.Config, logger *log.Logger) *Fetcher {
	return &Fetcher{
		cfg:    cfg,
		client: NewClient(cfg.BaseURL, cfg.UserAgent, cfg.Timeout),
		logger: logger,
	}
}

// Run fetches every configured split in order.
func (f *Fetcher) Run(ctx context.Context) error {
	for _, split := range f.cfg.Splits {
		if _, err := f.FetchSplit(ctx, split); err != nil {
			return err
		}
	}
	return nil
}

// FetchSplit downloads the accessions listed for split into the split's
// download directory. Per-accession failures are logged and skipped; only
// setup errors and cancellation are returned.
func (f *Fetcher) FetchSplit(ctx context.Context, split string) (FetchStats, error) {
	var stats FetchStats

	dir := f.cfg.SplitDownloadDir(split)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return stats, fmt.Errorf("create download dir: %w", err)
	}

	listPath := f.cfg.AccessionListPath(split)
	accs, err := accession.ReadFile(listPath)
	if err != nil {
		return stats, err
	}
	f.logger.Info("fetching split", "split", split, "accessions", len(accs), "dir", dir)

	start := time.Now()
	for i, acc := range accs {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if i > 0 && f.cfg.Delay > 0 {
			select {
			case <-ctx.Done():
				return stats, ctx.Err()
			case <-time.After(f.cfg.Delay):
			}
		}

		stats.Requested++
		if err := f.fetchOne(ctx, split, acc); err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			stats.Failed++
			var se *StatusError
			if errors.As(err, &se) {
				f.logger.Warn("failed to download", "split", split, "accession", acc, "status", se.StatusCode)
			} else {
				f.logger.Warn("failed to download", "split", split, "accession", acc, "err", err)
			}
			continue
		}
		stats.Saved++
		f.logger.Debug("saved record", "split", split, "accession", acc, "progress", fmt.Sprintf("%d/%d", i+1, len(accs)))
	}

	f.logger.Info("split fetched", "split", split, "saved", stats.Saved, "failed", stats.Failed, "duration_ms", time.Since(start).Milliseconds())
	return stats, nil
}

func (f *Fetcher) fetchOne(ctx context.Context, split, acc string) error {
	body, err := f.client.Fetch(ctx, acc)
	if err != nil {
		return err
	}
	if !json.Valid(body) {
		return fmt.Errorf("decode %s: response is not valid JSON", acc)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "    "); err != nil {
		return fmt.Errorf("decode %s: %w", acc, err)
	}
	if err := os.WriteFile(f.cfg.RecordPath(split, acc), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", acc, err)
	}
	return nil
}

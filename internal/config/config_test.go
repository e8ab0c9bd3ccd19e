package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ColinFX/UniProtKB-Preprocessing/internal/segment"

	"github.com/spf13/pflag"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.json"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.BaseURL != DefaultBaseURL {
		t.Fatalf("expected default base url, got %q", c.BaseURL)
	}
	if c.MaxLen != 1022 || c.OverlapLen != 256 {
		t.Fatalf("unexpected window %d/%d", c.MaxLen, c.OverlapLen)
	}
	if len(c.Splits) != 3 || c.Splits[0] != "test" || c.Splits[2] != "train" {
		t.Fatalf("unexpected splits %q", c.Splits)
	}
	if c.Timeout != 30*time.Second {
		t.Fatalf("unexpected timeout %v", c.Timeout)
	}
}

func TestLoadFileAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"input_dir": "/lists", "max_len": 512, "overlap_len": 64, "request_delay": "250ms", "splits": ["val"]}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("input-dir", "", "")
	flags.Int("overlap-len", 0, "")
	if err := flags.Parse([]string{"--overlap-len", "128"}); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path, flags)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.InputDir != "/lists" {
		t.Fatalf("unchanged flag must not override file, got %q", c.InputDir)
	}
	if c.MaxLen != 512 || c.OverlapLen != 128 {
		t.Fatalf("unexpected window %d/%d", c.MaxLen, c.OverlapLen)
	}
	if c.Delay != 250*time.Millisecond {
		t.Fatalf("unexpected delay %v", c.Delay)
	}
	if len(c.Splits) != 1 || c.Splits[0] != "val" {
		t.Fatalf("unexpected splits %q", c.Splits)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, nil); err == nil {
		t.Fatalf("expected error for malformed config")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		window  bool
	}{
		{"defaults", func(c *Config) {}, false, false},
		{"no splits", func(c *Config) { c.Splits = nil }, true, false},
		{"split with separator", func(c *Config) { c.Splits = []string{"../train"} }, true, false},
		{"empty base url", func(c *Config) { c.BaseURL = " " }, true, false},
		{"overlap equals max", func(c *Config) { c.OverlapLen = c.MaxLen }, true, true},
		{"overlap above max", func(c *Config) { c.MaxLen, c.OverlapLen = 10, 20 }, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.window && !errors.Is(err, segment.ErrInvalidWindow) {
				t.Fatalf("expected ErrInvalidWindow, got %v", err)
			}
		})
	}
}

func TestPaths(t *testing.T) {
	c := Default()
	c.InputDir, c.DownloadDir, c.ProcessedDir = "in", "dl", "out"

	if got := c.AccessionListPath("val"); got != filepath.Join("in", "val.txt") {
		t.Fatalf("unexpected list path %q", got)
	}
	if got := c.RecordPath("val", "P12345"); got != filepath.Join("dl", "val", "P12345.json") {
		t.Fatalf("unexpected record path %q", got)
	}
	if got := c.CorpusPath("val"); got != filepath.Join("out", "val.jsonl") {
		t.Fatalf("unexpected corpus path %q", got)
	}
}

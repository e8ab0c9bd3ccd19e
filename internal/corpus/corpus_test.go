package corpus

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ColinFX/UniProtKB-Preprocessing/internal/config"
	"github.com/ColinFX/UniProtKB-Preprocessing/internal/features"
	"github.com/ColinFX/UniProtKB-Preprocessing/internal/segment"

	"github.com/charmbracelet/log"
	"github.com/segmentio/encoding/json"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	c := config.Default()
	c.DownloadDir = filepath.Join(root, "download")
	c.ProcessedDir = filepath.Join(root, "processed")
	c.Splits = []string{"val"}
	c.MaxLen = 4
	c.OverlapLen = 2
	return c
}

func writeEntry(t *testing.T, cfg *config.Config, split, name, body string) {
	t.Helper()
	dir := cfg.SplitDownloadDir(split)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readLines(t *testing.T, path string) []map[string]any {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var out []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var m map[string]any
		if err := json.Unmarshal(sc.Bytes(), &m); err != nil {
			t.Fatalf("line is not JSON: %v: %s", err, sc.Text())
		}
		out = append(out, m)
	}
	return out
}

const longEntry = `{
    "primaryAccession": "P00001",
    "organism": {"scientificName": "Mus musculus", "lineage": ["Eukaryota", "Mus"]},
    "comments": [
        {"commentType": "FUNCTION", "texts": [{"value": "Kinase <ATP> (PubMed:1)."}]}
    ],
    "sequence": {"value": "ABCDEFGHIJ"}
}`

const shortEntry = `{
    "primaryAccession": "P00002",
    "sequence": {"value": "MKV"}
}`

func TestBuildSplit(t *testing.T) {
	cfg := testConfig(t)
	writeEntry(t, cfg, "val", "P00001.json", longEntry)
	writeEntry(t, cfg, "val", "P00002.json", shortEntry)
	writeEntry(t, cfg, "val", "P00003.json", `{"primaryAccession": `)
	writeEntry(t, cfg, "val", "P00004.json", `{"sequence": {"value": "MKV"}}`)
	if err := os.MkdirAll(filepath.Join(cfg.SplitDownloadDir("val"), "nested"), 0o755); err != nil {
		t.Fatal(err)
	}

	var logs bytes.Buffer
	b, err := NewBuilder(cfg, log.New(&logs))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stats, err := b.BuildSplit(context.Background(), "val")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Files != 4 || stats.Records != 2 || stats.Skipped != 2 || stats.Lines != 6 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	lines := readLines(t, cfg.CorpusPath("val"))
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d", len(lines))
	}
	wantSeqs := []string{"ABCD", "CDEF", "EFGH", "GHIJ", "GHIJ", "MKV"}
	for i, line := range lines {
		if len(line) != len(features.Fields()) {
			t.Fatalf("line %d has %d keys", i, len(line))
		}
		for _, f := range features.Fields() {
			if _, ok := line[f.String()].(string); !ok {
				t.Fatalf("line %d: key %s missing or not a string", i, f)
			}
		}
		if line["sequence"] != wantSeqs[i] {
			t.Fatalf("line %d: expected sequence %q, got %v", i, wantSeqs[i], line["sequence"])
		}
	}
	for _, line := range lines[:5] {
		if line["accession"] != "P00001" || line["description"] != "Kinase <ATP> ." {
			t.Fatalf("fields not duplicated across segments: %v", line)
		}
		if line["organism"] != "lineage: Mus, organism: Mus musculus" {
			t.Fatalf("unexpected organism %v", line["organism"])
		}
	}
	if lines[5]["accession"] != "P00002" || lines[5]["description"] != "" {
		t.Fatalf("unexpected short entry line %v", lines[5])
	}

	raw, _ := os.ReadFile(cfg.CorpusPath("val"))
	if !strings.Contains(string(raw), "<ATP>") {
		t.Fatalf("HTML characters must not be escaped: %s", raw)
	}
	if !strings.HasSuffix(string(raw), "}\n") {
		t.Fatalf("corpus must be newline-terminated")
	}
	if !strings.Contains(logs.String(), "P00003.json") || !strings.Contains(logs.String(), "P00004.json") {
		t.Fatalf("expected skip warnings for broken files, got %s", logs.String())
	}
}

func TestBuildSplitIsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	writeEntry(t, cfg, "val", "P00002.json", shortEntry)
	writeEntry(t, cfg, "val", "P00001.json", longEntry)

	b, err := NewBuilder(cfg, log.New(&bytes.Buffer{}))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.BuildSplit(context.Background(), "val"); err != nil {
		t.Fatal(err)
	}
	first, _ := os.ReadFile(cfg.CorpusPath("val"))
	if _, err := b.BuildSplit(context.Background(), "val"); err != nil {
		t.Fatal(err)
	}
	second, _ := os.ReadFile(cfg.CorpusPath("val"))
	if !bytes.Equal(first, second) {
		t.Fatalf("re-run changed output:\n%s\n---\n%s", first, second)
	}
	if len(readLines(t, cfg.CorpusPath("val"))) != 6 {
		t.Fatalf("corpus must be truncated, not appended")
	}
}

func TestNewBuilderRejectsWindow(t *testing.T) {
	cfg := testConfig(t)
	cfg.OverlapLen = cfg.MaxLen
	if _, err := NewBuilder(cfg, log.New(&bytes.Buffer{})); !errors.Is(err, segment.ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
	if _, err := os.Stat(cfg.ProcessedDir); !os.IsNotExist(err) {
		t.Fatalf("nothing should be created for an invalid window")
	}
}

func TestRunMissingSplitDir(t *testing.T) {
	cfg := testConfig(t)
	b, err := NewBuilder(cfg, log.New(&bytes.Buffer{}))
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Run(context.Background()); err == nil {
		t.Fatalf("expected error for missing split directory")
	}
}

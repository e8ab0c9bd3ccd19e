package accession

// Package accession reads the per-split accession lists: plain text, one
// identifier per line.

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Parse reads accessions from r. Lines are whitespace-trimmed and blank
// lines are skipped; order is preserved.
func Parse(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	var accessions []string
	for scanner.Scan() {
		acc := strings.TrimSpace(scanner.Text())
		if acc == "" {
			continue
		}
		accessions = append(accessions, acc)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return accessions, nil
}

// ReadFile opens path and parses it with Parse.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open accession list: %w", err)
	}
	defer f.Close()
	accs, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("read accession list %s: %w", path, err)
	}
	return accs, nil
}

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/ColinFX/UniProtKB-Preprocessing/internal/config"

	"github.com/charmbracelet/log"
)

// version is the program version. It can be overridden at build time with -ldflags "-X main.version=..."
var version = "0.1.0"

// timestampWriter prefixes each flushed line with an RFC3339 timestamp.
type timestampWriter struct {
	w   io.Writer
	buf bytes.Buffer
	mu  sync.Mutex
}

// Write buffers bytes until a newline is found; for each full line, write a timestamped
// line to the underlying writer. Partial lines are kept in the buffer.
func (t *timestampWriter) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, _ := t.buf.Write(p)
	for {
		line, err := t.buf.ReadString('\n')
		if err != nil {
			// keep the partial line for the next write
			t.buf.Reset()
			t.buf.WriteString(line)
			break
		}
		ts := time.Now().Format(time.RFC3339)
		if _, err := t.w.Write([]byte(ts + " " + line)); err != nil {
			return n, err
		}
	}
	return n, nil
}

// terminalWriter wraps an io.Writer and exposes an Fd method so libraries that
// inspect the file descriptor (for TTY detection) can work with wrapped writers.
type terminalWriter struct {
	w  io.Writer
	fd uintptr
}

func (tw *terminalWriter) Write(p []byte) (int, error) { return tw.w.Write(p) }

// Fd exposes the underlying file descriptor (e.g., os.Stderr.Fd()).
func (tw *terminalWriter) Fd() uintptr { return tw.fd }

// parseLevel maps a config log_level onto a charm level; ok is false for
// unknown names, which fall back to info.
func parseLevel(s string) (log.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel, true
	case "info", "":
		return log.InfoLevel, true
	case "warn", "warning":
		return log.WarnLevel, true
	case "error":
		return log.ErrorLevel, true
	default:
		return log.InfoLevel, false
	}
}

// newLogger builds the process logger writing to stderr and, when configured,
// appending to cfg.LogFile as well. The returned func closes the log file.
func newLogger(cfg *config.Config, stderr *os.File, verbose bool) (*log.Logger, func(), error) {
	var out io.Writer = stderr
	closer := func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, closer, fmt.Errorf("open log file: %w", err)
		}
		// write to both stderr and file so running interactively still shows logs
		out = io.MultiWriter(stderr, f)
		closer = func() { _ = f.Close() }
	}

	tw := &timestampWriter{w: out}
	logger := log.New(&terminalWriter{w: tw, fd: stderr.Fd()})

	lvl, ok := parseLevel(cfg.LogLevel)
	if verbose {
		lvl = log.DebugLevel
	}
	logger.SetLevel(lvl)
	if !ok {
		logger.Warn("unknown log_level in config, defaulting to info", "provided", cfg.LogLevel)
	}
	return logger, closer, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

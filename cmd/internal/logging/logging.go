// Package logging sets up the process wide slog handler. Any error level
// record flips the process exit code, and the output can be mirrored to a
// log file once the flags tell us where it should live.
package logging

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
)

func Logging() (exit func()) {
	var logLevel slog.LevelVar
	flag.TextVar(&logLevel, "log-level", &logLevel, "Set the logging level")

	h := &slogErrorHandler{
		Handler: slog.NewTextHandler(&output, &slog.HandlerOptions{Level: &logLevel}),
	}

	logger := slog.New(h)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(slog.LevelError)

	return func() {
		output.close()
		if h.hadSlogError.Load() {
			os.Exit(1)
		}
		os.Exit(0)
	}
}

type slogErrorHandler struct {
	slog.Handler
	hadSlogError atomic.Bool
}

func (n *slogErrorHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level == slog.LevelError {
		n.hadSlogError.Store(true)
	}
	return n.Handler.Handle(ctx, r)
}

// Writer returns the sink the handler writes to, for run output which
// should land next to the log records, mirrored file included.
func Writer() io.Writer {
	return &output
}

// TeeFile mirrors everything written from here on to the file at path too.
func TeeFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	output.tee(f)
	return nil
}

var output teeWriter

// teeWriter writes to stderr, plus at most one log file hooked in after
// flag parsing, once the root dir is known.
type teeWriter struct {
	mu   sync.Mutex
	file *os.File
}

func (t *teeWriter) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.file != nil {
		_, _ = t.file.Write(p) // best effort mirror
	}
	return os.Stderr.Write(p)
}

func (t *teeWriter) tee(f *os.File) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.file = f
}

func (t *teeWriter) close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.file != nil {
		t.file.Close()
		t.file = nil
	}
}

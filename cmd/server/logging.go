package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/rpggio/cabinet/internal/config"
)

// newLogger builds the process logger. Stdio mode logs to stderr so stdout
// carries only protocol frames. A configured path takes precedence over both.
func newLogger(cfg config.LogConfig, mode string) (*slog.Logger, func()) {
	var w io.Writer = os.Stdout
	if mode == "stdio" {
		w = os.Stderr
	}
	closeFn := func() {}
	if cfg.Path != "" {
		limit := int64(cfg.MaxSizeMB) * 1024 * 1024
		file, err := openCappedLog(cfg.Path, limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			w = file
			closeFn = func() { _ = file.Close() }
		}
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Level),
	}))
	return logger, closeFn
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// cappedLog is an append-only log file that keeps only its newest bytes once
// it grows past limit. After a trim, roughly five sixths of limit remain.
type cappedLog struct {
	mu    sync.Mutex
	file  *os.File
	limit int64
	keep  int64
}

func openCappedLog(path string, limit int64) (*cappedLog, error) {
	if err := ensureParentDir(path); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	l := &cappedLog{file: file, limit: limit, keep: limit * 5 / 6}
	if err := l.trim(); err != nil {
		file.Close()
		return nil, err
	}
	return l, nil
}

func (l *cappedLog) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n, err := l.file.Write(p)
	if err != nil {
		return n, err
	}
	return n, l.trim()
}

func (l *cappedLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

// trim requires l.mu to be held, or exclusive ownership during open.
func (l *cappedLog) trim() error {
	info, err := l.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size <= l.limit {
		return nil
	}

	tail := make([]byte, l.keep)
	n, err := l.file.ReadAt(tail, size-l.keep)
	if err != nil && err != io.EOF {
		return err
	}
	if err := l.file.Truncate(0); err != nil {
		return err
	}
	// O_APPEND writes land at the new end of file after truncation.
	_, err = l.file.Write(tail[:n])
	return err
}

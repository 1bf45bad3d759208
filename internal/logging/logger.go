package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options describes logger construction parameters.
type Options struct {
	Level       string
	Format      string
	OutputPaths []string
	Development bool
}

// New constructs a zap logger writing to every output path. "stdout" and
// "stderr" are console streams; anything else is opened as an append-only file.
func New(opts Options) (*zap.Logger, error) {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}
	if format != "console" && format != "json" {
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	paths := dedupe(opts.OutputPaths)
	if len(paths) == 0 {
		paths = []string{"stdout"}
	}

	var cores []zapcore.Core
	for _, path := range paths {
		sink, color, err := openSink(path)
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(newEncoder(format, color), sink, level))
	}

	zopts := []zap.Option{zap.AddStacktrace(zapcore.ErrorLevel)}
	if opts.Development {
		zopts = append(zopts, zap.AddCaller(), zap.Development())
	}
	return zap.New(zapcore.NewTee(cores...), zopts...), nil
}

// NewForComponent builds a logger that writes to logPath and, when toStdout is
// set, to stdout as well. The component name is attached to every entry.
func NewForComponent(level, format, logPath, component string, toStdout bool) (*zap.Logger, error) {
	var outputs []string
	if toStdout {
		outputs = append(outputs, "stdout")
	}
	if strings.TrimSpace(logPath) != "" {
		outputs = append(outputs, logPath)
	}
	if len(outputs) == 0 {
		return zap.NewNop(), nil
	}
	logger, err := New(Options{Level: level, Format: format, OutputPaths: outputs})
	if err != nil {
		return nil, err
	}
	if component != "" {
		logger = logger.With(zap.String("component", component))
	}
	return logger, nil
}

func parseLevel(level string) (zap.AtomicLevel, error) {
	trimmed := strings.ToLower(strings.TrimSpace(level))
	if trimmed == "" {
		return zap.NewAtomicLevelAt(zapcore.InfoLevel), nil
	}
	lvl, err := zap.ParseAtomicLevel(trimmed)
	if err != nil {
		return zap.AtomicLevel{}, fmt.Errorf("log level: %w", err)
	}
	return lvl, nil
}

func newEncoder(format string, color bool) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder
	if format == "json" {
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	if color {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return zapcore.NewConsoleEncoder(cfg)
}

func openSink(path string) (zapcore.WriteSyncer, bool, error) {
	switch path {
	case "stdout":
		return zapcore.Lock(os.Stdout), isTerminal(os.Stdout), nil
	case "stderr":
		return zapcore.Lock(os.Stderr), isTerminal(os.Stderr), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, false, fmt.Errorf("ensure log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, false, fmt.Errorf("open log file %s: %w", path, err)
	}
	return zapcore.AddSync(file), false, nil
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func dedupe(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

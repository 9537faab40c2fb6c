package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger that writes human-readable lines to stdout and JSON
// lines to <dir>/log_YYYY-MM-DD.log. An empty dir disables the file sink.
// The returned cleanup flushes the logger and closes the file.
func New(mode, dir string) (*zap.Logger, func(), error) {
	level := zap.NewAtomicLevelAt(zap.DebugLevel)
	consoleCfg := zap.NewDevelopmentEncoderConfig()
	if isProduction(mode) {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
		consoleCfg = zap.NewProductionEncoderConfig()
		consoleCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stdout), level),
	}

	var file *os.File
	if dir != "" {
		f, err := openDatedFile(dir, time.Now())
		if err != nil {
			return nil, nil, err
		}
		file = f
		fileCfg := zap.NewProductionEncoderConfig()
		fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(file), level))
	}

	log := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	cleanup := func() {
		_ = log.Sync()
		if file != nil {
			_ = file.Close()
		}
	}
	return log, cleanup, nil
}

func openDatedFile(dir string, now time.Time) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("log_%s.log", now.Format("2006-01-02")))
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}

func isProduction(mode string) bool {
	switch strings.ToLower(mode) {
	case "prod", "production", "release":
		return true
	}
	return false
}

package logging

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where logs go and how the file is rotated
type Options struct {
	Path       string // empty means stderr
	Level      string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

var (
	initOnce sync.Once
	initErr  error

	level   = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	current atomic.Pointer[zap.Logger]
)

func init() {
	current.Store(zap.NewNop())
}

// Init sets up the logger output with default rotation. Safe to call
// multiple times; only the first call performs initialization.
func Init(logPath string) error {
	return InitWithOptions(Options{Path: logPath})
}

// InitWithOptions is Init with explicit rotation and level settings
func InitWithOptions(opts Options) error {
	initOnce.Do(func() {
		if opts.Level != "" {
			SetLevel(opts.Level)
		}

		var sink zapcore.WriteSyncer
		json := false
		if opts.Path != "" {
			if err := os.MkdirAll(filepath.Dir(opts.Path), 0700); err != nil {
				initErr = err
				return
			}
			sink = zapcore.AddSync(&lumberjack.Logger{
				Filename:   opts.Path,
				MaxSize:    orDefault(opts.MaxSizeMB, 10),
				MaxBackups: orDefault(opts.MaxBackups, 3),
				MaxAge:     orDefault(opts.MaxAgeDays, 28),
			})
			json = true
		} else {
			sink = zapcore.Lock(os.Stderr)
		}

		current.Store(newLogger(sink, json))
	})

	return initErr
}

func newLogger(sink zapcore.WriteSyncer, json bool) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if json {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}
	return zap.New(zapcore.NewCore(enc, sink, level))
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// L returns the structured logger
func L() *zap.Logger {
	return current.Load()
}

// Sync flushes buffered entries
func Sync() {
	_ = current.Load().Sync()
}

// SetLevel updates the global log level (debug, info, warn, error).
func SetLevel(value string) {
	level.SetLevel(parseLevel(value))
}

func parseLevel(value string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func Debugf(format string, args ...interface{}) {
	current.Load().Sugar().Debugf(format, args...)
}

func Infof(format string, args ...interface{}) {
	current.Load().Sugar().Infof(format, args...)
}

func Warnf(format string, args ...interface{}) {
	current.Load().Sugar().Warnf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	current.Load().Sugar().Errorf(format, args...)
}

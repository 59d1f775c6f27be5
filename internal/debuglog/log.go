package debuglog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelOff // Disables all logging
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a string into a LogLevel
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "OFF":
		return LevelOff
	default:
		return LevelInfo
	}
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelWarn:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

var (
	mu           sync.RWMutex
	currentLevel = LevelOff
	atomicLevel  = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	logger       = zap.NewNop()
	logFile      *os.File
)

// DefaultPath is ~/.gamesearch/gamesearch.log.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".gamesearch", "gamesearch.log")
}

// Setup configures the logging system with the specified level and optional file path.
// If filePath is empty, DefaultPath is used. Records are written as JSON lines.
func Setup(level LogLevel, filePath ...string) error {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()
	currentLevel = level

	if level == LevelOff {
		return nil
	}

	logPath := DefaultPath()
	if len(filePath) > 0 && filePath[0] != "" {
		logPath = filePath[0]
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	atomicLevel.SetLevel(level.zapLevel())
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), atomicLevel)

	logFile = f
	logger = zap.New(core).Named("gamesearch")
	return nil
}

// SetupWithBool provides backward compatibility with the old Setup(bool) signature
func SetupWithBool(enabled bool) {
	if enabled {
		_ = Setup(LevelInfo)
	} else {
		_ = Setup(LevelOff)
	}
}

// SetLevel changes the current logging level
func SetLevel(level LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	currentLevel = level
	if level != LevelOff {
		atomicLevel.SetLevel(level.zapLevel())
	}
}

// GetLevel returns the current logging level
func GetLevel() LogLevel {
	mu.RLock()
	defer mu.RUnlock()
	return currentLevel
}

// Close flushes and closes the log file if open
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	return closeLocked()
}

func closeLocked() error {
	_ = logger.Sync()
	logger = zap.NewNop()
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

func current() (*zap.Logger, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return logger, currentLevel != LevelOff
}

func logf(l *zap.Logger, level LogLevel, format string, args ...any) {
	if l == nil {
		var on bool
		l, on = current()
		if !on {
			return
		}
	} else if GetLevel() == LevelOff {
		return
	}
	if ce := l.Check(level.zapLevel(), fmt.Sprintf(format, args...)); ce != nil {
		ce.Write()
	}
}

func Debugf(format string, args ...any) { logf(nil, LevelDebug, format, args...) }

func Infof(format string, args ...any) { logf(nil, LevelInfo, format, args...) }

func Warnf(format string, args ...any) { logf(nil, LevelWarn, format, args...) }

func Errorf(format string, args ...any) { logf(nil, LevelError, format, args...) }

// FieldLogger attaches structured fields to every record it writes.
type FieldLogger struct {
	fields []zap.Field
}

// WithFields returns a new logger with the specified fields
func WithFields(fields map[string]interface{}) *FieldLogger {
	zf := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zf = append(zf, zap.Any(k, v))
	}
	return &FieldLogger{fields: zf}
}

func (fl *FieldLogger) logger() *zap.Logger {
	l, _ := current()
	return l.With(fl.fields...)
}

func (fl *FieldLogger) Debugf(format string, args ...any) {
	logf(fl.logger(), LevelDebug, format, args...)
}

func (fl *FieldLogger) Infof(format string, args ...any) {
	logf(fl.logger(), LevelInfo, format, args...)
}

func (fl *FieldLogger) Warnf(format string, args ...any) {
	logf(fl.logger(), LevelWarn, format, args...)
}

func (fl *FieldLogger) Errorf(format string, args ...any) {
	logf(fl.logger(), LevelError, format, args...)
}

// Package logx is a small leveled logger used across the service.
package logx

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

var (
	mu      sync.RWMutex
	current = LevelInfo
	std     = log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds)
	exit    = os.Exit
)

// ParseLevel maps a config string (debug, info, warn, error) to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

func SetLevel(l Level) {
	mu.Lock()
	current = l
	mu.Unlock()
}

func GetLevel() Level {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

func enabled(l Level) bool {
	return l >= GetLevel()
}

func output(l Level, msg string) {
	if !enabled(l) {
		return
	}
	_ = std.Output(3, "["+l.String()+"] "+msg)
}

func Debug(args ...any) { output(LevelDebug, fmt.Sprint(args...)) }
func Info(args ...any)  { output(LevelInfo, fmt.Sprint(args...)) }
func Warn(args ...any)  { output(LevelWarn, fmt.Sprint(args...)) }
func Error(args ...any) { output(LevelError, fmt.Sprint(args...)) }

func Debugf(format string, args ...any) { output(LevelDebug, fmt.Sprintf(format, args...)) }
func Infof(format string, args ...any)  { output(LevelInfo, fmt.Sprintf(format, args...)) }
func Warnf(format string, args ...any)  { output(LevelWarn, fmt.Sprintf(format, args...)) }
func Errorf(format string, args ...any) { output(LevelError, fmt.Sprintf(format, args...)) }

// Fatal logs and exits the process.
func Fatal(args ...any) {
	output(LevelFatal, fmt.Sprint(args...))
	exit(1)
}

func Fatalf(format string, args ...any) {
	output(LevelFatal, fmt.Sprintf(format, args...))
	exit(1)
}

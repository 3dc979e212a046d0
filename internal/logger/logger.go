// Package logger provides leveled logging and the shared deploy log for the
// certdeploy CLI tool.
//
// Two streams are maintained:
//
//   - Diagnostic logging (Debug/Info/Warn/Error) goes to stderr, controlled by
//     the --verbose flag. This matches normal CLI debugging output and never
//     appears in the deploy log.
//   - Step logging (Step/StepError) is the deploy trail: one timestamped line
//     per significant action, echoed to stdout for the invoking certbot
//     process and appended to the shared log file. Operators read this file to
//     tell configured-and-succeeded, skipped, and failed runs apart.
//
// # Output Format
//
// Diagnostic messages are formatted as:
//
//	[LEVEL] YYYY-MM-DD HH:MM:SS message
//
// Step lines carry the timestamp only:
//
//	YYYY-MM-DD HH:MM:SS pkcs12: wrote /etc/pki/a.example.org.pfx
//
// # Failure Policy
//
// Writing to the deploy log must never fail the hook: the certificate push is
// the primary purpose, the trail is best effort. File-sink errors are
// silently dropped.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level represents a logging severity level.
type Level int

// Log levels from least to most severe.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level.
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
	default:
		return "UNKNOWN"
	}
}

const timeLayout = "2006-01-02 15:04:05"

// Logger handles leveled logging plus the shared deploy-log sink.
type Logger struct {
	level  Level
	output io.Writer // diagnostic stream, default stderr
	echo   io.Writer // step echo stream, default stdout
	file   io.Writer // shared deploy log, nil until opened
	mu     sync.Mutex
}

// Global logger instance.
var std = &Logger{
	level:  LevelWarn, // Default: only warnings and errors
	output: os.Stderr,
	echo:   os.Stdout,
}

// Init initializes the global logger with the specified verbosity.
// When verbose is true, Debug and Info levels are enabled.
func Init(verbose bool) {
	std.mu.Lock()
	defer std.mu.Unlock()

	if verbose {
		std.level = LevelDebug
	} else {
		std.level = LevelWarn
	}
}

// SetLevel sets the minimum log level for the global logger.
func SetLevel(level Level) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.level = level
}

// SetOutput sets the diagnostic output destination.
// Useful for testing. Default is os.Stderr.
func SetOutput(w io.Writer) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.output = w
}

// SetEcho sets the step echo destination.
// Useful for testing. Default is os.Stdout.
func SetEcho(w io.Writer) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.echo = w
}

// GetLevel returns the current log level.
func GetLevel() Level {
	std.mu.Lock()
	defer std.mu.Unlock()
	return std.level
}

// OpenDeployLog opens the shared deploy log for appending.
// The returned error is informational (doctor reports it); a failed open
// leaves step lines going to stdout only.
func OpenDeployLog(path string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open deploy log: %w", err)
	}
	std.mu.Lock()
	defer std.mu.Unlock()
	std.file = f
	return nil
}

// SetDeployLog sets the deploy-log sink directly. Useful for testing.
func SetDeployLog(w io.Writer) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.file = w
}

// log writes a formatted diagnostic message at the specified level.
func (l *Logger) log(level Level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	timestamp := time.Now().Format(timeLayout)
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintf(l.output, "[%s] %s %s\n", level.String(), timestamp, msg)
}

// step writes one timestamped line to the echo stream and the deploy log.
// Sink failures are swallowed: the trail must not fail the hook.
func (l *Logger) step(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	line := fmt.Sprintf("%s %s\n", time.Now().Format(timeLayout), fmt.Sprintf(format, args...))
	if l.echo != nil {
		_, _ = io.WriteString(l.echo, line)
	}
	if l.file != nil {
		_, _ = io.WriteString(l.file, line)
	}
}

// Debug logs a debug message.
// Only shown when verbose mode is enabled.
func Debug(format string, args ...interface{}) {
	std.log(LevelDebug, format, args...)
}

// Info logs an informational message.
// Only shown when verbose mode is enabled.
func Info(format string, args ...interface{}) {
	std.log(LevelInfo, format, args...)
}

// Warn logs a warning message.
// Always shown regardless of verbose mode.
func Warn(format string, args ...interface{}) {
	std.log(LevelWarn, format, args...)
}

// Error logs an error message.
// Always shown regardless of verbose mode.
func Error(format string, args ...interface{}) {
	std.log(LevelError, format, args...)
}

// Step records one deploy-trail line: echoed to stdout and appended to the
// shared deploy log.
func Step(format string, args ...interface{}) {
	std.step(format, args...)
}

// StepError records a failed step in the deploy trail and mirrors it to the
// diagnostic stream at error level.
func StepError(format string, args ...interface{}) {
	std.step("ERROR "+format, args...)
	std.log(LevelError, format, args...)
}

// LogError logs an error with additional context message.
func LogError(err error, msg string) {
	if err == nil {
		return
	}
	std.log(LevelError, "%s: %v", msg, err)
}

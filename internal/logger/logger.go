// Package logger provides leveled, printf-style logging for resmon.
//
// The dashboard owns stdout while it runs, so log lines go to a file
// instead of the terminal.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents log level
type Level string

const (
	LevelDebug   Level = "DEBUG"
	LevelInfo    Level = "INFO"
	LevelWarning Level = "WARNING"
	LevelError   Level = "ERROR"
)

// DefaultFile is where logs go when no path is configured.
const DefaultFile = "/tmp/resmon.log"

// Logger defines the interface for logging operations.
// All methods accept a format string and arguments, similar to fmt.Printf.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// FileLogger appends timestamped lines to a writer, usually a log file.
type FileLogger struct {
	out   io.Writer
	file  *os.File
	debug bool
	now   func() time.Time
	mu    sync.Mutex
}

// New opens (or creates) filePath for appending. If the file cannot be
// opened the returned logger discards everything, the error is returned so
// callers can report it before the screen is taken over.
func New(filePath string, debug bool) (*FileLogger, error) {
	l := &FileLogger{out: io.Discard, debug: debug, now: time.Now}
	if filePath == "" {
		return l, nil
	}

	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return l, fmt.Errorf("failed to open log file %s: %w", filePath, err)
	}
	l.out = f
	l.file = f
	return l, nil
}

// NewWriter creates a logger writing to w.
func NewWriter(w io.Writer, debug bool) *FileLogger {
	return &FileLogger{out: w, debug: debug, now: time.Now}
}

func (l *FileLogger) write(level Level, format string, args ...interface{}) {
	timestamp := l.now().Format("2006-01-02 15:04:05")
	entry := fmt.Sprintf("[%s] %s: %s\n", timestamp, level, fmt.Sprintf(format, args...))

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, entry)
}

// Close closes the log file
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.out = io.Discard
	return err
}

// Debug is only written when the logger was created with debug enabled.
func (l *FileLogger) Debug(format string, args ...interface{}) {
	if l.debug {
		l.write(LevelDebug, format, args...)
	}
}

func (l *FileLogger) Info(format string, args ...interface{}) {
	l.write(LevelInfo, format, args...)
}

func (l *FileLogger) Warn(format string, args ...interface{}) {
	l.write(LevelWarning, format, args...)
}

func (l *FileLogger) Error(format string, args ...interface{}) {
	l.write(LevelError, format, args...)
}

// noopLogger implements Logger but discards all messages.
type noopLogger struct{}

// Noop returns a logger that discards all messages.
func Noop() Logger {
	return noopLogger{}
}

func (noopLogger) Debug(format string, args ...interface{}) {}
func (noopLogger) Info(format string, args ...interface{})  {}
func (noopLogger) Warn(format string, args ...interface{})  {}
func (noopLogger) Error(format string, args ...interface{}) {}

// Entry is one line captured by a BufferLogger.
type Entry struct {
	Level   Level
	Message string
}

// BufferLogger keeps every line in memory, debug included. It is safe for
// the concurrent use the terminal reader puts it to.
type BufferLogger struct {
	mu      sync.Mutex
	entries []Entry
}

// NewBufferLogger creates an empty BufferLogger.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{}
}

func (l *BufferLogger) add(level Level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Debug(format string, args ...interface{}) {
	l.add(LevelDebug, format, args...)
}

func (l *BufferLogger) Info(format string, args ...interface{}) {
	l.add(LevelInfo, format, args...)
}

func (l *BufferLogger) Warn(format string, args ...interface{}) {
	l.add(LevelWarning, format, args...)
}

func (l *BufferLogger) Error(format string, args ...interface{}) {
	l.add(LevelError, format, args...)
}

// Entries returns a copy of the captured lines in order.
func (l *BufferLogger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries...)
}

// HasLevel reports whether anything was logged at level.
func (l *BufferLogger) HasLevel(level Level) bool {
	return l.Contains(level, "")
}

// Contains reports whether a line at level includes substr.
func (l *BufferLogger) Contains(level Level, substr string) bool {
	for _, e := range l.Entries() {
		if e.Level == level && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

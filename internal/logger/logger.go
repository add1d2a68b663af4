// Package logger provides the levelled progress log of the osgc pipeline.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	// Log levels
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

var levels = []LogLevel{DEBUG, INFO, WARN, ERROR}

var levelNames = map[LogLevel]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
}

var levelStyles = map[LogLevel]lipgloss.Style{
	DEBUG: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	INFO:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	WARN:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	ERROR: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
}

func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLevel converts a level name such as "debug" or "WARN"
func ParseLevel(name string) (LogLevel, error) {
	for _, level := range levels {
		if strings.EqualFold(levelNames[level], strings.TrimSpace(name)) {
			return level, nil
		}
	}
	return INFO, fmt.Errorf("unknown log level: %q", name)
}

type output struct {
	min LogLevel
	w   io.Writer
}

// Logger writes timestamped messages to every output whose minimum level
// the message reaches
type Logger struct {
	mu      sync.Mutex
	level   LogLevel
	outputs []output
	color   bool
	now     func() time.Time
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// GetLogger returns the default logger. It writes to stderr so command
// output on stdout stays machine readable.
func GetLogger() *Logger {
	once.Do(func() {
		defaultLogger = NewLogger(INFO)
		defaultLogger.AddOutput(DEBUG, os.Stderr)
	})
	return defaultLogger
}

// NewLogger creates a logger dropping messages below level
func NewLogger(level LogLevel) *Logger {
	return &Logger{level: level, now: time.Now}
}

// SetLevel changes the minimum log level
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetColor enables or disables styled level labels
func (l *Logger) SetColor(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.color = enabled
}

// AddOutput adds a writer receiving messages of level min and above
func (l *Logger) AddOutput(min LogLevel, w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outputs = append(l.outputs, output{min: min, w: w})
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	label := "[" + level.String() + "]"
	if l.color {
		label = levelStyles[level].Render(label)
	}
	line := fmt.Sprintf("%s %s %s", l.now().Format("15:04:05"), label, fmt.Sprintf(format, args...))

	for _, o := range l.outputs {
		if level >= o.min {
			fmt.Fprintln(o.w, line)
		}
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DEBUG, format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(INFO, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WARN, format, args...)
}

// Global convenience functions that use the default logger

func Debug(format string, args ...interface{}) {
	GetLogger().Debug(format, args...)
}

func Info(format string, args ...interface{}) {
	GetLogger().Info(format, args...)
}

func Warn(format string, args ...interface{}) {
	GetLogger().Warn(format, args...)
}

// SetGlobalLevel sets the level for the default logger
func SetGlobalLevel(level LogLevel) {
	GetLogger().SetLevel(level)
}

// SetGlobalColor enables or disables styled labels on the default logger
func SetGlobalColor(enabled bool) {
	GetLogger().SetColor(enabled)
}

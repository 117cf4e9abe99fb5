package logger

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
)

type Logger interface {
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
	Fatalf(format string, v ...interface{})
	WithModule(name string) Logger
	WithFields(fields map[string]interface{}) Logger
}

const (
	levelDebug = 0
	levelInfo  = 1
	levelWarn  = 2
	levelError = 3
)

// NewLogger creates a leveled logger. If logFile is non-empty, output is
// appended to that file instead of stderr.
func NewLogger(level, logFile string) Logger {
	out := log.Default()
	if logFile != "" {
		if f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			out = log.New(f, "", log.LstdFlags)
		} else {
			log.Printf("[ERROR] Failed to open log file %s: %v", logFile, err)
		}
	}
	return &stdLogger{
		level: parseLevel(level),
		out:   out,
	}
}

type stdLogger struct {
	level  int
	out    *log.Logger
	module string
	fields map[string]interface{}
}

func parseLevel(l string) int {
	switch strings.ToLower(l) {
	case "debug":
		return levelDebug
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func (l *stdLogger) WithModule(name string) Logger {
	clone := *l
	clone.module = name
	return &clone
}

func (l *stdLogger) WithFields(fields map[string]interface{}) Logger {
	clone := *l
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	clone.fields = merged
	return &clone
}

func (l *stdLogger) logf(tag, format string, v ...interface{}) {
	var b strings.Builder
	b.WriteString(tag)
	if l.module != "" {
		b.WriteString(" [")
		b.WriteString(strings.ToUpper(l.module))
		b.WriteString("]")
	}
	b.WriteString(" ")
	b.WriteString(fmt.Sprintf(format, v...))
	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(fmt.Sprintf(" %s=%v", k, l.fields[k]))
		}
	}
	l.out.Print(b.String())
}

func (l *stdLogger) Debugf(format string, v ...interface{}) {
	if l.level <= levelDebug {
		l.logf("[DEBUG]", format, v...)
	}
}

func (l *stdLogger) Infof(format string, v ...interface{}) {
	if l.level <= levelInfo {
		l.logf("[INFO]", format, v...)
	}
}

func (l *stdLogger) Warnf(format string, v ...interface{}) {
	if l.level <= levelWarn {
		l.logf("[WARN]", format, v...)
	}
}

func (l *stdLogger) Errorf(format string, v ...interface{}) {
	if l.level <= levelError {
		l.logf("[ERROR]", format, v...)
	}
}

func (l *stdLogger) Fatalf(format string, v ...interface{}) {
	l.logf("[FATAL]", format, v...)
	os.Exit(1)
}

package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Level represents the severity of a log entry.
type Level int32

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var levelNames = map[Level]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
}

// String returns the upper-case level name.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int32(l))
}

// ParseLevel maps a level name (case-insensitive) to a Level.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG, true
	case "INFO":
		return INFO, true
	case "WARN", "WARNING":
		return WARN, true
	case "ERROR":
		return ERROR, true
	}
	return INFO, false
}

// sink is the output shared by the default logger and every component logger.
type sink struct {
	level     atomic.Int32
	redactPII atomic.Bool
	mu        sync.Mutex
	out       io.Writer
}

// Logger provides structured JSON logging with optional PII redaction.
// Component loggers created with New share the level and output of the
// package default.
type Logger struct {
	sink      *sink
	component string
}

var defaultSink = newSink(os.Stderr)

var defaultLogger = &Logger{sink: defaultSink}

func newSink(w io.Writer) *sink {
	s := &sink{out: w}
	s.level.Store(int32(INFO))
	s.redactPII.Store(true)
	return s
}

// New returns a logger that tags every entry with the given component name.
func New(component string) *Logger {
	return &Logger{sink: defaultSink, component: component}
}

// SetLevel sets the minimum log level for all loggers.
func SetLevel(l Level) { defaultSink.level.Store(int32(l)) }

// GetLevel returns the current minimum log level.
func GetLevel() Level { return Level(defaultSink.level.Load()) }

// SetRedactPII enables or disables PII redaction for all loggers.
func SetRedactPII(r bool) { defaultSink.redactPII.Store(r) }

// SetOutput redirects all log output to w.
func SetOutput(w io.Writer) {
	defaultSink.mu.Lock()
	defaultSink.out = w
	defaultSink.mu.Unlock()
}

// Debug emits a DEBUG-level structured log entry.
func Debug(msg string, fields ...interface{}) { defaultLogger.log(DEBUG, msg, fields...) }

// Info emits an INFO-level structured log entry.
func Info(msg string, fields ...interface{}) { defaultLogger.log(INFO, msg, fields...) }

// Warn emits a WARN-level structured log entry.
func Warn(msg string, fields ...interface{}) { defaultLogger.log(WARN, msg, fields...) }

// Error emits an ERROR-level structured log entry.
func Error(msg string, fields ...interface{}) { defaultLogger.log(ERROR, msg, fields...) }

func (l *Logger) Debug(msg string, fields ...interface{}) { l.log(DEBUG, msg, fields...) }
func (l *Logger) Info(msg string, fields ...interface{})  { l.log(INFO, msg, fields...) }
func (l *Logger) Warn(msg string, fields ...interface{})  { l.log(WARN, msg, fields...) }
func (l *Logger) Error(msg string, fields ...interface{}) { l.log(ERROR, msg, fields...) }

func (l *Logger) log(level Level, msg string, fields ...interface{}) {
	if level < Level(l.sink.level.Load()) {
		return
	}

	entry := map[string]interface{}{
		"time":  time.Now().UTC().Format(time.RFC3339),
		"level": levelNames[level],
		"msg":   msg,
	}
	if l.component != "" {
		entry["component"] = l.component
	}

	redact := l.sink.redactPII.Load()
	// Parse key-value pairs from fields
	for i := 0; i < len(fields)-1; i += 2 {
		key := fmt.Sprintf("%v", fields[i])
		var val interface{}
		switch v := fields[i+1].(type) {
		case int, int64, float64, bool:
			val = v
		case error:
			val = v.Error()
		default:
			val = fmt.Sprintf("%v", v)
		}
		if s, ok := val.(string); ok && redact {
			val = redactPIIValue(key, s)
		}
		entry[key] = val
	}

	data, _ := json.Marshal(entry)
	l.sink.mu.Lock()
	fmt.Fprintln(l.sink.out, string(data))
	l.sink.mu.Unlock()
}

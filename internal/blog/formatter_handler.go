package blog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// formatterHandler is an slog.Handler that renders records through a
// LogFormatter instead of slog's built-in text/JSON encoders. It backs
// Logger instances created with NewWithFormatter, which is how cmd/bedrockd's
// --log-format flag selects TextFormatter or ColorFormatter ("json" uses
// New's slog JSON handler instead).
type formatterHandler struct {
	w         io.Writer
	mu        *sync.Mutex
	formatter LogFormatter
	level     slog.Leveler
	attrs     []slog.Attr
	group     string
}

// NewWithFormatter creates a Logger that renders records through formatter
// and writes them to w, filtering anything below level.
func NewWithFormatter(w io.Writer, level slog.Level, formatter LogFormatter) *Logger {
	h := &formatterHandler{
		w:         w,
		mu:        &sync.Mutex{},
		formatter: formatter,
		level:     level,
	}
	return &Logger{inner: slog.New(h)}
}

func (h *formatterHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *formatterHandler) Handle(_ context.Context, record slog.Record) error {
	fields := make(map[string]interface{}, record.NumAttrs()+len(h.attrs))
	for _, a := range h.attrs {
		h.addAttr(fields, a)
	}
	record.Attrs(func(a slog.Attr) bool {
		h.addAttr(fields, a)
		return true
	})

	entry := LogEntry{
		Timestamp: record.Time,
		Level:     levelFromSlog(record.Level),
		Message:   record.Message,
		Fields:    fields,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.w, h.formatter.Format(entry))
	return err
}

func (h *formatterHandler) addAttr(fields map[string]interface{}, a slog.Attr) {
	key := a.Key
	if h.group != "" {
		key = h.group + "." + key
	}
	fields[key] = a.Value.Any()
}

func (h *formatterHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *formatterHandler) WithGroup(name string) slog.Handler {
	next := *h
	if h.group == "" {
		next.group = name
	} else {
		next.group = h.group + "." + name
	}
	return &next
}

// levelFromSlog maps an slog.Level onto the blog LogLevel enum used by
// LogFormatter implementations.
func levelFromSlog(level slog.Level) LogLevel {
	switch {
	case level < slog.LevelInfo:
		return DEBUG
	case level < slog.LevelWarn:
		return INFO
	case level < slog.LevelError:
		return WARN
	default:
		return ERROR
	}
}

// SlogLevel maps a blog LogLevel onto the nearest slog.Level, for callers
// that parse verbosity with LevelFromString but configure a Logger via New
// or NewWithFormatter, both of which take an slog.Level.
func SlogLevel(level LogLevel) slog.Level {
	switch level {
	case DEBUG:
		return slog.LevelDebug
	case WARN:
		return slog.LevelWarn
	case ERROR, FATAL:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

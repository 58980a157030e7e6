package telemetry

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// JSONLogger writes one JSON object per line. A nil logger discards.
type JSONLogger struct {
	mu      sync.Mutex
	w       io.WriteCloser
	session string
	debug   bool
	now     func() time.Time
}

func NewJSONLogger(path string) (*JSONLogger, error) {
	if path == "" {
		return NewWriterLogger(io.Discard), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &JSONLogger{w: f, now: time.Now}, nil
}

// NewWriterLogger logs to w. Close does not close w.
func NewWriterLogger(w io.Writer) *JSONLogger {
	return &JSONLogger{w: nopCloser{Writer: w}, now: time.Now}
}

// SetSession stamps every later entry with a session id.
func (l *JSONLogger) SetSession(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.session = id
}

func (l *JSONLogger) SetDebug(on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = on
}

func (l *JSONLogger) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

func (l *JSONLogger) Debug(msg string, fields map[string]any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	on := l.debug
	l.mu.Unlock()
	if on {
		l.log("debug", msg, fields)
	}
}

func (l *JSONLogger) Info(msg string, fields map[string]any) {
	l.log("info", msg, fields)
}

func (l *JSONLogger) Error(msg string, fields map[string]any) {
	l.log("error", msg, fields)
}

func (l *JSONLogger) log(level, msg string, fields map[string]any) {
	if l == nil || l.w == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	entry := map[string]any{
		"ts":    l.now().UTC().Format(time.RFC3339Nano),
		"level": level,
		"msg":   msg,
	}
	if l.session != "" {
		entry["session"] = l.session
	}
	for k, v := range fields {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		entry[k] = v
	}
	b, err := json.Marshal(entry)
	if err != nil {
		b, _ = json.Marshal(map[string]any{"ts": entry["ts"], "level": "error", "msg": "telemetry.encode_failed", "error": err.Error()})
	}
	_, _ = l.w.Write(append(b, '\n'))
}

// Writer returns the underlying sink, serialized with the logger's own
// writes, for handing to other loggers.
func (l *JSONLogger) Writer() io.Writer {
	if l == nil || l.w == nil {
		return io.Discard
	}
	return lockedWriter{l: l}
}

func (l *JSONLogger) Close() error {
	if l == nil || l.w == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Close()
}

type lockedWriter struct{ l *JSONLogger }

func (w lockedWriter) Write(p []byte) (int, error) {
	w.l.mu.Lock()
	defer w.l.mu.Unlock()
	return w.l.w.Write(p)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
)

const initialBufferCapacity = 256

// timeFormat is the timestamp layout of every entry.
const timeFormat = "2006-01-02T15:04:05-07:00"

var valueEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// CustomHandler writes one line per record:
//
//	2006-01-02T15:04:05-07:00 LEVEL msg key=value key="quoted value"
//
// Attributes bound with WithAttrs are rendered once, under the groups open
// at that point.
type CustomHandler struct {
	writer io.Writer
	mu     *sync.Mutex
	level  slog.Leveler
	prefix string
	bound  []byte
}

// NewWriterHandler creates a handler writing to w.
func NewWriterHandler(w io.Writer, level Level) *CustomHandler {
	return &CustomHandler{
		writer: w,
		mu:     &sync.Mutex{},
		level:  level.ToSlogLevel(),
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes the record.
func (h *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, initialBufferCapacity+len(h.bound))

	buf = r.Time.Local().AppendFormat(buf, timeFormat)
	buf = append(buf, ' ')
	buf = append(buf, r.Level.String()...)
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)
	buf = append(buf, h.bound...)

	r.Attrs(func(a slog.Attr) bool {
		buf = appendAttr(buf, h.prefix, a)

		return true
	})

	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.writer.Write(buf)

	return err
}

// appendAttr renders a as " prefix.key=value". Group values are flattened
// into dotted keys.
func appendAttr(buf []byte, prefix string, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return buf
	}

	if a.Value.Kind() == slog.KindGroup {
		inner := prefix
		if a.Key != "" {
			inner = prefix + a.Key + "."
		}

		for _, ga := range a.Value.Group() {
			buf = appendAttr(buf, inner, ga)
		}

		return buf
	}

	buf = append(buf, ' ')
	buf = append(buf, prefix...)
	buf = append(buf, a.Key...)
	buf = append(buf, '=')

	val := a.Value.String()
	if val == "" || strings.ContainsAny(val, " \t\n\r\"=") {
		buf = append(buf, '"')
		buf = append(buf, valueEscaper.Replace(val)...)

		return append(buf, '"')
	}

	return append(buf, val...)
}

// WithAttrs returns a new handler with the given attributes added.
func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	clone := *h
	clone.bound = append([]byte(nil), h.bound...)

	for _, a := range attrs {
		clone.bound = appendAttr(clone.bound, h.prefix, a)
	}

	return &clone
}

// WithGroup returns a new handler that prefixes later keys with name.
func (h *CustomHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	clone := *h
	clone.prefix = h.prefix + name + "."

	return &clone
}

// Close closes the underlying writer if it implements io.Closer and is not
// one of the standard streams.
func (h *CustomHandler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if closer, ok := h.writer.(io.Closer); ok && !isStdStream(h.writer) {
		return closer.Close()
	}

	return nil
}

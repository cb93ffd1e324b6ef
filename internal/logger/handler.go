package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/fatih/color"
)

const requestIDKey = "request_id"

// PrettyHandler is a slog.Handler for terminal output. A request_id
// attribute is printed as a short tag after the level so the lines of one
// generation can be told apart in batch runs.
type PrettyHandler struct {
	opts      *slog.HandlerOptions
	mu        *sync.Mutex
	w         io.Writer
	attrs     []string
	requestID string
	groups    []string
}

func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &PrettyHandler{
		opts: opts,
		mu:   &sync.Mutex{},
		w:    w,
	}
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelWarn
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var buf strings.Builder

	requestID := h.requestID
	attrs := append([]string(nil), h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		if len(h.groups) == 0 && a.Key == requestIDKey {
			requestID = a.Value.String()
			return true
		}
		attrs = append(attrs, h.formatAttr(h.qualify(a.Key), a.Value))
		return true
	})

	buf.WriteString(h.formatLevel(r.Level))
	buf.WriteString(" ")
	if requestID != "" {
		buf.WriteString(color.BlueString("[%s]", shortID(requestID)))
		buf.WriteString(" ")
	}
	buf.WriteString(r.Message)

	if len(attrs) > 0 {
		buf.WriteString(" ")
		buf.WriteString(strings.Join(attrs, " "))
	}

	if h.opts.AddSource && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		if frame.File != "" {
			buf.WriteString(" ")
			buf.WriteString(color.HiBlackString("(%s:%d)", filepath.Base(frame.File), frame.Line))
		}
	}

	buf.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, buf.String())
	return err
}

// WithAttrs formats attrs once, qualified by the groups open at this point.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	for _, a := range attrs {
		if len(h.groups) == 0 && a.Key == requestIDKey {
			next.requestID = a.Value.String()
			continue
		}
		next.attrs = append(next.attrs, h.formatAttr(h.qualify(a.Key), a.Value))
	}
	return next
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	next.groups = append(next.groups, name)
	return next
}

func (h *PrettyHandler) clone() *PrettyHandler {
	return &PrettyHandler{
		opts:      h.opts,
		mu:        h.mu,
		w:         h.w,
		attrs:     append([]string(nil), h.attrs...),
		requestID: h.requestID,
		groups:    append([]string(nil), h.groups...),
	}
}

func (h *PrettyHandler) qualify(key string) string {
	if len(h.groups) == 0 {
		return key
	}
	return strings.Join(h.groups, ".") + "." + key
}

func (h *PrettyHandler) formatLevel(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return color.HiBlackString("[DEBUG]")
	case slog.LevelInfo:
		return color.CyanString("[INFO] ")
	case slog.LevelWarn:
		return color.YellowString("[WARN] ")
	case slog.LevelError:
		return color.RedString("[ERROR]")
	default:
		return fmt.Sprintf("[%s]", level.String())
	}
}

func (h *PrettyHandler) formatAttr(key string, v slog.Value) string {
	val := v.Resolve().String()
	switch key[strings.LastIndex(key, ".")+1:] {
	case "error", "err":
		return color.RedString("%s=%s", key, val)
	case "from", "to":
		return color.BlueString("%s=%s", key, val)
	case "duration_ms", "backoff":
		return color.MagentaString("%s=%s", key, val)
	case "attempt", "badge_count", "diagram_count":
		return color.GreenString("%s=%s", key, val)
	default:
		return color.HiBlackString("%s=%s", key, val)
	}
}

// shortID keeps the first block of a UUID.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

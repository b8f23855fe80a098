package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of each part of a pretty log line. Styles are
// bound to the renderer of the output, so colors are dropped when the
// output is not a terminal.
type palette struct {
	key, str, num, yes, no, other lipgloss.Style
	trace, debug, info, warn, err lipgloss.Style
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return &palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		yes:   fg("2"),
		no:    fg("1"),
		other: fg("5"),
		trace: fg("8"),
		debug: fg("4"),
		info:  fg("2").Bold(true),
		warn:  fg("3").Bold(true),
		err:   fg("1").Bold(true),
	}
}

func (p *palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.err
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	default:
		return p.trace
	}
}

// prettyHandler writes colorized records either as key=value lines or as
// indented objects, depending on the configured format.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	colors *palette
	prefix string
	attrs  []slog.Attr
	json   bool
}

func newPrettyHandler(
	w io.Writer,
	format Format,
	opts *slog.HandlerOptions,
) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		mu:     &sync.Mutex{},
		w:      w,
		colors: newPalette(w),
		json:   format == FormatJSON,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], h.flatten(nil, attrs...)...)

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var head []slog.Attr

	if !r.Time.IsZero() {
		head = append(head, h.replace(slog.Time(slog.TimeKey, r.Time)))
	}

	level := h.replace(slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			head = append(head, slog.String(slog.SourceKey,
				filepath.Base(src.File)+":"+strconv.Itoa(src.Line)))
		}
	}

	head = append(head, slog.String(slog.MessageKey, r.Message))

	body := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	body = append(body, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		body = h.flatten(body, a)

		return true
	})

	var buf bytes.Buffer

	if h.json {
		h.writeObject(&buf, r.Level, level, head, body)
	} else {
		h.writeLine(&buf, r.Level, level, head, body)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) replace(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(nil, a)
}

// flatten appends attrs to dst with group members expanded into dotted
// keys qualified by the handler's group prefix.
func (h *prettyHandler) flatten(dst []slog.Attr, attrs ...slog.Attr) []slog.Attr {
	var walk func(prefix string, a slog.Attr)

	walk = func(prefix string, a slog.Attr) {
		a.Value = a.Value.Resolve()

		if a.Value.Kind() == slog.KindGroup {
			if a.Key != "" {
				prefix += a.Key + "."
			}

			for _, g := range a.Value.Group() {
				walk(prefix, g)
			}

			return
		}

		if a.Equal(slog.Attr{}) {
			return
		}

		a.Key = prefix + a.Key
		dst = append(dst, a)
	}

	for _, a := range attrs {
		walk(h.prefix, a)
	}

	return dst
}

func (h *prettyHandler) writeLine(
	buf *bytes.Buffer,
	l slog.Level,
	level slog.Attr,
	head, body []slog.Attr,
) {
	write := func(a slog.Attr, quote bool) {
		if a.Key == "" {
			return
		}

		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.colors.key.Render(a.Key))
		buf.WriteByte('=')
		buf.WriteString(h.value(a.Value, quote))
	}

	if len(head) > 0 && head[0].Key == slog.TimeKey {
		write(head[0], false)
		head = head[1:]
	}

	if level.Key != "" {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.colors.key.Render(level.Key))
		buf.WriteByte('=')
		buf.WriteString(h.colors.level(l).Render(level.Value.String()))
	}

	for _, a := range head {
		write(a, false)
	}

	for _, a := range body {
		write(a, false)
	}

	buf.WriteByte('\n')
}

func (h *prettyHandler) writeObject(
	buf *bytes.Buffer,
	l slog.Level,
	level slog.Attr,
	head, body []slog.Attr,
) {
	first := true
	field := func(key, value string) {
		if !first {
			buf.WriteString(",\n")
		}

		first = false

		buf.WriteString("  ")
		buf.WriteString(h.colors.key.Render(strconv.Quote(key)))
		buf.WriteString(": ")
		buf.WriteString(value)
	}

	buf.WriteString("{\n")

	if len(head) > 0 && head[0].Key == slog.TimeKey {
		field(head[0].Key, h.value(head[0].Value, true))
		head = head[1:]
	}

	if level.Key != "" {
		field(level.Key, h.colors.level(l).Render(strconv.Quote(level.Value.String())))
	}

	for _, a := range append(head, body...) {
		if a.Key != "" {
			field(a.Key, h.value(a.Value, true))
		}
	}

	buf.WriteString("\n}\n")
}

func (h *prettyHandler) value(v slog.Value, quote bool) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if quote {
			s = strconv.Quote(s)
		}

		return h.colors.str.Render(s)

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return h.colors.num.Render(v.String())

	case slog.KindBool:
		if v.Bool() {
			return h.colors.yes.Render("true")
		}

		return h.colors.no.Render("false")

	case slog.KindDuration:
		return h.colors.other.Render(v.Duration().String())

	case slog.KindTime:
		return h.colors.other.Render(v.Time().Format(time.RFC3339))

	default:
		s := fmt.Sprint(v.Any())
		if quote {
			s = strconv.Quote(s)
		}

		return h.colors.other.Render(s)
	}
}

package lang

import (
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"slices"
)

// Level is the severity of a [Diagnostic].
type Level int

const (
	LevelError   Level = iota // Error
	LevelWarning              // Warning
)

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	switch string(text) {
	case LevelError.String():
		*l = LevelError
	case LevelWarning.String():
		*l = LevelWarning
	default:
		return fmt.Errorf("unknown diagnostic level %q", text)
	}

	return nil
}

// Diagnostic is a message produced while compiling an equation.
type Diagnostic struct {
	Message string `json:"message"`
	Level   Level  `json:"level"`
}

// String implements [fmt.Stringer].
func (d Diagnostic) String() string { return d.Level.String() + ": " + d.Message }

// LogValue implements slog.LogValuer.
func (d Diagnostic) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("level", d.Level.String()),
		slog.String("message", d.Message),
	)
}

// Diagnostics collects the diagnostics of one compilation in the order they
// are reported. The zero value is ready to use.
//
// A Diagnostics value is owned by a single compilation; it is not safe for
// concurrent use.
type Diagnostics struct {
	list []Diagnostic
}

// Errorf records an Error diagnostic.
func (d *Diagnostics) Errorf(format string, args ...any) {
	d.add(LevelError, fmt.Sprintf(format, args...))
}

// Warnf records a Warning diagnostic.
func (d *Diagnostics) Warnf(format string, args ...any) {
	d.add(LevelWarning, fmt.Sprintf(format, args...))
}

func (d *Diagnostics) add(level Level, msg string) {
	if d == nil {
		return
	}

	d.list = append(d.list, Diagnostic{Level: level, Message: msg})
}

// Len returns the number of recorded diagnostics.
func (d *Diagnostics) Len() int {
	if d == nil {
		return 0
	}

	return len(d.list)
}

// All returns an iterator over the recorded diagnostics.
func (d *Diagnostics) All() iter.Seq[Diagnostic] {
	return func(yield func(Diagnostic) bool) {
		if d == nil {
			return
		}

		for _, diag := range d.list {
			if !yield(diag) {
				return
			}
		}
	}
}

// List returns a copy of the recorded diagnostics.
func (d *Diagnostics) List() []Diagnostic {
	if d == nil {
		return nil
	}

	return slices.Clone(d.list)
}

// Errors returns the number of recorded Error diagnostics.
func (d *Diagnostics) Errors() int {
	n := 0

	for diag := range d.All() {
		if diag.Level == LevelError {
			n++
		}
	}

	return n
}

// Reset discards all recorded diagnostics.
func (d *Diagnostics) Reset() {
	if d != nil {
		d.list = d.list[:0]
	}
}

// MarshalJSON encodes the diagnostics as a JSON array of
// {"level", "message"} objects. An empty collector encodes as [].
func (d *Diagnostics) MarshalJSON() ([]byte, error) {
	list := d.List()
	if list == nil {
		list = []Diagnostic{}
	}

	return marshalJSON(list)
}

// UnmarshalJSON decodes the format written by [Diagnostics.MarshalJSON].
func (d *Diagnostics) UnmarshalJSON(data []byte) error {
	var list []Diagnostic

	err := json.Unmarshal(data, &list)
	if err != nil {
		return err
	}

	d.list = list

	return nil
}

// since returns the diagnostics recorded after the first n.
func (d *Diagnostics) since(n int) []Diagnostic {
	if d == nil || n >= len(d.list) {
		return nil
	}

	return d.list[n:]
}

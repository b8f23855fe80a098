package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrSyntax            = NewError("syntax error")
	ErrMaxDepth          = NewError("maximum nesting depth exceeded")
	ErrValidation        = NewError("validation failed")
	ErrNotRelation       = NewError("expression is not a relation")
	ErrArity             = NewError("argument count mismatch")
	ErrInvariant         = NewError("internal invariant violated")
	ErrNotDifferentiable = NewError("expression is not differentiable")
	ErrTargetCompile     = NewError("target compilation failed")
	ErrTargetRun         = NewError("target evaluation failed")
	ErrNoConvergence     = NewError("root search did not converge")
	ErrReadInput         = NewError("failed to read input")
	ErrInvalidBinding    = NewError("invalid binding")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	err   error
	msg   string
	attrs []slog.Attr
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError returns err as an *Error, wrapping it if necessary.
func WrapError(err error) *Error {
	var ee *Error
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// The first applicable form is used:
	//
	//   1. "<msg>: <err>"
	//   2. "<msg>"
	//   3. "<err>"
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the same sentinel as e, so that derived
// errors created with [Error.Wrap] or [Error.With] still match.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.err == nil && len(t.attrs) == 0 && t.msg != "" &&
		t.msg == e.msg
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e that wraps err.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, attrs: e.attrs}
}

// Wrapf returns a copy of e that wraps a new error with the given message.
func (e *Error) Wrapf(msg string) *Error {
	return e.Wrap(errors.New(msg))
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	merged := make([]slog.Attr, 0, len(e.attrs)+len(attrs))
	merged = append(merged, e.attrs...)
	merged = append(merged, attrs...)

	return &Error{msg: e.msg, err: e.err, attrs: merged}
}

// SyntaxError reports a failure to parse source text. It wraps [ErrSyntax]
// or [ErrMaxDepth].
type SyntaxError struct {
	err     error
	Source  string
	Message string
	Span    Span
}

// Error implements the error interface.
//
// When the source text is known the message is followed by the offending
// line and a caret marking the start of the failing token.
func (e *SyntaxError) Error() string {
	line, col, text := e.Location()

	var sb strings.Builder

	sb.WriteString(e.Message)

	if e.Source == "" {
		return sb.String()
	}

	sb.WriteString(" at line ")
	sb.WriteString(strconv.Itoa(line))
	sb.WriteString(", column ")
	sb.WriteString(strconv.Itoa(col))
	sb.WriteString(":\n  ")
	sb.WriteString(strconv.Itoa(line))
	sb.WriteString(" | ")
	sb.WriteString(text)
	sb.WriteByte('\n')
	// 2 leading spaces + " | "
	sb.WriteString(strings.Repeat(" ", len(strconv.Itoa(line))+5+col-1))
	sb.WriteString("^")

	return sb.String()
}

// Unwrap returns the sentinel classifying the failure.
func (e *SyntaxError) Unwrap() error { return e.err }

// LogValue implements slog.LogValuer.
func (e *SyntaxError) LogValue() slog.Value {
	line, col, _ := e.Location()

	return slog.GroupValue(
		slog.String("error", e.Message),
		slog.Int("line", line),
		slog.Int("column", col),
	)
}

// Location returns the 1-based line and column of the error along with the
// text of that line. Columns count runes.
func (e *SyntaxError) Location() (line, col int, text string) {
	start := min(max(e.Span.Start, 0), len(e.Source))
	before := e.Source[:start]

	line = 1 + strings.Count(before, "\n")
	bol := strings.LastIndexByte(before, '\n') + 1
	col = 1 + len([]rune(e.Source[bol:start]))

	text = e.Source[bol:]
	if eol := strings.IndexByte(text, '\n'); eol >= 0 {
		text = text[:eol]
	}

	return line, col, text
}

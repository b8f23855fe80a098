package lang

import (
	"errors"
	"io"
	"log/slog"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"message", NewError("bad input"), "bad input"},
		{"wrapped", NewError("bad input").Wrapf("line 3"), "bad input: line 3"},
		{"cause only", WrapError(io.EOF), "EOF"},
		{"attrs", NewError("bad input").With(slog.Int("line", 3)), "bad input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	derived := ErrSyntax.Wrap(io.ErrUnexpectedEOF).With(slog.String("k", "v"))

	if !errors.Is(derived, ErrSyntax) {
		t.Errorf("expected derived error to match its sentinel")
	}

	if !errors.Is(derived, io.ErrUnexpectedEOF) {
		t.Errorf("expected derived error to match its cause")
	}

	if errors.Is(derived, ErrArity) {
		t.Errorf("expected no match for a different sentinel")
	}

	if errors.Is(ErrSyntax, derived) {
		t.Errorf("expected derived error not to act as a sentinel")
	}

	if WrapError(derived) != derived {
		t.Errorf("expected WrapError to return an *Error unchanged")
	}
}

func TestErrorLogValue(t *testing.T) {
	err := ErrArity.Wrapf("too few").With(slog.Int("want", 2))

	attrs := err.LogValue().Group()

	want := map[string]string{
		"error": "argument count mismatch",
		"cause": "too few",
		"want":  "2",
	}

	if len(attrs) != len(want) {
		t.Fatalf("expected %d attrs, got %v", len(want), attrs)
	}

	for _, a := range attrs {
		if got := a.Value.String(); got != want[a.Key] {
			t.Errorf("expected %s=%q, got %q", a.Key, want[a.Key], got)
		}
	}
}

func TestErrorWithDoesNotAlias(t *testing.T) {
	base := NewError("base").With(slog.Int("a", 1))

	x := base.With(slog.Int("b", 2))
	y := base.With(slog.Int("c", 3))

	if n := len(x.LogValue().Group()); n != 3 {
		t.Errorf("expected 3 attrs, got %d", n)
	}

	if got := y.LogValue().Group()[2].Key; got != "c" {
		t.Errorf("expected attr c, got %s", got)
	}
}

func TestSyntaxErrorWithoutSource(t *testing.T) {
	err := &SyntaxError{err: ErrSyntax, Message: "empty expression"}

	if got := err.Error(); got != "empty expression" {
		t.Errorf("expected %q, got %q", "empty expression", got)
	}

	if !errors.Is(err, ErrSyntax) {
		t.Errorf("expected match for ErrSyntax")
	}
}

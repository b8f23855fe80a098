package repl

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/epp/lang"
	"github.com/ardnew/epp/log"
)

var nilLogger log.Logger

func TestSessionEval(t *testing.T) {
	tests := []struct {
		name     string
		bindings lang.Bindings
		input    string
		want     string
		wantErr  error
	}{
		{"arithmetic", nil, "1 + 2 * 3", "7", nil},
		{"variable", lang.Bindings{"x": 4}, "sqrt(x)", "2", nil},
		{"relation true", lang.Bindings{"x": 1}, "x + 1 = 2", "2 = 2 → true", nil},
		{"relation false", lang.Bindings{"x": 2}, "x < 1", "2 < 1 → false", nil},
		{"unbound", nil, "y + 1", "", lang.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(tt.bindings, nilLogger)

			got, err := s.eval(t.Context(), tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSessionSyntaxError(t *testing.T) {
	s := newSession(nil, nilLogger)

	var syn *lang.SyntaxError
	if _, err := s.eval(t.Context(), "1 + * 2"); !errors.As(err, &syn) {
		t.Errorf("expected a syntax error, got %v", err)
	}
}

func TestSessionBindings(t *testing.T) {
	s := newSession(lang.Bindings{"b": 2}, nilLogger)

	out, err := s.command(t.Context(), "set", "a=1 c=3.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if exp := "a = 1\nb = 2\nc = 3.5"; out != exp {
		t.Errorf("expected %q, got %q", exp, out)
	}

	out, err = s.command(t.Context(), "unset", "a b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if exp := "c = 3.5"; out != exp {
		t.Errorf("expected %q, got %q", exp, out)
	}

	if _, err := s.command(t.Context(), "set", ""); !errors.Is(err, lang.ErrInvalidBinding) {
		t.Errorf("expected ErrInvalidBinding, got %v", err)
	}

	if _, err := s.command(t.Context(), "set", "1x=2"); !errors.Is(err, lang.ErrInvalidBinding) {
		t.Errorf("expected ErrInvalidBinding, got %v", err)
	}

	s.command(t.Context(), "unset", "c")

	if out := s.vars(); out != "no variables bound" {
		t.Errorf("expected no variables, got %q", out)
	}
}

func TestSessionCommand(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		want string
	}{
		{"simplify", "x * 1 + 0 = 2 + 3", "(x = 5)"},
		{"diff", "x^2", "(2 * x)"},
		{"emit", "x = 1", "(abs(x - 1) < 1e-05)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(nil, nilLogger)

			got, err := s.command(t.Context(), tt.name, tt.arg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSessionSolve(t *testing.T) {
	s := newSession(nil, nilLogger)

	got, err := s.command(t.Context(), "solve", "x^2 = 4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two roots, got %q", got)
	}

	if lines[0] != "x = -2" || lines[1] != "x = 2" {
		t.Errorf("expected roots -2 and 2, got %q", got)
	}
}

func TestSessionUnknownCommand(t *testing.T) {
	s := newSession(nil, nilLogger)

	if _, err := s.command(t.Context(), "bogus", ""); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("expected ErrUnknownCommand, got %v", err)
	}
}

package lang

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"x", "x"},
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"8 / 4 / 2", "((8 / 4) / 2)"},
		{"2 ^ 3 ^ 2", "((2 ^ 3) ^ 2)"},
		{"1 + 2 ^ 3 * 4", "(1 + ((2 ^ 3) * 4))"},
		{"-x ^ 2", "(-(x ^ 2))"},
		{"-2 * x", "((-2) * x)"},
		{"--x", "(-(-x))"},
		{"a < b + 1", "(a < (b + 1))"},
		{"x <= 2", "(x <= 2)"},
		{"x >= 2", "(x >= 2)"},
		{"x <> y", "(x <> y)"},
		{"x ^ 2 + 2 * x + 1 = 0", "((((x ^ 2) + (2 * x)) + 1) = 0)"},
		{"atan2(y, x)", "atan2(y, x)"},
		{"max(1 + 2, min(a, b))", "max((1 + 2), min(a, b))"},
		{"f()", "f()"},
		{"2kg + 3", "(2kg + 3)"},
		{"7 % 3", "(7 % 3)"},
		{"1 = 2 = 3", "((1 = 2) = 3)"},
		{"  x\n=\t1  ", "(x = 1)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var diags Diagnostics

			e, err := ParseString(context.Background(), tt.input, &diags)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := String(e); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}

			if diags.Len() != 0 {
				t.Errorf("expected no diagnostics, got %v", diags.List())
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
		col     int
	}{
		{"empty", "", "empty expression", 1},
		{"blank", "   ", "empty expression", 4},
		{"dangling operator", "1 +", "unknown token when expecting an expression", 4},
		{"unclosed paren", "(1", "expected ')'", 3},
		{"adjacent operands", "1 2", "unexpected token after expression", 3},
		{"argument separator", "f(1 2)", "expected ')' or ',' in argument list", 5},
		{"unknown rune", "x @ 1", "unexpected token after expression", 3},
		{"split relation", "x < = 2", "unknown token when expecting an expression", 5},
		{"unsupported operator", "x & y", "unexpected token after expression", 3},
		{"leading comma", "f(,)", "unknown token when expecting an expression", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var diags Diagnostics

			_, err := ParseString(context.Background(), tt.input, &diags)
			if !errors.Is(err, ErrSyntax) {
				t.Fatalf("expected ErrSyntax, got %v", err)
			}

			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("expected *SyntaxError, got %T", err)
			}

			if se.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, se.Message)
			}

			if _, col, _ := se.Location(); col != tt.col {
				t.Errorf("expected column %d, got %d", tt.col, col)
			}

			if diags.Errors() != 1 {
				t.Errorf("expected 1 error diagnostic, got %d", diags.Errors())
			}
		})
	}
}

func TestSyntaxErrorMessage(t *testing.T) {
	_, err := ParseString(context.Background(), "1 2", nil)

	want := "unexpected token after expression at line 1, column 3:\n" +
		"  1 | 1 2\n" +
		"        ^"

	if err == nil || err.Error() != want {
		t.Errorf("expected %q, got %v", want, err)
	}
}

func TestSyntaxErrorLocation(t *testing.T) {
	src := "x +\n  ñ @ 2"

	_, err := ParseString(context.Background(), src, nil)

	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SyntaxError, got %v", err)
	}

	line, col, text := se.Location()
	if line != 2 || col != 5 || text != "  ñ @ 2" {
		t.Errorf("expected 2:5 %q, got %d:%d %q", "  ñ @ 2", line, col, text)
	}
}

func TestParseMaxDepth(t *testing.T) {
	ctx := context.Background()

	_, err := ParseString(ctx, "((1))", nil, WithMaxDepth(3))
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	_, err = ParseString(ctx, "((((1))))", nil, WithMaxDepth(3))
	if !errors.Is(err, ErrMaxDepth) {
		t.Errorf("expected ErrMaxDepth, got %v", err)
	}

	deep := strings.Repeat("(", DefaultMaxDepth+1) + "1" +
		strings.Repeat(")", DefaultMaxDepth+1)

	_, err = ParseString(ctx, deep, nil)
	if !errors.Is(err, ErrMaxDepth) {
		t.Errorf("expected ErrMaxDepth for default limit, got %v", err)
	}

	// Long operator chains are iterative and not limited by depth.
	long := "1" + strings.Repeat(" + 1", 4*DefaultMaxDepth)

	_, err = ParseString(ctx, long, nil)
	if err != nil {
		t.Errorf("unexpected error for long chain: %v", err)
	}
}

func TestParsePrecedence(t *testing.T) {
	prec := DefaultPrecedence()
	prec["+"], prec["*"] = prec["*"], prec["+"]

	e, err := ParseString(context.Background(), "1 + 2 * 3", nil, WithPrecedence(prec))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, want := String(e), "((1 + 2) * 3)"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	if got := DefaultPrecedence().Of("*"); got != 40 {
		t.Errorf("expected default table to be unaffected, got %d", got)
	}

	// Negation binds tighter than relations and sums in any table.
	sparse := Precedence{"=": 1, "+": 2, "^": 3}

	for input, want := range map[string]string{
		"-x = 1":     "((-x) = 1)",
		"-x + 1 = 0": "(((-x) + 1) = 0)",
		"-x ^ 2 = 1": "((-(x ^ 2)) = 1)",
	} {
		e, err = ParseString(context.Background(), input, nil, WithPrecedence(sparse))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := String(e); got != want {
			t.Errorf("%s: expected %q, got %q", input, want, got)
		}
	}

	if got := DefaultPrecedence().negation(); got != 41 {
		t.Errorf("expected default negation precedence 41, got %d", got)
	}

	// Operators without precedence end the expression.
	delete(prec, "%")

	_, err = ParseString(context.Background(), "7 % 3", nil, WithPrecedence(prec))
	if !errors.Is(err, ErrSyntax) {
		t.Errorf("expected ErrSyntax, got %v", err)
	}
}

func TestParseSpans(t *testing.T) {
	e, err := ParseString(context.Background(), "sin(x) + -10", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	root, ok := e.(*Binary)
	if !ok {
		t.Fatalf("expected *Binary, got %T", e)
	}

	checks := []struct {
		name string
		got  Span
		want Span
	}{
		{"root", root.Span(), Span{0, 12}},
		{"call", root.Left.Span(), Span{0, 6}},
		{"negation", root.Right.Span(), Span{9, 12}},
	}

	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: expected %v, got %v", c.name, c.want, c.got)
		}
	}

	call, _ := root.Left.(*Call)
	if call == nil || call.Func != FuncSin {
		t.Errorf("expected call resolved to sin, got %v", root.Left)
	}
}

func TestParseUnknownFunction(t *testing.T) {
	e, err := ParseString(context.Background(), "frob(1)", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	call, ok := e.(*Call)
	if !ok || call.Func.Valid() {
		t.Errorf("expected unresolved call, got %#v", e)
	}
}

// FuzzParse checks that parsing never panics and that every accepted tree
// renders to source that parses back to the same tree.
func FuzzParse(f *testing.F) {
	f.Add("x^2 + 2*x + 1 = 0")
	f.Add("sqrt(a^2 + b^2) <= hypot(a, b)")
	f.Add("-(-(x))")
	f.Add("f(,)")
	f.Add("((((")
	f.Add("1 2 3")
	f.Add("2kg*3m<>6")

	f.Fuzz(func(t *testing.T, input string) {
		ctx := context.Background()

		e, err := ParseString(ctx, input, nil)
		if err != nil {
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("expected *SyntaxError, got %T: %v", err, err)
			}

			return
		}

		finite := true

		Walk(e, func(n Expr) bool {
			if lit, ok := n.(*Literal); ok && math.IsInf(lit.Value, 0) {
				finite = false
			}

			return finite
		})

		// Overflowing literals render as ±Inf, which has no source form.
		if !finite {
			return
		}

		src := String(e)

		again, err := ParseString(ctx, src, nil, WithMaxDepth(len(src)+1))
		if err != nil {
			t.Fatalf("rendered %q does not parse: %v", src, err)
		}

		if !Equal(e, again) {
			t.Errorf("expected %q to round trip, got %q", src, String(again))
		}
	})
}

package lang

import (
	"slices"
	"strings"
	"testing"
)

func TestTokenize(t *testing.T) {
	type tok struct {
		text string
		kind Kind
	}

	tests := []struct {
		name  string
		input string
		want  []tok
	}{
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
		{
			name:  "arithmetic",
			input: "x^2 + 1",
			want: []tok{
				{"x", KindIdentifier},
				{"^", KindCaret},
				{"2", KindNumber},
				{" ", KindWhitespace},
				{"+", KindPlus},
				{" ", KindWhitespace},
				{"1", KindNumber},
			},
		},
		{
			name:  "number with unit",
			input: "3.5kg",
			want:  []tok{{"3.5kg", KindNumber}},
		},
		{
			name:  "trailing point is not a fraction",
			input: "1.",
			want:  []tok{{"1", KindNumber}, {".", KindDot}},
		},
		{
			name:  "relations lex as single characters",
			input: "<=<>",
			want: []tok{
				{"<", KindLt},
				{"=", KindEq},
				{"<", KindLt},
				{">", KindGt},
			},
		},
		{
			name:  "call",
			input: "atan2(y,x)",
			want: []tok{
				{"atan2", KindIdentifier},
				{"(", KindOpenParen},
				{"y", KindIdentifier},
				{",", KindComma},
				{"x", KindIdentifier},
				{")", KindCloseParen},
			},
		},
		{
			name:  "unicode identifier",
			input: "héllo_1",
			want:  []tok{{"héllo_1", KindIdentifier}},
		},
		{
			name:  "whitespace run",
			input: " \t\n",
			want:  []tok{{" \t\n", KindWhitespace}},
		},
		{
			name:  "unknown rune",
			input: "@",
			want:  []tok{{"@", KindUnknown}},
		},
		{
			name:  "invalid utf-8",
			input: "\xff\xfe",
			want:  []tok{{"\xff", KindUnknown}, {"\xfe", KindUnknown}},
		},
		{
			name:  "bitwise symbols",
			input: "|&%",
			want: []tok{
				{"|", KindOr},
				{"&", KindAnd},
				{"%", KindPercent},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []tok
			for tk := range Tokenize(tt.input) {
				got = append(got, tok{tk.Text, tk.Kind})
			}

			if !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestTokenNumber(t *testing.T) {
	tests := []struct {
		input  string
		number string
		unit   string
	}{
		{"42", "42", ""},
		{"3.25", "3.25", ""},
		{"9.8mps", "9.8", "mps"},
		{"10_000", "10", "_000"},
		{"2x3", "2", "x3"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var first Token
			for tok := range Tokenize(tt.input) {
				first = tok

				break
			}

			if first.Kind != KindNumber {
				t.Fatalf("expected number token, got %v", first.Kind)
			}

			if first.Number() != tt.number {
				t.Errorf("expected number %q, got %q", tt.number, first.Number())
			}

			if first.Unit() != tt.unit {
				t.Errorf("expected unit %q, got %q", tt.unit, first.Unit())
			}
		})
	}

	ident := Token{Text: "x", Kind: KindIdentifier, Suffix: 1}
	if ident.Number() != "" || ident.Unit() != "" {
		t.Errorf("expected empty number parts for identifier, got %q %q",
			ident.Number(), ident.Unit())
	}
}

func TestTokenizeDeterministic(t *testing.T) {
	for _, src := range []string{
		"x + 1 = 2",
		"sin(x)^2 <= 3kg % y",
		"a<>b >= -1.5e-3 # $",
		"",
	} {
		t.Run(src, func(t *testing.T) {
			seq := Tokenize(src)

			first := slices.Collect(seq)
			again := slices.Collect(seq)
			fresh := slices.Collect(Tokenize(src))

			if !slices.Equal(first, again) {
				t.Errorf("expected repeated iteration to match, got %v and %v", first, again)
			}

			if !slices.Equal(first, fresh) {
				t.Errorf("expected separate calls to match, got %v and %v", first, fresh)
			}
		})
	}
}

func TestTokenizeStops(t *testing.T) {
	n := 0
	for range Tokenize("a b c d") {
		n++
		if n == 2 {
			break
		}
	}

	if n != 2 {
		t.Errorf("expected iteration to stop after 2 tokens, got %d", n)
	}
}

func TestKindString(t *testing.T) {
	if got := KindOpenParen.String(); got != "(" {
		t.Errorf("expected %q, got %q", "(", got)
	}

	if got := KindEnd.String(); got != "end of input" {
		t.Errorf("expected %q, got %q", "end of input", got)
	}
}

// FuzzTokenize checks that tokens tile the input exactly.
func FuzzTokenize(f *testing.F) {
	f.Add("x^2 + 2*x + 1 = 0")
	f.Add("sqrt(a^2 + b^2) <= hypot(a, b)")
	f.Add("3.5kg * 2")
	f.Add("1..2")
	f.Add("héllo ≠ wörld")
	f.Add("\xff\x00")

	f.Fuzz(func(t *testing.T, input string) {
		var (
			sb  strings.Builder
			pos int
		)

		for tok := range Tokenize(input) {
			if tok.Len() == 0 {
				t.Fatalf("empty token at %d in %q", tok.Pos, input)
			}

			if tok.Pos != pos {
				t.Fatalf("expected token at %d, got %d in %q", pos, tok.Pos, input)
			}

			if tok.Suffix < 0 || tok.Suffix > tok.Len() {
				t.Fatalf("suffix %d out of range for %q", tok.Suffix, tok.Text)
			}

			sb.WriteString(tok.Text)
			pos = tok.End()
		}

		if sb.String() != input {
			t.Errorf("expected tokens to reproduce %q, got %q", input, sb.String())
		}
	})
}

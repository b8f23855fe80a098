package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/epp/lang"
)

func TestEvalRun(t *testing.T) {
	tests := []struct {
		name       string
		equation   []string
		define     []string
		target     bool
		wantStdout string
		wantStderr string
	}{
		{
			name:       "relation",
			equation:   []string{"1 + 1 = 2"},
			wantStdout: "2 = 2 → true\n",
		},
		{
			name:       "words",
			equation:   []string{"x", "^", "2", "<", "4"},
			define:     []string{"x=3"},
			wantStdout: "9 < 4 → false\n",
		},
		{
			name:       "expression",
			equation:   []string{"x * 2"},
			define:     []string{"x=3"},
			wantStdout: "6\n",
		},
		{
			name:       "unused binding",
			equation:   []string{"1 = 1"},
			define:     []string{"y=1"},
			wantStdout: "1 = 1 → true\n",
			wantStderr: "Warning: variable y is not used\n",
		},
		{
			name:       "target relation",
			equation:   []string{"x ^ 2 = 4"},
			define:     []string{"x=2"},
			target:     true,
			wantStdout: "4 = 4 → true (target: true)\n",
		},
		{
			name:       "target expression",
			equation:   []string{"hypot(a, b)"},
			define:     []string{"a=3", "b=4"},
			target:     true,
			wantStdout: "5 (target: 5)\n",
		},
		{
			name:       "non-finite",
			equation:   []string{"1 / 0"},
			wantStdout: "+Inf\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, stdout, stderr := testGlobals(tt.define...)

			e := &Eval{Equation: tt.equation, Target: tt.target}

			err := e.Run(context.Background(), g)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if stdout.String() != tt.wantStdout {
				t.Errorf("expected stdout %q, got %q", tt.wantStdout, stdout.String())
			}

			if stderr.String() != tt.wantStderr {
				t.Errorf("expected stderr %q, got %q", tt.wantStderr, stderr.String())
			}
		})
	}
}

func TestEvalRunErrors(t *testing.T) {
	tests := []struct {
		name       string
		equation   string
		want       error
		wantStderr string
	}{
		{"syntax", "x = ", lang.ErrSyntax, ""},
		{"unbound", "x = 1", lang.ErrValidation, "Error: variable x is not defined\n"},
		{"two relations", "1 = 1 = 1", lang.ErrValidation,
			"Error: relation expression must be used once (found 2)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _, stderr := testGlobals()

			err := (&Eval{Equation: []string{tt.equation}}).Run(context.Background(), g)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}

			if stderr.String() != tt.wantStderr {
				t.Errorf("expected stderr %q, got %q", tt.wantStderr, stderr.String())
			}
		})
	}
}

func TestEvalStdin(t *testing.T) {
	g, stdout, _ := testGlobals()
	g.Stdin = strings.NewReader("2 * 3 = 6\n")

	err := (&Eval{Equation: []string{"-"}}).Run(context.Background(), g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := "6 = 6 → true\n"; stdout.String() != want {
		t.Errorf("expected %q, got %q", want, stdout.String())
	}
}

func TestEvalJSON(t *testing.T) {
	g, stdout, stderr := testGlobals("x=1", "y=2")
	g.Output = "json"

	err := (&Eval{Equation: []string{"x < 2"}, Target: true}).Run(context.Background(), g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var rep struct {
		Equation string `json:"equation"`
		Result   struct {
			LHS     float64 `json:"lhs"`
			Op      string  `json:"operator"`
			Verdict bool    `json:"verdict"`
		} `json:"result"`
		Target      bool              `json:"target"`
		Diagnostics []lang.Diagnostic `json:"diagnostics"`
	}

	err = json.Unmarshal(stdout.Bytes(), &rep)
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, stdout.String())
	}

	if rep.Equation != "(x < 2)" || rep.Result.Op != "<" || !rep.Result.Verdict || !rep.Target {
		t.Errorf("unexpected report %+v", rep)
	}

	if !strings.Contains(stdout.String(), `"operator": "<"`) {
		t.Errorf("expected unescaped operator in:\n%s", stdout.String())
	}

	if len(rep.Diagnostics) != 1 || rep.Diagnostics[0].Level != lang.LevelWarning {
		t.Errorf("expected one warning, got %v", rep.Diagnostics)
	}

	if stderr.Len() != 0 {
		t.Errorf("expected diagnostics only in the report, got %q", stderr.String())
	}
}

func TestEvalYAML(t *testing.T) {
	g, stdout, _ := testGlobals()
	g.Output = "yaml"

	err := (&Eval{Equation: []string{"2 + 2"}}).Run(context.Background(), g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"equation:", "value: 4"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("expected %q in:\n%s", want, stdout.String())
		}
	}
}

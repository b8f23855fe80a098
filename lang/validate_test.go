package lang

import (
	"context"
	"slices"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		bindings Bindings
		valid    bool
		want     []string
	}{
		{
			name:     "bound",
			input:    "x ^ 2 = 4",
			bindings: Bindings{"x": 2},
			valid:    true,
		},
		{
			name:  "constant",
			input: "1 + 1 = 2",
			valid: true,
		},
		{
			name:  "unbound",
			input: "x = 1",
			valid: false,
			want:  []string{"Error: variable x is not defined"},
		},
		{
			name:  "unbound stops validation",
			input: "frob(y) = x = 1",
			valid: false,
			want: []string{
				"Error: variable x is not defined",
				"Error: variable y is not defined",
			},
		},
		{
			name:     "unused",
			input:    "x = 1",
			bindings: Bindings{"x": 1, "z": 3, "y": 2},
			valid:    true,
			want: []string{
				"Warning: variable y is not used",
				"Warning: variable z is not used",
			},
		},
		{
			name:     "unknown function",
			input:    "frob(x) + blat(x) = 1",
			bindings: Bindings{"x": 1},
			valid:    false,
			want: []string{
				"Error: function blat is not defined",
				"Error: function frob is not defined",
			},
		},
		{
			name:  "no relation",
			input: "1 + 2",
			valid: false,
			want:  []string{"Error: relation expression must be used once (found 0)"},
		},
		{
			name:  "two relations",
			input: "1 = 2 = 3",
			valid: false,
			want:  []string{"Error: relation expression must be used once (found 2)"},
		},
		{
			name:     "warnings do not invalidate",
			input:    "1 < 2",
			bindings: Bindings{"x": 1},
			valid:    true,
			want:     []string{"Warning: variable x is not used"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := ParseString(context.Background(), tt.input, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var diags Diagnostics

			if got := Validate(e, tt.bindings, &diags); got != tt.valid {
				t.Errorf("expected valid=%v, got %v", tt.valid, got)
			}

			var got []string
			for d := range diags.All() {
				got = append(got, d.String())
			}

			if !slices.Equal(got, tt.want) {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestValidateExpr(t *testing.T) {
	ctx := context.Background()

	e, err := ParseString(ctx, "x * 2", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !ValidateExpr(e, Bindings{"x": 1}, nil) {
		t.Errorf("expected arithmetic expression to be valid")
	}

	e, err = ParseString(ctx, "x = 2", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var diags Diagnostics

	if ValidateExpr(e, Bindings{"x": 1}, &diags) {
		t.Errorf("expected relation to be rejected")
	}

	want := "Error: relation expression must not be used (found 1)"
	if l := diags.List(); len(l) != 1 || l[0].String() != want {
		t.Errorf("expected %q, got %v", want, l)
	}
}

func TestValidateAppends(t *testing.T) {
	e, err := ParseString(context.Background(), "x = 1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var diags Diagnostics
	diags.Errorf("earlier failure")

	// Only errors recorded by this call decide the outcome.
	if !Validate(e, Bindings{"x": 1}, &diags) {
		t.Errorf("expected valid despite earlier error")
	}

	if diags.Len() != 1 {
		t.Errorf("expected diagnostics to be kept, got %v", diags.List())
	}
}

func TestEquationValidate(t *testing.T) {
	ctx := context.Background()

	eq, err := Compile(ctx, "a + b > 0", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !eq.IsRelation() {
		t.Errorf("expected relation")
	}

	if eq.Validate(ctx, Bindings{"a": 1}, nil) {
		t.Errorf("expected unbound b to be rejected")
	}

	if !eq.Validate(ctx, Bindings{"a": 1, "b": 2}, nil) {
		t.Errorf("expected bound equation to be valid")
	}

	if eq.ValidateExpr(ctx, Bindings{"a": 1, "b": 2}, nil) {
		t.Errorf("expected relation to fail expression validation")
	}
}

package lang

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"
	"testing"
)

func TestParseBinding(t *testing.T) {
	tests := []struct {
		input   string
		name    string
		value   float64
		wantErr bool
	}{
		{input: "x=1", name: "x", value: 1},
		{input: " y = 2.5 ", name: "y", value: 2.5},
		{input: "rate=1e3", name: "rate", value: 1000},
		{input: "_t0=-4", name: "_t0", value: -4},
		{input: "θ=0.5", name: "θ", value: 0.5},
		{input: "=1", wantErr: true},
		{input: "x", wantErr: true},
		{input: "1x=2", wantErr: true},
		{input: "a b=1", wantErr: true},
		{input: "x=abc", wantErr: true},
		{input: "x=", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			name, value, err := ParseBinding(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidBinding) {
					t.Errorf("expected ErrInvalidBinding, got %v", err)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if name != tt.name || value != tt.value {
				t.Errorf("expected %s=%v, got %s=%v", tt.name, tt.value, name, value)
			}
		})
	}
}

func TestParseBindings(t *testing.T) {
	b, err := ParseBindings("x=1", "y=2", "x=3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := Bindings{"x": 3, "y": 2}
	if !maps.Equal(b, want) {
		t.Errorf("expected %v, got %v", want, b)
	}

	if _, err := ParseBindings("x=1", "bad"); !errors.Is(err, ErrInvalidBinding) {
		t.Errorf("expected ErrInvalidBinding, got %v", err)
	}
}

func TestLoadBindings(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Bindings
		wantErr bool
	}{
		{
			name:  "mapping",
			input: "x: 1\ny: 2.5\nrate: -3\n",
			want:  Bindings{"x": 1, "y": 2.5, "rate": -3},
		},
		{
			name:  "flow",
			input: "{a: 1, b: 2}",
			want:  Bindings{"a": 1, "b": 2},
		},
		{
			name:    "invalid name",
			input:   "1x: 2\n",
			wantErr: true,
		},
		{
			name:    "not a number",
			input:   "x: abc\n",
			wantErr: true,
		},
		{
			name:    "not a mapping",
			input:   "- 1\n- 2\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := LoadBindings(context.Background(), strings.NewReader(tt.input))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidBinding) {
					t.Errorf("expected ErrInvalidBinding, got %v", err)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !maps.Equal(b, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, b)
			}
		})
	}
}

func TestBindingsMerge(t *testing.T) {
	base := Bindings{"x": 1, "y": 2}

	got := base.Merge(Bindings{"y": 3}, Bindings{"z": 4})

	want := Bindings{"x": 1, "y": 3, "z": 4}
	if !maps.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if base["y"] != 2 {
		t.Errorf("expected receiver to be unchanged, got %v", base)
	}

	var empty Bindings
	if m := empty.Merge(); m == nil || len(m) != 0 {
		t.Errorf("expected empty non-nil bindings, got %#v", m)
	}
}

func TestBindingsNames(t *testing.T) {
	b := Bindings{"z": 1, "a": 2, "m": 3}

	if got, want := b.Names(), []string{"a", "m", "z"}; !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

package cmd

import (
	"bytes"
	"context"
	"errors"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/epp/lang"
)

// testGlobals returns globals writing to buffers, with the flag defaults
// kong would otherwise supply.
func testGlobals(define ...string) (*Globals, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer

	return &Globals{
		Stdin:    strings.NewReader(""),
		Stdout:   &stdout,
		Stderr:   &stderr,
		Define:   define,
		Output:   "text",
		Epsilon:  lang.DefaultEpsilon,
		MaxDepth: lang.DefaultMaxDepth,
	}, &stdout, &stderr
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	err := os.WriteFile(path, []byte(content), 0o600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestFindBindings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "consts.yaml"), "g: 9.81\n")
	writeFile(t, filepath.Join(dir, "plain"), "x: 1\n")

	t.Setenv(PathEnv, dir)

	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{name: "consts", want: filepath.Join(dir, "consts.yaml")},
		{name: "consts.yaml", want: filepath.Join(dir, "consts.yaml")},
		{name: "plain", want: filepath.Join(dir, "plain")},
		{name: filepath.Join(dir, "plain"), want: filepath.Join(dir, "plain")},
		{name: "missing", wantErr: true},
		{name: filepath.Join(dir, "missing.yaml"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := findBindings(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrBindingsNotFound) {
					t.Errorf("expected ErrBindingsNotFound, got %v", err)
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

func TestSearchPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv(PathEnv, dir)

	found := false

	for _, p := range SearchPath() {
		if p == dir {
			found = true
		}
	}

	if !found {
		t.Errorf("expected %s in search path %v", dir, SearchPath())
	}
}

func TestGlobalsBindings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "base.yaml")
	writeFile(t, path, "g: 9.81\nm: 2\n")

	link := filepath.Join(dir, "link.yaml")

	err := os.Symlink(path, link)
	if err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	other := filepath.Join(dir, "other.yaml")
	writeFile(t, other, "m: 3\n")

	g, _, _ := testGlobals("g=10", "h=1")
	g.Bindings = []string{path, other, link}

	b, err := g.bindings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The link names an already loaded file, so m keeps the later value.
	want := lang.Bindings{"g": 10, "m": 3, "h": 1}
	if !maps.Equal(b, want) {
		t.Errorf("expected %v, got %v", want, b)
	}
}

func TestGlobalsBindingsErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "x: abc\n")

	tests := []struct {
		name     string
		bindings []string
		define   []string
		want     error
	}{
		{"missing file", []string{filepath.Join(dir, "none.yaml")}, nil, ErrBindingsNotFound},
		{"bad file", []string{bad}, nil, lang.ErrInvalidBinding},
		{"bad define", nil, []string{"x"}, lang.ErrInvalidBinding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _, _ := testGlobals(tt.define...)
			g.Bindings = tt.bindings

			_, err := g.bindings(context.Background())
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestGlobalsSource(t *testing.T) {
	g, _, _ := testGlobals()
	g.Stdin = strings.NewReader("  x + 1 = 2\n")

	got, err := g.source([]string{"-"})
	if err != nil || got != "x + 1 = 2" {
		t.Errorf("expected stdin source, got %q (%v)", got, err)
	}

	got, err = g.source([]string{"x", "=", "1"})
	if err != nil || got != "x = 1" {
		t.Errorf("expected joined words, got %q (%v)", got, err)
	}
}

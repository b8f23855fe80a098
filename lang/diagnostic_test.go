package lang

import (
	"encoding/json"
	"testing"
)

func TestDiagnostics(t *testing.T) {
	var d Diagnostics

	d.Warnf("variable %s is not used", "y")
	d.Errorf("function %s is not defined", "frob")
	d.Warnf("again")

	if d.Len() != 3 {
		t.Errorf("expected 3 diagnostics, got %d", d.Len())
	}

	if d.Errors() != 1 {
		t.Errorf("expected 1 error, got %d", d.Errors())
	}

	want := []string{
		"Warning: variable y is not used",
		"Error: function frob is not defined",
		"Warning: again",
	}

	i := 0
	for diag := range d.All() {
		if diag.String() != want[i] {
			t.Errorf("expected %q, got %q", want[i], diag.String())
		}

		i++
	}

	list := d.List()
	list[0].Message = "changed"

	if first := d.List()[0].Message; first != "variable y is not used" {
		t.Errorf("expected List to return a copy, got %q", first)
	}

	d.Reset()

	if d.Len() != 0 || d.Errors() != 0 {
		t.Errorf("expected reset collector, got %v", d.List())
	}
}

func TestDiagnosticsNil(t *testing.T) {
	var d *Diagnostics

	d.Errorf("dropped")
	d.Warnf("dropped")
	d.Reset()

	if d.Len() != 0 || d.Errors() != 0 || d.List() != nil {
		t.Errorf("expected nil collector to discard diagnostics")
	}

	for range d.All() {
		t.Errorf("expected no diagnostics")
	}
}

func TestDiagnosticsJSON(t *testing.T) {
	var d Diagnostics

	data, err := json.Marshal(&d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(data) != "[]" {
		t.Errorf("expected [], got %s", data)
	}

	d.Errorf("variable x is not defined")
	d.Warnf("variable y is not used")

	data, err = json.Marshal(&d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `[{"message":"variable x is not defined","level":"Error"},` +
		`{"message":"variable y is not used","level":"Warning"}]`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}

	var back Diagnostics

	err = json.Unmarshal(data, &back)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if back.Errors() != 1 || back.Len() != 2 {
		t.Errorf("expected 1 error of 2, got %v", back.List())
	}

	err = json.Unmarshal([]byte(`[{"message":"m","level":"Fatal"}]`), &back)
	if err == nil {
		t.Errorf("expected error for unknown level")
	}
}

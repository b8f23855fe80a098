package profile

import "testing"

func TestMake(t *testing.T) {
	p := Make(WithMode("cpu"), WithPath("/tmp/prof"), WithQuiet(true))

	if p.Mode != "cpu" || p.Path != "/tmp/prof" || !p.Quiet {
		t.Errorf("unexpected profiler %+v", p)
	}
}

func TestStart_EmptyMode(t *testing.T) {
	s := Make(WithPath(t.TempDir())).Start()

	if _, ok := s.(ignore); !ok {
		t.Errorf("expected no-op profiler, got %T", s)
	}

	s.Stop()
}

func TestStart_UnknownMode(t *testing.T) {
	s := Make(WithMode("nonesuch")).Start()

	if _, ok := s.(ignore); !ok {
		t.Errorf("expected no-op profiler, got %T", s)
	}

	s.Stop()
}

package repl

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/epp/lang"
	"github.com/ardnew/epp/log"
)

// session holds the state that outlives a single line of input: the bound
// variables and the options every line is compiled with.
type session struct {
	bindings lang.Bindings
	options  []lang.Option
	logger   log.Logger
}

func newSession(b lang.Bindings, logger log.Logger, opts ...lang.Option) *session {
	return &session{
		bindings: lang.Bindings{}.Merge(b),
		options:  append(slices.Clone(opts), lang.WithLogger(logger)),
		logger:   logger,
	}
}

// compile parses line through the parse cache.
func (s *session) compile(ctx context.Context, line string) (*lang.Equation, *lang.Diagnostics, error) {
	diags := new(lang.Diagnostics)

	eq, err := lang.CompileCached(ctx, line, s.options...)
	if err != nil {
		return nil, diags, err
	}

	return eq, diags, nil
}

// eval evaluates an equation or arithmetic expression with the current
// bindings and returns the text to print.
func (s *session) eval(ctx context.Context, line string) (string, error) {
	eq, diags, err := s.compile(ctx, line)
	if err != nil {
		return "", err
	}

	var out string

	if eq.IsRelation() {
		r, err := eq.Evaluate(ctx, s.bindings, diags)
		if err != nil {
			return "", withDiagnostics(err, diags)
		}

		out = r.String()
	} else {
		v, err := eq.EvaluateNumber(ctx, s.bindings, diags)
		if err != nil {
			return "", withDiagnostics(err, diags)
		}

		out = strconv.FormatFloat(v, 'g', -1, 64)
	}

	s.logger.TraceContext(ctx, "repl eval", slog.String("input", line), slog.String("output", out))

	return appendDiagnostics(out, diags), nil
}

// command executes a control command and returns the text to print.
func (s *session) command(ctx context.Context, name, arg string) (string, error) {
	switch name {
	case "vars", "v":
		return s.vars(), nil

	case "set", "s":
		b, err := lang.ParseBindings(strings.Fields(arg)...)
		if err != nil {
			return "", err
		}

		if len(b) == 0 {
			return "", lang.ErrInvalidBinding.Wrapf("expected name=value")
		}

		s.bindings = s.bindings.Merge(b)

		return s.vars(), nil

	case "unset", "u":
		for _, name := range strings.Fields(arg) {
			delete(s.bindings, name)
		}

		return s.vars(), nil

	case "simplify":
		eq, _, err := s.compile(ctx, arg)
		if err != nil {
			return "", err
		}

		return eq.Simplify().String(), nil

	case "diff", "d":
		eq, _, err := s.compile(ctx, arg)
		if err != nil {
			return "", err
		}

		d, err := eq.Differentiate(ctx)
		if err != nil {
			return "", err
		}

		return d.Simplify().String(), nil

	case "emit":
		eq, _, err := s.compile(ctx, arg)
		if err != nil {
			return "", err
		}

		return eq.Emit(), nil

	case "solve":
		eq, diags, err := s.compile(ctx, arg)
		if err != nil {
			return "", err
		}

		roots, err := eq.SolveRange(ctx, s.bindings, -10, 10, 20, diags)
		if err != nil {
			return "", withDiagnostics(err, diags)
		}

		if len(roots) == 0 {
			return appendDiagnostics("no roots in [-10, 10]", diags), nil
		}

		xs := make([]string, len(roots))
		for i, r := range roots {
			xs[i] = lang.DefaultVariable + " = " + strconv.FormatFloat(r.X, 'g', 10, 64)
		}

		return appendDiagnostics(strings.Join(xs, "\n"), diags), nil
	}

	return "", ErrUnknownCommand.With(slog.String("command", name))
}

// vars lists the bindings sorted by name.
func (s *session) vars() string {
	if len(s.bindings) == 0 {
		return "no variables bound"
	}

	var sb strings.Builder

	for i, name := range slices.Sorted(maps.Keys(s.bindings)) {
		if i > 0 {
			sb.WriteByte('\n')
		}

		fmt.Fprintf(&sb, "%s = %g", name, s.bindings[name])
	}

	return sb.String()
}

func appendDiagnostics(out string, diags *lang.Diagnostics) string {
	for d := range diags.All() {
		out += "\n" + d.String()
	}

	return out
}

func withDiagnostics(err error, diags *lang.Diagnostics) error {
	msgs := make([]string, 0, diags.Len())
	for d := range diags.All() {
		msgs = append(msgs, d.String())
	}

	if len(msgs) == 0 {
		return err
	}

	return lang.WrapError(err).Wrapf(strings.Join(msgs, "; "))
}

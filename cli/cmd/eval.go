package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"

	"github.com/ardnew/epp/lang"
	"github.com/ardnew/epp/log"
)

// Eval evaluates an equation, or the value of an arithmetic expression,
// with the bound variables.
type Eval struct {
	Target bool `help:"Also run the emitted code and compare the outcomes" short:"t"`

	Equation []string `arg:"" help:"Equation, or '-' to read standard input" name:"equation"`
}

type evalReport struct {
	Equation    string            `json:"equation"`
	Result      *lang.Result      `json:"result,omitempty"`
	Value       any               `json:"value,omitempty"`
	Target      any               `json:"target,omitempty"`
	Diagnostics *lang.Diagnostics `json:"diagnostics"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context, g *Globals) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)
	defer func() { cancel(err) }()

	diags := new(lang.Diagnostics)

	eq, err := g.compile(ctx, e.Equation, diags)
	if err != nil {
		return err
	}

	b, err := g.bindings(ctx)
	if err != nil {
		return err
	}

	rep := evalReport{Equation: eq.String(), Diagnostics: diags}

	if eq.IsRelation() {
		r, err := eq.Evaluate(ctx, b, diags)
		if err != nil {
			g.diagnose(diags)

			return lang.WrapError(err).With(slog.String("command", "eval"))
		}

		rep.Result = &r
	} else {
		v, err := eq.EvaluateNumber(ctx, b, diags)
		if err != nil {
			g.diagnose(diags)

			return lang.WrapError(err).With(slog.String("command", "eval"))
		}

		rep.Value = number(v)
	}

	if e.Target {
		rep.Target, err = e.runTarget(ctx, eq, b)
		if err != nil {
			return err
		}
	}

	return g.report(ctx, rep, diags, func(w io.Writer) error {
		var line string

		if rep.Result != nil {
			line = rep.Result.String()
		} else {
			line = fmt.Sprint(rep.Value)
		}

		if rep.Target != nil {
			line += " (target: " + fmt.Sprint(rep.Target) + ")"
		}

		_, err := fmt.Fprintln(w, line)

		return err
	})
}

func (e *Eval) runTarget(ctx context.Context, eq *lang.Equation, b lang.Bindings) (any, error) {
	t, err := eq.Target(ctx, b)
	if err != nil {
		return nil, err
	}

	if eq.IsRelation() {
		v, err := t.Verdict(b)
		if err != nil {
			return nil, err
		}

		log.DebugContext(ctx, "target verdict", slog.Bool("verdict", v))

		return v, nil
	}

	v, err := t.Number(b)
	if err != nil {
		return nil, err
	}

	log.DebugContext(ctx, "target value", slog.Float64("value", v))

	return number(v), nil
}

// number returns v unchanged when it is finite and as its text otherwise,
// so that reports always encode as JSON.
func number(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	return v
}

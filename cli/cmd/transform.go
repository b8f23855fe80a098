package cmd

import (
	"context"
	"fmt"
	"io"
	"maps"

	"github.com/ardnew/epp/lang"
)

// Simplify folds constants and removes identity operations.
type Simplify struct {
	Equation []string `arg:"" help:"Equation, or '-' to read standard input" name:"equation"`
}

// Run executes the simplify command.
func (s *Simplify) Run(ctx context.Context, g *Globals) error {
	diags := new(lang.Diagnostics)

	eq, err := g.compile(ctx, s.Equation, diags)
	if err != nil {
		return err
	}

	simple := eq.Simplify().String()

	rep := struct {
		Equation   string `json:"equation"`
		Simplified string `json:"simplified"`
	}{eq.String(), simple}

	return g.report(ctx, rep, diags, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, simple)

		return err
	})
}

// Diff differentiates an arithmetic expression.
type Diff struct {
	Variable string `default:"x"  help:"Variable of differentiation"      short:"v"`
	Simplify bool   `default:"true" help:"Simplify the derivative" negatable:""`

	Equation []string `arg:"" help:"Expression, or '-' to read standard input" name:"expression"`
}

// Run executes the diff command.
func (d *Diff) Run(ctx context.Context, g *Globals) error {
	diags := new(lang.Diagnostics)

	eq, err := g.compile(ctx, d.Equation, diags)
	if err != nil {
		return err
	}

	root, err := lang.DifferentiateFor(eq.Root, d.Variable)
	if err != nil {
		return err
	}

	if d.Simplify {
		root = lang.Simplify(root)
	}

	rep := struct {
		Equation   string `json:"equation"`
		Variable   string `json:"variable"`
		Derivative string `json:"derivative"`
	}{eq.String(), d.Variable, lang.String(root)}

	return g.report(ctx, rep, diags, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, rep.Derivative)

		return err
	})
}

// Emit renders an equation as expr-lang source.
type Emit struct {
	Constant map[string]string `help:"Rename identifier NAME to TARGET in emitted code" placeholder:"NAME=TARGET" short:"c"`
	Builtin  bool              `help:"Rename pi and e to the constants of the runtime"`
	Check    bool              `help:"Compile the emitted code for the bound variables"`

	Equation []string `arg:"" help:"Equation, or '-' to read standard input" name:"equation"`
}

// Run executes the emit command.
func (e *Emit) Run(ctx context.Context, g *Globals) error {
	constants := map[string]string{}
	if e.Builtin {
		maps.Copy(constants, lang.TargetConstants)
	}

	maps.Copy(constants, e.Constant)

	diags := new(lang.Diagnostics)

	eq, err := g.compile(ctx, e.Equation, diags, lang.WithConstants(constants))
	if err != nil {
		return err
	}

	code := eq.Emit()

	if e.Check {
		b, err := g.bindings(ctx)
		if err != nil {
			return err
		}

		_, err = eq.Target(ctx, b)
		if err != nil {
			return err
		}
	}

	rep := struct {
		Equation string `json:"equation"`
		Code     string `json:"code"`
	}{eq.String(), code}

	return g.report(ctx, rep, diags, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, code)

		return err
	})
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/epp/lang"
	"github.com/ardnew/epp/log"
)

// Solve finds the values of x at which an equation holds with equality, or
// at which an expression is zero, using Newton's method.
type Solve struct {
	Start     []float64 `help:"Search from each of these values instead of scanning" sep:","          short:"s"`
	From      float64   `default:"-10"                                             help:"Lower bound of the scanned range"`
	To        float64   `default:"10"                                              help:"Upper bound of the scanned range"`
	Steps     int       `default:"20"                                              help:"Number of intervals in the scanned range"`
	Limit     int       `default:"${maxIterations}"                                help:"Maximum iterations per search"`
	Tolerance float64   `default:"${tolerance}"                                    help:"Residual at which a search succeeds"`

	Equation []string `arg:"" help:"Equation, or '-' to read standard input" name:"equation"`
}

type solveReport struct {
	Equation    string            `json:"equation"`
	Derivative  string            `json:"derivative"`
	Roots       []lang.Root       `json:"roots"`
	Diagnostics *lang.Diagnostics `json:"diagnostics"`
}

// Run executes the solve command.
func (s *Solve) Run(ctx context.Context, g *Globals) error {
	if len(s.Start) == 0 && !(s.From < s.To) {
		return ErrInvalidRange.With(
			slog.Float64("from", s.From),
			slog.Float64("to", s.To),
		)
	}

	diags := new(lang.Diagnostics)

	eq, err := g.compile(ctx, s.Equation, diags)
	if err != nil {
		return err
	}

	b, err := g.bindings(ctx)
	if err != nil {
		return err
	}

	solver, err := eq.Solver(ctx, b, diags)
	if err != nil {
		g.diagnose(diags)

		return err
	}

	solver.MaxIterations = s.Limit
	solver.Tolerance = s.Tolerance

	rep := solveReport{
		Equation:    eq.String(),
		Derivative:  lang.String(solver.Derivative()),
		Roots:       []lang.Root{},
		Diagnostics: diags,
	}

	if len(s.Start) == 0 {
		roots, err := solver.Scan(ctx, s.From, s.To, s.Steps)
		if err != nil {
			return err
		}

		rep.Roots = append(rep.Roots, roots...)
	}

	for _, x0 := range s.Start {
		root, err := solver.Newton(ctx, x0)
		if err != nil {
			log.InfoContext(ctx, "search failed",
				slog.Float64("start", x0),
				slog.Any("error", err),
			)

			continue
		}

		rep.Roots = append(rep.Roots, root)
	}

	return g.report(ctx, rep, diags, func(w io.Writer) error {
		if len(rep.Roots) == 0 {
			_, err := fmt.Fprintln(w, "no roots found")

			return err
		}

		for _, r := range rep.Roots {
			_, err := fmt.Fprintf(w, "x = %g (residual %.3g after %d iterations)\n",
				r.X, r.Residual, r.Iterations)
			if err != nil {
				return err
			}
		}

		return nil
	})
}

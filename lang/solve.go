package lang

import (
	"context"
	"log/slog"
	"maps"
	"math"
	"slices"
)

// DefaultMaxIterations bounds the Newton iterations of one root search.
const DefaultMaxIterations = 100

// DefaultTolerance is the residual below which a root search succeeds.
const DefaultTolerance = 1e-10

// Solver finds values of [DefaultVariable] at which an equation holds with
// equality, or at which an arithmetic expression is zero.
type Solver struct {
	f, df         Expr
	bindings      Bindings
	MaxIterations int
	Tolerance     float64
}

// Root is the outcome of a single Newton search.
type Root struct {
	X          float64 `json:"x"`
	Residual   float64 `json:"residual"`
	Iterations int     `json:"iterations"`
}

// Solver prepares a root search over the equation with the other
// variables fixed by b. For a relation l ~ r the residual l - r is solved;
// for an arithmetic expression the expression itself is.
func (eq *Equation) Solver(
	ctx context.Context,
	b Bindings,
	diags *Diagnostics,
) (*Solver, error) {
	f := eq.Root

	if eq.IsRelation() {
		root, _ := eq.Root.(*Binary)
		f = Bin(OpSub, root.Left, root.Right)
	}

	vars := maps.Clone(b)
	if vars == nil {
		vars = Bindings{}
	}

	if _, ok := vars[DefaultVariable]; !ok {
		vars[DefaultVariable] = 0
	}

	if !ValidateExpr(f, vars, diags) {
		return nil, ErrValidation.With(slog.Int("errors", diags.Errors()))
	}

	df, err := Differentiate(f)
	if err != nil {
		return nil, err
	}

	df = Simplify(df)

	eq.opts.logger.TraceContext(ctx, "solver",
		slog.String("residual", String(f)),
		slog.String("derivative", String(df)),
	)

	return &Solver{
		f:             f,
		df:            df,
		bindings:      vars,
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
	}, nil
}

// Derivative returns the simplified derivative used for the search.
func (s *Solver) Derivative() Expr { return s.df }

// Newton searches for a root starting at x0. Each step moves to the zero of
// the tangent line, x - f(x)/f'(x). The search fails with
// [ErrNoConvergence] when the gradient vanishes or is not a number, or when
// the iteration limit is reached.
func (s *Solver) Newton(ctx context.Context, x0 float64) (Root, error) {
	vars := maps.Clone(s.bindings)
	x := x0

	for i := range s.MaxIterations {
		err := ctx.Err()
		if err != nil {
			return Root{}, err
		}

		vars[DefaultVariable] = x

		y, err := EvaluateNumber(s.f, vars, nil)
		if err != nil {
			return Root{}, err
		}

		if math.Abs(y) < s.Tolerance {
			return Root{X: x, Residual: y, Iterations: i}, nil
		}

		g, err := EvaluateNumber(s.df, vars, nil)
		if err != nil {
			return Root{}, err
		}

		if math.IsNaN(g) || g == 0 || math.IsNaN(y) {
			return Root{}, ErrNoConvergence.With(
				slog.Float64("x", x),
				slog.Float64("gradient", g),
				slog.Int("iterations", i),
			)
		}

		x = (g*x - y) / g
	}

	return Root{}, ErrNoConvergence.With(
		slog.Float64("x", x),
		slog.Int("iterations", s.MaxIterations),
	)
}

// Scan runs [Solver.Newton] from n+1 evenly spaced starting points in
// [lo, hi] and returns the distinct roots found in ascending order. Roots
// closer than 100 times the tolerance are considered the same.
func (s *Solver) Scan(ctx context.Context, lo, hi float64, n int) ([]Root, error) {
	if n < 1 {
		n = 1
	}

	var roots []Root

	for i := 0; i <= n; i++ {
		x0 := lo + (hi-lo)*float64(i)/float64(n)

		r, err := s.Newton(ctx, x0)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			continue
		}

		dup := slices.ContainsFunc(roots, func(q Root) bool {
			return math.Abs(q.X-r.X) < s.Tolerance*100
		})
		if !dup {
			roots = append(roots, r)
		}
	}

	slices.SortFunc(roots, func(a, b Root) int {
		switch {
		case a.X < b.X:
			return -1
		case a.X > b.X:
			return 1
		}

		return 0
	})

	return roots, nil
}

// Solve searches for a single root of the equation starting at x0.
func (eq *Equation) Solve(
	ctx context.Context,
	b Bindings,
	x0 float64,
	diags *Diagnostics,
) (Root, error) {
	s, err := eq.Solver(ctx, b, diags)
	if err != nil {
		return Root{}, err
	}

	return s.Newton(ctx, x0)
}

// SolveRange returns the distinct roots found by [Solver.Scan] over
// [lo, hi] with n intervals.
func (eq *Equation) SolveRange(
	ctx context.Context,
	b Bindings,
	lo, hi float64,
	n int,
	diags *Diagnostics,
) ([]Root, error) {
	s, err := eq.Solver(ctx, b, diags)
	if err != nil {
		return nil, err
	}

	return s.Scan(ctx, lo, hi, n)
}

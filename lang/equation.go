package lang

import (
	"context"
	"log/slog"
)

// Equation is a parsed expression together with the options it was
// compiled with. Its tree is immutable, so an Equation may be shared
// between goroutines; each operation takes its own [Diagnostics].
type Equation struct {
	Root   Expr
	Source string
	opts   options
}

// Compile parses source into an [Equation]. Syntax errors are returned as
// [*SyntaxError] and recorded in diags.
func Compile(
	ctx context.Context,
	source string,
	diags *Diagnostics,
	opts ...Option,
) (*Equation, error) {
	root, err := ParseString(ctx, source, diags, opts...)
	if err != nil {
		return nil, err
	}

	return &Equation{Root: root, Source: source, opts: makeOptions(opts...)}, nil
}

// derive returns a new Equation over root sharing the options of eq.
func (eq *Equation) derive(root Expr) *Equation {
	return &Equation{Root: root, Source: String(root), opts: eq.opts}
}

// String renders the equation tree in source syntax.
func (eq *Equation) String() string { return String(eq.Root) }

// Epsilon returns the equality tolerance the equation was compiled with.
func (eq *Equation) Epsilon() float64 { return eq.opts.epsilon }

// IsRelation reports whether the root of the tree is a relation.
func (eq *Equation) IsRelation() bool {
	b, ok := eq.Root.(*Binary)

	return ok && b.Op.Relational()
}

// Validate checks the equation against b; see [Validate].
func (eq *Equation) Validate(ctx context.Context, b Bindings, diags *Diagnostics) bool {
	return eq.validate(ctx, b, diags, Validate)
}

// ValidateExpr checks the arithmetic expression against b; see
// [ValidateExpr].
func (eq *Equation) ValidateExpr(ctx context.Context, b Bindings, diags *Diagnostics) bool {
	return eq.validate(ctx, b, diags, ValidateExpr)
}

func (eq *Equation) validate(
	ctx context.Context,
	b Bindings,
	diags *Diagnostics,
	check func(Expr, Bindings, *Diagnostics) bool,
) bool {
	if diags == nil {
		diags = new(Diagnostics)
	}

	mark := diags.Len()
	ok := check(eq.Root, b, diags)

	for _, d := range diags.since(mark) {
		eq.opts.logger.DebugContext(ctx, "diagnostic", slog.Any("diagnostic", d))
	}

	eq.opts.logger.TraceContext(ctx, "validate",
		slog.Bool("valid", ok),
		slog.Int("bindings", len(b)),
	)

	return ok
}

// Evaluate validates the equation against b and, if it is valid, evaluates
// it; see [Evaluate].
func (eq *Equation) Evaluate(
	ctx context.Context,
	b Bindings,
	diags *Diagnostics,
) (Result, error) {
	if diags == nil {
		diags = new(Diagnostics)
	}

	if !eq.Validate(ctx, b, diags) {
		return Result{}, ErrValidation.With(slog.Int("errors", diags.Errors()))
	}

	r, err := Evaluate(eq.Root, b, eq.opts.epsilon, diags)
	if err != nil {
		return Result{}, err
	}

	eq.opts.logger.TraceContext(ctx, "evaluate", slog.Any("result", r))

	return r, nil
}

// EvaluateNumber validates the arithmetic expression against b and, if it
// is valid, computes its value.
func (eq *Equation) EvaluateNumber(
	ctx context.Context,
	b Bindings,
	diags *Diagnostics,
) (float64, error) {
	if diags == nil {
		diags = new(Diagnostics)
	}

	if !eq.ValidateExpr(ctx, b, diags) {
		return 0, ErrValidation.With(slog.Int("errors", diags.Errors()))
	}

	return EvaluateNumber(eq.Root, b, diags)
}

// Simplify returns the equation with its tree simplified.
func (eq *Equation) Simplify() *Equation { return eq.derive(Simplify(eq.Root)) }

// Differentiate returns the derivative of the expression with respect to
// [DefaultVariable].
func (eq *Equation) Differentiate(ctx context.Context) (*Equation, error) {
	d, err := Differentiate(eq.Root)
	if err != nil {
		return nil, err
	}

	eq.opts.logger.TraceContext(ctx, "differentiate",
		slog.Int("depth", Depth(d)),
	)

	return eq.derive(d), nil
}

// Emit renders the equation as expr-lang source using the constants and
// epsilon it was compiled with.
func (eq *Equation) Emit() string {
	return Emit(eq.Root, eq.opts.constants, eq.opts.epsilon)
}

// Target compiles the emitted code for an environment holding the bound
// variables of b.
func (eq *Equation) Target(ctx context.Context, b Bindings) (*Target, error) {
	src := eq.Emit()

	eq.opts.logger.TraceContext(ctx, "emit", slog.String("source", src))

	return CompileTarget(src, b.Names()...)
}

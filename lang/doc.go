// Package lang implements a compiler for a single-expression equation
// language: arithmetic over named variables and a fixed library of
// functions, combined with exactly one relation.
//
//	x^2 + 2*x + 1 = 0
//	sqrt(a^2 + b^2) <= hypot(a, b)
//	atan2(y, x) * 180 / pi > 45
//
// # Pipeline
//
// Source text is split into tokens by [Tokenize], parsed by precedence
// climbing into an [Expr] tree by [Parse], and checked against a set of
// [Bindings] by [Validate]. A valid tree is then consumed by one of the
// independent back ends:
//
//   - [Evaluate] computes both sides of the relation and its verdict;
//     [EvaluateNumber] computes an arithmetic expression.
//   - [Simplify] folds constants and applies identity laws.
//   - [Differentiate] returns the derivative with respect to x.
//   - [Emit] renders expr-lang source, which [CompileTarget] compiles and
//     runs for cross-checking.
//   - [Solver] finds roots with Newton's method.
//
// [Equation] bundles a tree with the options it was compiled with and
// exposes every back end as a method.
//
// # Operators
//
// Relations are = (approximate, within the epsilon of [WithEpsilon]), <>,
// <, >, <=, and >=. Arithmetic operators are +, -, *, /, % (floating-point
// remainder), and ^ (exponentiation). Binding strength comes from a
// [Precedence] table; the default binds ^ tightest and relations loosest,
// and operators of equal strength associate to the left.
//
// # Diagnostics
//
// Problems found while parsing, validating, and evaluating are recorded in
// a [Diagnostics] collector passed by the caller. Each compile should use
// its own collector; a nil collector discards diagnostics.
//
// # Errors
//
// Failures are returned as [*Error] values that match the package
// sentinels with [errors.Is] and carry structured attributes for logging.
// Syntax errors are [*SyntaxError] values locating the offending token.
package lang

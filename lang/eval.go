package lang

import (
	"encoding/json"
	"log/slog"
	"math"
	"strconv"
)

// Result is the outcome of evaluating an equation.
type Result struct {
	LHS     float64
	RHS     float64
	Op      Op
	Verdict bool
}

// String implements [fmt.Stringer].
func (r Result) String() string {
	return formatFloat(r.LHS) + " " + r.Op.Symbol() + " " +
		formatFloat(r.RHS) + " → " + strconv.FormatBool(r.Verdict)
}

// LogValue implements slog.LogValuer.
func (r Result) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("lhs", r.LHS),
		slog.String("operator", r.Op.Symbol()),
		slog.Float64("rhs", r.RHS),
		slog.Bool("verdict", r.Verdict),
	)
}

// MarshalJSON encodes r as {"lhs", "operator", "rhs", "verdict"}.
// Non-finite operands are encoded as the strings "NaN", "+Inf" and "-Inf".
func (r Result) MarshalJSON() ([]byte, error) {
	return marshalJSON(struct {
		LHS     jsonFloat `json:"lhs"`
		Op      string    `json:"operator"`
		RHS     jsonFloat `json:"rhs"`
		Verdict bool      `json:"verdict"`
	}{jsonFloat(r.LHS), r.Op.Symbol(), jsonFloat(r.RHS), r.Verdict})
}

type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return json.Marshal(formatFloat(v))
	}

	return json.Marshal(v)
}

// Evaluate computes both sides of the relation at the root of e and
// compares them. The equality relation holds when the operands differ by
// less than epsilon, and the inequality relation holds otherwise.
//
// e must have passed [Validate] with the same bindings. Arithmetic follows
// IEEE-754: division by zero yields an infinity or NaN, not an error.
// A call with more arguments than its function accepts is reported as a
// Warning and the surplus is ignored; a call with fewer fails with
// [ErrArity].
func Evaluate(e Expr, b Bindings, epsilon float64, diags *Diagnostics) (Result, error) {
	root, ok := e.(*Binary)
	if !ok || !root.Op.Relational() {
		return Result{}, ErrNotRelation.With(slog.String("expr", String(e)))
	}

	lhs, err := reduce(root.Left, b, diags)
	if err != nil {
		return Result{}, err
	}

	rhs, err := reduce(root.Right, b, diags)
	if err != nil {
		return Result{}, err
	}

	return Result{
		LHS:     lhs,
		RHS:     rhs,
		Op:      root.Op,
		Verdict: compare(root.Op, lhs, rhs, epsilon),
	}, nil
}

// EvaluateNumber reduces an arithmetic expression to its value. It shares
// the semantics of [Evaluate] but rejects relational nodes.
func EvaluateNumber(e Expr, b Bindings, diags *Diagnostics) (float64, error) {
	return reduce(e, b, diags)
}

func compare(op Op, l, r, epsilon float64) bool {
	switch op {
	case OpEq:
		return math.Abs(l-r) < epsilon
	case OpNe:
		return math.Abs(l-r) >= epsilon
	case OpLt:
		return l < r
	case OpGt:
		return l > r
	case OpLe:
		return l <= r
	case OpGe:
		return l >= r
	}

	return false
}

// frame is a pending node of an explicit-stack traversal. A node is first
// visited to schedule its children and then, once expanded, to combine
// their results.
type frame struct {
	e        Expr
	expanded bool
}

// reduce evaluates e without recursion so that deeply nested trees cannot
// exhaust the call stack.
func reduce(e Expr, b Bindings, diags *Diagnostics) (float64, error) {
	var (
		stack = []frame{{e: e}}
		vals  = make([]float64, 0, 16)
	)

	pop := func() float64 {
		v := vals[len(vals)-1]
		vals = vals[:len(vals)-1]

		return v
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch x := f.e.(type) {
		case *Literal:
			vals = append(vals, x.Value)

		case *Ident:
			v, ok := b[x.Name]
			if !ok {
				return 0, ErrInvariant.
					Wrapf("variable " + x.Name + " is not bound")
			}

			vals = append(vals, v)

		case *Neg:
			if !f.expanded {
				stack = append(stack, frame{e: x, expanded: true}, frame{e: x.Operand})

				continue
			}

			vals = append(vals, -pop())

		case *Binary:
			if x.Op.Relational() {
				return 0, ErrInvariant.
					Wrapf("relation " + x.Op.Symbol() + " inside an operand").
					With(slog.String("expr", String(x)))
			}

			if !f.expanded {
				stack = append(stack,
					frame{e: x, expanded: true},
					frame{e: x.Right},
					frame{e: x.Left},
				)

				continue
			}

			r := pop()
			vals = append(vals, arith(x.Op, pop(), r))

		case *Call:
			if !f.expanded {
				err := checkArity(x, diags)
				if err != nil {
					return 0, err
				}

				stack = append(stack, frame{e: x, expanded: true})
				for i := len(x.Args) - 1; i >= 0; i-- {
					stack = append(stack, frame{e: x.Args[i]})
				}

				continue
			}

			n := len(x.Args)
			args := vals[len(vals)-n : len(vals)-n+x.Func.Arity()]
			v := x.Func.Call(args...)
			vals = append(vals[:len(vals)-n], v)

		default:
			return 0, ErrInvariant.Wrapf("unknown expression node")
		}
	}

	if len(vals) != 1 {
		return 0, ErrInvariant.Wrapf("unbalanced evaluation stack")
	}

	return vals[0], nil
}

// checkArity reports argument count mismatches for the call x.
func checkArity(x *Call, diags *Diagnostics) error {
	if !x.Func.Valid() {
		return ErrInvariant.Wrapf("function " + x.Name + " is not defined")
	}

	want, got := x.Func.Arity(), len(x.Args)

	switch {
	case got < want:
		diags.Errorf("function %s expects %d arguments, got %d", x.Name, want, got)

		return ErrArity.With(
			slog.String("function", x.Name),
			slog.Int("want", want),
			slog.Int("got", got),
		)

	case got > want:
		diags.Warnf("function %s expects %d arguments, got %d; ignoring %d",
			x.Name, want, got, got-want)
	}

	return nil
}

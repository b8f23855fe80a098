package lang

import "log/slog"

// DefaultVariable is the variable [Differentiate] differentiates with
// respect to.
const DefaultVariable = "x"

// Differentiate returns the derivative of e with respect to
// [DefaultVariable].
//
// Relations and the modulo operator have no derivative and fail with
// [ErrNotDifferentiable], as do calls of functions without a derivative
// rule. The result is not simplified; compose with [Simplify] as needed.
func Differentiate(e Expr) (Expr, error) {
	return DifferentiateFor(e, DefaultVariable)
}

// DifferentiateFor returns the derivative of e with respect to variable.
// All other identifiers are treated as constants.
func DifferentiateFor(e Expr, variable string) (Expr, error) {
	return differ{variable: variable}.settled(e)
}

type differ struct {
	variable string
}

// settled differentiates e and applies any pending correction factors.
func (d differ) settled(e Expr) (Expr, error) {
	de, pending, err := d.derive(e)
	if err != nil {
		return nil, err
	}

	for _, factor := range pending {
		de = Bin(OpMul, de, factor)
	}

	return de, nil
}

// derive returns the derivative of e along with correction factors that
// the caller must multiply into it before use. Only abs produces factors:
// d/dx abs(u) is u' scaled by u/abs(u), which is returned unapplied.
func (d differ) derive(e Expr) (Expr, []Expr, error) {
	switch x := e.(type) {
	case *Literal:
		return Num(0), nil, nil

	case *Ident:
		if x.Name == d.variable {
			return Num(1), nil, nil
		}

		return Num(0), nil, nil

	case *Neg:
		du, err := d.settled(x.Operand)
		if err != nil {
			return nil, nil, err
		}

		return Negate(du), nil, nil

	case *Binary:
		de, err := d.binary(x)

		return de, nil, err

	case *Call:
		return d.call(x)
	}

	return nil, nil, ErrInvariant.Wrapf("unknown expression node")
}

// relationNames name each relation in error messages.
var relationNames = map[Op]string{
	OpEq:  "an equality",
	OpNe:  "an inequality",
	OpLt:  "a less than",
	OpGt:  "a greater than",
	OpLe:  "a less than or equal",
	OpGe:  "a greater than or equal",
	OpMod: "a modulo",
}

func (d differ) binary(x *Binary) (Expr, error) {
	if name, ok := relationNames[x.Op]; ok {
		return nil, ErrNotDifferentiable.
			Wrapf("cannot differentiate " + name + " expression").
			With(slog.String("operator", x.Op.Symbol()))
	}

	if x.Op == OpPow {
		return d.power(x.Left, x.Right)
	}

	f, g := x.Left, x.Right

	df, err := d.settled(f)
	if err != nil {
		return nil, err
	}

	dg, err := d.settled(g)
	if err != nil {
		return nil, err
	}

	switch x.Op {
	case OpAdd, OpSub:
		return Bin(x.Op, df, dg), nil

	case OpMul:
		// f'g + fg'
		return Bin(OpAdd,
			Bin(OpMul, df, Clone(g)),
			Bin(OpMul, Clone(f), dg),
		), nil

	case OpDiv:
		// (f'g - fg') / g^2
		return Bin(OpDiv,
			Bin(OpSub,
				Bin(OpMul, df, Clone(g)),
				Bin(OpMul, Clone(f), dg),
			),
			Bin(OpPow, Clone(g), Num(2)),
		), nil
	}

	return nil, ErrInvariant.Wrapf("unknown operator " + x.Op.Symbol())
}

// power differentiates b^n, choosing the rule by which operands depend on
// the variable.
func (d differ) power(b, n Expr) (Expr, error) {
	inBase, inExp := Contains(b, d.variable), Contains(n, d.variable)

	if !inBase && !inExp {
		return Num(0), nil
	}

	var db, dn Expr

	if inBase {
		var err error

		db, err = d.settled(b)
		if err != nil {
			return nil, err
		}
	}

	if inExp {
		var err error

		dn, err = d.settled(n)
		if err != nil {
			return nil, err
		}
	}

	switch {
	case inBase && !inExp:
		// n b^(n-1) b'
		return Bin(OpMul,
			Bin(OpMul, Clone(n), Bin(OpPow, Clone(b), Bin(OpSub, Clone(n), Num(1)))),
			db,
		), nil

	case !inBase && inExp:
		// b^n ln(b) n'
		return Bin(OpMul,
			Bin(OpMul, Bin(OpPow, Clone(b), Clone(n)), Apply(FuncLn, Clone(b))),
			dn,
		), nil
	}

	// (n' ln(b) + n b'/b) b^n
	return Bin(OpMul,
		Bin(OpAdd,
			Bin(OpMul, dn, Apply(FuncLn, Clone(b))),
			Bin(OpMul, Clone(n), Bin(OpDiv, db, Clone(b))),
		),
		Bin(OpPow, Clone(b), Clone(n)),
	), nil
}

func (d differ) call(x *Call) (Expr, []Expr, error) {
	if !x.Func.Valid() {
		return nil, nil, ErrNotDifferentiable.
			Wrapf("cannot differentiate function " + x.Name)
	}

	if len(x.Args) != x.Func.Arity() {
		return nil, nil, ErrArity.With(
			slog.String("function", x.Name),
			slog.Int("want", x.Func.Arity()),
			slog.Int("got", len(x.Args)),
		)
	}

	switch x.Func {
	case FuncPow:
		de, err := d.power(x.Args[0], x.Args[1])

		return de, nil, err

	case FuncLog:
		// log(a, b) = ln(a) / ln(b)
		de, err := d.settled(Bin(OpDiv,
			Apply(FuncLn, Clone(x.Args[0])),
			Apply(FuncLn, Clone(x.Args[1])),
		))

		return de, nil, err
	}

	u := x.Args[0]

	du, err := d.settled(u)
	if err != nil {
		return nil, nil, err
	}

	c := func() Expr { return Clone(u) }

	var de Expr

	switch x.Func {
	case FuncAbs:
		return du, []Expr{Bin(OpDiv, c(), Apply(FuncAbs, c()))}, nil

	case FuncSin:
		de = Bin(OpMul, Apply(FuncCos, c()), du)

	case FuncCos:
		de = Bin(OpMul, Negate(Apply(FuncSin, c())), du)

	case FuncTan:
		de = Bin(OpDiv, du, Bin(OpPow, Apply(FuncCos, c()), Num(2)))

	case FuncLn:
		de = Bin(OpDiv, du, c())

	case FuncLn1p:
		de = Bin(OpDiv, du, Bin(OpAdd, Num(1), c()))

	case FuncLog2:
		de = Bin(OpDiv, du, Bin(OpMul, c(), Apply(FuncLn, Num(2))))

	case FuncLog10:
		de = Bin(OpDiv, du, Bin(OpMul, c(), Apply(FuncLn, Num(10))))

	case FuncSqrt:
		de = Bin(OpDiv, du, Bin(OpMul, Num(2), Apply(FuncSqrt, c())))

	case FuncCbrt:
		de = Bin(OpDiv, du,
			Bin(OpMul, Num(3), Bin(OpPow, Apply(FuncCbrt, c()), Num(2))))

	case FuncExp, FuncExpm1:
		de = Bin(OpMul, Apply(FuncExp, c()), du)

	case FuncAsin:
		de = Bin(OpDiv, du,
			Apply(FuncSqrt, Bin(OpSub, Num(1), Bin(OpPow, c(), Num(2)))))

	case FuncAcos:
		de = Negate(Bin(OpDiv, du,
			Apply(FuncSqrt, Bin(OpSub, Num(1), Bin(OpPow, c(), Num(2))))))

	case FuncAtan:
		de = Bin(OpDiv, du, Bin(OpAdd, Num(1), Bin(OpPow, c(), Num(2))))

	case FuncSinh:
		de = Bin(OpMul, Apply(FuncCosh, c()), du)

	case FuncCosh:
		de = Bin(OpMul, Apply(FuncSinh, c()), du)

	case FuncTanh:
		de = Bin(OpDiv, du, Bin(OpPow, Apply(FuncCosh, c()), Num(2)))

	default:
		return nil, nil, ErrNotDifferentiable.
			Wrapf("cannot differentiate function " + x.Name)
	}

	return de, nil, nil
}

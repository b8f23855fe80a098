package lang

import "math"

// Simplify returns an equivalent tree with constant sub-expressions folded
// and algebraic identities applied. It works bottom-up and never rewrites
// relational nodes themselves, only their operands.
//
// Simplify is idempotent.
func Simplify(e Expr) Expr {
	switch x := e.(type) {
	case *Binary:
		left, right := Simplify(x.Left), Simplify(x.Right)
		if x.Op.Relational() {
			return &Binary{Op: x.Op, Left: left, Right: right, Pos: x.Pos}
		}

		return simplifyBinary(x, left, right)

	case *Neg:
		operand := Simplify(x.Operand)

		switch o := operand.(type) {
		case *Literal:
			return &Literal{Value: -o.Value, Pos: x.Pos}

		case *Neg:
			return o.Operand
		}

		return &Neg{Operand: operand, Pos: x.Pos}

	case *Call:
		args := make([]Expr, len(x.Args))
		lits := make([]float64, 0, len(x.Args))

		for i, arg := range x.Args {
			args[i] = Simplify(arg)

			if lit, ok := args[i].(*Literal); ok {
				lits = append(lits, lit.Value)
			}
		}

		if x.Func.Valid() && len(lits) == len(args) &&
			len(args) == x.Func.Arity() {
			return &Literal{Value: x.Func.Call(lits...), Pos: x.Pos}
		}

		return &Call{Name: x.Name, Func: x.Func, Args: args, Pos: x.Pos}
	}

	return e
}

func simplifyBinary(x *Binary, left, right Expr) Expr {
	l, lok := literalValue(left)
	r, rok := literalValue(right)

	if lok && rok {
		return &Literal{Value: arith(x.Op, l, r), Pos: x.Pos}
	}

	switch x.Op {
	case OpAdd:
		switch {
		case rok && r == 0:
			return left
		case lok && l == 0:
			return right
		}

	case OpSub:
		if rok && r == 0 {
			return left
		}

	case OpMul:
		switch {
		case (lok && l == 0) || (rok && r == 0):
			return &Literal{Value: 0, Pos: x.Pos}
		case rok && r == 1:
			return left
		case lok && l == 1:
			return right
		}

	case OpDiv:
		if rok && r == 1 {
			return left
		}

	case OpPow:
		switch {
		case rok && r == 0:
			return &Literal{Value: 1, Pos: x.Pos}
		case rok && r == 1:
			return left
		case lok && l == 0:
			return &Literal{Value: 0, Pos: x.Pos}
		}
	}

	return &Binary{Op: x.Op, Left: left, Right: right, Pos: x.Pos}
}

func literalValue(e Expr) (float64, bool) {
	if lit, ok := e.(*Literal); ok {
		return lit.Value, true
	}

	return 0, false
}

// arith applies the arithmetic operator op with IEEE-754 semantics.
func arith(op Op, l, r float64) float64 {
	switch op {
	case OpAdd:
		return l + r
	case OpSub:
		return l - r
	case OpMul:
		return l * r
	case OpDiv:
		return l / r
	case OpMod:
		return math.Mod(l, r)
	case OpPow:
		return math.Pow(l, r)
	}

	return math.NaN()
}

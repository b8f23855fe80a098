package lang

import (
	"math"
	"strconv"
	"strings"
)

// Emit renders e as an expr-lang expression with every operation
// parenthesized.
//
// Identifiers found in constants are replaced by their mapped names.
// Functions render under their target names (see [Func.Target]); log(a, b)
// expands to (log2(a) / log2(b)). The equality relation renders as
// (abs(l - r) < epsilon) and the inequality relation as its complement.
// Power renders with "**", and modulo as a call of fmod because the
// expr-lang "%" operator is defined only for integers.
func Emit(e Expr, constants map[string]string, epsilon float64) string {
	var (
		sb    strings.Builder
		stack = []any{e}
	)

	// Items are either text to copy or nodes to expand. Expanding a node
	// pushes its parts in reverse so they pop in source order.
	push := func(items ...any) {
		for i := len(items) - 1; i >= 0; i-- {
			stack = append(stack, items[i])
		}
	}

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch x := item.(type) {
		case string:
			sb.WriteString(x)

		case *Binary:
			switch x.Op {
			case OpEq:
				push("(abs(", x.Left, " - ", x.Right, ") < ", emitFloat(epsilon), ")")
			case OpNe:
				push("(abs(", x.Left, " - ", x.Right, ") >= ", emitFloat(epsilon), ")")
			case OpMod:
				push("fmod(", x.Left, ", ", x.Right, ")")
			case OpPow:
				push("(", x.Left, " ** ", x.Right, ")")
			default:
				push("(", x.Left, " "+x.Op.Symbol()+" ", x.Right, ")")
			}

		case *Neg:
			push("(-", x.Operand, ")")

		case *Call:
			// Surplus arguments are dropped as in evaluation.
			args := x.Args
			if n := x.Func.Arity(); n > 0 && len(args) > n {
				args = args[:n]
			}

			if x.Func == FuncLog && len(args) == 2 {
				push("(log2(", args[0], ") / log2(", args[1], "))")

				continue
			}

			name := x.Name
			if t := x.Func.Target(); t != "" {
				name = t
			}

			parts := make([]any, 0, 2*len(args)+2)
			parts = append(parts, name+"(")

			for i, arg := range args {
				if i > 0 {
					parts = append(parts, ", ")
				}

				parts = append(parts, arg)
			}

			push(append(parts, ")")...)

		case *Ident:
			if c, ok := constants[x.Name]; ok {
				sb.WriteString(c)
			} else {
				sb.WriteString(x.Name)
			}

		case *Literal:
			sb.WriteString(emitFloat(x.Value))
		}
	}

	return sb.String()
}

// emitFloat renders v as an expr-lang numeric expression.
func emitFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "(0.0 / 0.0)"
	case math.IsInf(v, 1):
		return "(1.0 / 0.0)"
	case math.IsInf(v, -1):
		return "(-1.0 / 0.0)"
	case v < 0 || (v == 0 && math.Signbit(v)):
		return "(-" + strconv.FormatFloat(-v, 'g', -1, 64) + ")"
	}

	return strconv.FormatFloat(v, 'g', -1, 64)
}

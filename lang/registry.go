package lang

import (
	"iter"
	"math"
)

// Func identifies a registered function. The zero value [FuncNone] marks a
// call whose name is not registered.
type Func int

const (
	FuncNone Func = iota
	FuncAbs
	FuncAcos
	FuncAcosh
	FuncAsin
	FuncAsinh
	FuncAtan
	FuncAtan2
	FuncAtanh
	FuncCbrt
	FuncCeil
	FuncCos
	FuncCosh
	FuncExp
	FuncExpm1
	FuncFloor
	FuncHypot
	FuncLn
	FuncLn1p
	FuncLog
	FuncLog10
	FuncLog2
	FuncMax
	FuncMin
	FuncPow
	FuncRound
	FuncSin
	FuncSinh
	FuncSqrt
	FuncTan
	FuncTanh
	funcCount
)

type function struct {
	apply  func(args []float64) float64
	name   string
	target string
	arity  int
}

func unary(fn func(float64) float64) func([]float64) float64 {
	return func(a []float64) float64 { return fn(a[0]) }
}

func binary(fn func(float64, float64) float64) func([]float64) float64 {
	return func(a []float64) float64 { return fn(a[0], a[1]) }
}

// functions is indexed by Func. The target name is the identifier used for
// the function in emitted expr-lang source; see [Emit].
var functions = [funcCount]function{
	FuncAbs:   {name: "abs", target: "abs", arity: 1, apply: unary(math.Abs)},
	FuncAcos:  {name: "acos", target: "acos", arity: 1, apply: unary(math.Acos)},
	FuncAcosh: {name: "acosh", target: "acosh", arity: 1, apply: unary(math.Acosh)},
	FuncAsin:  {name: "asin", target: "asin", arity: 1, apply: unary(math.Asin)},
	FuncAsinh: {name: "asinh", target: "asinh", arity: 1, apply: unary(math.Asinh)},
	FuncAtan:  {name: "atan", target: "atan", arity: 1, apply: unary(math.Atan)},
	FuncAtan2: {name: "atan2", target: "atan2", arity: 2, apply: binary(math.Atan2)},
	FuncAtanh: {name: "atanh", target: "atanh", arity: 1, apply: unary(math.Atanh)},
	FuncCbrt:  {name: "cbrt", target: "cbrt", arity: 1, apply: unary(math.Cbrt)},
	FuncCeil:  {name: "ceil", target: "ceil", arity: 1, apply: unary(math.Ceil)},
	FuncCos:   {name: "cos", target: "cos", arity: 1, apply: unary(math.Cos)},
	FuncCosh:  {name: "cosh", target: "cosh", arity: 1, apply: unary(math.Cosh)},
	FuncExp:   {name: "exp", target: "exp", arity: 1, apply: unary(math.Exp)},
	FuncExpm1: {name: "expm1", target: "expm1", arity: 1, apply: unary(math.Expm1)},
	FuncFloor: {name: "floor", target: "floor", arity: 1, apply: unary(math.Floor)},
	FuncHypot: {name: "hypot", target: "hypot", arity: 2, apply: binary(math.Hypot)},
	FuncLn:    {name: "ln", target: "log", arity: 1, apply: unary(math.Log)},
	FuncLn1p:  {name: "ln1p", target: "log1p", arity: 1, apply: unary(math.Log1p)},
	FuncLog:   {name: "log", target: "", arity: 2, apply: binary(logBase)},
	FuncLog10: {name: "log10", target: "log10", arity: 1, apply: unary(math.Log10)},
	FuncLog2:  {name: "log2", target: "log2", arity: 1, apply: unary(math.Log2)},
	FuncMax:   {name: "max", target: "max", arity: 2, apply: binary(math.Max)},
	FuncMin:   {name: "min", target: "min", arity: 2, apply: binary(math.Min)},
	FuncPow:   {name: "pow", target: "pow", arity: 2, apply: binary(math.Pow)},
	FuncRound: {name: "round", target: "round", arity: 1, apply: unary(math.Round)},
	FuncSin:   {name: "sin", target: "sin", arity: 1, apply: unary(math.Sin)},
	FuncSinh:  {name: "sinh", target: "sinh", arity: 1, apply: unary(math.Sinh)},
	FuncSqrt:  {name: "sqrt", target: "sqrt", arity: 1, apply: unary(math.Sqrt)},
	FuncTan:   {name: "tan", target: "tan", arity: 1, apply: unary(math.Tan)},
	FuncTanh:  {name: "tanh", target: "tanh", arity: 1, apply: unary(math.Tanh)},
}

// logBase returns the logarithm of a in base b.
func logBase(a, b float64) float64 { return math.Log2(a) / math.Log2(b) }

// aliases are alternate spellings accepted by [LookupFunc].
var aliases = map[string]Func{
	"ln_1p":  FuncLn1p,
	"exp_m1": FuncExpm1,
}

var byName = func() map[string]Func {
	m := make(map[string]Func, len(functions)+len(aliases))
	for f := FuncNone + 1; f < funcCount; f++ {
		m[functions[f].name] = f
	}

	for name, f := range aliases {
		m[name] = f
	}

	return m
}()

// LookupFunc returns the registered function with the given name.
func LookupFunc(name string) (Func, bool) {
	f, ok := byName[name]

	return f, ok
}

// Funcs returns an iterator over all registered functions in name order.
func Funcs() iter.Seq[Func] {
	return func(yield func(Func) bool) {
		for f := FuncNone + 1; f < funcCount; f++ {
			if !yield(f) {
				return
			}
		}
	}
}

// Valid reports whether f is a registered function.
func (f Func) Valid() bool { return f > FuncNone && f < funcCount }

// Name returns the canonical name of f, or the empty string for [FuncNone].
func (f Func) Name() string {
	if !f.Valid() {
		return ""
	}

	return functions[f].name
}

// String implements [fmt.Stringer].
func (f Func) String() string {
	if !f.Valid() {
		return "<none>"
	}

	return functions[f].name
}

// Arity returns the number of arguments f expects.
func (f Func) Arity() int {
	if !f.Valid() {
		return 0
	}

	return functions[f].arity
}

// Target returns the expr-lang identifier that implements f. Functions
// that are expanded inline by [Emit] have no target name.
func (f Func) Target() string {
	if !f.Valid() {
		return ""
	}

	return functions[f].target
}

// Call applies f to args, which must hold exactly [Func.Arity] values.
func (f Func) Call(args ...float64) float64 {
	return functions[f].apply(args)
}

// Signature returns a human-readable call signature such as "atan2(a, b)".
func (f Func) Signature() string {
	switch f.Arity() {
	case 1:
		return f.Name() + "(a)"
	case 2:
		return f.Name() + "(a, b)"
	}

	return f.Name() + "()"
}

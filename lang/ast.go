package lang

import (
	"math"
	"slices"
)

// Span is a half-open range of byte offsets into the source text.
// Spans are informational only and never affect equality or evaluation.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Expr is a node of the expression tree.
//
// Trees are strict: within one tree every node has exactly one parent, and
// nodes are never modified after construction. Rewrites ([Simplify],
// [Differentiate]) build new trees that may reuse unchanged subtrees of
// their input.
type Expr interface {
	// Span returns the source range the node was parsed from, or the zero
	// Span for synthesized nodes.
	Span() Span

	exprNode()
}

// Op identifies the operator of a [Binary] node.
type Op int

const (
	OpEq  Op = iota // =
	OpNe            // <>
	OpLt            // <
	OpGt            // >
	OpLe            // <=
	OpGe            // >=
	OpAdd           // +
	OpSub           // -
	OpMul           // *
	OpDiv           // /
	OpMod           // %
	OpPow           // ^
)

// Relational reports whether op compares its operands.
func (op Op) Relational() bool { return op <= OpGe }

// Binary is an operator node with two operands.
type Binary struct {
	Left  Expr
	Right Expr
	Pos   Span
	Op    Op
}

// Neg is arithmetic negation.
type Neg struct {
	Operand Expr
	Pos     Span
}

// Call is a function application. Func is resolved from Name when the node
// is constructed and is [FuncNone] when Name is not a registered function.
type Call struct {
	Name string
	Args []Expr
	Pos  Span
	Func Func
}

// Ident is a reference to a bound variable or constant.
type Ident struct {
	Name string
	Pos  Span
}

// Literal is a numeric constant. Unit holds the identifier suffix written
// after the number, if any; it has no numeric effect.
type Literal struct {
	Unit  string
	Pos   Span
	Value float64
}

func (e *Binary) Span() Span  { return e.Pos }
func (e *Neg) Span() Span     { return e.Pos }
func (e *Call) Span() Span    { return e.Pos }
func (e *Ident) Span() Span   { return e.Pos }
func (e *Literal) Span() Span { return e.Pos }

func (*Binary) exprNode()  {}
func (*Neg) exprNode()     {}
func (*Call) exprNode()    {}
func (*Ident) exprNode()   {}
func (*Literal) exprNode() {}

func (e *Binary) String() string  { return String(e) }
func (e *Neg) String() string     { return String(e) }
func (e *Call) String() string    { return String(e) }
func (e *Ident) String() string   { return String(e) }
func (e *Literal) String() string { return String(e) }

// Num returns a synthesized literal.
func Num(v float64) *Literal { return &Literal{Value: v} }

// Var returns a synthesized identifier.
func Var(name string) *Ident { return &Ident{Name: name} }

// Bin returns a synthesized binary node.
func Bin(op Op, left, right Expr) *Binary {
	return &Binary{Op: op, Left: left, Right: right}
}

// Negate returns a synthesized negation.
func Negate(e Expr) *Neg { return &Neg{Operand: e} }

// Apply returns a synthesized call of the registered function f.
func Apply(f Func, args ...Expr) *Call {
	return &Call{Name: f.Name(), Func: f, Args: args}
}

// Equal reports whether a and b are structurally identical, ignoring spans.
// Literals compare by value, with NaN equal to NaN.
func Equal(a, b Expr) bool {
	switch x := a.(type) {
	case *Binary:
		y, ok := b.(*Binary)

		return ok && x.Op == y.Op && Equal(x.Left, y.Left) &&
			Equal(x.Right, y.Right)

	case *Neg:
		y, ok := b.(*Neg)

		return ok && Equal(x.Operand, y.Operand)

	case *Call:
		y, ok := b.(*Call)

		return ok && x.Name == y.Name &&
			slices.EqualFunc(x.Args, y.Args, Equal)

	case *Ident:
		y, ok := b.(*Ident)

		return ok && x.Name == y.Name

	case *Literal:
		y, ok := b.(*Literal)

		return ok && (x.Value == y.Value ||
			(math.IsNaN(x.Value) && math.IsNaN(y.Value)))
	}

	return a == nil && b == nil
}

// Clone returns a deep copy of e, preserving spans.
func Clone(e Expr) Expr {
	switch x := e.(type) {
	case *Binary:
		return &Binary{Op: x.Op, Left: Clone(x.Left), Right: Clone(x.Right), Pos: x.Pos}

	case *Neg:
		return &Neg{Operand: Clone(x.Operand), Pos: x.Pos}

	case *Call:
		args := make([]Expr, len(x.Args))
		for i, arg := range x.Args {
			args[i] = Clone(arg)
		}

		return &Call{Name: x.Name, Func: x.Func, Args: args, Pos: x.Pos}

	case *Ident:
		c := *x

		return &c

	case *Literal:
		c := *x

		return &c
	}

	return e
}

// Walk calls visit for e and each of its descendants in depth-first
// pre-order. Children of a node are skipped when visit returns false.
func Walk(e Expr, visit func(Expr) bool) {
	if e == nil || !visit(e) {
		return
	}

	switch x := e.(type) {
	case *Binary:
		Walk(x.Left, visit)
		Walk(x.Right, visit)

	case *Neg:
		Walk(x.Operand, visit)

	case *Call:
		for _, arg := range x.Args {
			Walk(arg, visit)
		}
	}
}

// Contains reports whether the identifier name occurs anywhere in e.
func Contains(e Expr, name string) bool {
	found := false

	Walk(e, func(n Expr) bool {
		if id, ok := n.(*Ident); ok && id.Name == name {
			found = true
		}

		return !found
	})

	return found
}

// Relations returns the number of relational nodes in e.
func Relations(e Expr) int {
	n := 0

	Walk(e, func(x Expr) bool {
		if b, ok := x.(*Binary); ok && b.Op.Relational() {
			n++
		}

		return true
	})

	return n
}

// Depth returns the height of e, where a leaf has depth 1.
func Depth(e Expr) int {
	switch x := e.(type) {
	case *Binary:
		return 1 + max(Depth(x.Left), Depth(x.Right))

	case *Neg:
		return 1 + Depth(x.Operand)

	case *Call:
		d := 0
		for _, arg := range x.Args {
			d = max(d, Depth(arg))
		}

		return 1 + d
	}

	return 1
}

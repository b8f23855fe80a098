package lang

import "maps"

// Precedence maps binary operator symbols to their binding strength.
// Higher values bind tighter. Operators without an entry have precedence -1
// and therefore end the expression being parsed.
type Precedence map[string]int

// Operator symbols recognized by the parser.
var symbols = map[string]Op{
	"=":  OpEq,
	"<>": OpNe,
	"<":  OpLt,
	">":  OpGt,
	"<=": OpLe,
	">=": OpGe,
	"+":  OpAdd,
	"-":  OpSub,
	"*":  OpMul,
	"/":  OpDiv,
	"%":  OpMod,
	"^":  OpPow,
}

var defaultPrecedence = Precedence{
	"=":  10,
	"<>": 10,
	"<":  10,
	">":  10,
	"<=": 10,
	">=": 10,
	"+":  20,
	"-":  20,
	"*":  40,
	"/":  40,
	"%":  40,
	"^":  60,
}

// DefaultPrecedence returns a copy of the default table, which registers
// every binary operator: relations bind loosest, then addition, then
// multiplication, then exponentiation.
func DefaultPrecedence() Precedence { return maps.Clone(defaultPrecedence) }

// Of returns the precedence of symbol, or -1 if it has none.
func (p Precedence) Of(symbol string) int {
	if v, ok := p[symbol]; ok {
		return v
	}

	return -1
}

// negation returns the lowest precedence that binds within the operand of
// a unary minus. Relations, sums and products never do, whether or not the
// table registers them.
func (p Precedence) negation() int {
	n := 0

	for _, sym := range []string{"=", "<>", "<", ">", "<=", ">=", "+", "-", "*", "/", "%"} {
		n = max(n, p.Of(sym)+1)
	}

	return n
}

// Symbol returns the source spelling of op.
func (op Op) Symbol() string { return op.String() }

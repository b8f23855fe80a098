package lang

import (
	"github.com/expr-lang/expr/ast"
)

// floatPatcher rewrites the integer literals of emitted code as floats, so
// that every value the program computes is a float64 as it is in
// [Evaluate].
type floatPatcher struct{}

// Visit implements ast.Visitor.
func (floatPatcher) Visit(node *ast.Node) {
	if n, ok := (*node).(*ast.IntegerNode); ok {
		ast.Patch(node, &ast.FloatNode{Value: float64(n.Value)})
	}
}

package lang

import (
	"testing"

	"github.com/expr-lang/expr/ast"
	exprparser "github.com/expr-lang/expr/parser"
)

func TestFloatPatcher(t *testing.T) {
	tree, err := exprparser.Parse("1 + f(2, 2.5)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ast.Walk(&tree.Node, floatPatcher{})

	var floats []float64

	ast.Walk(&tree.Node, visitFunc(func(node *ast.Node) {
		switch n := (*node).(type) {
		case *ast.IntegerNode:
			t.Errorf("expected no integer nodes, found %d", n.Value)
		case *ast.FloatNode:
			floats = append(floats, n.Value)
		}
	}))

	if len(floats) != 3 {
		t.Errorf("expected 3 float literals, got %v", floats)
	}
}

type visitFunc func(*ast.Node)

func (f visitFunc) Visit(node *ast.Node) { f(node) }

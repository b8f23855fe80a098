package lang

import (
	"maps"
	"slices"
)

// Bindings assigns values to variable names.
type Bindings map[string]float64

// Names returns the bound names in sorted order.
func (b Bindings) Names() []string {
	return slices.Sorted(maps.Keys(b))
}

// Validate checks that e is a well-formed equation over the given bindings
// and records the problems it finds in diags.
//
// The checks run in order:
//
//  1. every referenced identifier must be bound (Error, stops validation);
//  2. every binding should be referenced (Warning);
//  3. every called function must be registered (Error);
//  4. the tree must hold exactly one relational node (Error).
//
// Validate reports whether no Error was recorded.
func Validate(e Expr, b Bindings, diags *Diagnostics) bool {
	return validate(e, b, diags, 1)
}

// ValidateExpr is like [Validate] for a plain arithmetic expression: the
// last check requires that e holds no relational node at all.
func ValidateExpr(e Expr, b Bindings, diags *Diagnostics) bool {
	return validate(e, b, diags, 0)
}

func validate(e Expr, b Bindings, diags *Diagnostics, relations int) bool {
	if diags == nil {
		diags = new(Diagnostics)
	}

	mark := diags.Errors()

	var (
		refs    = map[string]struct{}{}
		unknown = map[string]struct{}{}
	)

	Walk(e, func(n Expr) bool {
		switch x := n.(type) {
		case *Ident:
			refs[x.Name] = struct{}{}

		case *Call:
			if !x.Func.Valid() {
				unknown[x.Name] = struct{}{}
			}
		}

		return true
	})

	unbound := false

	for _, name := range slices.Sorted(maps.Keys(refs)) {
		if _, ok := b[name]; !ok {
			diags.Errorf("variable %s is not defined", name)

			unbound = true
		}
	}

	if unbound {
		return false
	}

	for _, name := range b.Names() {
		if _, ok := refs[name]; !ok {
			diags.Warnf("variable %s is not used", name)
		}
	}

	for _, name := range slices.Sorted(maps.Keys(unknown)) {
		diags.Errorf("function %s is not defined", name)
	}

	if n := Relations(e); n != relations {
		if relations == 0 {
			diags.Errorf("relation expression must not be used (found %d)", n)
		} else {
			diags.Errorf("relation expression must be used once (found %d)", n)
		}
	}

	return diags.Errors() == mark
}

package lang

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// String renders e in source syntax with every operation parenthesized,
// for example "(x + (2 * y))". Negation renders as "(-x)".
func String(e Expr) string {
	var sb strings.Builder

	writeExpr(&sb, e)

	return sb.String()
}

func writeExpr(sb *strings.Builder, e Expr) {
	switch x := e.(type) {
	case *Binary:
		sb.WriteByte('(')
		writeExpr(sb, x.Left)
		sb.WriteByte(' ')
		sb.WriteString(x.Op.Symbol())
		sb.WriteByte(' ')
		writeExpr(sb, x.Right)
		sb.WriteByte(')')

	case *Neg:
		sb.WriteString("(-")
		writeExpr(sb, x.Operand)
		sb.WriteByte(')')

	case *Call:
		sb.WriteString(x.Name)
		sb.WriteByte('(')

		for i, arg := range x.Args {
			if i > 0 {
				sb.WriteString(", ")
			}

			writeExpr(sb, arg)
		}

		sb.WriteByte(')')

	case *Ident:
		sb.WriteString(x.Name)

	case *Literal:
		sb.WriteString(formatFloat(x.Value))
		sb.WriteString(x.Unit)

	case nil:
		sb.WriteString("<nil>")
	}
}

// formatFloat returns the shortest representation of v in positional
// notation that parses back to the same value. The equation language has
// no exponent syntax.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Print writes e as an indented tree, one node per line.
func Print(w io.Writer, e Expr) error {
	return printNode(w, e, 0)
}

func printNode(w io.Writer, e Expr, depth int) error {
	pad := strings.Repeat("  ", depth)

	var (
		label    string
		children []Expr
	)

	switch x := e.(type) {
	case *Binary:
		label, children = x.Op.Symbol(), []Expr{x.Left, x.Right}

	case *Neg:
		label, children = "neg", []Expr{x.Operand}

	case *Call:
		label = fmt.Sprintf("call %s/%d", x.Name, len(x.Args))
		if !x.Func.Valid() {
			label += " (unknown)"
		}

		children = x.Args

	case *Ident:
		label = "ident " + x.Name

	case *Literal:
		label = "literal " + formatFloat(x.Value) + x.Unit
	}

	if sp := e.Span(); sp != (Span{}) {
		label += fmt.Sprintf(" [%d:%d]", sp.Start, sp.End)
	}

	_, err := fmt.Fprintln(w, pad+label)
	if err != nil {
		return err
	}

	for _, child := range children {
		err := printNode(w, child, depth+1)
		if err != nil {
			return err
		}
	}

	return nil
}

// node is the serialized form of an [Expr] used by the JSON and YAML
// encoders.
type node struct {
	Kind     string `json:"kind"               yaml:"kind"`
	Op       string `json:"op,omitempty"       yaml:"op,omitempty"`
	Name     string `json:"name,omitempty"     yaml:"name,omitempty"`
	Value    any    `json:"value,omitempty"    yaml:"value,omitempty"`
	Unit     string `json:"unit,omitempty"     yaml:"unit,omitempty"`
	Span     Span   `json:"span"               yaml:"span"`
	Operands []node `json:"operands,omitempty" yaml:"operands,omitempty"`
}

func toNode(e Expr) node {
	n := node{Span: e.Span()}

	switch x := e.(type) {
	case *Binary:
		n.Kind, n.Op = "binary", x.Op.Symbol()
		n.Operands = []node{toNode(x.Left), toNode(x.Right)}

	case *Neg:
		n.Kind, n.Op = "neg", "-"
		n.Operands = []node{toNode(x.Operand)}

	case *Call:
		n.Kind, n.Name = "call", x.Name

		n.Operands = make([]node, len(x.Args))
		for i, arg := range x.Args {
			n.Operands[i] = toNode(arg)
		}

	case *Ident:
		n.Kind, n.Name = "ident", x.Name

	case *Literal:
		n.Kind, n.Unit = "literal", x.Unit

		if math.IsNaN(x.Value) || math.IsInf(x.Value, 0) {
			n.Value = formatFloat(x.Value)
		} else {
			n.Value = x.Value
		}
	}

	return n
}

// FormatJSON writes e as JSON. A positive indent selects multi-line output.
func FormatJSON(_ context.Context, w io.Writer, e Expr, indent int) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}

	return enc.Encode(toNode(e))
}

// marshalJSON is json.Marshal without HTML escaping, so relation symbols
// such as "<" and ">=" encode literally.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	err := enc.Encode(v)
	if err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// FormatYAML writes e as YAML. A positive indent selects block style,
// otherwise flow style is used.
func FormatYAML(ctx context.Context, w io.Writer, e Expr, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, toNode(e), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

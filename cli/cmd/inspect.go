package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ardnew/epp/lang"
)

// Tokens prints the tokens of an equation.
type Tokens struct {
	Space bool `help:"Include whitespace tokens" short:"s"`

	Equation []string `arg:"" help:"Equation, or '-' to read standard input" name:"equation"`
}

type tokenReport struct {
	Kind string    `json:"kind"`
	Text string    `json:"text"`
	Unit string    `json:"unit,omitempty"`
	Span lang.Span `json:"span"`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context, g *Globals) error {
	source, err := g.source(t.Equation)
	if err != nil {
		return err
	}

	var toks []tokenReport

	for tok := range lang.Tokenize(source) {
		if tok.Kind == lang.KindWhitespace && !t.Space {
			continue
		}

		toks = append(toks, tokenReport{
			Kind: tok.Kind.String(),
			Text: tok.Text,
			Unit: tok.Unit(),
			Span: tok.Span(),
		})
	}

	return g.report(ctx, toks, nil, func(w io.Writer) error {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

		for _, tok := range toks {
			fmt.Fprintf(tw, "%d:%d\t%s\t%q", tok.Span.Start, tok.Span.End, tok.Kind, tok.Text)

			if tok.Unit != "" {
				fmt.Fprintf(tw, "\tunit %q", tok.Unit)
			}

			fmt.Fprintln(tw)
		}

		return tw.Flush()
	})
}

// AST prints the syntax tree of an equation.
type AST struct {
	Format string `default:"tree" enum:"tree,json,yaml,source" help:"Tree format" short:"f"`
	Indent int    `default:"2"                                help:"Indent width of json and yaml output" short:"i"`

	Equation []string `arg:"" help:"Equation, or '-' to read standard input" name:"equation"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context, g *Globals) error {
	diags := new(lang.Diagnostics)

	eq, err := g.compile(ctx, a.Equation, diags)
	if err != nil {
		return err
	}

	w := g.stdout()

	switch a.Format {
	case "json":
		return lang.FormatJSON(ctx, w, eq.Root, a.Indent)
	case "yaml":
		return lang.FormatYAML(ctx, w, eq.Root, a.Indent)
	case "source":
		_, err = fmt.Fprintln(w, eq.String())

		return err
	default:
		return lang.Print(w, eq.Root)
	}
}

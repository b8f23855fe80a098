package lang

import (
	"context"
	"iter"
	"log/slog"
	"strconv"
	"strings"
)

// Parse builds the expression tree for the tokens of one equation.
//
// Whitespace tokens are skipped. The entire sequence must form a single
// expression; the first syntax error aborts parsing with a [*SyntaxError]
// and is also recorded in diags, which may be nil.
func Parse(
	ctx context.Context,
	tokens iter.Seq[Token],
	diags *Diagnostics,
	opts ...Option,
) (Expr, error) {
	o := makeOptions(opts...)

	var (
		src strings.Builder
		p   = parser{
			prec:     o.precedence,
			diags:    diags,
			maxDepth: o.maxDepth,
		}
	)

	for tok := range tokens {
		src.WriteString(tok.Text)

		if tok.Kind != KindWhitespace {
			p.toks = append(p.toks, tok)
		}
	}

	p.source = src.String()
	p.end = Token{Kind: KindEnd, Pos: len(p.source)}

	o.logger.TraceContext(ctx, "parse",
		slog.Int("source_bytes", len(p.source)),
		slog.Int("tokens", len(p.toks)),
	)

	if len(p.toks) == 0 {
		return nil, p.fail(p.end, ErrSyntax, "empty expression")
	}

	e, err := p.expression()
	if err != nil {
		return nil, err
	}

	if tok := p.peek(0); tok.Kind != KindEnd {
		return nil, p.fail(tok, ErrSyntax, "unexpected token after expression")
	}

	return e, nil
}

// ParseString tokenizes and parses source.
func ParseString(
	ctx context.Context,
	source string,
	diags *Diagnostics,
	opts ...Option,
) (Expr, error) {
	return Parse(ctx, Tokenize(source), diags, opts...)
}

type parser struct {
	diags    *Diagnostics
	prec     Precedence
	source   string
	toks     []Token
	end      Token
	pos      int
	depth    int
	maxDepth int
}

func (p *parser) peek(n int) Token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}

	return p.end
}

func (p *parser) next() Token {
	tok := p.peek(0)
	if p.pos < len(p.toks) {
		p.pos++
	}

	return tok
}

func (p *parser) fail(tok Token, kind *Error, msg string) error {
	p.diags.Errorf("%s", msg)

	return &SyntaxError{
		err:     kind,
		Source:  p.source,
		Message: msg,
		Span:    tok.Span(),
	}
}

// operator returns the binary operator at the current position and the
// number of tokens it spans. Two-character relations are recognized only
// when their tokens are adjacent in the source.
func (p *parser) operator() (symbol string, width int) {
	tok := p.peek(0)

	switch tok.Kind {
	case KindLt, KindGt:
		if next := p.peek(1); next.Pos == tok.End() {
			switch {
			case next.Kind == KindEq:
				return tok.Text + "=", 2
			case tok.Kind == KindLt && next.Kind == KindGt:
				return "<>", 2
			}
		}

		return tok.Text, 1

	case KindEq, KindPlus, KindMinus, KindStar, KindSlash, KindPercent,
		KindCaret:
		return tok.Text, 1
	}

	return "", 0
}

// precedenceOf returns the precedence of symbol, treating symbols the
// parser cannot build a node for as having none.
func (p *parser) precedenceOf(symbol string) int {
	if _, ok := symbols[symbol]; !ok {
		return -1
	}

	return p.prec.Of(symbol)
}

// expression := primary (operator primary)*
func (p *parser) expression() (Expr, error) {
	lhs, err := p.primary()
	if err != nil {
		return nil, err
	}

	return p.binary(0, lhs)
}

// binary folds operators of at least minPrec into lhs by precedence
// climbing. Operators of equal precedence associate to the left.
func (p *parser) binary(minPrec int, lhs Expr) (Expr, error) {
	for {
		symbol, width := p.operator()

		prec := p.precedenceOf(symbol)
		if prec < minPrec {
			return lhs, nil
		}

		p.pos += width

		rhs, err := p.primary()
		if err != nil {
			return nil, err
		}

		if next, _ := p.operator(); prec < p.precedenceOf(next) {
			rhs, err = p.binary(prec+1, rhs)
			if err != nil {
				return nil, err
			}
		}

		lhs = &Binary{
			Op:    symbols[symbol],
			Left:  lhs,
			Right: rhs,
			Pos:   Span{Start: lhs.Span().Start, End: rhs.Span().End},
		}
	}
}

// primary := identifier | identifier '(' args ')' | number
//
//	| '(' expression ')' | '-' primary
func (p *parser) primary() (Expr, error) {
	tok := p.peek(0)

	if p.depth >= p.maxDepth {
		return nil, p.fail(tok, ErrMaxDepth, "maximum nesting depth exceeded")
	}

	p.depth++
	defer func() { p.depth-- }()

	switch tok.Kind {
	case KindIdentifier:
		p.next()

		if p.peek(0).Kind == KindOpenParen {
			return p.call(tok)
		}

		return &Ident{Name: tok.Text, Pos: tok.Span()}, nil

	case KindNumber:
		p.next()

		// The lexer only admits digits with an optional fraction, so the
		// only possible failure is range overflow, which yields ±Inf.
		v, _ := strconv.ParseFloat(tok.Number(), 64)

		return &Literal{Value: v, Unit: tok.Unit(), Pos: tok.Span()}, nil

	case KindOpenParen:
		p.next()

		e, err := p.expression()
		if err != nil {
			return nil, err
		}

		if c := p.peek(0); c.Kind != KindCloseParen {
			return nil, p.fail(c, ErrSyntax, "expected ')'")
		}

		p.next()

		return e, nil

	case KindMinus:
		p.next()

		operand, err := p.primary()
		if err != nil {
			return nil, err
		}

		operand, err = p.binary(p.prec.negation(), operand)
		if err != nil {
			return nil, err
		}

		return &Neg{
			Operand: operand,
			Pos:     Span{Start: tok.Pos, End: operand.Span().End},
		}, nil
	}

	return nil, p.fail(tok, ErrSyntax,
		"unknown token when expecting an expression")
}

// call parses the argument list following the function name tok.
func (p *parser) call(name Token) (Expr, error) {
	p.next() // (

	var args []Expr

	if c := p.peek(0); c.Kind == KindCloseParen {
		p.next()

		return p.makeCall(name, args, c), nil
	}

	for {
		arg, err := p.expression()
		if err != nil {
			return nil, err
		}

		args = append(args, arg)

		switch tok := p.next(); tok.Kind {
		case KindCloseParen:
			return p.makeCall(name, args, tok), nil

		case KindComma:
			continue

		default:
			return nil, p.fail(tok, ErrSyntax,
				"expected ')' or ',' in argument list")
		}
	}
}

func (p *parser) makeCall(name Token, args []Expr, closing Token) *Call {
	f, _ := LookupFunc(name.Text)

	return &Call{
		Name: name.Text,
		Func: f,
		Args: args,
		Pos:  Span{Start: name.Pos, End: closing.End()},
	}
}

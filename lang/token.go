package lang

//go:generate go tool stringer --linecomment --type Kind,Op,Level --output token_string.go

// Kind identifies the lexical class of a [Token].
type Kind int

const (
	KindUnknown    Kind = iota // unknown
	KindWhitespace             // whitespace
	KindIdentifier             // identifier
	KindNumber                 // number
	KindOpenParen              // (
	KindCloseParen             // )
	KindDot                    // .
	KindComma                  // ,
	KindEq                     // =
	KindLt                     // <
	KindGt                     // >
	KindPlus                   // +
	KindMinus                  // -
	KindStar                   // *
	KindSlash                  // /
	KindPercent                // %
	KindOr                     // |
	KindAnd                    // &
	KindCaret                  // ^
	KindEnd                    // end of input
)

// Token is a single lexeme produced by [Tokenize].
//
// Text holds the exact bytes consumed, Pos the byte offset of the first byte
// in the source. For number tokens, Suffix is the offset within Text where a
// trailing identifier suffix begins; it equals len(Text) when there is none.
type Token struct {
	Text   string
	Pos    int
	Suffix int
	Kind   Kind
}

// Len returns the number of bytes consumed by the token.
func (t Token) Len() int { return len(t.Text) }

// End returns the byte offset just past the token.
func (t Token) End() int { return t.Pos + len(t.Text) }

// Span returns the source range covered by the token.
func (t Token) Span() Span { return Span{Start: t.Pos, End: t.End()} }

// Number returns the numeric part of a number token, without its suffix.
func (t Token) Number() string {
	if t.Kind != KindNumber {
		return ""
	}

	return t.Text[:t.Suffix]
}

// Unit returns the identifier suffix of a number token, if any.
func (t Token) Unit() string {
	if t.Kind != KindNumber {
		return ""
	}

	return t.Text[t.Suffix:]
}

// singles maps each single-character token to its kind.
var singles = [...]Kind{
	'(': KindOpenParen,
	')': KindCloseParen,
	'.': KindDot,
	',': KindComma,
	'=': KindEq,
	'<': KindLt,
	'>': KindGt,
	'+': KindPlus,
	'-': KindMinus,
	'*': KindStar,
	'/': KindSlash,
	'%': KindPercent,
	'|': KindOr,
	'&': KindAnd,
	'^': KindCaret,
}

func singleKind(b byte) (Kind, bool) {
	if int(b) >= len(singles) {
		return KindUnknown, false
	}

	k := singles[b]

	return k, k != KindUnknown
}

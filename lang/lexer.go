package lang

import (
	"iter"
	"unicode"
	"unicode/utf8"
)

// Tokenize returns a lazy sequence of the tokens in text.
//
// Tokenization never fails: bytes that do not begin any known token are
// emitted one rune at a time as [KindUnknown], and invalid UTF-8 is emitted
// one byte at a time. Whitespace runs are emitted as [KindWhitespace].
// Each range over the returned sequence lexes text from the beginning.
func Tokenize(text string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for pos := 0; pos < len(text); {
			tok := scan(text, pos)
			if !yield(tok) {
				return
			}

			pos = tok.End()
		}
	}
}

// scan reads the single token beginning at byte offset pos of text.
func scan(text string, pos int) Token {
	r, size := utf8.DecodeRuneInString(text[pos:])

	tok := Token{Pos: pos, Kind: KindUnknown}
	end := pos + size

	switch {
	case r == utf8.RuneError && size <= 1:
		end = pos + 1

	case unicode.IsSpace(r):
		tok.Kind = KindWhitespace
		end = skip(text, end, unicode.IsSpace)

	case isIdentStart(r):
		tok.Kind = KindIdentifier
		end = skip(text, end, isIdentContinue)

	case isDigit(r):
		tok.Kind = KindNumber
		end = skip(text, end, isDigit)

		// A fraction requires at least one digit after the point.
		if end+1 < len(text) && text[end] == '.' && isDigit(rune(text[end+1])) {
			end = skip(text, end+1, isDigit)
		}

		tok.Suffix = end - pos

		if s, n := utf8.DecodeRuneInString(text[end:]); n > 0 && isIdentStart(s) {
			end = skip(text, end+n, isIdentContinue)
		}

	default:
		if r < utf8.RuneSelf {
			if k, ok := singleKind(byte(r)); ok {
				tok.Kind = k
			}
		}
	}

	tok.Text = text[pos:end]

	if tok.Kind != KindNumber {
		tok.Suffix = len(tok.Text)
	}

	return tok
}

// skip returns the offset of the first rune at or after pos in text that
// does not satisfy keep.
func skip(text string, pos int, keep func(rune) bool) int {
	for pos < len(text) {
		r, size := utf8.DecodeRuneInString(text[pos:])
		if (r == utf8.RuneError && size <= 1) || !keep(r) {
			break
		}

		pos += size
	}

	return pos
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func isASCIILetter(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}

// isIdentStart reports whether r may begin an identifier.
func isIdentStart(r rune) bool {
	if r < utf8.RuneSelf {
		return isASCIILetter(r) || r == '_'
	}

	return unicode.In(r, unicode.L, unicode.Nl, unicode.Other_ID_Start)
}

// isIdentContinue reports whether r may appear after the first rune of an
// identifier.
func isIdentContinue(r rune) bool {
	if r < utf8.RuneSelf {
		return isASCIILetter(r) || isDigit(r) || r == '_'
	}

	return unicode.In(r,
		unicode.L, unicode.Nl, unicode.Other_ID_Start,
		unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc,
		unicode.Other_ID_Continue,
	)
}

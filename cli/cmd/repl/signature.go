package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/epp/lang"
)

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall is the innermost call whose argument list contains the
// cursor.
type functionCall struct {
	name     string
	argIndex int
	inCall   bool
}

// detectFunctionCall finds the innermost unclosed call before cursor and
// the index of the argument being typed.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(max(cursor, 0), len(input))

	depth := 0
	open := -1

scan:
	for i := cursor - 1; i >= 0; i-- {
		switch input[i] {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i

				break scan
			}

			depth--
		}
	}

	if open < 0 {
		return functionCall{}
	}

	name, _, _ := wordBounds(input[:open], open)
	if name == "" {
		return functionCall{}
	}

	argIndex := 0
	depth = 0

	for _, ch := range input[open+1 : cursor] {
		switch ch {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				argIndex++
			}
		}
	}

	return functionCall{name: name, argIndex: argIndex, inCall: true}
}

// signature returns the call signature of a registered function and its
// parameter names.
func signature(name string) (sig string, params []string) {
	f, ok := lang.LookupFunc(name)
	if !ok {
		return "", nil
	}

	sig = f.Signature()

	open := strings.IndexByte(sig, '(')
	if inner := sig[open+1 : len(sig)-1]; inner != "" {
		params = strings.Split(inner, ", ")
	}

	return sig, params
}

// renderSignatureHint renders signature with the parameter at currentArgIdx
// highlighted.
func renderSignatureHint(sig string, params []string, currentArgIdx int) string {
	open := strings.IndexByte(sig, '(')
	if open < 0 {
		return signatureStyle.Render(sig)
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(sig[:open]))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		if i == currentArgIdx {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}

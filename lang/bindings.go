package lang

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// ParseBinding parses an assignment of the form "name=value".
func ParseBinding(s string) (string, float64, error) {
	name, value, ok := strings.Cut(s, "=")
	name, value = strings.TrimSpace(name), strings.TrimSpace(value)

	if !ok || name == "" {
		return "", 0, ErrInvalidBinding.
			Wrapf("expected name=value").
			With(slog.String("binding", s))
	}

	if !isIdentifier(name) {
		return "", 0, ErrInvalidBinding.
			Wrapf("invalid variable name").
			With(slog.String("name", name))
	}

	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return "", 0, ErrInvalidBinding.Wrap(err).
			With(slog.String("name", name))
	}

	return name, v, nil
}

// ParseBindings parses each assignment with [ParseBinding]. Later
// assignments to the same name take precedence.
func ParseBindings(assignments ...string) (Bindings, error) {
	b := make(Bindings, len(assignments))

	for _, s := range assignments {
		name, v, err := ParseBinding(s)
		if err != nil {
			return nil, err
		}

		b[name] = v
	}

	return b, nil
}

// LoadBindings decodes a YAML mapping of variable names to numbers.
func LoadBindings(ctx context.Context, r io.Reader) (Bindings, error) {
	var raw map[string]float64

	err := yaml.NewDecoder(r).DecodeContext(ctx, &raw)
	if err != nil && err != io.EOF {
		return nil, ErrInvalidBinding.Wrap(err)
	}

	b := make(Bindings, len(raw))

	for name, v := range raw {
		if !isIdentifier(name) {
			return nil, ErrInvalidBinding.
				Wrapf("invalid variable name").
				With(slog.String("name", name))
		}

		b[name] = v
	}

	return b, nil
}

// Merge returns a new binding set holding the bindings of b overridden by
// those of each other set in order.
func (b Bindings) Merge(other ...Bindings) Bindings {
	out := maps.Clone(b)
	if out == nil {
		out = Bindings{}
	}

	for _, o := range other {
		maps.Copy(out, o)
	}

	return out
}

// isIdentifier reports whether s lexes as exactly one identifier token.
func isIdentifier(s string) bool {
	for tok := range Tokenize(s) {
		return tok.Kind == KindIdentifier && tok.Len() == len(s)
	}

	return false
}

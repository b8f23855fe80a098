package lang

import (
	"maps"

	"github.com/ardnew/epp/log"
)

// DefaultMaxDepth is the maximum nesting depth of parentheses, calls, and
// negations accepted by the parser.
var DefaultMaxDepth = 256

// DefaultEpsilon is the tolerance used by the equality relation.
const DefaultEpsilon = 1e-5

// Option configures compilation of an [Equation].
type Option func(*options)

type options struct {
	logger     log.Logger
	precedence Precedence
	constants  map[string]string
	epsilon    float64
	maxDepth   int
}

func makeOptions(opts ...Option) options {
	o := options{
		precedence: defaultPrecedence,
		epsilon:    DefaultEpsilon,
		maxDepth:   DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithPrecedence replaces the operator precedence table.
func WithPrecedence(p Precedence) Option {
	return func(o *options) { o.precedence = maps.Clone(p) }
}

// WithMaxDepth sets the maximum nesting depth accepted by the parser.
// Non-positive values select [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth <= 0 {
			depth = DefaultMaxDepth
		}

		o.maxDepth = depth
	}
}

// WithEpsilon sets the tolerance of the equality relation.
func WithEpsilon(eps float64) Option {
	return func(o *options) { o.epsilon = eps }
}

// WithConstants maps identifiers to the names they take in emitted code.
func WithConstants(constants map[string]string) Option {
	return func(o *options) { o.constants = maps.Clone(constants) }
}

// WithLogger sets the logger used to trace compilation.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

package lang

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// TargetConstants maps the conventional constant names of the equation
// language to the names predeclared in every [Target] environment.
var TargetConstants = map[string]string{
	"pi": "PI",
	"e":  "E",
}

// Target is emitted code compiled for the expr-lang virtual machine.
type Target struct {
	program *vm.Program
	Source  string
	Vars    []string
}

// CompileTarget compiles source produced by [Emit] for an environment
// holding the given variables, the registered functions, and the constants
// PI and E.
func CompileTarget(source string, vars ...string) (*Target, error) {
	env := targetEnv(nil)
	for _, v := range vars {
		env[v] = 0.0
	}

	opts := append([]expr.Option{
		expr.Env(env),
		expr.DisableAllBuiltins(),
		expr.Patch(floatPatcher{}),
	}, targetFunctions()...)

	program, err := expr.Compile(source, opts...)
	if err != nil {
		return nil, ErrTargetCompile.Wrap(err).
			With(slog.String("source", source))
	}

	return &Target{
		program: program,
		Source:  source,
		Vars:    slices.Sorted(slices.Values(vars)),
	}, nil
}

// Run evaluates the compiled code with the given bindings.
func (t *Target) Run(b Bindings) (any, error) {
	out, err := expr.Run(t.program, targetEnv(b))
	if err != nil {
		return nil, ErrTargetRun.Wrap(err).
			With(slog.String("source", t.Source))
	}

	return out, nil
}

// Number runs code emitted for an arithmetic expression.
func (t *Target) Number(b Bindings) (float64, error) {
	out, err := t.Run(b)
	if err != nil {
		return 0, err
	}

	v, err := toFloat(out)
	if err != nil {
		return 0, ErrTargetRun.Wrap(err).With(slog.String("source", t.Source))
	}

	return v, nil
}

// Verdict runs code emitted for an equation.
func (t *Target) Verdict(b Bindings) (bool, error) {
	out, err := t.Run(b)
	if err != nil {
		return false, err
	}

	v, ok := out.(bool)
	if !ok {
		return false, ErrTargetRun.
			Wrapf(fmt.Sprintf("result is %T, not bool", out)).
			With(slog.String("source", t.Source))
	}

	return v, nil
}

func targetEnv(b Bindings) map[string]any {
	env := make(map[string]any, len(b)+2)
	env["PI"] = math.Pi
	env["E"] = math.E

	for name, v := range b {
		env[name] = v
	}

	return env
}

// targetFunctions declares the functions referenced by emitted code.
func targetFunctions() []expr.Option {
	opts := make([]expr.Option, 0, int(funcCount)+1)

	for f := range Funcs() {
		if f.Target() == "" {
			continue
		}

		opts = append(opts, expr.Function(f.Target(), nativeCall(f.Arity(), f.Call)))
	}

	return append(opts, expr.Function("fmod", nativeCall(2, func(a ...float64) float64 {
		return math.Mod(a[0], a[1])
	})))
}

func nativeCall(
	arity int,
	fn func(...float64) float64,
) func(params ...any) (any, error) {
	return func(params ...any) (any, error) {
		if len(params) != arity {
			return nil, fmt.Errorf("expected %d arguments, got %d", arity, len(params))
		}

		args := make([]float64, arity)
		for i, p := range params {
			v, err := toFloat(p)
			if err != nil {
				return nil, err
			}

			args[i] = v
		}

		return fn(args...), nil
	}
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	}

	return 0, fmt.Errorf("value %v of type %T is not a number", v, v)
}

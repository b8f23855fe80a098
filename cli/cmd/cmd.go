package cmd

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/ardnew/mung"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/epp/lang"
	"github.com/ardnew/epp/log"
	"github.com/ardnew/epp/pkg"
)

type contextKey struct{}

// WithContext returns a copy of ctx holding ktx.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, _ := ctx.Value(contextKey{}).(*kong.Context)

	return ktx
}

// Globals holds the flags shared by every command. The streams default to
// the process's standard streams.
type Globals struct {
	Stdin  io.Reader `kong:"-"`
	Stdout io.Writer `kong:"-"`
	Stderr io.Writer `kong:"-"`

	Define   []string `help:"Bind variable NAME to VALUE"                          placeholder:"NAME=VALUE" short:"D"`
	Bindings []string `help:"YAML bindings file, searched along ${pathEnv}"        placeholder:"FILE"       short:"b"`
	Output   string   `default:"text" enum:"text,json,yaml"                       help:"Output format"     short:"o"`
	Epsilon  float64  `default:"${epsilon}"                                       help:"Tolerance of the equality relation"`
	MaxDepth int      `default:"${maxDepth}"                                      help:"Maximum nesting depth of an expression"`
}

func (g *Globals) stdin() io.Reader {
	if g.Stdin == nil {
		return os.Stdin
	}

	return g.Stdin
}

func (g *Globals) stdout() io.Writer {
	if g.Stdout == nil {
		return os.Stdout
	}

	return g.Stdout
}

func (g *Globals) stderr() io.Writer {
	if g.Stderr == nil {
		return os.Stderr
	}

	return g.Stderr
}

// options returns the compilation options selected by the flags followed
// by extra.
func (g *Globals) options(extra ...lang.Option) []lang.Option {
	return append([]lang.Option{
		lang.WithEpsilon(g.Epsilon),
		lang.WithMaxDepth(g.MaxDepth),
		lang.WithLogger(log.With(slog.String("component", "lang"))),
	}, extra...)
}

// compile parses the equation given as command-line words. A single "-"
// reads the equation from standard input.
func (g *Globals) compile(
	ctx context.Context,
	words []string,
	diags *lang.Diagnostics,
	extra ...lang.Option,
) (*lang.Equation, error) {
	source := strings.Join(words, " ")

	if strings.TrimSpace(source) == stdinSource {
		return lang.ParseReader(ctx, g.stdin(), g.options(extra...)...)
	}

	return lang.Compile(ctx, source, diags, g.options(extra...)...)
}

// source returns the equation text given as command-line words, reading
// standard input for a single "-".
func (g *Globals) source(words []string) (string, error) {
	source := strings.Join(words, " ")

	if strings.TrimSpace(source) != stdinSource {
		return source, nil
	}

	data, err := io.ReadAll(g.stdin())
	if err != nil {
		return "", lang.ErrReadInput.Wrap(err)
	}

	return strings.TrimSpace(string(data)), nil
}

// diagnose writes diags to standard error.
func (g *Globals) diagnose(diags *lang.Diagnostics) {
	for d := range diags.All() {
		_, _ = io.WriteString(g.stderr(), d.String()+"\n")
	}
}

// bindings loads the bindings files in order and then applies the -D
// assignments, each overriding earlier values.
func (g *Globals) bindings(ctx context.Context) (lang.Bindings, error) {
	b := lang.Bindings{}
	seen := make(map[fileKey]struct{})

	for _, name := range g.Bindings {
		path, err := findBindings(name)
		if err != nil {
			return nil, err
		}

		f, ok := openUniqueFile(path, seen)
		if !ok {
			log.DebugContext(ctx, "skipping bindings file", slog.String("path", path))

			continue
		}

		loaded, err := lang.LoadBindings(ctx, f)
		_ = f.Close()

		if err != nil {
			return nil, lang.WrapError(err).With(slog.String("path", path))
		}

		log.DebugContext(ctx, "loaded bindings",
			slog.String("path", path),
			slog.Int("count", len(loaded)),
		)

		b = b.Merge(loaded)
	}

	defined, err := lang.ParseBindings(g.Define...)
	if err != nil {
		return nil, err
	}

	return b.Merge(defined), nil
}

// report writes v in the selected output format. Text output is produced
// by text, and diagnostics are then written to standard error.
func (g *Globals) report(
	ctx context.Context,
	v any,
	diags *lang.Diagnostics,
	text func(io.Writer) error,
) error {
	switch g.Output {
	case "json":
		enc := json.NewEncoder(g.stdout())
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")

		err := enc.Encode(v)
		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		return nil

	case "yaml":
		out, err := yaml.MarshalContext(ctx, v, yaml.UseJSONMarshaler())
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		_, err = g.stdout().Write(out)

		return err
	}

	err := text(g.stdout())
	if err != nil {
		return err
	}

	g.diagnose(diags)

	return nil
}

// PathEnv names the environment variable listing directories searched for
// bindings files.
var PathEnv = strings.ToUpper(pkg.Name) + "_PATH"

// SearchPath returns the directories searched for bindings files: the
// working directory and configuration directory followed by the entries of
// [PathEnv]. Directories that do not exist are omitted.
func SearchPath() []string {
	path := mung.Make(
		mung.WithSubjectItems(filepath.SplitList(os.Getenv(PathEnv))...),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(".", pkg.ConfigDir()),
		mung.WithFilter(isDir),
	).String()

	return filepath.SplitList(path)
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// findBindings resolves a bindings file name. Names containing a path
// separator are used as given; others are searched for along
// [SearchPath], trying the extensions .yaml and .yml when the name has
// none.
func findBindings(name string) (string, error) {
	notFound := ErrBindingsNotFound.With(
		slog.String("name", name),
		slog.String("env", PathEnv),
	)

	if strings.ContainsRune(name, filepath.Separator) {
		if !isFile(name) {
			return "", notFound
		}

		return name, nil
	}

	candidates := []string{name}
	if filepath.Ext(name) == "" {
		candidates = append(candidates, name+".yaml", name+".yml")
	}

	for _, dir := range SearchPath() {
		for _, c := range candidates {
			path := filepath.Join(dir, c)
			if isFile(path) {
				return path, nil
			}
		}
	}

	return "", notFound
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}

// fileKey identifies a file by device and inode, so that the same file
// reached through different paths or links is read once.
type fileKey struct {
	dev uint64
	ino uint64
}

const stdinSource = "-"

// openUniqueFile opens path unless a file with the same identity is
// already in seen.
func openUniqueFile(path string, seen map[fileKey]struct{}) (*os.File, bool) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, false
	}

	key, ok := makeFileKey(info)
	if ok {
		if _, dup := seen[key]; dup {
			return nil, false
		}

		seen[key] = struct{}{}
	}

	f, err := os.Open(resolved)
	if err != nil {
		return nil, false
	}

	return f, true
}

func makeFileKey(info os.FileInfo) (fileKey, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

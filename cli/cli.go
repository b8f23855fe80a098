package cli

import (
	"context"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/epp/cli/cmd"
	"github.com/ardnew/epp/lang"
	"github.com/ardnew/epp/pkg"
)

// CLI is the top-level command-line interface for epp.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	cmd.Globals `embed:""`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Eval     cmd.Eval     `cmd:"" default:"withargs" help:"Evaluate an equation or expression"`
	Simplify cmd.Simplify `cmd:""                    help:"Simplify an equation"`
	Diff     cmd.Diff     `cmd:""                    help:"Differentiate an expression"`
	Solve    cmd.Solve    `cmd:""                    help:"Find the roots of an equation in x"`
	Emit     cmd.Emit     `cmd:""                    help:"Render an equation as expr-lang source"`
	Tokens   cmd.Tokens   `cmd:""                    help:"Print the tokens of an equation"`
	AST      cmd.AST      `cmd:""                    help:"Print the syntax tree of an equation" name:"ast"`
	Repl     cmd.Repl     `cmd:""                    help:"Start an interactive session"`
	Init     cmd.Init     `cmd:""                    help:"Initialize configuration file"`
}

// Run executes the epp CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig + ".yaml")

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"version":            pkg.Version,
		"history":            cmd.HistoryPath(),
		"pathEnv":            "$" + cmd.PathEnv,
		"epsilon":            strconv.FormatFloat(lang.DefaultEpsilon, 'g', -1, 64),
		"maxDepth":           strconv.Itoa(lang.DefaultMaxDepth),
		"maxIterations":      strconv.Itoa(lang.DefaultMaxIterations),
		"tolerance":          strconv.FormatFloat(lang.DefaultTolerance, 'g', -1, 64),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Logging flags apply before parsing so that the parser logs at the
	// requested level regardless of flag position.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.Bind(&cli.Globals),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(baseConfig+".json")),
		kong.Configuration(resolve(ctx, baseConfig), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	defer cli.Log.start(ctx)()

	// No-op unless built with the pprof tag and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run()
}

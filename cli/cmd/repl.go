package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"github.com/ardnew/epp/cli/cmd/repl"
	"github.com/ardnew/epp/log"
	"github.com/ardnew/epp/pkg"
)

// Repl starts an interactive session in which each line is an equation to
// check or an expression to compute, with the bound variables in scope.
type Repl struct {
	History string `help:"History file (empty for none)" placeholder:"FILE" type:"path" default:"${history}"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context, g *Globals) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return ErrNotTerminal
	}

	b, err := g.bindings(ctx)
	if err != nil {
		return err
	}

	logger := log.With(slog.String("component", "repl"))

	logger.DebugContext(ctx, "starting repl",
		slog.String("history", r.History),
		slog.Int("bindings", len(b)),
	)

	return repl.Run(ctx, repl.Config{
		Bindings:    b,
		Options:     g.options(),
		HistoryPath: r.History,
		Logger:      logger,
	})
}

// HistoryPath returns the default location of the REPL history.
func HistoryPath() string {
	return filepath.Join(pkg.CacheDir(), repl.BaseHistory)
}

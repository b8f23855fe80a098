package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/epp/lang"
	"github.com/ardnew/epp/log"
)

const defaultEditor = "vi"

// editBindingsCommand implements [tea.ExecCommand] for the edit-load-retry
// loop over the session bindings. The bindings are written as YAML to a
// temp file and opened in $EDITOR. When the result does not load, the user
// is asked whether to edit again.
type editBindingsCommand struct {
	bindings lang.Bindings
	ctxFunc  func() context.Context
	edited   lang.Bindings
	logger   log.Logger
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editBindingsCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editBindingsCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editBindingsCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit loop. An empty file leaves the bindings unchanged.
// Declining to edit again returns [ErrEditDeclined].
func (c *editBindingsCommand) Run() error {
	ctx := c.ctxFunc()

	content := []byte{}

	if len(c.bindings) > 0 {
		var err error

		content, err = yaml.MarshalWithOptions(map[string]float64(c.bindings))
		if err != nil {
			return err
		}
	}

	f, err := os.CreateTemp(os.TempDir(), "epp-bindings-*.yaml")
	if err != nil {
		return err
	}

	path := f.Name()

	defer os.Remove(path)

	if err := f.Chmod(0o600); err != nil {
		f.Close()

		return err
	}

	f.Close()

	for {
		if err := os.WriteFile(path, content, 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
			return err
		}

		content, err = os.ReadFile(path)
		if err != nil {
			return err
		}

		if strings.TrimSpace(string(content)) == "" {
			return nil
		}

		b, loadErr := lang.LoadBindings(ctx, strings.NewReader(string(content)))

		c.logger.TraceContext(ctx, "editor load attempt",
			slog.Int("content_length", len(content)),
			slog.Bool("success", loadErr == nil),
		)

		if loadErr == nil {
			c.edited = b

			return nil
		}

		fmt.Fprintf(c.stderr, "\nLoad error: %s\n", loadErr)
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// runEditor opens path in the user's editor and waits for it to exit.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}

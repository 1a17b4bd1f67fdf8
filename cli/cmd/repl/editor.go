package repl

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"github.com/ardnew/bakery/log"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand]. It opens the active script in
// the user's editor and reloads the project once the editor exits.
type editCommand struct {
	ctx     context.Context
	session *Session
	path    string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func (c *editCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run edits the script and reloads the session.
func (c *editCommand) Run() error {
	if err := runEditor(c.ctx, c.stdin, c.stdout, c.stderr, c.path); err != nil {
		return err
	}

	log.DebugContext(c.ctx, "repl script edited", slog.String("path", c.path))

	return c.session.Reload(c.ctx)
}

// editorCommand returns the editor named by $VISUAL or $EDITOR.
func editorCommand() string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if e := os.Getenv(env); e != "" {
			return e
		}
	}

	return defaultEditor
}

func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	cmd := exec.CommandContext(ctx, editorCommand(), path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}

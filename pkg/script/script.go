package script

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/matzehuels/beaconnet/pkg/engine"
	"github.com/matzehuels/beaconnet/pkg/errors"
)

// Interpreter executes commands against one engine.
type Interpreter struct {
	eng *engine.Engine
	out io.Writer
}

// New creates an interpreter that writes command output to out.
func New(eng *engine.Engine, out io.Writer) *Interpreter {
	return &Interpreter{eng: eng, out: out}
}

// Engine returns the engine the interpreter runs against.
func (in *Interpreter) Engine() *engine.Engine { return in.eng }

// Exec runs a single line. Blank lines and comments are no-ops.
func (in *Interpreter) Exec(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	words, err := shellquote.Split(line)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "split %q", line)
	}
	if len(words) == 0 {
		return nil
	}

	cmd, ok := lookup(words[0])
	if !ok {
		return errors.New(errors.ErrCodeInvalidCommand, "unknown command %q (try 'help')", words[0])
	}
	args := words[1:]
	if len(args) != len(cmd.Args) {
		return errors.New(errors.ErrCodeInvalidCommand, "usage: %s", cmd.Usage())
	}
	return cmd.run(ctx, in, args)
}

// Run executes every line read from r and stops at the first failing line.
// The returned error names the line number.
func (in *Interpreter) Run(ctx context.Context, r io.Reader) error {
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := in.Exec(ctx, sc.Text()); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
	}
	return sc.Err()
}

// RunAll executes every line read from r. A failing line is reported on the
// output as "Error: ..." and execution continues. The returned error joins
// all line failures, or is nil if every line succeeded.
func (in *Interpreter) RunAll(ctx context.Context, r io.Reader) error {
	var errs []error
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		if err := ctx.Err(); err != nil {
			return stderrors.Join(append(errs, err)...)
		}
		if err := in.Exec(ctx, sc.Text()); err != nil {
			in.printf("Error: %s", errors.UserMessage(err))
			errs = append(errs, fmt.Errorf("line %d: %w", n, err))
		}
	}
	if err := sc.Err(); err != nil {
		errs = append(errs, err)
	}
	return stderrors.Join(errs...)
}

func (in *Interpreter) printf(format string, args ...any) {
	fmt.Fprintf(in.out, format+"\n", args...)
}

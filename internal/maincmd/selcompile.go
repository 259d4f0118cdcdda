package maincmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/mna/mainer"
	"github.com/stefanreuther/c2ng-sub044/internal/selection"
)

// Selcompile compiles a selection expression (the remaining arguments,
// joined with spaces) to its RPN byte encoding and writes the bytes
// verbatim to stdout: every opcode is a printable ASCII byte (see
// internal/selection/compile.go), so the program text doubles as the wire
// form seleval reads back.
func (c *Cmd) Selcompile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	if len(args) == 0 {
		return printError(stdio, fmt.Errorf("selcompile: expected a selection expression"))
	}

	src := strings.Join(args, " ")
	scanner := selection.NewScanner(src)
	if err := scanner.Next(); err != nil {
		return printError(stdio, err)
	}

	var expr []byte
	if err := selection.Compile(scanner, &expr); err != nil {
		return printError(stdio, err)
	}
	if scanner.Current() != selection.End {
		return printError(stdio, fmt.Errorf("selcompile: unexpected trailing input at %q", scanner.CurrentString()))
	}

	fmt.Fprintln(stdio.Stdout, string(expr))
	return nil
}

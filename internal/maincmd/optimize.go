package maincmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mna/mainer"
	"github.com/stefanreuther/c2ng-sub044/internal/optimizer"
)

// Optimize reads an assembly-text file, runs the peephole optimizer at
// -level (default 1), and prints the resulting disassembly.
func (c *Cmd) Optimize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	if len(args) == 0 {
		return printError(stdio, fmt.Errorf("optimize: at least one file must be provided"))
	}

	level := 1
	if c.Level != "" {
		n, err := strconv.Atoi(c.Level)
		if err != nil || (n != 0 && n != 1 && n != 2) {
			return printError(stdio, fmt.Errorf("optimize: invalid -level %q", c.Level))
		}
		level = n
	}

	for _, f := range args {
		o, err := assembleFile(f)
		if err != nil {
			return printError(stdio, err)
		}
		optimizer.Optimize(o, level)
		fmt.Fprintf(stdio.Stdout, "; %s (level %d)\n", f, level)
		for _, line := range o.Disassemble() {
			fmt.Fprintln(stdio.Stdout, line)
		}
	}
	return nil
}

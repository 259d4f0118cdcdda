package maincmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mna/mainer"
	"github.com/stefanreuther/c2ng-sub044/internal/bytecode"
)

// Disasm reads one or more assembly-text files (see asm.go) and prints each
// resulting BytecodeObject's diagnostic disassembly.
func (c *Cmd) Disasm(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return DisasmFiles(stdio, args...)
}

func DisasmFiles(stdio mainer.Stdio, files ...string) error {
	for _, f := range files {
		if err := disasmFile(stdio, f); err != nil {
			return printError(stdio, err)
		}
	}
	return nil
}

func disasmFile(stdio mainer.Stdio, f string) error {
	o, err := assembleFile(f)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdio.Stdout, "; %s\n", f)
	for _, line := range o.Disassemble() {
		fmt.Fprintln(stdio.Stdout, line)
	}
	return nil
}

// assembleFile reads f and assembles it, using its base name as the
// resulting BytecodeObject's Name and FileName.
func assembleFile(f string) (*bytecode.Object, error) {
	data, err := os.ReadFile(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f, err)
	}
	o, err := assemble(f, f, strings.Split(string(data), "\n"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f, err)
	}
	return o, nil
}

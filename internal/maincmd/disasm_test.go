package maincmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAsmFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDisasmPrintsInstructions(t *testing.T) {
	path := writeAsmFile(t, t.TempDir(), "a.casm", "push int 1\npush int 2\nbinary add\n")

	var out, errOut bytes.Buffer
	c := &Cmd{}
	err := c.Disasm(context.Background(), mainer.Stdio{Stdout: &out, Stderr: &errOut}, []string{path})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "badd")
	assert.Empty(t, errOut.String())
}

func TestDisasmReportsAssembleError(t *testing.T) {
	path := writeAsmFile(t, t.TempDir(), "bad.casm", "bogus\n")

	var out, errOut bytes.Buffer
	c := &Cmd{}
	err := c.Disasm(context.Background(), mainer.Stdio{Stdout: &out, Stderr: &errOut}, []string{path})
	require.Error(t, err)
	assert.Contains(t, errOut.String(), "unknown mnemonic")
}

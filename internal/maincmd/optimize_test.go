package maincmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/mna/mainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimizeFoldsConstantsAndReportsLevel(t *testing.T) {
	path := writeAsmFile(t, t.TempDir(), "a.casm", "push int 2\nunary neg\n")

	var out, errOut bytes.Buffer
	c := &Cmd{}
	err := c.Optimize(context.Background(), mainer.Stdio{Stdout: &out, Stderr: &errOut}, []string{path})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "level 1")
	assert.Contains(t, out.String(), "pushint -2")
	assert.Empty(t, errOut.String())
}

func TestOptimizeRejectsInvalidLevel(t *testing.T) {
	path := writeAsmFile(t, t.TempDir(), "a.casm", "push int 1\n")

	var out, errOut bytes.Buffer
	c := &Cmd{Level: "9"}
	err := c.Optimize(context.Background(), mainer.Stdio{Stdout: &out, Stderr: &errOut}, []string{path})
	require.Error(t, err)
	assert.Contains(t, errOut.String(), "invalid -level")
}

func TestOptimizeRequiresAtLeastOneFile(t *testing.T) {
	var out, errOut bytes.Buffer
	c := &Cmd{}
	err := c.Optimize(context.Background(), mainer.Stdio{Stdout: &out, Stderr: &errOut}, nil)
	require.Error(t, err)
	assert.Contains(t, errOut.String(), "at least one file")
}

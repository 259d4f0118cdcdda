package maincmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/mna/mainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelcompilePrintsRPNBytes(t *testing.T) {
	var out, errOut bytes.Buffer
	c := &Cmd{}
	err := c.Selcompile(context.Background(), mainer.Stdio{Stdout: &out, Stderr: &errOut}, []string{"S(A", "and", "B)"})
	require.NoError(t, err)
	assert.Equal(t, "sAB&&\n", out.String())
}

func TestSelcompileSubtractionExample(t *testing.T) {
	var out, errOut bytes.Buffer
	c := &Cmd{}
	err := c.Selcompile(context.Background(), mainer.Stdio{Stdout: &out, Stderr: &errOut}, []string{"a", "-", "b"})
	require.NoError(t, err)
	assert.Equal(t, "AB!&\n", out.String())
}

func TestSelcompileReportsSyntaxError(t *testing.T) {
	var out, errOut bytes.Buffer
	c := &Cmd{}
	err := c.Selcompile(context.Background(), mainer.Stdio{Stdout: &out, Stderr: &errOut}, []string{"A", "and"})
	require.Error(t, err)
	assert.NotEmpty(t, errOut.String())
}

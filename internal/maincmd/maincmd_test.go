package maincmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, dir, name, src string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(src), 0o644))
	return p
}

func TestRunSuccessExitsOK(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "ok.ember", `print 1 + 2;`)

	var out, errs bytes.Buffer
	c := &Cmd{}
	code := c.Main([]string{binName, "run", script}, mainer.Stdio{Stdout: &out, Stderr: &errs})

	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "3\n", out.String())
	assert.Empty(t, errs.String())
}

func TestRunCompileErrorExits65(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "bad.ember", `print ;`)

	var out, errs bytes.Buffer
	c := &Cmd{}
	code := c.Main([]string{binName, "run", script}, mainer.Stdio{Stdout: &out, Stderr: &errs})

	assert.Equal(t, ExitCompileError, code)
	assert.Contains(t, errs.String(), "Expect expression.")
}

func TestRunRuntimeErrorExits70(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "boom.ember", `print 1 + "two";`)

	var out, errs bytes.Buffer
	c := &Cmd{}
	code := c.Main([]string{binName, "run", script}, mainer.Stdio{Stdout: &out, Stderr: &errs})

	assert.Equal(t, ExitRuntimeError, code)
	assert.Contains(t, errs.String(), "Operands must be two numbers or two strings.")
}

func TestUnknownCommandIsInvalidArgs(t *testing.T) {
	var out, errs bytes.Buffer
	c := &Cmd{}
	code := c.Main([]string{binName, "bogus"}, mainer.Stdio{Stdout: &out, Stderr: &errs})
	assert.Equal(t, mainer.InvalidArgs, code)
}

func TestHelpPrintsUsageAndExitsOK(t *testing.T) {
	var out, errs bytes.Buffer
	c := &Cmd{}
	code := c.Main([]string{binName, "--help"}, mainer.Stdio{Stdout: &out, Stderr: &errs})
	assert.Equal(t, mainer.Success, code)
	assert.Contains(t, out.String(), binName)
}

func TestTokenizeCommand(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "tok.ember", `var x = 1;`)

	var out, errs bytes.Buffer
	c := &Cmd{}
	code := c.Main([]string{binName, "tokenize", script}, mainer.Stdio{Stdout: &out, Stderr: &errs})

	assert.Equal(t, mainer.Success, code)
	assert.Contains(t, out.String(), "identifier x")
}

func TestDisassembleCommand(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, "dis.ember", `fun add(a, b) { return a + b; }`)

	var out, errs bytes.Buffer
	c := &Cmd{}
	code := c.Main([]string{binName, "disassemble", script}, mainer.Stdio{Stdout: &out, Stderr: &errs})

	assert.Equal(t, mainer.Success, code)
	assert.Contains(t, out.String(), "add")
}

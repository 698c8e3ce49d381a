package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/intexpr"
	"github.com/zephyrtronium/intexpr/internal/conf"
)

// noConfig ensures that no configuration file is named in the environment for
// the duration of the test.
func noConfig(t *testing.T) {
	t.Helper()
	t.Setenv(conf.ConfigFileEnvVariableName, "")
	require.NoError(t, os.Unsetenv(conf.ConfigFileEnvVariableName))
}

func runCmd(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	status := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return status, stdout.String(), stderr.String()
}

func TestRunArgs(t *testing.T) {
	noConfig(t)
	status, out, errout := runCmd(t, "", "--color=false", "-g", "a=3", "--given", "b = a-1", "(a+b)*4", "2+3*4")
	assert.Equal(t, ExitStatusOK, status, errout)
	assert.Equal(t, "20\n14\n", out)
}

func TestRunStdin(t *testing.T) {
	noConfig(t)
	status, out, _ := runCmd(t, "x = 10\nx-2-3\n8/2/2\n", "--echo")
	assert.Equal(t, ExitStatusOK, status)
	assert.Equal(t, "x = 10\nx-2-3 = 5\n8/2/2 = 2\n", out)
}

func TestRunEvaluationError(t *testing.T) {
	noConfig(t)
	status, out, errout := runCmd(t, "", "--color=false", "7/0", "1+1")
	assert.Equal(t, ExitStatusEvaluation, status)
	assert.Equal(t, "2\n", out)
	assert.Contains(t, errout, "error: 2: division by zero in 7 / 0")
}

func TestRunBadGiven(t *testing.T) {
	noConfig(t)
	for _, g := range []string{"a", "A=1", "a=q"} {
		status, _, _ := runCmd(t, "", "-g", g, "1")
		assert.Equal(t, ExitStatusConfiguration, status, g)
	}
}

func TestRunBadFlag(t *testing.T) {
	noConfig(t)
	status, _, _ := runCmd(t, "", "--no-such-flag")
	assert.Equal(t, ExitStatusConfiguration, status)

	status, _, _ = runCmd(t, "", "--log-level", "loud", "1")
	assert.Equal(t, ExitStatusConfiguration, status)

	status, _, errout := runCmd(t, "", "--help")
	assert.Equal(t, ExitStatusOK, status)
	assert.Contains(t, errout, "usage: intexpr")
}

func TestRunConfigFile(t *testing.T) {
	noConfig(t)
	path := filepath.Join(t.TempDir(), "calc.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[output]
color = false
echo = true

[variables]
a = 3
b = 2
`), 0o600))

	status, out, errout := runCmd(t, "", "--config", path, "(a+b)*4", "/vars")
	assert.Equal(t, ExitStatusOK, status, errout)
	assert.Equal(t, "(a+b)*4 = 20\na = 3\nb = 2\n", out)

	status, _, _ = runCmd(t, "", "--config", filepath.Join(t.TempDir(), "missing.toml"), "1")
	assert.Equal(t, ExitStatusConfiguration, status)

	_, set := os.LookupEnv(conf.ConfigFileEnvVariableName)
	assert.False(t, set, "--config leaked into the environment")
}

func TestRunConfigBadVariable(t *testing.T) {
	noConfig(t)
	path := filepath.Join(t.TempDir(), "calc.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[variables]
a = 1
a1 = 2
`), 0o600))

	status, out, errout := runCmd(t, "", "--config", path, "a")
	assert.Equal(t, ExitStatusConfiguration, status)
	assert.Empty(t, out)
	assert.Contains(t, errout, `invalid variable name "a1"`)
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) {
	return 0, errors.New("write failed")
}

func TestRunWriteErrorReportsFailures(t *testing.T) {
	noConfig(t)
	var stderr bytes.Buffer
	status := run([]string{"--color=false", "--log-level", "info", "1/0", "1"}, strings.NewReader(""), failWriter{}, &stderr)
	assert.Equal(t, ExitStatusIO, status)
	assert.Contains(t, stderr.String(), "Evaluation stopped with errors")
	assert.Contains(t, stderr.String(), `"failed":2`)
}

func TestBindGiven(t *testing.T) {
	ev := intexpr.New()
	require.NoError(t, bindGiven(ev, "a=6*7"))
	v, ok := ev.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, int64(42), v)

	err := bindGiven(ev, "b=1/0")
	assert.ErrorIs(t, err, intexpr.ErrDivideByZero)
	assert.Contains(t, err.Error(), "setting b")
}

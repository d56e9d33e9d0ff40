package bersim

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStdout returns whatever command printed to os.Stdout.
// The pipe is read after command returns, so only use it for output that fits
// in a pipe buffer, such as the summary table of a short sweep.
func captureStdout(t *testing.T, command func()) string {
	t.Helper()

	var saved = os.Stdout
	defer func() { os.Stdout = saved }()

	var r, w, pipeErr = os.Pipe()
	require.NoError(t, pipeErr)

	os.Stdout = w

	command()

	w.Close() //nolint:gosec

	os.Stdout = saved

	var out, readErr = io.ReadAll(r)
	require.NoError(t, readErr)

	return string(out)
}

// AssertOutputContains checks that command printed want somewhere on stdout.
func AssertOutputContains(t *testing.T, command func(), want string) {
	t.Helper()

	assert.Contains(t, captureStdout(t, command), want)
}

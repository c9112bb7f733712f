package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jba/sharing/counters"
)

// executeCommand runs a fresh command tree with the given args and
// captures stdout and stderr.
func executeCommand(args ...string) (stdout, stderr string, err error) {
	root := NewRootCmd()
	var outBuf, errBuf bytes.Buffer
	root.SetOut(&outBuf)
	root.SetErr(&errBuf)
	if args == nil {
		args = []string{} // keep cobra from reading os.Args
	}
	root.SetArgs(args)
	err = root.Execute()
	return outBuf.String(), errBuf.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "error %v is not an ExitError", err)
	return exitErr.Code
}

func TestDefaultSquares(t *testing.T) {
	out, _, err := executeCommand()
	require.NoError(t, err)
	assert.Equal(t, "[0 1 4 9 16 25 36 49 64 81 100 121 144 169 196 225 256 289 324 361]\n", out)
}

func TestSquare(t *testing.T) {
	out, _, err := executeCommand("square", "--workers", "2", "1", "2", "3", "4")
	require.NoError(t, err)
	assert.Equal(t, "[1 4 9 16]\n", out)
}

func TestIncrement(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"increment", "1", "2", "3"}, "[2 3 4]\n"},
		{[]string{"increment", "5"}, "[6]\n"},
		{[]string{"increment", "--", "-1", "0"}, "[0 1]\n"},
		{[]string{"increment"}, "[1 2 3 4 5 6 7 8 9 10 11 12 13 14 15 16 17 18 19 20]\n"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, _, err := executeCommand(tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestReadonly(t *testing.T) {
	out, _, err := executeCommand("readonly", "7", "8", "9")
	require.NoError(t, err)
	assert.Equal(t, "0: 7\n1: 8\n2: 9\n", out)
}

func TestMap(t *testing.T) {
	out, _, err := executeCommand("map", "1", "2", "3")
	require.NoError(t, err)
	assert.Equal(t, "[2 3 4]\n", out)
}

func TestMarkdownFormat(t *testing.T) {
	out, _, err := executeCommand("increment", "--format", "markdown", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "## increment")
	assert.Contains(t, out, "| 0 | 1 | 2 |")
}

func TestHTMLFormat(t *testing.T) {
	out, _, err := executeCommand("readonly", "--format", "html", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "<table>")
}

func TestBadArgument(t *testing.T) {
	_, _, err := executeCommand("increment", "1", "two")
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCode(t, err))
	assert.Contains(t, err.Error(), `"two" is not an integer`)
}

func TestBadFormat(t *testing.T) {
	_, _, err := executeCommand("map", "--format", "yaml")
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCode(t, err))
}

func TestUnknownFlag(t *testing.T) {
	_, _, err := executeCommand("square", "--bogus")
	require.Error(t, err)
	assert.Equal(t, exitUsage, exitCode(t, err))
}

func TestVerboseLogsToStderr(t *testing.T) {
	out, stderr, err := executeCommand("increment", "--verbose", "1", "2")
	require.NoError(t, err)
	assert.Equal(t, "[2 3]\n", out)
	assert.Contains(t, stderr, "incrementing")
	assert.Contains(t, stderr, "run_id=")
}

func TestQuietByDefault(t *testing.T) {
	_, stderr, err := executeCommand("increment", "1")
	require.NoError(t, err)
	assert.Empty(t, stderr)
}

func TestTaskError(t *testing.T) {
	err := taskError("increment", errors.New("plain"))
	assert.Equal(t, exitFailure, exitCode(t, err))
	assert.Equal(t, "increment: plain", err.Error())
}

func TestTaskErrorNamesIndexes(t *testing.T) {
	_, runErr := counters.RunFunc([]int{0, 0}, func(i int, v *int) {
		if i == 1 {
			panic("stuck")
		}
		*v++
	})
	require.Error(t, runErr)

	err := taskError("increment", runErr)
	assert.Equal(t, exitFailure, exitCode(t, err))
	assert.Contains(t, err.Error(), "result discarded")
	assert.Contains(t, err.Error(), "index 1: panic: stuck")
}

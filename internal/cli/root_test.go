package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdrpinto/motionastar/gridworld"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand_Help(t *testing.T) {
	stdout, _, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "astarplan")
	assert.Contains(t, stdout, "grid")
	assert.Contains(t, stdout, "planar")
}

func TestRootCommand_Version(t *testing.T) {
	SetVersion("1.2.3")
	t.Cleanup(func() { version = "dev" })

	stdout, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", stdout)
}

func TestRootCommand_InvalidCommand(t *testing.T) {
	_, _, err := execute(t, "invalid-command")
	require.Error(t, err)
}

func TestGridCommand_Text(t *testing.T) {
	stdout, _, err := execute(t, "grid", "--width", "4", "--height", "2", "--start", "0,0", "--goal", "3,0")
	require.NoError(t, err)

	assert.Contains(t, stdout, "cost: 3")
	assert.Contains(t, stdout, "path: (0,0) (1,0) (2,0) (3,0)")
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	// The bottom row of the rendered grid holds the whole path.
	assert.Equal(t, "S**G", lines[len(lines)-1])
}

func TestGridCommand_JSONDetour(t *testing.T) {
	for _, mode := range []string{"--incremental=false", "--incremental"} {
		t.Run(mode, func(t *testing.T) {
			stdout, _, err := execute(t, "grid", "--json", mode,
				"--width", "6", "--height", "4", "--start", "0,0", "--goal", "3,0", "--wall", "2,0")
			require.NoError(t, err)

			var result gridResult
			require.NoError(t, json.Unmarshal([]byte(stdout), &result))
			assert.True(t, result.Found)
			assert.Equal(t, 5, result.Cost)
			assert.NotContains(t, result.Path, gridworld.Cell{X: 2, Y: 0})
			assert.Equal(t, gridworld.Cell{X: 3, Y: 0}, result.Path[len(result.Path)-1])
			if mode == "--incremental" {
				assert.Equal(t, result.Expansions, result.Steps)
			}
		})
	}
}

func TestGridCommand_Unreachable(t *testing.T) {
	stdout, _, err := execute(t, "grid", "--width", "3", "--height", "3",
		"--start", "0,0", "--goal", "2,2", "--wall", "1,0", "--wall", "0,1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "no path from (0,0) to (2,2)")
}

func TestGridCommand_TimeoutOnEnclosedGoal(t *testing.T) {
	for _, mode := range []string{"--incremental=false", "--incremental"} {
		t.Run(mode, func(t *testing.T) {
			_, _, err := execute(t, "grid", mode, "--width", "0", "--height", "0", "--goal", "5,5",
				"--wall", "5,6", "--wall", "5,4", "--wall", "4,5", "--wall", "6,5", "--timeout", "50ms")
			require.ErrorIs(t, err, context.DeadlineExceeded)
			assert.Contains(t, err.Error(), "search interrupted")
		})
	}
}

func TestGridCommand_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "start", args: []string{"--start", "x"}, want: "--start"},
		{name: "goal", args: []string{"--goal", "1;2"}, want: "--goal"},
		{name: "wall", args: []string{"--wall", "1"}, want: "--wall"},
		{name: "blocked start", args: []string{"--start", "1,1", "--wall", "1,1"}, want: "start (1,1) is blocked"},
		{name: "blocked goal", args: []string{"--goal", "2,2", "--wall", "2,2"}, want: "goal (2,2) is blocked"},
		{name: "log level", args: []string{"--log-level", "loud"}, want: "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, append([]string{"grid"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGridCommand_DebugLogging(t *testing.T) {
	_, stderr, err := execute(t, "grid", "--log-level", "debug", "--width", "3", "--height", "1", "--goal", "2,0")
	require.NoError(t, err)
	assert.Contains(t, stderr, "expanded node")
	assert.Contains(t, stderr, "plan finished")
}

func TestPlanarCommand_JSON(t *testing.T) {
	stdout, _, err := execute(t, "planar", "--json", "--start", "0,0", "--goal", "3,0",
		"--step", "1", "--resolution", "0.5", "--tolerance", "0.5")
	require.NoError(t, err)

	var result planarResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.True(t, result.Found)
	assert.InDelta(t, 3, result.Cost, 1e-6)
	require.NotEmpty(t, result.Path)
	assert.Equal(t, planarPoint{X: 0, Y: 0}, result.Path[0])
}

func TestPlanarCommand_Text(t *testing.T) {
	stdout, _, err := execute(t, "planar", "--goal", "2,0", "--obstacle", "5,5,1", "--bounds", "-1,-1,4,4")
	require.NoError(t, err)
	assert.Contains(t, stdout, "cost: 2.000")
}

func TestPlanarCommand_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "start", args: []string{"--start", "1"}, want: "--start"},
		{name: "obstacle", args: []string{"--obstacle", "1,2"}, want: "--obstacle"},
		{name: "bounds", args: []string{"--bounds", "0,0,a,1"}, want: "--bounds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, append([]string{"planar"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPlanarCommand_MaxStep(t *testing.T) {
	stdout, _, err := execute(t, "planar", "--json", "--goal", "2,0", "--step", "1", "--max-step", "0.5", "--resolution", "0.25")
	require.NoError(t, err)

	var result planarResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	require.True(t, result.Found)
	require.Greater(t, len(result.Path), 1)
	assert.InDelta(t, 0.5, result.Path[1].X-result.Path[0].X, 1e-9)
}

func TestParseFloats(t *testing.T) {
	values, err := parseFloats(" 1.5, -2 ,3", 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, -2, 3}, values)

	_, err = parseFloats("1,2", 3)
	require.Error(t, err)
}

package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_Text(t *testing.T) {
	out, _, err := execute(t, "check", filepath.Join("testdata", "users.yaml"))
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "check_text", []byte(out))
}

func TestCheck_JSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "check", filepath.Join("testdata", "users.yaml"))
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   CheckResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))

	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, "users", resp.Data.Table)
	require.Len(t, resp.Data.Conditions, 4)
	assert.False(t, resp.Data.Conditions[0].Filtered)
	assert.True(t, resp.Data.Conditions[3].Filtered)
	assert.Equal(t, "email", resp.Data.Conditions[3].Field)
}

func TestCheck_Invalid(t *testing.T) {
	out, _, err := execute(t, "check", filepath.Join("testdata", "invalid.cue"))
	require.Error(t, err)

	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "2 error(s)")
	assert.Contains(t, out, "Error [E102]: validation failed")
	assert.Contains(t, out, "[E102] where[0].op")
	assert.Contains(t, out, "invalid.cue:3:")
	assert.Contains(t, out, "[E104] sort[0].dir")
}

func TestCheck_InvalidJSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "check", filepath.Join("testdata", "invalid.cue"))
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))

	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E102", resp.Error.Code)
	require.Len(t, resp.Error.Problems, 2)
	assert.Equal(t, 3, resp.Error.Problems[0].Line)
	assert.Equal(t, filepath.Join("testdata", "invalid.cue"), resp.Error.Problems[0].File)
	assert.Equal(t, "E104", resp.Error.Problems[1].Code)
}

func TestCheck_DirectCommand(t *testing.T) {
	// Commands also work without the root's configuration step.
	out, _, err := executeCommand(NewCheckCommand(&RootOptions{Format: "text"}), filepath.Join("testdata", "users.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "✓ testdata/users.yaml is valid")
}

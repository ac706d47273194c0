package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fndome/zxb/internal/querydef"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf, TraceID: "trace-1"}

	require.NoError(t, formatter.Success(map[string]string{"sql": "SELECT * FROM users"}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "trace-1", resp.TraceID)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
}

func TestOutputFormatter_JSONNoHTMLEscaping(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Success(map[string]string{"sql": "a >= ? AND b < ?"}))
	assert.Contains(t, buf.String(), "a >= ? AND b < ?")
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf, TraceID: "trace-2"}

	problems := []Problem{{Code: "E101", Field: "table", Message: "table is required"}}
	require.NoError(t, formatter.Error("E101", "validation failed", problems))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "trace-2", resp.TraceID)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E101", resp.Error.Code)
	assert.Equal(t, problems, resp.Error.Problems)
}

func TestOutputFormatter_TextSuccessUsesStringer(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Success(stringer("rendered")))
	assert.Equal(t, "rendered\n", buf.String())
}

type stringer string

func (s stringer) String() string { return string(s) }

func TestOutputFormatter_TextErrorListsProblems(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	problems := []Problem{
		{Code: "E102", Field: "where[0].op", Message: "unknown operator", File: "q.cue", Line: 3, Column: 2},
		{Code: "E104", Field: "sort[0].dir", Message: "invalid sort direction"},
	}
	require.NoError(t, formatter.Error("E102", "validation failed", problems))

	assert.Equal(t,
		"Error [E102]: validation failed\n"+
			"  [E102] where[0].op: unknown operator (q.cue:3:2)\n"+
			"  [E104] sort[0].dir: invalid sort direction\n",
		buf.String())
}

func TestOutputFormatter_Fail(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		exitCode int
		codes    []string
	}{
		{
			name:     "definition error",
			err:      &querydef.DefinitionError{Code: querydef.ErrCodeReadFailed, Message: "no such file"},
			exitCode: ExitCommandError,
			codes:    []string{"E002"},
		},
		{
			name: "joined definition errors",
			err: errors.Join(
				&querydef.DefinitionError{Code: querydef.ErrCodeMissingTable, Field: "table", Message: "table is required"},
				&querydef.DefinitionError{Code: querydef.ErrCodeSortDir, Field: "sort[0].dir", Message: "bad"},
			),
			exitCode: ExitFailure,
			codes:    []string{"E101", "E104"},
		},
		{
			name:     "plain error",
			err:      fmt.Errorf("backend qdrant: %w", errors.New("marshal failed")),
			exitCode: ExitFailure,
			codes:    []string{"E001"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{Format: "json", Writer: buf}

			err := formatter.Fail(tt.exitCode, "failed", tt.err)
			assert.Equal(t, tt.exitCode, GetExitCode(err))
			assert.ErrorIs(t, err, tt.err)
			assert.Contains(t, err.Error(), "["+tt.codes[0]+"]")

			var resp CLIResponse
			require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.codes[0], resp.Error.Code)

			var codes []string
			for _, p := range resp.Error.Problems {
				codes = append(codes, p.Code)
			}
			assert.Equal(t, tt.codes, codes)
		})
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil", nil, ExitSuccess},
		{"plain error", errors.New("boom"), ExitFailure},
		{"exit error", NewExitError(ExitCommandError, "bad flag"), ExitCommandError},
		{"wrapped exit error", fmt.Errorf("render: %w", WrapExitError(ExitFailure, "invalid", errors.New("x"))), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetExitCode(tt.err))
		})
	}
}

func TestExitError_Message(t *testing.T) {
	inner := errors.New("no such file")
	err := WrapExitError(ExitCommandError, "failed to load definition", inner)

	assert.Equal(t, "failed to load definition: no such file", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "bare", NewExitError(ExitFailure, "bare").Error())
}

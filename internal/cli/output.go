package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fndome/zxb/internal/querydef"
)

// Exit codes returned by zxb.
const (
	ExitSuccess      = 0 // Definition rendered, or checked without problems
	ExitFailure      = 1 // Definition loaded but rejected by validation or its backend
	ExitCommandError = 2 // Invocation problem: unreadable file, unknown format, bad config
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode maps err to a process exit code. Errors that are not an
// ExitError count as ExitFailure.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// CLIResponse is the JSON envelope of every command.
type CLIResponse struct {
	Status  string    `json:"status"` // "ok" or "error"
	Data    any       `json:"data,omitempty"`
	Error   *CLIError `json:"error,omitempty"`
	TraceID string    `json:"trace_id,omitempty"` // matches trace_id in debug logs
}

// CLIError describes a failed command. Problems lists every definition
// error found, in file order.
type CLIError struct {
	Code     string    `json:"code"` // code of the first problem, or E001
	Message  string    `json:"message"`
	Problems []Problem `json:"problems,omitempty"`
}

// Problem is one definition error with its location.
type Problem struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"` // e.g. "where[2].op"
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

func (p Problem) String() string {
	s := fmt.Sprintf("[%s] ", p.Code)
	if p.Field != "" {
		s += p.Field + ": "
	}
	s += p.Message
	if p.Line > 0 {
		s += fmt.Sprintf(" (%s:%d:%d)", p.File, p.Line, p.Column)
	}
	return s
}

// problemsFrom flattens err, including errors.Join trees, into problems.
func problemsFrom(err error) []Problem {
	var out []Problem
	var walk func(error)
	walk = func(e error) {
		if joined, ok := e.(interface{ Unwrap() []error }); ok {
			for _, inner := range joined.Unwrap() {
				walk(inner)
			}
			return
		}
		var de *querydef.DefinitionError
		if errors.As(e, &de) {
			out = append(out, problemFromDefinition(de))
			return
		}
		out = append(out, Problem{Code: querydef.ErrCodeGeneric, Message: e.Error()})
	}
	walk(err)
	return out
}

func problemFromDefinition(de *querydef.DefinitionError) Problem {
	p := Problem{Code: de.Code, Field: de.Field, Message: de.Message}
	if de.Pos.IsValid() {
		p.File = de.Pos.Filename()
		p.Line = de.Pos.Line()
		p.Column = de.Pos.Column()
	}
	return p
}

// OutputFormatter writes command results as text or as a CLIResponse.
type OutputFormatter struct {
	Format  string // "text" | "json"
	Writer  io.Writer
	TraceID string
}

// Success writes data. In text mode data is printed with fmt, so a
// fmt.Stringer controls its layout.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{Status: "ok", Data: data, TraceID: f.TraceID})
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error writes a failure with its problems. In text mode the header is
// followed by one indented line per problem.
func (f *OutputFormatter) Error(code, message string, problems []Problem) error {
	if f.Format == "json" {
		return f.encode(CLIResponse{
			Status:  "error",
			Error:   &CLIError{Code: code, Message: message, Problems: problems},
			TraceID: f.TraceID,
		})
	}

	if _, err := fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message); err != nil {
		return err
	}
	for _, p := range problems {
		if _, err := fmt.Fprintf(f.Writer, "  %s\n", p); err != nil {
			return err
		}
	}
	return nil
}

// Fail reports err and returns the ExitError the command should return.
// The response code is that of the first problem found in err.
func (f *OutputFormatter) Fail(exitCode int, message string, err error) error {
	problems := problemsFrom(err)
	code := querydef.ErrCodeGeneric
	if len(problems) > 0 {
		code = problems[0].Code
	}
	_ = f.Error(code, message, problems)
	return WrapExitError(exitCode, fmt.Sprintf("%s [%s]", message, code), err)
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetEscapeHTML(false)
	return enc.Encode(resp)
}

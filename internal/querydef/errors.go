package querydef

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Error codes reported by loading and validation.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeReadFailed   = "E002" // File read error
	ErrCodeParseFailed  = "E003" // YAML or CUE parse error
	ErrCodeFileType     = "E004" // Unsupported file extension
	ErrCodeMissingTable = "E101" // table is empty
	ErrCodeUnknownOp    = "E102" // where[].op not recognized
	ErrCodeValueType    = "E103" // where[].value has an unsupported type
	ErrCodeSortDir      = "E104" // sort[].dir is not asc/desc
	ErrCodeBackend      = "E105" // backend.name not recognized
	ErrCodeLikeText     = "E106" // like / like_left with a non-string value
)

// DefinitionError is a problem in a query definition file.
type DefinitionError struct {
	Code    string
	Field   string    // dotted path into the definition, e.g. "where[2].op"
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *DefinitionError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, msg)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// formatCUEError converts the first CUE error into a DefinitionError that
// keeps its source position.
func formatCUEError(err error, field string) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &DefinitionError{Code: ErrCodeParseFailed, Field: field, Message: err.Error()}
	}

	first := errs[0]
	de := &DefinitionError{
		Code:    ErrCodeParseFailed,
		Field:   field,
		Message: first.Error(),
	}
	if positions := errors.Positions(first); len(positions) > 0 {
		de.Pos = positions[0]
	}
	return de
}

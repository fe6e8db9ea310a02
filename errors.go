package formtree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/formtree/i18n"
	"github.com/reoring/formtree/schema"
)

// Compile error codes.
const (
	CodeUnknownSchemaKey           = "unknown_schema_key"
	CodeUnsupportedSchemaConstruct = "unsupported_schema_construct"
	CodeUnresolvableType           = "unresolvable_type"
	CodeMultipleSchemaTypes        = "multiple_schema_types"
	CodeUnknownKind                = "unknown_kind"
	CodeInvalidLayout              = "invalid_layout"
)

// Validation issue codes.
const (
	CodeRequired      = "required"
	CodeInvalidType   = "invalid_type"
	CodeTooShort      = "too_short"
	CodeTooLong       = "too_long"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodePattern       = "pattern"
	CodeInvalidEnum   = "invalid_enum"
	CodeInvalidFormat = "invalid_format"
	CodeInvalid       = "invalid"
)

// Sentinel errors. Compile failures wrap one of them and can be matched with
// errors.Is.
var (
	ErrUnknownSchemaKey           = errors.New("unknown schema key")
	ErrUnsupportedSchemaConstruct = schema.ErrUnsupported
	ErrUnresolvableType           = errors.New("unresolvable type")
	ErrMultipleSchemaTypes        = schema.ErrMultipleTypes
	ErrUnknownKind                = errors.New("unknown kind")
	ErrInvalidLayout              = errors.New("invalid layout")

	ErrNotArray        = errors.New("node is not an array")
	ErrIndexOutOfRange = errors.New("array index out of range")
	ErrArrayFull       = errors.New("array is at its maximum number of items")
	ErrArrayAtMinimum  = errors.New("array is at its minimum number of items")
)

// CompileError reports why a form descriptor could not be compiled.
type CompileError struct {
	Code string
	// Key is the layout key or type name involved, when known.
	Key string
	Err error
}

func (e *CompileError) Error() string {
	msg := i18n.T(e.Code, map[string]string{"key": e.Key})
	if e.Key != "" {
		msg += fmt.Sprintf(" (%q)", e.Key)
	}
	if e.Err != nil && e.Err != sentinelFor(e.Code) {
		msg += ": " + e.Err.Error()
	}
	return "formtree: " + msg
}

func (e *CompileError) Unwrap() error { return e.Err }

func sentinelFor(code string) error {
	switch code {
	case CodeUnknownSchemaKey:
		return ErrUnknownSchemaKey
	case CodeUnsupportedSchemaConstruct:
		return ErrUnsupportedSchemaConstruct
	case CodeUnresolvableType:
		return ErrUnresolvableType
	case CodeMultipleSchemaTypes:
		return ErrMultipleSchemaTypes
	case CodeUnknownKind:
		return ErrUnknownKind
	}
	return ErrInvalidLayout
}

func compileErr(code, key string, err error) error {
	if err == nil {
		err = sentinelFor(code)
	}
	return &CompileError{Code: code, Key: key, Err: err}
}

// Severity expresses the severity level of an issue.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

func (s Severity) String() string {
	switch s {
	case Ignore:
		return "ignore"
	case Warn:
		return "warn"
	}
	return "error"
}

// Issue is a single validation finding.
type Issue struct {
	Path     string // JSON Pointer (for example: /pictures/1/thumbnail).
	Code     string
	Message  string
	Severity Severity
	// Params carries structured parameters, such as the failing keyword.
	Params map[string]any
}

// Issues is a collection of validation findings that implements error.
type Issues []Issue

// String renders the issue as "code at path", or just the code for the
// document root.
func (is Issue) String() string {
	if is.Path == "" {
		return is.Code
	}
	return is.Code + " at " + is.Path
}

// Error lists up to three issues and counts the rest.
func (iss Issues) Error() string {
	const shown = 3
	parts := make([]string, 0, shown)
	for _, is := range iss[:min(len(iss), shown)] {
		parts = append(parts, is.String())
	}
	msg := strings.Join(parts, "; ")
	if rest := len(iss) - shown; rest > 0 {
		msg += fmt.Sprintf(" (+%d more)", rest)
	}
	return msg
}

// AsIssues returns the Issues wrapped in err, such as the findings
// reported by Tree.Check.
func AsIssues(err error) (Issues, bool) {
	var iss Issues
	ok := err != nil && errors.As(err, &iss)
	return iss, ok
}

// pkg/sql/parser/diagnostic.go
package parser

import "fmt"

// ErrorCode classifies a parse failure (spec.md §4.2).
type ErrorCode string

const (
	UnexpectedToken    ErrorCode = "UNEXPECTED_TOKEN"
	MissingToken       ErrorCode = "MISSING_TOKEN"
	InvalidSyntax      ErrorCode = "INVALID_SYNTAX"
	UnterminatedString ErrorCode = "UNTERMINATED_STRING"
	InvalidNumber      ErrorCode = "INVALID_NUMBER"
	UnexpectedEnd      ErrorCode = "UNEXPECTED_END"
	// TooManyColumns is raised directly by parseCreateTable against
	// MaxColumns, since a column-def list's length is available to the
	// parser without touching the catalog.
	TooManyColumns ErrorCode = "TOO_MANY_COLUMNS"
	// TableNotFound shares its wire string with dberr.CodeTableNotFound.
	// This package never raises it itself: the parser resolves no table
	// or column names against live schema state (see Parser's doc
	// comment), so "table not found" can only be known once the executor
	// looks the name up against the catalog. It stays declared here so
	// callers that only see a parser.ErrorCode (e.g. a REPL formatting
	// a diagnostic) can still match on it uniformly with the rest of
	// this enum.
	TableNotFound ErrorCode = "TABLE_NOT_FOUND"
)

// MaxColumns bounds how many columns a single CREATE TABLE may declare.
// Chosen as a generous multiple of MaxTables: enough for any realistic
// table at this engine's scale without being unbounded.
const MaxColumns = 64

// Diagnostic is the structured parse error spec.md §4.2 requires in place
// of a bare error string: a code, a human message, what was expected vs.
// found, and the source position, with an optional suggestion.
type Diagnostic struct {
	Code       ErrorCode
	Message    string
	Expected   string
	Found      string
	Line       int
	Column     int
	TokenIndex int
	Suggestion string
}

func (d *Diagnostic) Error() string {
	if d.Expected != "" {
		return fmt.Sprintf("%s at line %d, column %d: %s (expected %s, found %s)",
			d.Code, d.Line+1, d.Column+1, d.Message, d.Expected, d.Found)
	}
	return fmt.Sprintf("%s at line %d, column %d: %s", d.Code, d.Line+1, d.Column+1, d.Message)
}

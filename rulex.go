/*
Package rulex is a small grammar interpreter deciding whether a string is fully derivable
from a rule of a grammar given as a set of numbered rules.

Consists of subpackages:
  - cmd/rulex: console utility matching candidate strings against a grammar, simplifying grammars,
    and converting grammars to Go source files;
  - grammar: defines rules, rule sets, rule patching, and rule set simplification;
  - langdef: converts grammar description to a rule set;
  - lexer: lexical analyzer used by langdef;
  - matcher: checks candidate strings against a rule set;
  - source: defines source file used by lexer.

Typical usage is:

1. Describe grammar as a list of numbered rules:

	0: 4 1 5
	1: 2 3 | 3 2
	2: 4 4 | 5 5
	3: 4 5 | 5 4
	4: "a"
	5: "b"

2. Parse grammar description using langdef subpackage.

3. Optionally patch some rules with grammar.Set.Merge and simplify the rule set with grammar.Simplify.

4. Match candidate strings using matcher subpackage.
*/
package rulex

import (
	"errors"
	"fmt"
	"strings"
)

// Error classes used by subpackages, each class contains up to 99 error codes:
const (
	GrammarErrors = 1   // used by langdef
	LexicalErrors = 101 // used by lexer
	MatchErrors   = 201 // used by matcher
)

// TrailItem is a single entry of error context trail.
type TrailItem struct {
	// Pos contains byte offset in the text being processed (grammar source or candidate string).
	Pos int

	// Desc contains human-readable description of the construct being processed.
	Desc string
}

// Error is the error type used by rulex subpackages.
type Error struct {
	// Code contains non-zero error code.
	Code int

	// Message contains non-empty error message including source name and position information if provided.
	Message string

	// SourceName contains source name that caused this error or empty string.
	SourceName string

	// Line contains line number in source file or 0.
	Line int

	// Col contains column number in source file or 0.
	Col int

	// Text contains offending grammar line or candidate string, may be empty.
	Text string

	// Trail contains nested constructs being processed when the error occurred, innermost first.
	Trail []TrailItem
}

// SourcePos is used to retrieve source name and position information when constructing an error;
// source.Pos and lexer.Token implement this interface.
type SourcePos interface {
	// SourceName returns source file name or empty string.
	SourceName() string
	// Line returns line number or 0.
	Line() int
	// Col returns column number or 0.
	Col() int
}

// NewError creates new Error structure.
// name, line, and col will be added to error message if provided (non-zero).
func NewError(code int, msg, name string, line, col int) *Error {
	if name != "" && line != 0 && col != 0 {
		msg += fmt.Sprintf(" in %s at line %d col %d", name, line, col)
	}
	return &Error{Code: code, Message: msg, SourceName: name, Line: line, Col: col}
}

// Error simply returns Error.Message.
func (e *Error) Error() string {
	return e.Message
}

// Class returns error class (one of GrammarErrors, LexicalErrors, MatchErrors) for error code.
func (e *Error) Class() int {
	return (e.Code-1)/100*100 + 1
}

// Within appends a trail item describing enclosing construct and returns e.
func (e *Error) Within(pos int, desc string, params ...any) *Error {
	if len(params) > 0 {
		desc = fmt.Sprintf(desc, params...)
	}
	e.Trail = append(e.Trail, TrailItem{pos, desc})
	return e
}

// Details returns error message followed by offending text and context trail, one item per line.
func (e *Error) Details() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	if e.Text != "" {
		sb.WriteString(fmt.Sprintf("\n  text: %q", e.Text))
	}
	for _, item := range e.Trail {
		sb.WriteString(fmt.Sprintf("\n  at %d: %s", item.Pos, item.Desc))
	}
	return sb.String()
}

// FormatError creates Error structure with no source and position information.
// params will be added to error message using fmt.Sprintf function.
func FormatError(code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, "", 0, 0)
}

// FormatErrorPos creates Error structure with source and position information.
// pos must not be nil.
// params will be added to error message using fmt.Sprintf function.
func FormatErrorPos(pos SourcePos, code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, pos.SourceName(), pos.Line(), pos.Col())
}

// ErrorCode returns the code of *Error found in e's chain or 0.
func ErrorCode(e error) int {
	var re *Error
	if errors.As(e, &re) {
		return re.Code
	}
	return 0
}

// IsSyntaxError reports whether e is caused by malformed grammar description.
func IsSyntaxError(e error) bool {
	var re *Error
	if !errors.As(e, &re) {
		return false
	}
	class := re.Class()
	return class == GrammarErrors || class == LexicalErrors
}

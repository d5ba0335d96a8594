package matcher

import (
	"github.com/ava12/rulex"
)

// Error codes used by matcher:
const (
	// NoMatchError indicates that candidate string is not derivable from the start rule.
	NoMatchError = rulex.MatchErrors + iota

	// RuleNotFoundError indicates that a referenced rule is missing from the rule set.
	// This is a grammar defect rather than a property of the candidate string.
	RuleNotFoundError

	// DepthExceededError indicates that a rule reaches itself without consuming input
	// or that rule nesting exceeded the limit set with WithMaxDepth.
	DepthExceededError
)

func expectedLiteralError(start, pos int, text string) *rulex.Error {
	return rulex.FormatError(NoMatchError, "no match for rule %d: expecting %q at position %d", start, text, pos)
}

func trailingTextError(start, pos int) *rulex.Error {
	return rulex.FormatError(NoMatchError, "no match for rule %d: unexpected text at position %d", start, pos)
}

func ruleNotFoundError(id int) *rulex.Error {
	return rulex.FormatError(RuleNotFoundError, "rule %d not found", id)
}

func depthExceededError(limit, pos int) *rulex.Error {
	return rulex.FormatError(DepthExceededError, "recursion depth limit %d exceeded at position %d", limit, pos)
}

func recursionError(id, pos int) *rulex.Error {
	return rulex.FormatError(DepthExceededError, "rule %d reaches itself without consuming input at position %d", id, pos)
}

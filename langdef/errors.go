package langdef

import (
	"github.com/ava12/rulex"
	"github.com/ava12/rulex/lexer"
)

// Error codes used by langdef:
const (
	UnexpectedEofError = rulex.GrammarErrors + iota
	UnexpectedTokenError
	WrongIdError
	EmptyAlternativeError
)

func eofError(token *lexer.Token, expected string) *rulex.Error {
	return rulex.FormatErrorPos(token, UnexpectedEofError, "unexpected end of file, expecting %s", expected)
}

func unexpectedTokenError(token *lexer.Token, expected string) *rulex.Error {
	return rulex.FormatErrorPos(token, UnexpectedTokenError, "unexpected %s %q, expecting %s", token.TypeName(), token.Text(), expected)
}

func wrongIdError(token *lexer.Token) *rulex.Error {
	return rulex.FormatErrorPos(token, WrongIdError, "wrong rule id %s", token.Text())
}

func emptyAlternativeError(token *lexer.Token, first bool) *rulex.Error {
	if first {
		return rulex.FormatErrorPos(token, EmptyAlternativeError, "empty rule body")
	}
	return rulex.FormatErrorPos(token, EmptyAlternativeError, "empty alternative")
}

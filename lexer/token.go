package lexer

import (
	"github.com/ava12/rulex/source"
)

// Token is a lexeme fetched by Scanner.
type Token struct {
	tokenType int
	typeName  string
	text      string
	pos       source.Pos
}

// NewToken creates new token.
func NewToken(tokenType int, typeName, text string, pos source.Pos) *Token {
	return &Token{tokenType, typeName, text, pos}
}

// Type returns token type.
func (t *Token) Type() int {
	return t.tokenType
}

// TypeName returns token type name.
func (t *Token) TypeName() string {
	return t.typeName
}

// Text returns token text.
func (t *Token) Text() string {
	return t.text
}

// Source returns token source.
func (t *Token) Source() *source.Source {
	return t.pos.Source()
}

// SourceName returns token source name.
func (t *Token) SourceName() string {
	return t.pos.SourceName()
}

// Pos returns byte offset of the token in its source.
func (t *Token) Pos() int {
	return t.pos.Pos()
}

// Line returns token line number.
func (t *Token) Line() int {
	return t.pos.Line()
}

// Col returns token column number.
func (t *Token) Col() int {
	return t.pos.Col()
}

const (
	EofTokenType    = -1
	LowestTokenType = -1
	EofTokenName    = "-end-of-file-"
)

// EofToken creates a token marking the end of source.
func EofToken(s *source.Source) *Token {
	return &Token{tokenType: EofTokenType, typeName: EofTokenName, pos: source.NewPos(s, s.Len())}
}

package langdef

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ava12/rulex"
	"github.com/ava12/rulex/grammar"
	"github.com/ava12/rulex/lexer"
	"github.com/ava12/rulex/source"
)

// ParseString parses grammar description and returns a rule set on success.
// Returns nil and rulex.Error on error.
func ParseString(name, content string) (grammar.Set, error) {
	return Parse(source.New(name, []byte(content)))
}

// ParseBytes parses grammar description and returns a rule set on success.
// Returns nil and rulex.Error on error.
func ParseBytes(name string, content []byte) (grammar.Set, error) {
	return Parse(source.New(name, content))
}

// Parse parses grammar description and returns a rule set on success.
// Parsing stops at the first empty line, the rest of source is ignored.
// Returns nil and rulex.Error on error.
func Parse(s *source.Source) (grammar.Set, error) {
	c := newParseContext(s)
	e := c.parse()
	if e != nil {
		return nil, e
	}

	result := make(grammar.Set, len(c.entries))
	result.Merge(c.entries...)
	return result, nil
}

// ParseInput parses grammar description followed by an empty line and candidate strings, one per line.
// Returns rule set and candidate strings on success, candidates do not contain line terminators
// and the trailing empty line (if any) is dropped.
// Returns nil, nil, and rulex.Error on error.
func ParseInput(name, content string) (grammar.Set, []string, error) {
	s := source.New(name, []byte(content))
	c := newParseContext(s)
	e := c.parse()
	if e != nil {
		return nil, nil, e
	}

	result := make(grammar.Set, len(c.entries))
	result.Merge(c.entries...)
	return result, splitLines(content[c.end:]), nil
}

// ParseRules parses grammar description and returns its rules in order of definition,
// result is suitable for grammar.Set.Merge.
// Unlike Parse, ParseRules treats any non-space text after an empty line as an error.
// Returns nil and rulex.Error on error.
func ParseRules(name, content string) ([]grammar.Entry, error) {
	s := source.New(name, []byte(content))
	c := newParseContext(s)
	e := c.parse()
	if e != nil {
		return nil, e
	}

	if c.end < len(content) {
		tail := content[c.end:]
		trimmed := strings.TrimLeft(tail, " \t\r\n")
		if trimmed != "" {
			pos := source.NewPos(s, c.end+len(tail)-len(trimmed))
			t := lexer.NewToken(lexer.ErrorTokenType, "text", firstLine(trimmed), pos)
			return nil, withLine(s, unexpectedTokenError(t, "end of file"))
		}
	}

	return c.entries, nil
}

// ParseRule parses a single rule definition, e.g. "8: 42 | 42 8", optionally followed by a line feed.
// Returns rulex.Error if text is empty or contains anything else.
func ParseRule(name, text string) (grammar.Entry, error) {
	s := source.New(name, []byte(text))
	c := newParseContext(s)
	t, e := c.next()
	if e == nil {
		switch t.TypeName() {
		case idTok:
			e = c.parseRule(t)
		case lexer.EofTokenName:
			e = eofError(t, "rule id")
		default:
			e = unexpectedTokenError(t, "rule id")
		}
	}
	if e == nil {
		t, e = c.next()
		if e == nil && t.TypeName() != lexer.EofTokenName {
			e = unexpectedTokenError(t, "end of file")
		}
	}
	if e != nil {
		return grammar.Entry{}, withLine(s, e)
	}

	return c.entries[0], nil
}

const (
	idTok    = "id"
	litTok   = "literal"
	defTok   = "colon"
	altTok   = "bar"
	spaceTok = "space"
	nlTok    = "line feed"
)

var ruleLexer *lexer.Lexer

func init() {
	tokenTypes := []lexer.TokenType{
		{Type: 1, TypeName: idTok},
		{Type: 2, TypeName: litTok},
		{Type: 3, TypeName: defTok},
		{Type: 4, TypeName: altTok},
		{Type: 5, TypeName: spaceTok},
		{Type: 6, TypeName: nlTok},
		{Type: lexer.ErrorTokenType, TypeName: ""},
	}

	re := regexp.MustCompile(
		`^(?:(\d+)|` +
			`("[a-zA-Z]+")|` +
			`(: )|` +
			`( \| )|` +
			`( )|` +
			`(\r?\n)|` +
			`("[^"\n]*"?))`)

	ruleLexer = lexer.New(re, tokenTypes)
}

type parseContext struct {
	scanner    *lexer.Scanner
	entries    []grammar.Entry
	savedToken *lexer.Token
	end        int
}

func newParseContext(s *source.Source) *parseContext {
	return &parseContext{scanner: ruleLexer.Scan(s), end: s.Len()}
}

func (c *parseContext) parse() *rulex.Error {
	for {
		t, e := c.next()
		if e != nil {
			return withLine(c.scanner.Source(), e)
		}

		switch t.TypeName() {
		case lexer.EofTokenName:
			return nil

		case nlTok:
			c.end = t.Pos() + len(t.Text())
			return nil

		case idTok:
			e = c.parseRule(t)
			if e != nil {
				return withLine(c.scanner.Source(), e)
			}

		default:
			return withLine(c.scanner.Source(), unexpectedTokenError(t, "rule id"))
		}
	}
}

func withLine(s *source.Source, e *rulex.Error) *rulex.Error {
	if e.Text == "" && e.Line > 0 {
		e.Text = s.LineText(e.Line)
	}
	return e
}

func (c *parseContext) next() (*lexer.Token, *rulex.Error) {
	t := c.savedToken
	if t != nil {
		c.savedToken = nil
		return t, nil
	}

	t, e := c.scanner.Next()
	if e != nil {
		return nil, e.(*rulex.Error)
	}
	return t, nil
}

func (c *parseContext) put(t *lexer.Token) {
	if c.savedToken != nil {
		panic("cannot put " + t.TypeName() + " token: already put " + c.savedToken.TypeName())
	}

	c.savedToken = t
}

func (c *parseContext) fetch(typ, expected string) (*lexer.Token, *rulex.Error) {
	t, e := c.next()
	if e != nil {
		return nil, e
	}

	switch t.TypeName() {
	case typ:
		return t, nil
	case lexer.EofTokenName:
		return nil, eofError(t, expected)
	default:
		return nil, unexpectedTokenError(t, expected)
	}
}

func (c *parseContext) parseRule(idToken *lexer.Token) *rulex.Error {
	id, e := ruleId(idToken)
	if e != nil {
		return e.Within(idToken.Pos(), "rule id")
	}

	_, e = c.fetch(defTok, `": "`)
	if e == nil {
		var body grammar.Rule
		body, e = c.parseBody()
		if e == nil {
			c.entries = append(c.entries, grammar.Entry{ID: id, Rule: body})
			e = c.parseRuleEnd()
		}
	}
	if e != nil {
		return e.Within(idToken.Pos(), "rule %d", id)
	}

	return nil
}

func (c *parseContext) parseRuleEnd() *rulex.Error {
	t, e := c.next()
	if e != nil {
		return e
	}

	switch t.TypeName() {
	case nlTok, lexer.EofTokenName:
		return nil
	default:
		return unexpectedTokenError(t, "line feed")
	}
}

func (c *parseContext) parseBody() (grammar.Rule, *rulex.Error) {
	var branches []grammar.Rule
	for {
		t, e := c.next()
		if e != nil {
			return nil, e
		}

		c.put(t)
		branch, e := c.parseBranch(len(branches) == 0)
		if e != nil {
			return nil, e.Within(t.Pos(), "alternative %d", len(branches)+1)
		}

		branches = append(branches, branch)
		t, e = c.next()
		if e != nil {
			return nil, e
		}

		if t.TypeName() != altTok {
			c.put(t)
			break
		}
	}

	if len(branches) == 1 {
		return branches[0], nil
	}
	return grammar.Alternative{Branches: branches}, nil
}

func (c *parseContext) parseBranch(first bool) (grammar.Rule, *rulex.Error) {
	t, e := c.next()
	if e != nil {
		return nil, e
	}

	switch t.TypeName() {
	case idTok, litTok:
	case nlTok, altTok, lexer.EofTokenName:
		return nil, emptyAlternativeError(t, first)
	default:
		return nil, unexpectedTokenError(t, "rule id or literal")
	}

	var items []grammar.Rule
	for {
		item, e := parseItem(t)
		if e != nil {
			return nil, e.Within(t.Pos(), "item %d", len(items)+1)
		}

		items = append(items, item)
		t, e = c.next()
		if e != nil {
			return nil, e
		}

		if t.TypeName() != spaceTok {
			c.put(t)
			break
		}

		t, e = c.next()
		if e != nil {
			return nil, e
		}

		switch t.TypeName() {
		case idTok, litTok:
		case lexer.EofTokenName:
			return nil, eofError(t, "rule id or literal")
		default:
			return nil, unexpectedTokenError(t, "rule id or literal")
		}
	}

	if len(items) == 1 {
		if l, isLiteral := items[0].(grammar.Literal); isLiteral {
			return l, nil
		}
	}
	return grammar.Sequence{Items: items}, nil
}

func parseItem(t *lexer.Token) (grammar.Rule, *rulex.Error) {
	if t.TypeName() == litTok {
		text := t.Text()
		return grammar.Literal{Text: text[1 : len(text)-1]}, nil
	}

	id, e := ruleId(t)
	if e != nil {
		return nil, e
	}
	return grammar.Reference{ID: id}, nil
}

func ruleId(t *lexer.Token) (int, *rulex.Error) {
	id, e := strconv.Atoi(t.Text())
	if e != nil {
		return 0, wrongIdError(t)
	}
	return id, nil
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	return strings.TrimSuffix(line, "\r")
}

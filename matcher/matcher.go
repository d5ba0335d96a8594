// Package matcher checks whether candidate strings are derivable from grammar rules.
//
// There is no precompiled automaton: rules are interpreted for every candidate and references
// are resolved by id on every use, so the rule set may be patched between matches.
// Matching is backtracking: branches of an alternative are tried in order, a branch is abandoned
// when either the branch itself or the rest of the match following it fails.
// A rule that reaches itself without consuming input fails with DepthExceededError,
// the optional depth limit (see WithMaxDepth) bounds nesting of rules consuming input as well.
package matcher

import (
	"fmt"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/ava12/rulex"
	"github.com/ava12/rulex/grammar"
)

// DefaultMaxDepth is the default limit of nested rule evaluations, 0 means no limit.
// Nesting grows with the length of input matched by recursive rules.
const DefaultMaxDepth = 0

// maxTrailLen limits the number of trail items attached to an error.
const maxTrailLen = 64

// Option configures Matcher.
type Option func(*Matcher)

// WithMaxDepth sets the limit of nested rule evaluations, non-positive n disables the limit.
func WithMaxDepth(n int) Option {
	return func(m *Matcher) {
		m.maxDepth = n
	}
}

// WithWorkers sets the number of goroutines used by MatchAll, values below 1 mean 1.
func WithWorkers(n int) Option {
	return func(m *Matcher) {
		m.workers = max(n, 1)
	}
}

// WithLogger sets the logger used to report broken grammars during MatchAll.
func WithLogger(l *zap.Logger) Option {
	return func(m *Matcher) {
		if l != nil {
			m.logger = l
		}
	}
}

// Matcher matches candidate strings against a rule set.
// Matcher never modifies the rule set and may be used concurrently as long as the rule set is not modified.
type Matcher struct {
	rules    grammar.Set
	maxDepth int
	workers  int
	logger   *zap.Logger
}

// New creates a Matcher for given rule set.
func New(rules grammar.Set, opts ...Option) *Matcher {
	m := &Matcher{
		rules:    rules,
		maxDepth: DefaultMaxDepth,
		workers:  runtime.GOMAXPROCS(0),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match checks whether the whole candidate is derivable from the rule with start id using default options.
func Match(rules grammar.Set, start int, candidate string) error {
	return New(rules).Match(start, candidate)
}

// Match checks whether the whole candidate is derivable from the rule with start id.
// Returns nil on success. Returns *rulex.Error with NoMatchError code if candidate does not match,
// RuleNotFoundError if some rule needed for matching is missing (including the start rule), or
// DepthExceededError if the depth limit is reached.
func (m *Matcher) Match(start int, candidate string) error {
	c := &matchContext{
		rules:    m.rules,
		input:    candidate,
		maxDepth: m.maxDepth,
		failPos:  -1,
	}

	final := func(pos int) bool {
		if pos == len(c.input) {
			return true
		}

		c.fail(pos, nil)
		return false
	}

	if c.match(grammar.Reference{ID: start}, 0, nil, -1, final) {
		return nil
	}

	e := c.fatal
	if e == nil {
		e = c.noMatchError(start)
	}
	e.Text = candidate
	return e
}

// frame is a rule being evaluated, frames form a chain from the innermost rule to the start rule.
type frame struct {
	parent *frame
	rule   grammar.Rule
	slot   int
	pos    int
}

type matchContext struct {
	rules    grammar.Set
	input    string
	maxDepth int
	depth    int
	fatal    *rulex.Error
	failPos  int
	failAt   *frame
}

// match evaluates r at pos and calls k with every position r may end at until k returns true.
// slot is the index of r in parent sequence or alternative, -1 otherwise.
func (c *matchContext) match(r grammar.Rule, pos int, parent *frame, slot int, k func(int) bool) bool {
	if c.fatal != nil {
		return false
	}

	if c.maxDepth > 0 && c.depth >= c.maxDepth {
		c.fatal = depthExceededError(c.maxDepth, pos)
		c.fatal.Trail = trail(parent)
		return false
	}

	c.depth++
	f := &frame{parent, r, slot, pos}
	ok := false

	switch r := r.(type) {
	case grammar.Literal:
		if strings.HasPrefix(c.input[pos:], r.Text) {
			ok = k(pos + len(r.Text))
		} else {
			c.fail(pos, f)
		}

	case grammar.Reference:
		target, found := c.rules[r.ID]
		if reenters(parent, r.ID, pos) {
			c.fatal = recursionError(r.ID, pos)
			c.fatal.Trail = trail(f)
		} else if found {
			ok = c.match(target, pos, f, -1, k)
		} else {
			c.fatal = ruleNotFoundError(r.ID)
			c.fatal.Trail = trail(f)
		}

	case grammar.Sequence:
		ok = c.matchItems(r.Items, 0, pos, f, k)

	case grammar.Alternative:
		if len(r.Branches) == 0 {
			c.fail(pos, f)
		}
		for i, branch := range r.Branches {
			if c.match(branch, pos, f, i, k) {
				ok = true
				break
			}
			if c.fatal != nil {
				break
			}
		}

	default:
		c.fail(pos, f)
	}

	c.depth--
	return ok
}

func (c *matchContext) matchItems(items []grammar.Rule, index, pos int, f *frame, k func(int) bool) bool {
	if index == len(items) {
		return k(pos)
	}

	if index == len(items)-1 {
		return c.match(items[index], pos, f, index, k)
	}

	return c.match(items[index], pos, f, index, func(next int) bool {
		return c.matchItems(items, index+1, next, f, k)
	})
}

// reenters reports whether rule id is already being evaluated at pos, i.e. it reaches itself without consuming input.
// Enclosing frames never start after inner ones, so only frames starting at pos are checked.
func reenters(f *frame, id, pos int) bool {
	for ; f != nil && f.pos == pos; f = f.parent {
		if ref, isRef := f.rule.(grammar.Reference); isRef && ref.ID == id {
			return true
		}
	}
	return false
}

// fail remembers the furthest failure (the latest one if there are several at the same position),
// at is nil if the whole input is not consumed.
func (c *matchContext) fail(pos int, at *frame) {
	if pos >= c.failPos {
		c.failPos = pos
		c.failAt = at
	}
}

func (c *matchContext) noMatchError(start int) *rulex.Error {
	var e *rulex.Error
	if c.failAt == nil {
		e = trailingTextError(start, c.failPos)
	} else if l, isLiteral := c.failAt.rule.(grammar.Literal); isLiteral {
		e = expectedLiteralError(start, c.failPos, l.Text)
	} else {
		e = rulex.FormatError(NoMatchError, "no match for rule %d at position %d", start, c.failPos)
	}
	e.Col = c.failPos + 1
	e.Trail = trail(c.failAt)
	return e
}

// trail converts frame chain to error context trail, innermost first.
func trail(f *frame) []rulex.TrailItem {
	var result []rulex.TrailItem
	childSlot := -1
	for ; f != nil && len(result) < maxTrailLen; f = f.parent {
		result = append(result, rulex.TrailItem{Pos: f.pos, Desc: describe(f.rule, childSlot)})
		childSlot = f.slot
	}
	return result
}

func describe(r grammar.Rule, childSlot int) string {
	switch r := r.(type) {
	case grammar.Literal:
		return "literal " + r.String()
	case grammar.Reference:
		return "rule " + r.String()
	case grammar.Sequence:
		return fmt.Sprintf("item %d of sequence %s", childSlot+1, r)
	case grammar.Alternative:
		return fmt.Sprintf("branch %d of alternative %s", childSlot+1, r)
	default:
		return fmt.Sprintf("%v", r)
	}
}

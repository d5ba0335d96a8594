// Package grammar defines rules and rule sets.
//
// Rules never point to each other directly: a Reference holds a rule id which is resolved
// through the owning Set each time the rule is evaluated. Thus a rule set may contain
// self-referential and mutually recursive rules, and rules may be replaced at any moment
// without rebuilding the rules referencing them.
package grammar

import (
	"strconv"
	"strings"
)

// RootRule is the id of the rule matched by default.
const RootRule = 0

// Rule is a single production rule, one of Literal, Reference, Sequence, or Alternative.
type Rule interface {
	// String returns rule body in grammar description form.
	String() string

	isRule()
}

// Literal matches exactly its Text.
type Literal struct {
	Text string
}

// Reference matches whatever rule with given ID matches.
type Reference struct {
	ID int
}

// Sequence matches its Items one after another.
type Sequence struct {
	Items []Rule
}

// Alternative matches the first of its Branches that leads to a successful match.
type Alternative struct {
	Branches []Rule
}

func (Literal) isRule()     {}
func (Reference) isRule()   {}
func (Sequence) isRule()    {}
func (Alternative) isRule() {}

func (l Literal) String() string {
	return strconv.Quote(l.Text)
}

func (r Reference) String() string {
	return strconv.Itoa(r.ID)
}

func (s Sequence) String() string {
	parts := make([]string, len(s.Items))
	for i, item := range s.Items {
		parts[i] = item.String()
		if _, isAlt := item.(Alternative); isAlt {
			parts[i] = "(" + parts[i] + ")"
		}
	}
	return strings.Join(parts, " ")
}

func (a Alternative) String() string {
	parts := make([]string, len(a.Branches))
	for i, branch := range a.Branches {
		parts[i] = branch.String()
		if _, isAlt := branch.(Alternative); isAlt {
			parts[i] = "(" + parts[i] + ")"
		}
	}
	return strings.Join(parts, " | ")
}

// Lit creates a Literal.
func Lit(text string) Literal {
	return Literal{text}
}

// Ref creates a Reference.
func Ref(id int) Reference {
	return Reference{id}
}

// Seq creates a Sequence of given rules.
func Seq(items ...Rule) Sequence {
	return Sequence{items}
}

// SeqOf creates a Sequence of references to given rule ids.
func SeqOf(ids ...int) Sequence {
	items := make([]Rule, len(ids))
	for i, id := range ids {
		items[i] = Reference{id}
	}
	return Sequence{items}
}

// Alt creates an Alternative of given branches.
func Alt(branches ...Rule) Alternative {
	return Alternative{branches}
}

// Equal reports whether a and b are structurally identical.
func Equal(a, b Rule) bool {
	switch a := a.(type) {
	case Literal:
		bl, ok := b.(Literal)
		return ok && a.Text == bl.Text

	case Reference:
		br, ok := b.(Reference)
		return ok && a.ID == br.ID

	case Sequence:
		bs, ok := b.(Sequence)
		return ok && equalLists(a.Items, bs.Items)

	case Alternative:
		ba, ok := b.(Alternative)
		return ok && equalLists(a.Branches, ba.Branches)

	default:
		return a == nil && b == nil
	}
}

func equalLists(a, b []Rule) bool {
	if len(a) != len(b) {
		return false
	}

	for i, r := range a {
		if !Equal(r, b[i]) {
			return false
		}
	}
	return true
}

// References appends ids of all rules referenced by r (including nested rules) to ids and returns the result.
func References(r Rule, ids []int) []int {
	switch r := r.(type) {
	case Reference:
		ids = append(ids, r.ID)
	case Sequence:
		for _, item := range r.Items {
			ids = References(item, ids)
		}
	case Alternative:
		for _, branch := range r.Branches {
			ids = References(branch, ids)
		}
	}
	return ids
}

package grammar

import (
	"strings"

	"github.com/ava12/rulex/internal/ints"
	"github.com/ava12/rulex/internal/queue"
)

// Simplify returns a copy of s rewritten to an equivalent but smaller form; s itself is not modified.
//
// Each rule is rewritten locally: a reference to a literal rule (other than a rule referencing itself)
// is replaced by that literal, a sequence consisting of literals only is replaced by a single
// literal, an alternative with all branches equal is replaced by its first branch.
// Rules are rewritten until no rule changes, a rule is revisited whenever a rule it references changes.
// Simplifying an already simplified set changes nothing.
func Simplify(s Set) Set {
	result := s.Clone()

	// bit sets hold positions in ids rather than ids themselves, ids may be arbitrarily sparse
	ids := result.IDs()
	indexes := make(map[int]int, len(ids))
	all := make([]int, len(ids))
	for i, id := range ids {
		indexes[id] = i
		all[i] = i
	}

	dependents := make([]*ints.Set, len(ids))
	for i, id := range ids {
		for _, ref := range References(result[id], nil) {
			j, defined := indexes[ref]
			if !defined || ref == id {
				continue
			}
			if dependents[j] == nil {
				dependents[j] = ints.NewSet()
			}
			dependents[j].Add(i)
		}
	}

	queued := ints.NewSet(all...)
	work := queue.New(all...)
	for !work.IsEmpty() {
		i, _ := work.First()
		queued.Remove(i)

		id := ids[i]
		r, changed := result.simplifyRule(id, result[id])
		if !changed {
			continue
		}

		result[id] = r
		if dependents[i] == nil {
			continue
		}
		for _, dep := range dependents[i].ToSlice() {
			if !queued.Contains(dep) {
				queued.Add(dep)
				work.Append(dep)
			}
		}
	}

	return result
}

func (s Set) simplifyRule(self int, r Rule) (Rule, bool) {
	switch r := r.(type) {
	case Reference:
		if r.ID == self {
			return r, false
		}
		if l, isLiteral := s[r.ID].(Literal); isLiteral {
			return l, true
		}

	case Sequence:
		items, changed := s.simplifyList(self, r.Items)
		if text, isLiteral := concatLiterals(items); isLiteral {
			return Literal{text}, true
		}
		if changed {
			return Sequence{items}, true
		}

	case Alternative:
		branches, changed := s.simplifyList(self, r.Branches)
		if allEqual(branches) {
			return branches[0], true
		}
		if changed {
			return Alternative{branches}, true
		}
	}

	return r, false
}

func (s Set) simplifyList(self int, rules []Rule) ([]Rule, bool) {
	var result []Rule
	for i, r := range rules {
		sr, changed := s.simplifyRule(self, r)
		if changed && result == nil {
			result = make([]Rule, len(rules))
			copy(result, rules[:i])
		}
		if result != nil {
			result[i] = sr
		}
	}

	if result == nil {
		return rules, false
	}
	return result, true
}

func concatLiterals(rules []Rule) (string, bool) {
	if len(rules) == 0 {
		return "", false
	}

	var sb strings.Builder
	for _, r := range rules {
		l, isLiteral := r.(Literal)
		if !isLiteral {
			return "", false
		}
		sb.WriteString(l.Text)
	}
	return sb.String(), true
}

func allEqual(rules []Rule) bool {
	if len(rules) == 0 {
		return false
	}

	for _, r := range rules[1:] {
		if !Equal(rules[0], r) {
			return false
		}
	}
	return true
}

package grammar

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Set maps rule ids to rules.
type Set map[int]Rule

// Entry is a single rule with its id, used to patch rule sets.
type Entry struct {
	ID   int
	Rule Rule
}

// Get returns rule with given id and true or nil and false if there is no such rule.
func (s Set) Get(id int) (Rule, bool) {
	r, found := s[id]
	return r, found
}

// Merge adds given entries to s replacing existing rules with the same ids.
// Entries are applied in order, so the last entry for an id wins.
// Neither rule ids nor references are validated, missing rules are detected by matcher only.
func (s Set) Merge(entries ...Entry) {
	for _, e := range entries {
		s[e.ID] = e.Rule
	}
}

// IDs returns rule ids in ascending order.
func (s Set) IDs() []int {
	return slices.Sorted(maps.Keys(s))
}

// Clone returns a shallow copy of s. Rules themselves are never modified in place, so sharing them is safe.
func (s Set) Clone() Set {
	return maps.Clone(s)
}

// Equal reports whether s and t contain structurally identical rules with the same ids.
func (s Set) Equal(t Set) bool {
	return maps.EqualFunc(s, t, Equal)
}

// Missing returns sorted list of ids referenced by rules of s but not defined in s.
func (s Set) Missing() []int {
	var refs []int
	for _, r := range s {
		refs = References(r, refs)
	}

	var result []int
	for _, id := range refs {
		if _, found := s[id]; !found {
			result = append(result, id)
		}
	}
	slices.Sort(result)
	return slices.Compact(result)
}

// String returns rule set in grammar description form, one rule per line in ascending id order.
func (s Set) String() string {
	var sb strings.Builder
	for _, id := range s.IDs() {
		sb.WriteString(strconv.Itoa(id))
		sb.WriteString(": ")
		sb.WriteString(s[id].String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

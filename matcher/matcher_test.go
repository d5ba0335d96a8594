package matcher

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ava12/rulex"
	"github.com/ava12/rulex/grammar"
	"github.com/ava12/rulex/langdef"
)

func parse(t *testing.T, src string) grammar.Set {
	t.Helper()
	rules, e := langdef.ParseString(t.Name(), src)
	require.NoError(t, e)
	return rules
}

func expectCodes(t *testing.T, rules grammar.Set, start int, samples map[string]int) {
	t.Helper()
	for candidate, code := range samples {
		e := Match(rules, start, candidate)
		if code == 0 {
			assert.NoError(t, e, "candidate %q", candidate)
		} else {
			assert.Equal(t, code, rulex.ErrorCode(e), "candidate %q: %v", candidate, e)
		}
	}
}

func TestSequence(t *testing.T) {
	rules := parse(t, "0: 1 2\n1: \"a\"\n2: \"b\"\n")
	expectCodes(t, rules, 0, map[string]int{
		"ab":  0,
		"ba":  NoMatchError,
		"a":   NoMatchError,
		"abb": NoMatchError,
		"":    NoMatchError,
	})
}

func TestAlternative(t *testing.T) {
	rules := parse(t, "0: 1 | 2\n1: \"a\"\n2: \"b\"\n")
	expectCodes(t, rules, 0, map[string]int{
		"a":  0,
		"b":  0,
		"ab": NoMatchError,
		"c":  NoMatchError,
	})
}

func TestLiteralRules(t *testing.T) {
	rules := parse(t, "0: \"abc\" | 1 \"c\"\n1: \"ab\" | \"x\"\n")
	expectCodes(t, rules, 0, map[string]int{
		"abc": 0,
		"xc":  0,
		"ab":  NoMatchError,
		"abx": NoMatchError,
	})
	expectCodes(t, rules, 1, map[string]int{
		"ab": 0,
		"x":  0,
	})
}

func TestPatchedRecursion(t *testing.T) {
	rules := grammar.Set{42: grammar.Lit("x")}
	rules.Merge(grammar.Entry{ID: 8, Rule: grammar.Alt(grammar.SeqOf(42), grammar.SeqOf(42, 8))})

	expectCodes(t, rules, 8, map[string]int{
		"x":    0,
		"xx":   0,
		"xxx":  0,
		"":     NoMatchError,
		"xxy":  NoMatchError,
		"yxxx": NoMatchError,
	})
}

func TestRecursionBacktracking(t *testing.T) {
	src := "0: 8 11\n8: 42\n11: 42 31\n42: \"a\"\n31: \"b\"\n"
	rules := parse(t, src)
	candidates := []string{"aab", "aaab", "aaabb", "aabb", "ab", "aaabbb", "aaaabbb", "aba", ""}

	m := New(rules, WithWorkers(1))
	results, e := m.MatchAll(context.Background(), 0, candidates)
	require.NoError(t, e)
	assert.Equal(t, []string{"aab"}, matched(results))

	patch, e := langdef.ParseRules("patch", "8: 42 | 42 8\n11: 42 31 | 42 11 31\n")
	require.NoError(t, e)
	rules.Merge(patch...)

	results, e = m.MatchAll(context.Background(), 0, candidates)
	require.NoError(t, e)
	assert.Equal(t, []string{"aab", "aaab", "aaabb", "aaaabbb"}, matched(results))

	unpatched := parse(t, src)
	assert.Error(t, Match(unpatched, 0, "aaaabbb"))
	assert.NoError(t, Match(rules, 0, "aaaabbb"))
}

func matched(results []Result) []string {
	var result []string
	for _, r := range results {
		if r.Matched() {
			result = append(result, r.Candidate)
		}
	}
	return result
}

func TestRuleNotFound(t *testing.T) {
	rules := parse(t, "0: 1 2\n1: \"a\"\n")
	for _, candidate := range []string{"", "a", "ab", "b"} {
		e := Match(rules, 0, candidate)
		if candidate == "" || candidate == "b" {
			assert.Equal(t, NoMatchError, rulex.ErrorCode(e), "candidate %q", candidate)
			continue
		}
		require.Equal(t, RuleNotFoundError, rulex.ErrorCode(e), "candidate %q: %v", candidate, e)
	}

	e := Match(rules, 7, "a")
	require.Equal(t, RuleNotFoundError, rulex.ErrorCode(e))
	assert.Contains(t, e.Error(), "rule 7")

	e = Match(parse(t, "0: 1 | 2\n2: \"a\"\n"), 0, "a")
	require.Equal(t, RuleNotFoundError, rulex.ErrorCode(e), "missing rule is fatal even if other branch matches")
	assert.Equal(t, "rule 1", e.(*rulex.Error).Trail[0].Desc)
}

func TestDepthLimit(t *testing.T) {
	rules := parse(t, "0: 0 1 | 1\n1: \"a\"\n")
	m := New(rules, WithMaxDepth(1000))
	e := m.Match(0, "aaa")
	require.Equal(t, DepthExceededError, rulex.ErrorCode(e))
	re := e.(*rulex.Error)
	assert.Equal(t, "aaa", re.Text)
	assert.LessOrEqual(t, len(re.Trail), maxTrailLen)

	deep := strings.Repeat("x", 500)
	rules = grammar.Set{42: grammar.Lit("x"), 8: grammar.Alt(grammar.SeqOf(42), grammar.SeqOf(42, 8))}
	assert.NoError(t, Match(rules, 8, deep))
	assert.Equal(t, DepthExceededError, rulex.ErrorCode(New(rules, WithMaxDepth(100)).Match(8, deep)))
	assert.NoError(t, New(rules, WithMaxDepth(0)).Match(8, deep))
}

func TestRecursionWithoutInput(t *testing.T) {
	rules := parse(t, "0: 1 \"a\" | \"b\"\n1: 2\n2: 3 | \"c\"\n3: 0\n")
	for _, candidate := range []string{"", "b", "ca", "xyz"} {
		e := Match(rules, 0, candidate)
		require.Equal(t, DepthExceededError, rulex.ErrorCode(e), "candidate %q", candidate)
		assert.Contains(t, e.Error(), "rule 0 reaches itself without consuming input at position 0")
		assert.Equal(t, "rule 0", e.(*rulex.Error).Trail[0].Desc)
	}

	rules = parse(t, "0: 1 0 | \"a\"\n1: \"b\" | \"c\"\n")
	expectCodes(t, rules, 0, map[string]int{
		"a":    0,
		"bca":  0,
		"bcb":  NoMatchError,
		"bbbb": NoMatchError,
	})
}

func TestLongCandidate(t *testing.T) {
	rules := grammar.Set{42: grammar.Lit("x"), 8: grammar.Alt(grammar.SeqOf(42), grammar.SeqOf(42, 8))}
	long := strings.Repeat("x", 20000)

	assert.NoError(t, Match(rules, 8, long))

	e := Match(rules, 8, long+"y")
	require.Equal(t, NoMatchError, rulex.ErrorCode(e))
	assert.Equal(t, 20001, e.(*rulex.Error).Col)
}

func TestErrorTrail(t *testing.T) {
	rules := parse(t, "0: 1 2\n1: \"a\"\n2: 1 | 3\n3: \"b\"\n")
	e := Match(rules, 0, "ac")
	require.Equal(t, NoMatchError, rulex.ErrorCode(e))

	re := e.(*rulex.Error)
	assert.Equal(t, "ac", re.Text)
	assert.Equal(t, 2, re.Col)
	assert.Contains(t, re.Message, `expecting "b" at position 1`)

	descs := make([]string, len(re.Trail))
	for i, item := range re.Trail {
		descs[i] = item.Desc
	}
	assert.Equal(t, []string{
		`literal "b"`,
		"rule 3",
		"item 1 of sequence 3",
		"branch 2 of alternative 1 | 3",
		"rule 2",
		"item 2 of sequence 1 2",
		"rule 0",
	}, descs)
	assert.Equal(t, 1, re.Trail[0].Pos)
	assert.Equal(t, 0, re.Trail[len(re.Trail)-1].Pos)

	e = Match(rules, 0, "abb")
	require.Equal(t, NoMatchError, rulex.ErrorCode(e))
	assert.Contains(t, e.Error(), "unexpected text at position 2")
	assert.Empty(t, e.(*rulex.Error).Trail)
}

func TestSimplifiedGrammarEquivalence(t *testing.T) {
	src := "0: 4 1 5\n1: 2 3 | 3 2\n2: 4 4 | 5 5\n3: 4 5 | 5 4\n4: \"a\"\n5: \"b\"\n6: 4 4 5\n7: 6 | 4 4 5\n"
	rules := parse(t, src)
	simplified := grammar.Simplify(rules)

	for _, start := range []int{0, 6, 7} {
		for _, candidate := range allStrings("ab", 6) {
			before := Match(rules, start, candidate)
			after := Match(simplified, start, candidate)
			assert.Equal(t, before == nil, after == nil, "rule %d, candidate %q", start, candidate)
		}
	}

	lit, isLiteral := simplified[7].(grammar.Literal)
	require.True(t, isLiteral, "rule 7 simplified to %s", simplified[7])
	for _, candidate := range allStrings("ab", 4) {
		assert.Equal(t, candidate == lit.Text, Match(simplified, 7, candidate) == nil, "candidate %q", candidate)
	}
}

func allStrings(alphabet string, maxLen int) []string {
	result := []string{""}
	level := []string{""}
	for i := 0; i < maxLen; i++ {
		var next []string
		for _, prefix := range level {
			for _, r := range alphabet {
				next = append(next, prefix+string(r))
			}
		}
		result = append(result, next...)
		level = next
	}
	return result
}

func TestMatchAll(t *testing.T) {
	rules := parse(t, "0: 1 2\n1: \"a\"\n2: \"b\" | 3\n")
	candidates := []string{"ab", "aa", "ac", "ab", "b"}

	core, logs := observer.New(zap.WarnLevel)
	m := New(rules, WithWorkers(3), WithLogger(zap.New(core)))
	results, e := m.MatchAll(context.Background(), 0, candidates)
	require.NoError(t, e)
	require.Len(t, results, len(candidates))
	for i, r := range results {
		assert.Equal(t, candidates[i], r.Candidate)
	}
	assert.Equal(t, 2, Count(results))
	assert.Equal(t, RuleNotFoundError, rulex.ErrorCode(results[1].Err))
	assert.Equal(t, RuleNotFoundError, rulex.ErrorCode(results[2].Err))
	assert.Equal(t, NoMatchError, rulex.ErrorCode(results[4].Err))
	assert.Equal(t, 2, logs.Len())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, e = m.MatchAll(ctx, 0, candidates)
	assert.ErrorIs(t, e, context.Canceled)
	assert.Nil(t, results)
}

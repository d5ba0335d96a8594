package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ava12/rulex"
	"github.com/ava12/rulex/langdef"
	"github.com/ava12/rulex/lexer"
)

const sampleInput = "0: 4 1 5\n" +
	"1: 2 3 | 3 2\n" +
	"2: 4 4 | 5 5\n" +
	"3: 4 5 | 5 4\n" +
	"4: \"a\"\n" +
	"5: \"b\"\n" +
	"\n" +
	"ababbb\n" +
	"bababa\n" +
	"abbbab\n" +
	"aaabbb\n" +
	"aaaabbb\n"

const recursiveInput = "0: 8 11\n" +
	"8: 42\n" +
	"11: 42 31\n" +
	"42: \"a\"\n" +
	"31: \"b\"\n" +
	"\n" +
	"aab\n" +
	"aaab\n" +
	"aaabb\n" +
	"aabb\n" +
	"aaaabbb\n"

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("RULEX_MAX_DEPTH", "")
	t.Setenv("RULEX_WORKERS", "")

	cmd := newRootCmd(&app{logger: zap.NewNop()})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	if !hasConfig(args) {
		args = append([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func hasConfig(args []string) bool {
	for _, arg := range args {
		if arg == "--config" {
			return true
		}
	}
	return false
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestMatch(t *testing.T) {
	out, err := run(t, "", "match", writeFile(t, "sample.txt", sampleInput))
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	out, err = run(t, sampleInput, "match", "--list", "-")
	require.NoError(t, err)
	assert.Equal(t, "ababbb\nabbbab\n2\n", out)

	out, err = run(t, sampleInput, "match", "--simplify", "--workers", "2", "-")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	out, err = run(t, sampleInput, "match", "--start", "3", "-")
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)
}

func TestMatchPatched(t *testing.T) {
	out, err := run(t, recursiveInput, "match", "-l", "-")
	require.NoError(t, err)
	assert.Equal(t, "aab\n1\n", out)

	out, err = run(t, recursiveInput, "match", "-l", "-", "-P", "8: 42 | 42 8", "-P", "11: 42 31 | 42 11 31")
	require.NoError(t, err)
	assert.Equal(t, "aab\naaab\naaabb\naaaabbb\n4\n", out)

	conf := writeFile(t, "rulex.yaml", "patches:\n  - \"8: 42 | 42 8\"\n  - \"11: 42 31 | 42 11 31\"\nsimplify: true\n")
	out, err = run(t, recursiveInput, "--config", conf, "match", "-")
	require.NoError(t, err)
	assert.Equal(t, "4\n", out)

	out, err = run(t, recursiveInput, "--config", conf, "match", "--simplify=false", "--max-depth", "5", "-")
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)
}

func TestMatchErrors(t *testing.T) {
	_, err := run(t, "0: 1 \"a\n\nab\n", "match", "-")
	assert.Equal(t, lexer.BadTokenError, rulex.ErrorCode(err))

	_, err = run(t, recursiveInput, "match", "-P", "8: 42 |  42", "-")
	assert.Equal(t, langdef.UnexpectedTokenError, rulex.ErrorCode(err))

	_, err = run(t, recursiveInput, "match", "--workers", "-1", "-")
	assert.ErrorContains(t, err, "workers")

	_, err = run(t, "", "match", filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = run(t, "", "match")
	assert.Error(t, err)
}

func TestSimplify(t *testing.T) {
	out, err := run(t, "0: 1 2\n1: \"a\"\n2: \"b\" | 1\n3: 1 1\n\nignored\n", "simplify", "-")
	require.NoError(t, err)
	assert.Equal(t, "0: \"a\" 2\n1: \"a\"\n2: \"b\" | \"a\"\n3: \"aa\"\n", out)

	out, err = run(t, "0: 1 2\n1: \"a\"\n2: \"b\" | 1\n", "simplify", "-P", "2: \"b\"", "-")
	require.NoError(t, err)
	assert.Equal(t, "0: \"ab\"\n1: \"a\"\n2: \"b\"\n", out)

	output := filepath.Join(t.TempDir(), "simple.txt")
	out, err = run(t, "0: 1 1\n1: \"a\"\n", "simplify", "-o", output, "-")
	require.NoError(t, err)
	assert.Empty(t, out)
	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "0: \"aa\"\n1: \"a\"\n", string(content))
}

func TestGen(t *testing.T) {
	src := "0: 1 2\n1: \"a\"\n2: \"b\" | 1 \"c\"\n"
	out, err := run(t, src, "gen", "-p", "sample", "-v", "Sample", "-")
	require.NoError(t, err)
	expected := "// Code generated with rulex gen. DO NOT EDIT.\n\n" +
		"package sample\n\n" +
		"import \"github.com/ava12/rulex/grammar\"\n\n" +
		"var Sample = grammar.Set{\n" +
		"\t0: grammar.SeqOf(1, 2), // 1 2\n" +
		"\t1: grammar.Lit(\"a\"), // \"a\"\n" +
		"\t2: grammar.Alt(grammar.Lit(\"b\"), grammar.Seq(grammar.Ref(1), grammar.Lit(\"c\"))), // \"b\" | 1 \"c\"\n" +
		"}\n"
	assert.Equal(t, expected, out)

	out, err = run(t, src, "gen", "-p", "sample", "--simplify", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "var Rules = grammar.Set{\n")
	assert.Contains(t, out, "\t2: grammar.Alt(grammar.Lit(\"b\"), grammar.Lit(\"ac\")), // \"b\" | \"ac\"\n")

	_, err = run(t, src, "gen", "-p", "sample", "-v", "1st", "-")
	assert.ErrorContains(t, err, "invalid variable name: 1st")
}

func TestGenFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "grammars")
	require.NoError(t, os.Mkdir(dir, 0o755))
	input := filepath.Join(dir, "sample.rules")
	require.NoError(t, os.WriteFile(input, []byte(sampleInput), 0o644))

	out, err := run(t, "", "gen", input)
	require.NoError(t, err)
	assert.Empty(t, out)

	content, err := os.ReadFile(filepath.Join(dir, "sample.go"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "// Code generated with rulex gen. DO NOT EDIT.\n\npackage grammars\n"))
	assert.Contains(t, string(content), "\t1: grammar.Alt(grammar.SeqOf(2, 3), grammar.SeqOf(3, 2)), // 2 3 | 3 2\n")
}

func TestGenConfigSimplify(t *testing.T) {
	src := "0: 1 2\n1: \"a\"\n2: \"b\"\n"
	conf := writeFile(t, "rulex.yaml", "simplify: true\n")

	out, err := run(t, src, "--config", conf, "gen", "-p", "sample", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "\t0: grammar.Lit(\"ab\"), // \"ab\"\n")

	out, err = run(t, src, "--config", conf, "gen", "-p", "sample", "--simplify=false", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "\t0: grammar.SeqOf(1, 2), // 1 2\n")
}

func TestMaxDepthHelp(t *testing.T) {
	flag := newMatchCmd(&app{}).Flags().Lookup("max-depth")
	require.NotNil(t, flag)
	assert.Equal(t, "0", flag.DefValue)
	assert.Contains(t, flag.Usage, "default from config max_depth key or no limit")
}

func TestGrammarErrorDetails(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	a := &app{logger: zap.New(core)}

	_, parseErr := langdef.ParseString("broken", "0: 1\n5 bad\n")
	require.Error(t, parseErr)
	err := a.grammarError(fmt.Errorf("reading grammar: %w", parseErr))
	assert.ErrorIs(t, err, parseErr)

	entries := logs.FilterMessage("grammar error").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, langdef.UnexpectedTokenError, fields["code"])
	assert.Contains(t, fields["details"], "5 bad")
}

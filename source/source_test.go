package source

import (
	"testing"
)

type result struct {
	pos, line, col int
}

func TestSourceLineCol(t *testing.T) {
	samples := map[string][]result{
		"": {
			{0, 1, 1},
			{100, 1, 1},
		},
		"\n": {
			{0, 1, 1},
			{1, 2, 1},
			{100, 2, 1},
		},
		"0: 1\n1: \"a\"\n\nab\nb\n": {
			{0, 1, 1},
			{3, 1, 4},
			{5, 2, 1},
			{8, 2, 4},
			{11, 2, 7},
			{12, 3, 1},
			{13, 4, 1},
			{14, 4, 2},
			{16, 5, 1},
			{18, 6, 1},
			{3, 1, 4},
			{13, 4, 1},
		},
	}

	for text, results := range samples {
		source := New("", []byte(text))
		for _, res := range results {
			l, c := source.LineCol(res.pos)
			if l != res.line || c != res.col {
				t.Errorf("sample %q: expected %v, got line: %d, col: %d", text, res, l, c)
			}
		}
	}
}

func TestSourcePos(t *testing.T) {
	samples := map[string][]result{
		"": {
			{0, 0, 1},
			{0, 1, 0},
			{0, 1, 1},
			{0, 1, 2},
			{0, 2, 1},
		},
		"\n": {
			{0, 1, 1},
			{1, 1, 2},
			{1, 2, 1},
			{1, 2, 2},
			{1, 3, 1},
		},
		"8: 42\n42: \"x\"\n": {
			{0, 1, 1},
			{3, 1, 4},
			{6, 2, 1},
			{10, 2, 5},
			{14, 3, 1},
			{14, 4, 1},
		},
	}

	for text, results := range samples {
		source := New("", []byte(text))
		for _, res := range results {
			p := source.Pos(res.line, res.col)
			if p != res.pos {
				t.Errorf("sample %q: expected %v, got pos: %d", text, res, p)
			}
		}
	}
}

func TestLineText(t *testing.T) {
	s := New("", []byte("0: 1 2\r\n1: \"a\"\n\nab"))
	expected := []string{"", "0: 1 2", "1: \"a\"", "", "ab", ""}
	if s.Lines() != 4 {
		t.Fatalf("expecting 4 lines, got %d", s.Lines())
	}
	for line, text := range expected {
		got := s.LineText(line)
		if got != text {
			t.Errorf("line %d: expecting %q, got %q", line, text, got)
		}
	}
}

func TestNewPos(t *testing.T) {
	s := New("grammar", []byte("0: 1\n1: \"a\""))
	p := NewPos(s, 8)
	if p.Pos() != 8 || p.Line() != 2 || p.Col() != 4 {
		t.Fatalf("expecting 8 (2:4), got %d (%d:%d)", p.Pos(), p.Line(), p.Col())
	}
	if p.SourceName() != "grammar" || p.Source() != s {
		t.Fatalf("unexpected source %q", p.SourceName())
	}

	var empty Pos
	if empty.SourceName() != "" {
		t.Fatalf("expecting empty source name, got %q", empty.SourceName())
	}
}

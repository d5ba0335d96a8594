// Package source defines source file used by lexer.
package source

import (
	"bytes"
	"unicode/utf8"
)

// Source contains source name and content, also caches line start positions.
type Source struct {
	name          string
	content       []byte
	lineStarts    []int
	prevLineIndex int
}

// New creates new Source.
// Name is used in error messages only, it may be any string.
func New(name string, content []byte) *Source {
	s := &Source{name: name, content: content, prevLineIndex: -1}
	lineCnt := bytes.Count(content, []byte("\n")) + 1
	s.lineStarts = make([]int, lineCnt)
	j := 1
	for i := 0; i < len(content) && j < lineCnt; i++ {
		if content[i] == '\n' {
			s.lineStarts[j] = i + 1
			j++
		}
	}

	return s
}

// Name returns source name.
func (s *Source) Name() string {
	return s.name
}

// Content returns source content.
func (s *Source) Content() []byte {
	return s.content
}

// Len returns source content length in bytes.
func (s *Source) Len() int {
	return len(s.content)
}

// Lines returns the number of lines, a source always contains at least one (possibly empty) line.
func (s *Source) Lines() int {
	return len(s.lineStarts)
}

// LineCol returns line and column number (both starting at 1) for given byte offset.
// Offsets outside content are clamped.
func (s *Source) LineCol(pos int) (line, col int) {
	var lineIndex int
	if pos < 0 {
		pos = 0
		lineIndex = 0
	} else if pos >= len(s.content) {
		pos = len(s.content)
		lineIndex = len(s.lineStarts) - 1
	} else {
		lineIndex = s.findLineIndex(pos)
	}

	lineStart := s.lineStarts[lineIndex]
	return lineIndex + 1, utf8.RuneCount(s.content[lineStart:pos]) + 1
}

// Pos returns byte offset for given line and column (in bytes) numbers.
// Returns 0 for non-positive line or column and content length for positions beyond the end.
func (s *Source) Pos(line, col int) int {
	if line <= 0 || col <= 0 {
		return 0
	}

	l := len(s.content)
	if line > len(s.lineStarts) {
		return l
	}

	res := s.lineStarts[line-1] + col - 1
	if res > l {
		return l
	}
	return res
}

// LineText returns content of given line (starting at 1) without line terminator.
// Returns empty string for nonexistent lines.
func (s *Source) LineText(line int) string {
	if line <= 0 || line > len(s.lineStarts) {
		return ""
	}

	start := s.lineStarts[line-1]
	end := len(s.content)
	if line < len(s.lineStarts) {
		end = s.lineStarts[line] - 1
	}
	if end > start && s.content[end-1] == '\r' {
		end--
	}
	return string(s.content[start:end])
}

func (s *Source) findLineIndex(pos int) int {
	if s.prevLineIndex >= 0 && s.lineStarts[s.prevLineIndex] <= pos {
		lineIndex := s.prevLineIndex
		last := len(s.lineStarts) - 1
		for lineIndex <= last && s.lineStarts[lineIndex] <= pos {
			lineIndex++
		}
		lineIndex--
		s.prevLineIndex = lineIndex
		return lineIndex
	}

	left := 0
	right := len(s.lineStarts) - 1
	if s.prevLineIndex >= 0 {
		right = s.prevLineIndex
	}
	for left < right {
		index := (left + right + 1) >> 1
		if s.lineStarts[index] <= pos {
			left = index
		} else {
			right = index - 1
		}
	}
	s.prevLineIndex = left
	return left
}

// Pos is a position in source, implements rulex.SourcePos.
type Pos struct {
	src            *Source
	pos, line, col int
}

// NewPos creates Pos for given byte offset in source.
func NewPos(s *Source, pos int) Pos {
	line, col := s.LineCol(pos)
	return Pos{s, pos, line, col}
}

// Source returns source, may be nil.
func (p Pos) Source() *Source {
	return p.src
}

// SourceName returns source name or empty string.
func (p Pos) SourceName() string {
	if p.src == nil {
		return ""
	}
	return p.src.Name()
}

// Pos returns byte offset.
func (p Pos) Pos() int {
	return p.pos
}

// Line returns line number, starting at 1.
func (p Pos) Line() int {
	return p.line
}

// Col returns column number, starting at 1.
func (p Pos) Col() int {
	return p.col
}

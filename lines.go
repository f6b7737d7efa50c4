package tagcheck

import (
	"sort"
	"strings"
)

// Window selects source lines around a 1-based line L: the 0-based line
// indices [L-Before, L+After), clamped to the document, printed 1-based.
type Window struct {
	Before int `json:"before" koanf:"before"`
	After  int `json:"after" koanf:"after"`
}

// Default context windows. Mismatches look further back because the opening
// tag is usually earlier; unclosed tags look further ahead for the missing
// close.
var (
	DefaultMismatchWindow = Window{Before: 5, After: 2}
	DefaultUnclosedWindow = Window{Before: 2, After: 5}
	DefaultFindingWindow  = Window{Before: 3, After: 3}
)

// Snippet returns the lines of the window around line.
func (w Window) Snippet(lines []string, line int) []Line {
	start := max(0, line-w.Before)
	end := min(len(lines), line+w.After)
	if start >= end {
		return nil
	}
	out := make([]Line, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, Line{Number: i + 1, Text: lines[i]})
	}
	return out
}

// lineIndex maps byte offsets to 1-based line numbers.
type lineIndex struct {
	newlines []int
}

func newLineIndex(doc string) *lineIndex {
	idx := &lineIndex{}
	for i := 0; i < len(doc); i++ {
		if doc[i] == '\n' {
			idx.newlines = append(idx.newlines, i)
		}
	}
	return idx
}

// line returns the count of newlines strictly before offset, plus one.
func (idx *lineIndex) line(offset int) int {
	return sort.SearchInts(idx.newlines, offset) + 1
}

// column returns the 1-based byte column of offset.
func (idx *lineIndex) column(offset int) int {
	n := sort.SearchInts(idx.newlines, offset)
	if n == 0 {
		return offset + 1
	}
	return offset - idx.newlines[n-1]
}

// LineOf returns the 1-based line number of the byte at offset in doc.
func LineOf(doc string, offset int) int {
	return strings.Count(doc[:offset], "\n") + 1
}

func splitLines(doc string) []string {
	return strings.Split(doc, "\n")
}

package tagcheck

import (
	"fmt"
	"regexp"
	"strings"
)

// Finding is a location reported by a Finder.
type Finding struct {
	Offset  int    `json:"offset"`
	Line    int    `json:"line"`
	Snippet []Line `json:"snippet"`
}

// Finder searches a document for a structural pattern.
type Finder interface {
	// Find returns every location where the pattern occurs, in document order.
	Find(doc string) []Finding
}

// FinderFunc adapts a function to the Finder interface.
type FinderFunc func(doc string) []Finding

// Find implements the Finder interface.
func (f FinderFunc) Find(doc string) []Finding { return f(doc) }

// PatternFinder reports matches of a regular expression with a window of
// surrounding lines.
type PatternFinder struct {
	Pattern *regexp.Regexp
	Window  Window
}

// Find implements the Finder interface.
func (f *PatternFinder) Find(doc string) []Finding {
	var out []Finding
	var lines []string
	for _, loc := range f.Pattern.FindAllStringIndex(doc, -1) {
		if lines == nil {
			lines = splitLines(doc)
		}
		line := LineOf(doc, loc[0])
		out = append(out, Finding{
			Offset:  loc[0],
			Line:    line,
			Snippet: f.Window.Snippet(lines, line),
		})
	}
	return out
}

// NewAdjacentCloseFinder finds a closing tag of first followed, with only
// whitespace between, by a closing tag of second.
func NewAdjacentCloseFinder(first, second string) (*PatternFinder, error) {
	if first == "" || second == "" {
		return nil, fmt.Errorf("adjacent close finder needs two tag names, got %q and %q", first, second)
	}
	pattern := `</` + regexp.QuoteMeta(first) + `>\s*</` + regexp.QuoteMeta(second) + `>`
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern for %s/%s: %w", first, second, err)
	}
	return &PatternFinder{Pattern: re, Window: DefaultFindingWindow}, nil
}

// DefaultLineSuffixes is the closing sequence searched for by default.
var DefaultLineSuffixes = []string{"</button>", "</div>", "</select>"}

// LineSequenceFinder reports runs of consecutive lines whose trimmed text
// ends with each suffix in turn.
type LineSequenceFinder struct {
	Suffixes []string
}

// NewLineSequenceFinder creates a LineSequenceFinder for the given suffixes.
func NewLineSequenceFinder(suffixes ...string) (*LineSequenceFinder, error) {
	if len(suffixes) == 0 {
		return nil, fmt.Errorf("line sequence finder needs at least one suffix")
	}
	return &LineSequenceFinder{Suffixes: suffixes}, nil
}

// Find implements the Finder interface. The snippet holds the matched lines
// with trailing whitespace removed.
func (f *LineSequenceFinder) Find(doc string) []Finding {
	lines := splitLines(doc)
	n := len(f.Suffixes)
	offset := 0
	var out []Finding
	for i := 0; i+n <= len(lines); i++ {
		if f.matchAt(lines, i) {
			snippet := make([]Line, n)
			for j := range n {
				snippet[j] = Line{Number: i + j + 1, Text: strings.TrimRight(lines[i+j], " \t\r\n")}
			}
			out = append(out, Finding{Offset: offset, Line: i + 1, Snippet: snippet})
		}
		offset += len(lines[i]) + 1
	}
	return out
}

func (f *LineSequenceFinder) matchAt(lines []string, i int) bool {
	for j, suffix := range f.Suffixes {
		if !strings.HasSuffix(strings.TrimSpace(lines[i+j]), suffix) {
			return false
		}
	}
	return true
}

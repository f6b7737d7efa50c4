package tagcheck

import (
	"fmt"
	"strings"
)

// Position represents a position in the document.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
}

// String returns a string representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// Line is a numbered source line used in diagnostic snippets.
type Line struct {
	Number int    `json:"number"` // 1-based
	Text   string `json:"text"`
}

// ParseError is the base error type for all structural diagnostics.
type ParseError struct {
	Pos     Position // Position where the error occurred
	Message string   // Error message
	Context string   // Surrounding content for context
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s at %s\nContext: %s", e.Message, e.Pos, e.Context)
	}
	return fmt.Sprintf("%s at %s", e.Message, e.Pos)
}

// UnexpectedCloseError is reported when a closing tag is found while no tag
// is open.
type UnexpectedCloseError struct {
	ParseError
	TagName string // Name of the stray closing tag
}

// Error implements the error interface.
func (e *UnexpectedCloseError) Error() string {
	return fmt.Sprintf("unexpected closing tag </%s> at %s (stack empty)", e.TagName, e.Pos)
}

// MismatchError is reported when a closing tag does not match the innermost
// open tag.
type MismatchError struct {
	ParseError
	Expected OpenTag // Innermost open tag at the time of the close
	Found    string  // Name of the closing tag actually found
	Snippet  []Line
}

// Error implements the error interface.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("expected closing tag for <%s> (opened at line %d), but found </%s> at %s\nContext: %s",
		e.Expected.Name, e.Expected.Line, e.Found, e.Pos, e.Context)
}

// UnclosedTagsError is reported when tags remain open at the end of the
// region. Tags are listed in the order they were opened.
type UnclosedTagsError struct {
	ParseError
	Tags    []OpenTag
	Snippet []Line
}

// Innermost returns the most recently opened tag that was never closed.
func (e *UnclosedTagsError) Innermost() OpenTag {
	return e.Tags[len(e.Tags)-1]
}

// Error implements the error interface.
func (e *UnclosedTagsError) Error() string {
	names := make([]string, len(e.Tags))
	for i, t := range e.Tags {
		names[i] = t.String()
	}
	return fmt.Sprintf("unclosed tags remaining: [%s]\nContext: %s",
		strings.Join(names, ", "), e.Context)
}

// NewUnexpectedCloseError creates a new UnexpectedCloseError.
func NewUnexpectedCloseError(pos Position, tagName string) *UnexpectedCloseError {
	return &UnexpectedCloseError{
		ParseError: ParseError{
			Pos:     pos,
			Message: "closing tag has no matching opening tag",
		},
		TagName: tagName,
	}
}

// NewMismatchError creates a new MismatchError. The snippet is taken from
// lines using the given window around pos.Line.
func NewMismatchError(pos Position, expected OpenTag, found string, lines []string, w Window) *MismatchError {
	snippet := w.Snippet(lines, pos.Line)
	return &MismatchError{
		ParseError: ParseError{
			Pos:     pos,
			Message: "closing tag does not match innermost open tag",
			Context: formatContext(snippet, pos.Line),
		},
		Expected: expected,
		Found:    found,
		Snippet:  snippet,
	}
}

// NewUnclosedTagsError creates a new UnclosedTagsError. The snippet is taken
// around the innermost tag.
func NewUnclosedTagsError(tags []OpenTag, lines []string, w Window) *UnclosedTagsError {
	last := tags[len(tags)-1]
	snippet := w.Snippet(lines, last.Line)
	return &UnclosedTagsError{
		ParseError: ParseError{
			Pos:     Position{Line: last.Line, Column: 1},
			Message: "tags left open at end of region",
			Context: formatContext(snippet, last.Line),
		},
		Tags:    tags,
		Snippet: snippet,
	}
}

// formatContext renders a snippet, highlighting the error line.
func formatContext(snippet []Line, errLine int) string {
	if len(snippet) == 0 {
		return ""
	}

	var contextBuilder strings.Builder
	for _, l := range snippet {
		if l.Number == errLine {
			contextBuilder.WriteString(fmt.Sprintf("-> %d: %s\n", l.Number, l.Text))
		} else {
			contextBuilder.WriteString(fmt.Sprintf("   %d: %s\n", l.Number, l.Text))
		}
	}
	return contextBuilder.String()
}

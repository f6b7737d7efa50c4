package tagcheck

import (
	"errors"
	"strings"
	"testing"
)

func Test_ParseError_Should_Include_Context(t *testing.T) {
	err := &ParseError{Pos: Position{Line: 3, Column: 7}, Message: "boom", Context: "   2: a\n"}
	if got := err.Error(); got != "boom at line 3, column 7\nContext:    2: a\n" {
		t.Fatalf("unexpected message: %q", got)
	}

	err.Context = ""
	if got := err.Error(); got != "boom at line 3, column 7" {
		t.Fatalf("unexpected message without context: %q", got)
	}
}

func Test_UnexpectedCloseError_Message(t *testing.T) {
	err := NewUnexpectedCloseError(Position{Line: 4, Column: 1}, "span")
	want := "unexpected closing tag </span> at line 4, column 1 (stack empty)"
	if err.Error() != want {
		t.Fatalf("want %q, got %q", want, err.Error())
	}
}

func Test_MismatchError_Should_Highlight_Error_Line(t *testing.T) {
	lines := []string{"one", "two", "three", "four", "five", "six", "seven", "eight"}
	err := NewMismatchError(Position{Line: 6, Column: 2}, OpenTag{Name: "ul", Line: 2}, "ol", lines, DefaultMismatchWindow)

	if len(err.Snippet) != 7 || err.Snippet[0].Number != 2 || err.Snippet[6].Number != 8 {
		t.Fatalf("unexpected snippet: %+v", err.Snippet)
	}
	if !strings.Contains(err.Context, "-> 6: six\n") {
		t.Errorf("error line not highlighted:\n%s", err.Context)
	}
	if !strings.Contains(err.Context, "   5: five\n") {
		t.Errorf("neighbour line missing:\n%s", err.Context)
	}
	if !strings.HasPrefix(err.Error(), "expected closing tag for <ul> (opened at line 2), but found </ol> at line 6, column 2") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func Test_UnclosedTagsError_Should_Be_Matchable(t *testing.T) {
	var err error = NewUnclosedTagsError([]OpenTag{{Name: "a", Line: 1}, {Name: "b", Line: 2}}, []string{"<a>", "<b>"}, DefaultUnclosedWindow)

	var ue *UnclosedTagsError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UnclosedTagsError, got %T", err)
	}
	if ue.Pos.Line != 2 || ue.Innermost().Name != "b" {
		t.Errorf("unexpected innermost: %+v", ue.Innermost())
	}
	if len(ue.Snippet) != 2 {
		t.Errorf("snippet should be clamped to the document, got %+v", ue.Snippet)
	}
}

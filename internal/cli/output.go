package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/grahms/tagcheck"
	"github.com/grahms/tagcheck/internal/cli/config"
)

// Renderer writes diagnostics as text or JSON.
type Renderer struct {
	w      io.Writer
	format string

	errc  *color.Color
	okc   *color.Color
	mutec *color.Color
	linec *color.Color
}

// NewRenderer creates a renderer. Colour is used only for text output to a
// terminal, and never when noColor is set.
func NewRenderer(w io.Writer, format string, noColor bool) *Renderer {
	r := &Renderer{
		w:      w,
		format: format,
		errc:   color.New(color.FgRed, color.Bold),
		okc:    color.New(color.FgGreen),
		mutec:  color.New(color.FgHiBlack),
		linec:  color.New(color.FgYellow),
	}
	enable := !noColor && format == config.OutputText && isTerminal(w)
	for _, c := range []*color.Color{r.errc, r.okc, r.mutec, r.linec} {
		if enable {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

func isTerminal(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (r *Renderer) printf(format string, args ...any) {
	fmt.Fprintf(r.w, format, args...)
}

func (r *Renderer) snippet(lines []tagcheck.Line, highlight int) {
	for _, l := range lines {
		num := r.mutec.Sprintf("%d:", l.Number)
		if l.Number == highlight {
			num = r.linec.Sprintf("%d:", l.Number)
		}
		r.printf("%s %s\n", num, l.Text)
	}
}

// diagnosticJSON is the JSON form of one structural error.
type diagnosticJSON struct {
	Kind     string             `json:"kind"`
	Line     int                `json:"line"`
	Column   int                `json:"column"`
	Tag      string             `json:"tag,omitempty"`
	Expected *tagcheck.OpenTag  `json:"expected,omitempty"`
	Unclosed []tagcheck.OpenTag `json:"unclosed,omitempty"`
	Message  string             `json:"message"`
	Snippet  []tagcheck.Line    `json:"snippet,omitempty"`
}

type balanceJSON struct {
	File string `json:"file"`
	*tagcheck.Result
	Diagnostics []diagnosticJSON `json:"diagnostics"`
}

type findingsJSON struct {
	File     string             `json:"file"`
	Search   string             `json:"search"`
	Findings []tagcheck.Finding `json:"findings"`
}

func (r *Renderer) json(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Balance renders the result of a balance check.
func (r *Renderer) Balance(path string, res *tagcheck.Result, markers tagcheck.RegionMarkers) error {
	if r.format == config.OutputJSON {
		out := balanceJSON{File: path, Result: res, Diagnostics: []diagnosticJSON{}}
		for _, err := range res.Errors {
			out.Diagnostics = append(out.Diagnostics, toDiagnostic(err))
		}
		return r.json(out)
	}

	switch res.Outcome {
	case tagcheck.NoRegion:
		r.printf("No region found in %s (start marker %q)\n", path, markers.Start)
		return nil
	case tagcheck.Balanced:
		r.printf("%s %s: %d tags checked\n", r.okc.Sprint("Balanced"), path, res.Tokens)
		return nil
	}

	for _, err := range res.Errors {
		r.renderError(err)
	}
	return nil
}

func (r *Renderer) renderError(err error) {
	var (
		uc *tagcheck.UnexpectedCloseError
		mm *tagcheck.MismatchError
		ue *tagcheck.UnclosedTagsError
	)
	switch {
	case errors.As(err, &uc):
		r.printf("%s Unexpected closing tag </%s> (Stack empty)\n",
			r.errc.Sprintf("Error at line %d:", uc.Pos.Line), uc.TagName)
	case errors.As(err, &mm):
		r.printf("%s Expected closing tag for <%s> (opened at %d), but found </%s>\n",
			r.errc.Sprintf("Error at line %d:", mm.Pos.Line), mm.Expected.Name, mm.Expected.Line, mm.Found)
		r.printf("Snippet around error:\n")
		r.snippet(mm.Snippet, mm.Pos.Line)
	case errors.As(err, &ue):
		names := make([]string, len(ue.Tags))
		for i, t := range ue.Tags {
			names[i] = t.String()
		}
		r.printf("%s Unclosed tags remaining: [%s]\n", r.errc.Sprint("Error:"), strings.Join(names, ", "))
		last := ue.Innermost()
		r.printf("Snippet around unclosed <%s>:\n", last.Name)
		r.snippet(ue.Snippet, last.Line)
	default:
		r.printf("%s %v\n", r.errc.Sprint("Error:"), err)
	}
}

func toDiagnostic(err error) diagnosticJSON {
	var (
		uc *tagcheck.UnexpectedCloseError
		mm *tagcheck.MismatchError
		ue *tagcheck.UnclosedTagsError
	)
	switch {
	case errors.As(err, &uc):
		return diagnosticJSON{
			Kind:    tagcheck.StackEmptyOnClose.String(),
			Line:    uc.Pos.Line,
			Column:  uc.Pos.Column,
			Tag:     uc.TagName,
			Message: uc.Message,
		}
	case errors.As(err, &mm):
		expected := mm.Expected
		return diagnosticJSON{
			Kind:     tagcheck.Mismatch.String(),
			Line:     mm.Pos.Line,
			Column:   mm.Pos.Column,
			Tag:      mm.Found,
			Expected: &expected,
			Message:  mm.Message,
			Snippet:  mm.Snippet,
		}
	case errors.As(err, &ue):
		return diagnosticJSON{
			Kind:     tagcheck.Unclosed.String(),
			Line:     ue.Pos.Line,
			Column:   ue.Pos.Column,
			Tag:      ue.Innermost().Name,
			Unclosed: ue.Tags,
			Message:  ue.Message,
			Snippet:  ue.Snippet,
		}
	}
	return diagnosticJSON{Kind: "error", Message: err.Error()}
}

// Findings renders the result of a pattern search.
func (r *Renderer) Findings(path, search string, findings []tagcheck.Finding) error {
	if r.format == config.OutputJSON {
		if findings == nil {
			findings = []tagcheck.Finding{}
		}
		return r.json(findingsJSON{File: path, Search: search, Findings: findings})
	}

	if len(findings) == 0 {
		r.printf("No match found for %s\n", search)
		return nil
	}
	for _, f := range findings {
		r.printf("%s (offset %d):\n", r.linec.Sprintf("Found match at line %d", f.Line), f.Offset)
		r.snippet(f.Snippet, -1)
	}
	return nil
}

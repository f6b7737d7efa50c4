package tagcheck

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
)

// Validator checks tag nesting inside an embedded region of a document.
// It holds configuration only and may be shared between goroutines.
type Validator struct {
	markers        RegionMarkers
	void           map[string]struct{}
	tokenizer      Tokenizer
	policy         ErrorPolicy
	mismatchWindow Window
	unclosedWindow Window
	logger         *slog.Logger
}

func NewValidator(opts ...func(*Validator)) *Validator {
	v := &Validator{
		markers:        DefaultRegionMarkers,
		tokenizer:      RegexTokenizer{},
		policy:         HaltOnFirst,
		mismatchWindow: DefaultMismatchWindow,
		unclosedWindow: DefaultUnclosedWindow,
		logger:         slog.New(slog.DiscardHandler),
	}
	WithVoidElements(DefaultVoidElements...)(v)
	for _, o := range opts {
		o(v)
	}
	return v
}

func WithRegionMarkers(m RegionMarkers) func(*Validator) {
	return func(v *Validator) { v.markers = m }
}

// WithVoidElements replaces the set of tag names that never push or pop.
func WithVoidElements(names ...string) func(*Validator) {
	return func(v *Validator) {
		v.void = make(map[string]struct{}, len(names))
		for _, n := range names {
			v.void[n] = struct{}{}
		}
	}
}

func WithTokenizer(t Tokenizer) func(*Validator) {
	return func(v *Validator) { v.tokenizer = t }
}

func WithErrorPolicy(p ErrorPolicy) func(*Validator) {
	return func(v *Validator) { v.policy = p }
}

func WithContextWindows(mismatch, unclosed Window) func(*Validator) {
	return func(v *Validator) {
		v.mismatchWindow = mismatch
		v.unclosedWindow = unclosed
	}
}

func WithLogger(l *slog.Logger) func(*Validator) {
	return func(v *Validator) {
		if l != nil {
			v.logger = l
		}
	}
}

// Result is the outcome of one validation pass.
type Result struct {
	Outcome  Outcome   `json:"outcome"`
	Region   Region    `json:"region"`
	Tokens   int       `json:"tokens"` // tokens consumed before the pass ended
	Unclosed []OpenTag `json:"unclosed,omitempty"`
	Errors   []error   `json:"-"`
}

// Balanced reports whether the region was found and is well nested.
func (r *Result) Balanced() bool {
	return r.Outcome == Balanced
}

// Err returns the first structural error, or nil.
func (r *Result) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return r.Errors[0]
}

// ValidateFile reads path fully and validates its content.
func (v *Validator) ValidateFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return v.ValidateReader(f)
}

// ValidateReader reads r fully and validates its content.
func (v *Validator) ValidateReader(r io.Reader) (*Result, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return v.Validate(string(b))
}

// Validate scans the embedded region of doc. Structural problems are
// reported in the Result; the returned error is only set when the tokenizer
// itself fails.
func (v *Validator) Validate(doc string) (*Result, error) {
	res := &Result{Region: FindRegion(doc, v.markers)}
	if !res.Region.Found {
		v.logger.Debug("region not found", "start_marker", v.markers.Start, "end_marker", v.markers.End)
		res.Outcome = NoRegion
		return res, nil
	}

	toks, err := v.tokenizer.Tokenize(res.Region.Text(doc))
	if err != nil {
		return nil, err
	}
	v.logger.Debug("tokenized region",
		"tokenizer", v.tokenizer.Name(),
		"start", res.Region.Start,
		"end", res.Region.End,
		"tokens", len(toks))

	idx := newLineIndex(doc)
	var lines []string
	getLines := func() []string {
		if lines == nil {
			lines = splitLines(doc)
		}
		return lines
	}

	var stack []OpenTag
	for _, tok := range toks {
		res.Tokens++
		tok.Offset += res.Region.Start
		tok.Line = idx.line(tok.Offset)
		pos := Position{Line: tok.Line, Column: idx.column(tok.Offset)}

		if _, ok := v.void[tok.Name]; ok {
			continue
		}
		if tok.SelfClosing {
			continue
		}
		if !tok.Closing {
			stack = append(stack, OpenTag{Name: tok.Name, Line: tok.Line})
			continue
		}

		if len(stack) == 0 {
			v.record(res, StackEmptyOnClose, NewUnexpectedCloseError(pos, tok.Name))
			if v.policy == HaltOnFirst {
				return res, nil
			}
			continue
		}

		top := stack[len(stack)-1]
		if top.Name == tok.Name {
			stack = stack[:len(stack)-1]
			continue
		}
		v.record(res, Mismatch, NewMismatchError(pos, top, tok.Name, getLines(), v.mismatchWindow))
		if v.policy == HaltOnFirst {
			return res, nil
		}
		stack = unwind(stack, tok.Name)
	}

	if len(stack) > 0 {
		res.Unclosed = slices.Clone(stack)
		v.record(res, Unclosed, NewUnclosedTagsError(res.Unclosed, getLines(), v.unclosedWindow))
	}
	return res, nil
}

// record appends err; the outcome reflects the first error of the pass.
func (v *Validator) record(res *Result, o Outcome, err error) {
	if len(res.Errors) == 0 {
		res.Outcome = o
	}
	res.Errors = append(res.Errors, err)
	v.logger.Debug("structural error", "outcome", o, "error", firstLine(err))
}

// unwind pops the stack down to and including the innermost entry named
// name. If no such entry exists the stack is left unchanged and the close
// is treated as stray.
func unwind(stack []OpenTag, name string) []OpenTag {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].Name == name {
			return stack[:i]
		}
	}
	return stack
}

func firstLine(err error) string {
	msg, _, _ := strings.Cut(err.Error(), "\n")
	return msg
}

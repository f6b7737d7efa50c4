package tagcheck

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// Token is a tag-like construct found in the region.
type Token struct {
	Name        string `json:"name"`
	Closing     bool   `json:"closing"`
	SelfClosing bool   `json:"self_closing"`
	Offset      int    `json:"offset"` // absolute byte offset in the document
	Line        int    `json:"line"`   // 1-based
}

// OpenTag is an entry of the open-tag stack.
type OpenTag struct {
	Name string `json:"name"`
	Line int    `json:"line"`
}

// String renders the entry as ("name", line).
func (t OpenTag) String() string {
	return fmt.Sprintf("(%q, %d)", t.Name, t.Line)
}

// Tokenizer splits region text into tokens. Offsets in the returned tokens
// are relative to the region; Line is left for the caller to fill.
type Tokenizer interface {
	Name() string
	Tokenize(region string) ([]Token, error)
}

var (
	// Opening bracket, optional slash, identifier, attributes up to the first
	// '>', optional trailing slash. Not grammar aware: a '>' inside a quoted
	// attribute value ends the tag early.
	tagRe = regexp.MustCompile(`<(/?)(\w+)((?s:.*?))(/?)>`)
)

// RegexTokenizer recognizes tags with a single regular expression.
type RegexTokenizer struct{}

// Name implements Tokenizer.
func (RegexTokenizer) Name() string { return "regex" }

// Tokenize implements Tokenizer.
func (RegexTokenizer) Tokenize(region string) ([]Token, error) {
	var out []Token
	for _, m := range tagRe.FindAllStringSubmatchIndex(region, -1) {
		attrs := region[m[6]:m[7]]
		out = append(out, Token{
			Name:        region[m[4]:m[5]],
			Closing:     m[3] > m[2],
			SelfClosing: m[9] > m[8] || strings.HasSuffix(strings.TrimSpace(attrs), "/"),
			Offset:      m[0],
		})
	}
	return out, nil
}

// HTMLTokenizer uses the HTML5 tokenizer. Quoted attribute values and
// comments are handled, and tag names are lower-cased.
type HTMLTokenizer struct{}

// Name implements Tokenizer.
func (HTMLTokenizer) Name() string { return "html" }

// Tokenize implements Tokenizer.
func (HTMLTokenizer) Tokenize(region string) ([]Token, error) {
	var out []Token
	z := html.NewTokenizer(strings.NewReader(region))
	offset := 0
	for {
		tt := z.Next()
		start := offset
		offset += len(z.Raw())
		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return out, nil
			}
			return out, fmt.Errorf("html tokenizer at offset %d: %w", start, z.Err())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			out = append(out, Token{
				Name:        string(name),
				Closing:     tt == html.EndTagToken,
				SelfClosing: tt == html.SelfClosingTagToken,
				Offset:      start,
			})
		}
	}
}

// Registry holds tokenizers by name.
type Registry struct {
	byName map[string]Tokenizer
}

// NewRegistry returns a registry with the regex and html tokenizers.
func NewRegistry() *Registry {
	r := &Registry{byName: map[string]Tokenizer{}}
	r.Register(RegexTokenizer{})
	r.Register(HTMLTokenizer{})
	return r
}

// Register adds or replaces a tokenizer.
func (r *Registry) Register(t Tokenizer) {
	r.byName[strings.ToLower(t.Name())] = t
}

// Get looks a tokenizer up by case-insensitive name.
func (r *Registry) Get(name string) (Tokenizer, error) {
	t, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown tokenizer %q (available: %s)", name, strings.Join(r.Names(), ", "))
	}
	return t, nil
}

// Names returns the registered tokenizer names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

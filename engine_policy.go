package tagcheck

import (
	"fmt"
	"strings"
)

type ErrorPolicy int

const (
	HaltOnFirst ErrorPolicy = iota // stop at the first structural error
	CollectAll                     // record every error and keep scanning
)

func (p ErrorPolicy) String() string {
	if p == CollectAll {
		return "collect"
	}
	return "halt"
}

// ParseErrorPolicy accepts "halt" or "collect".
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "halt":
		return HaltOnFirst, nil
	case "collect", "collect-all":
		return CollectAll, nil
	}
	return HaltOnFirst, fmt.Errorf("unknown error policy %q", s)
}

// Outcome classifies the result of one validation pass.
type Outcome int

const (
	Balanced Outcome = iota
	NoRegion
	StackEmptyOnClose
	Mismatch
	Unclosed
)

func (o Outcome) String() string {
	switch o {
	case Balanced:
		return "balanced"
	case NoRegion:
		return "no-region"
	case StackEmptyOnClose:
		return "stack-empty-on-close"
	case Mismatch:
		return "mismatch"
	case Unclosed:
		return "unclosed"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// MarshalText renders the outcome name in JSON output.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// DefaultVoidElements never require a closing tag.
var DefaultVoidElements = []string{"br", "img", "input", "hr", "meta", "link"}

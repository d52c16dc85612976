package extract

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrorKind classifies an extraction failure.
type ErrorKind int

const (
	// KindStructural means the markup is missing an expected node or holds
	// text that cannot be decomposed (too many array dimensions, nested
	// containers, unparsable types).
	KindStructural ErrorKind = iota + 1
	// KindRuleViolation means a numbered attribute or uniqueness rule failed.
	KindRuleViolation
	// KindCrossReference means documented prose names a parameter, field or
	// constant that the declaration itself does not have.
	KindCrossReference
)

// String returns the kind name used in diagnostics.
func (k ErrorKind) String() string {
	switch k {
	case KindStructural:
		return "structural"
	case KindRuleViolation:
		return "rule violation"
	case KindCrossReference:
		return "cross-reference"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name in YAML and JSON output.
func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind name written by MarshalText.
func (k *ErrorKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "structural":
		*k = KindStructural
	case "rule violation":
		*k = KindRuleViolation
	case "cross-reference":
		*k = KindCrossReference
	default:
		return errors.Newf("unknown error kind %q", string(b))
	}
	return nil
}

// Error is the failure of a single declaration. Rule is zero unless Kind is
// KindRuleViolation.
type Error struct {
	Kind        ErrorKind `yaml:"kind" json:"kind"`
	Rule        RuleID    `yaml:"rule,omitempty" json:"rule,omitempty"`
	Message     string    `yaml:"message" json:"message"`
	Declaration string    `yaml:"declaration,omitempty" json:"declaration,omitempty"`
	Signature   string    `yaml:"signature,omitempty" json:"signature,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	if e.Rule != 0 {
		fmt.Fprintf(&sb, "rule %d: ", e.Rule)
	} else {
		fmt.Fprintf(&sb, "%s error: ", e.Kind)
	}
	if e.Declaration != "" {
		fmt.Fprintf(&sb, "%s: ", e.Declaration)
	}
	sb.WriteString(e.Message)
	if e.Signature != "" {
		fmt.Fprintf(&sb, " (in `%s`)", e.Signature)
	}
	return sb.String()
}

// AsError returns the *Error carried anywhere in err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func structuralf(format string, args ...any) *Error {
	return &Error{Kind: KindStructural, Message: fmt.Sprintf(format, args...)}
}

func crossReferencef(format string, args ...any) *Error {
	return &Error{Kind: KindCrossReference, Message: fmt.Sprintf(format, args...)}
}

func violationf(rule RuleID, format string, args ...any) *Error {
	return &Error{Kind: KindRuleViolation, Rule: rule, Message: fmt.Sprintf(format, args...)}
}

// annotate attaches the declaration name and signature to an extraction
// error. Errors that are not *Error are wrapped as structural.
func annotate(err error, name, signature string) *Error {
	e, ok := AsError(err)
	if !ok {
		e = &Error{Kind: KindStructural, Message: err.Error()}
	}
	if e.Declaration == "" {
		e.Declaration = name
	}
	if e.Signature == "" {
		e.Signature = signature
	}
	return e
}

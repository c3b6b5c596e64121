package pcfg

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrEmptySentence is returned when a sentence has no tokens
	ErrEmptySentence = errors.New("empty sentence")

	// ErrGrammarFrozen is returned when a rule is added after Normalize
	ErrGrammarFrozen = errors.New("grammar already normalized")

	// ErrUnnormalized is the panic value raised when an unnormalized grammar is
	// queried or parsed with
	ErrUnnormalized = errors.New("grammar used before Normalize")
)

// MalformedRuleError reports a training record that can not become a rule.
// Line is 1-based, or 0 when the rule did not come from a file
type MalformedRuleError struct {
	Line   int
	Fields []string
	Reason string
}

func (e *MalformedRuleError) Error() string {
	record := strings.Join(e.Fields, " ")
	if e.Line > 0 {
		return fmt.Sprintf("malformed rule at line %d %q: %s", e.Line, record, e.Reason)
	}
	return fmt.Sprintf("malformed rule %q: %s", record, e.Reason)
}

// DegenerateGrammarError reports a parent whose rule weights sum to zero
type DegenerateGrammarError struct {
	Parent Label
}

func (e *DegenerateGrammarError) Error() string {
	return fmt.Sprintf("degenerate grammar: rules of %q have zero total weight", string(e.Parent))
}

// malformed creates a MalformedRuleError for fields
func malformed(fields []string, format string, args ...interface{}) *MalformedRuleError {
	return &MalformedRuleError{
		Fields: fields,
		Reason: fmt.Sprintf(format, args...),
	}
}

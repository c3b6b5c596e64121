package pcfg

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Label represents a symbol in the grammar. Terminals (words) and
// non-terminals share the same label space
type Label string

// The default start symbol
const RootLabel = Label("TOP")

// Shape is the number of children of a rule or a chart entry
type Shape uint8

const (
	// Leaf is a literal input token, only chart entries have it
	Leaf Shape = iota

	// Unary is a single child production, like A -> B
	Unary

	// Binary is a two children production, like A -> B C
	Binary
)

func (s Shape) String() string {
	switch s {
	case Leaf:
		return "leaf"
	case Unary:
		return "unary"
	case Binary:
		return "binary"
	}
	return fmt.Sprintf("Shape(%d)", uint8(s))
}

// Rule represents a weighted production. Weight is the raw count while the
// grammar is being built and the probability after normalization
type Rule struct {
	Parent Label
	Left   Label

	// Right is meaningful only when Shape == Binary
	Right Label
	Shape Shape

	Weight float64
}

// NewUnaryRule creates the rule parent -> child with the given count
func NewUnaryRule(parent, child Label, count int) Rule {
	return Rule{Parent: parent, Left: child, Shape: Unary, Weight: float64(count)}
}

// NewBinaryRule creates the rule parent -> left right with the given count
func NewBinaryRule(parent, left, right Label, count int) Rule {
	return Rule{Parent: parent, Left: left, Right: right, Shape: Binary, Weight: float64(count)}
}

// IsUnary returns true if it's a unary rule, like A -> B
func (r *Rule) IsUnary() bool {
	return r.Shape == Unary
}

// IsBinary returns true if it's a binary rule, like A -> B C
func (r *Rule) IsBinary() bool {
	return r.Shape == Binary
}

// ruleKey identifies a rule regardless of its weight
type ruleKey struct {
	parent, left, right Label
	shape               Shape
}

func (r *Rule) key() ruleKey {
	k := ruleKey{parent: r.Parent, left: r.Left, shape: r.Shape}
	if r.Shape == Binary {
		k.right = r.Right
	}
	return k
}

// validate checks the rule can be added to a grammar that is still counting
func (r *Rule) validate() *MalformedRuleError {
	if r.Shape != Unary && r.Shape != Binary {
		return malformed(r.fields(), "unexpected rule shape %s", r.Shape)
	}
	if r.Parent == "" || r.Left == "" || (r.Shape == Binary && r.Right == "") {
		return malformed(r.fields(), "empty label")
	}
	if r.Weight < 1 || r.Weight != math.Trunc(r.Weight) || math.IsInf(r.Weight, 0) {
		return malformed(r.fields(), "count %g is not a positive integer", r.Weight)
	}
	return nil
}

func (r *Rule) fields() []string {
	fields := []string{strconv.FormatFloat(r.Weight, 'g', -1, 64), string(r.Parent), string(r.Left)}
	if r.Shape == Binary {
		fields = append(fields, string(r.Right))
	}
	return fields
}

// String converts rule to string format
//
//	NP -> DT NN ; 0.250
func (r *Rule) String() string {
	children := string(r.Left)
	if r.Shape == Binary {
		children += " " + string(r.Right)
	}
	return fmt.Sprintf("%s -> %s ; %.3f", string(r.Parent), children, r.Weight)
}

// RuleRecord is one line of a rule-count file:
//
//	count parent reserved left [right]
//
// Reserved is carried through untouched, nothing in the parser reads it
type RuleRecord struct {
	Count    int
	Parent   Label
	Reserved string
	Left     Label
	Right    Label
	Shape    Shape
}

// ParseRuleRecord parses a rule-count line. Fields are separated by single
// spaces, so "3 NP x DT  NN" is malformed. Trailing spaces are ignored
func ParseRuleRecord(line string) (RuleRecord, error) {
	fields := strings.Split(strings.TrimRight(line, " \r\n"), " ")
	if len(fields) != 4 && len(fields) != 5 {
		return RuleRecord{}, malformed(fields, "expected 4 or 5 fields, got %d", len(fields))
	}
	for i, field := range fields {
		if field == "" {
			return RuleRecord{}, malformed(fields, "field %d is empty", i+1)
		}
	}

	count, err := strconv.Atoi(fields[0])
	if err != nil {
		return RuleRecord{}, malformed(fields, "count %q is not an integer", fields[0])
	}
	if count <= 0 {
		return RuleRecord{}, malformed(fields, "count %d is not positive", count)
	}

	record := RuleRecord{
		Count:    count,
		Parent:   Label(fields[1]),
		Reserved: fields[2],
		Left:     Label(fields[3]),
		Shape:    Unary,
	}
	if len(fields) == 5 {
		record.Right = Label(fields[4])
		record.Shape = Binary
	}
	return record, nil
}

// Rule converts the record to a rule weighted by its raw count
func (rec RuleRecord) Rule() Rule {
	if rec.Shape == Binary {
		return NewBinaryRule(rec.Parent, rec.Left, rec.Right, rec.Count)
	}
	return NewUnaryRule(rec.Parent, rec.Left, rec.Count)
}

// String converts the record back to its line format
func (rec RuleRecord) String() string {
	s := fmt.Sprintf("%d %s %s %s", rec.Count, rec.Parent, rec.Reserved, rec.Left)
	if rec.Shape == Binary {
		s += " " + string(rec.Right)
	}
	return s
}

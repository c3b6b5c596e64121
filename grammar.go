package pcfg

import (
	"fmt"
	"io"
)

// Grammar consists a list of PCFG rules and the indices used by the chart
// filler. Rules are counted first, then Normalize turns counts into
// probabilities and freezes the grammar. A normalized grammar is read-only and
// safe to share between goroutines
//
// Every index keeps rules in insertion order, so the parser visits them in the
// same order on every run
type Grammar struct {
	rules []*Rule
	keys  map[ruleKey]*Rule

	// Parents in the order they first appeared
	parents []Label

	byParent map[Label][]*Rule
	byLeft   map[Label][]*Rule
	byRight  map[Label][]*Rule

	// Unary rules indexed by their only child
	unary map[Label][]*Rule

	normalized bool
}

// GrammarStats summarizes the size of a grammar
type GrammarStats struct {
	Rules   int
	Parents int
	Unary   int
	Binary  int
}

// NewGrammar creates an empty grammar ready to count rules
func NewGrammar() *Grammar {
	return &Grammar{
		rules:    []*Rule{},
		keys:     map[ruleKey]*Rule{},
		parents:  []Label{},
		byParent: map[Label][]*Rule{},
		byLeft:   map[Label][]*Rule{},
		byRight:  map[Label][]*Rule{},
		unary:    map[Label][]*Rule{},
	}
}

// AddRule adds a new rule weighted by its raw count. Adding the same
// (parent, children) twice is an error, use Observe to accumulate counts
func (g *Grammar) AddRule(r Rule) error {
	if g.normalized {
		return ErrGrammarFrozen
	}
	if err := r.validate(); err != nil {
		return err
	}
	if _, ok := g.keys[r.key()]; ok {
		return malformed(r.fields(), "duplicate rule %s -> %s", r.Parent, childrenText(&r))
	}
	g.insert(r)
	return nil
}

// Observe adds the count of r to an existing identical rule, or adds r when
// the grammar has not seen it yet
func (g *Grammar) Observe(r Rule) error {
	if g.normalized {
		return ErrGrammarFrozen
	}
	if err := r.validate(); err != nil {
		return err
	}
	if existing, ok := g.keys[r.key()]; ok {
		existing.Weight += r.Weight
		return nil
	}
	g.insert(r)
	return nil
}

// insert stores a copy of r and updates every index
func (g *Grammar) insert(r Rule) {
	rule := &r
	if rule.Shape != Binary {
		rule.Right = ""
	}
	g.rules = append(g.rules, rule)
	g.keys[rule.key()] = rule

	if _, ok := g.byParent[rule.Parent]; !ok {
		g.parents = append(g.parents, rule.Parent)
	}
	g.byParent[rule.Parent] = append(g.byParent[rule.Parent], rule)
	g.byLeft[rule.Left] = append(g.byLeft[rule.Left], rule)

	switch rule.Shape {
	case Binary:
		g.byRight[rule.Right] = append(g.byRight[rule.Right], rule)
	case Unary:
		g.unary[rule.Left] = append(g.unary[rule.Left], rule)
	}
}

// Normalize normalizes the weight of rules, making sure that the sum of weight
// from the same parent is 1.0. The grammar is frozen afterwards; calling
// Normalize again does nothing
func (g *Grammar) Normalize() error {
	if g.normalized {
		return nil
	}

	totals := make(map[Label]float64, len(g.parents))
	for _, parent := range g.parents {
		total := 0.0
		for _, rule := range g.byParent[parent] {
			total += rule.Weight
		}
		if total <= 0 {
			return &DegenerateGrammarError{Parent: parent}
		}
		totals[parent] = total
	}
	for _, rule := range g.rules {
		rule.Weight /= totals[rule.Parent]
	}

	g.normalized = true
	return nil
}

// Normalized reports whether Normalize has run
func (g *Grammar) Normalized() bool {
	return g.normalized
}

// mustBeNormalized panics when the grammar is still counting
func (g *Grammar) mustBeNormalized() {
	assert(g.normalized, ErrUnnormalized)
}

// RulesByParent returns the rules rewriting parent
func (g *Grammar) RulesByParent(parent Label) []Rule {
	g.mustBeNormalized()
	return copyRules(g.byParent[parent])
}

// RulesByLeft returns the rules with label as their first child. It includes
// unary rules
func (g *Grammar) RulesByLeft(label Label) []Rule {
	g.mustBeNormalized()
	return copyRules(g.byLeft[label])
}

// RulesByRight returns the binary rules with label as their second child
func (g *Grammar) RulesByRight(label Label) []Rule {
	g.mustBeNormalized()
	return copyRules(g.byRight[label])
}

// UnaryRulesFor returns the unary rules parent -> child
func (g *Grammar) UnaryRulesFor(child Label) []Rule {
	g.mustBeNormalized()
	return copyRules(g.unary[child])
}

// Rules returns all rules in insertion order
func (g *Grammar) Rules() []Rule {
	return copyRules(g.rules)
}

// copyRules returns rules by value. The grammar is shared by the parsing
// goroutines, so callers never get a pointer into it
func copyRules(rules []*Rule) []Rule {
	copied := make([]Rule, len(rules))
	for i, rule := range rules {
		copied[i] = *rule
	}
	return copied
}

// Parents returns every label that has at least one rule
func (g *Grammar) Parents() []Label {
	return append([]Label(nil), g.parents...)
}

// Stats counts the rules of the grammar
func (g *Grammar) Stats() GrammarStats {
	stats := GrammarStats{Rules: len(g.rules), Parents: len(g.parents)}
	for _, rule := range g.rules {
		if rule.IsBinary() {
			stats.Binary++
		} else {
			stats.Unary++
		}
	}
	return stats
}

// Print writes the grammar grouped by parent
func (g *Grammar) Print(w io.Writer) error {
	for _, parent := range g.parents {
		for _, rule := range g.byParent[parent] {
			if _, err := fmt.Fprintln(w, rule.String()); err != nil {
				return err
			}
		}
	}
	return nil
}

func childrenText(r *Rule) string {
	if r.Shape == Binary {
		return string(r.Left) + " " + string(r.Right)
	}
	return string(r.Left)
}

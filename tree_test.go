package pcfg

import (
	"strings"
	"testing"
)

func TestCollapseUnary(t *testing.T) {
	// TestCase-1: a unary chain over a binary node
	g := mustGrammar(t,
		"1 TOP x S",
		"1 S x A B",
		"1 A x a",
		"1 B x b",
	)
	tokens := Tokens([]string{"a", "b"})

	r := NewParser(g).Parse(tokens)
	expected := "(S (A a)(B b))"
	if r.String() != expected {
		t.Fatalf("'%s' != '%s'", r.String(), expected)
	}
	r = NewParser(g, WithRenderStyle(KeepUnary)).Parse(tokens)
	expected = "(TOP (S (A a)(B b)))"
	if r.String() != expected {
		t.Fatalf("'%s' != '%s'", r.String(), expected)
	}

	// TestCase-2: a unary chain ending in a token keeps its lowest label
	g = mustGrammar(t,
		"1 TOP x NP",
		"1 NP x N",
		"1 N x dog",
	)
	tokens = Tokens([]string{"dog"})

	r = NewParser(g).Parse(tokens)
	expected = "(N dog)"
	if r.String() != expected {
		t.Fatalf("'%s' != '%s'", r.String(), expected)
	}
	r = NewParser(g, WithRenderStyle(KeepUnary)).Parse(tokens)
	expected = "(TOP (NP (N dog)))"
	if r.String() != expected {
		t.Fatalf("'%s' != '%s'", r.String(), expected)
	}

	// TestCase-3: the cycle X -> Y -> X is never rendered
	g = mustGrammar(t,
		"1 X x Y",
		"1 X x a",
		"1 Y x X",
		"1 TOP x X",
	)
	tokens = Tokens([]string{"a"})
	if r = NewParser(g).Parse(tokens); r.String() != "(X a)" {
		t.Fatalf("'%s' != '(X a)'", r.String())
	}
	r = NewParser(g, WithRenderStyle(KeepUnary)).Parse(tokens)
	if r.String() != "(TOP (X a))" {
		t.Fatalf("'%s' != '(TOP (X a))'", r.String())
	}
}

func TestBracketedTokens(t *testing.T) {
	// A token directly under a binary node is separated by a space
	g := mustGrammar(t,
		"1 S x NP VP",
		"1 NP x the dog",
		"1 VP x barks",
	)
	r := NewParser(g, WithRoot("S")).Parse(Tokens([]string{"the", "dog", "barks"}))
	expected := "(S (NP the dog)(VP barks))"
	if r.String() != expected {
		t.Fatalf("'%s' != '%s'", r.String(), expected)
	}

	tree, err := NewParser(g, WithRoot("S")).ParseTree(Tokens([]string{"the", "dog", "barks"}))
	if err != nil {
		t.Fatal(err)
	}
	if tree.Bracketed() != expected {
		t.Fatalf("'%s' != '%s'", tree.Bracketed(), expected)
	}
	if len(tree.Children) != 2 || tree.Children[0].Symbol != "NP" || !tree.Children[0].Children[0].IsLeaf() {
		t.Fatalf("unexpected tree %s", tree)
	}

	var empty *Tree
	if empty.Bracketed() != "" {
		t.Fatal("nil tree must render empty")
	}
}

func TestPretty(t *testing.T) {
	g := mustGrammar(t, abCounts...)
	r := NewParser(g, WithRoot("S")).Parse(Tokens([]string{"a", "b"}))
	pretty := r.Pretty()
	if !strings.HasPrefix(pretty, "(S") || !strings.Contains(pretty, "\n  (A") {
		t.Fatalf("unexpected tree:\n%s", pretty)
	}

	r = NewParser(g, WithRoot("S")).Parse(Tokens([]string{"b"}))
	if r.Pretty() != "" {
		t.Fatalf("'%s' != ''", r.Pretty())
	}
}

func TestExtractMissingRoot(t *testing.T) {
	g := mustGrammar(t, abCounts...)
	chart, err := Fill(g, Tokens([]string{"a", "b"}))
	if err != nil {
		t.Fatal(err)
	}
	if tree := Extract(chart, "TOP", CollapseUnary); tree != nil {
		t.Fatalf("nil expected, got %s", tree)
	}
	if tree := Extract(chart, "S", CollapseUnary); tree == nil {
		t.Fatal("tree expected")
	}
}

func TestDebinarize(t *testing.T) {
	// TestCase-1: a binarized VP is spliced into S
	g := mustGrammar(t,
		"1 TOP x S",
		"1 S x NP VP_PP",
		"1 VP_PP x VP PP",
		"1 NP x n",
		"1 VP x v",
		"1 PP x p",
	)
	tokens := Tokens([]string{"n", "v", "p"})

	r := NewParser(g).Parse(tokens)
	expected := "(S (NP n)(VP_PP (VP v)(PP p)))"
	if r.String() != expected {
		t.Fatalf("'%s' != '%s'", r.String(), expected)
	}
	r = NewParser(g, WithDebinarize(true)).Parse(tokens)
	expected = "(S (NP n)(VP v)(PP p))"
	if r.String() != expected {
		t.Fatalf("'%s' != '%s'", r.String(), expected)
	}
	r = NewParser(g, WithDebinarize(true), WithRenderStyle(KeepUnary)).Parse(tokens)
	expected = "(TOP (S (NP n)(VP v)(PP p)))"
	if r.String() != expected {
		t.Fatalf("'%s' != '%s'", r.String(), expected)
	}

	// TestCase-2: nested binarization and "^" markers
	g = mustGrammar(t,
		"1 X^ x A B_C",
		"1 B_C x B C_D",
		"1 C_D x C D",
		"1 A x a",
		"1 B x b",
		"1 C x c",
		"1 D^ x d",
	)
	r = NewParser(g, WithRoot("X^"), WithDebinarize(true)).Parse(Tokens([]string{"a", "b", "c", "d"}))
	expected = "(X (A a)(B b)(C c)(D d))"
	if r.String() != expected {
		t.Fatalf("'%s' != '%s'", r.String(), expected)
	}

	// TestCase-3: tokens with "_" are kept
	g = mustGrammar(t,
		"1 TOP x N",
		"1 N x new_york",
	)
	r = NewParser(g, WithDebinarize(true)).Parse(Tokens([]string{"new_york"}))
	if r.String() != "(N new_york)" {
		t.Fatalf("'%s' != '(N new_york)'", r.String())
	}

	var empty *Tree
	empty.Debinarize()
}

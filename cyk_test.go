package pcfg

import (
	"strings"
	"testing"
)

var abCounts = []string{
	"1 S x A B",
	"1 A x a",
	"1 B x b",
}

func TestFillSimple(t *testing.T) {
	g := mustGrammar(t, abCounts...)
	chart, err := Fill(g, Tokens([]string{"a", "b"}))
	if err != nil {
		t.Fatal(err)
	}

	// Leaf and unary entries over each token
	for i, labels := range [][]Label{{"a", "A"}, {"b", "B"}} {
		cell := chart.Cell(i, i+1)
		if cell.Len() != 2 {
			t.Fatalf("cell [%d,%d) has %v", i, i+1, cell.Labels())
		}
		for j, label := range labels {
			if cell.Labels()[j] != label {
				t.Fatalf("'%s' != '%s'", cell.Labels()[j], label)
			}
		}
	}
	leaf, _ := chart.Cell(0, 1).Get("a")
	if leaf.Shape != Leaf || leaf.Score != 1.0 {
		t.Fatalf("unexpected leaf %+v", leaf)
	}

	root, ok := chart.Root("S")
	if !ok {
		t.Fatal("S expected over [0,2)")
	}
	if root.Shape != Binary || root.Score != 1.0 {
		t.Fatalf("unexpected root %+v", root)
	}
	if root.Left != (Backpointer{Label: "A", Begin: 0, End: 1}) ||
		root.Right != (Backpointer{Label: "B", Begin: 1, End: 2}) {
		t.Fatalf("unexpected backpointers %s %s", root.Left, root.Right)
	}

	p := NewParser(g, WithRoot("S"))
	r := p.Parse(Tokens([]string{"a", "b"}))
	expected := "(S (A a)(B b))"
	if r.Outcome != Parsed || r.String() != expected {
		t.Fatalf("'%s' != '%s'", r.String(), expected)
	}
}

func TestFillEmptySentence(t *testing.T) {
	g := mustGrammar(t, abCounts...)
	if _, err := Fill(g, []Label{}); err != ErrEmptySentence {
		t.Fatalf("ErrEmptySentence expected, got %v", err)
	}

	r := NewParser(g).Parse(nil)
	if r.Outcome != Rejected || r.Err != ErrEmptySentence || r.String() != "" {
		t.Fatalf("unexpected result %+v", r)
	}
}

func TestNoParse(t *testing.T) {
	g := mustGrammar(t, abCounts...)
	p := NewParser(g, WithRoot("S"))

	for _, sentence := range []string{"b a", "a", "a b c", "a a"} {
		r := p.Parse(Tokens(strings.Fields(sentence)))
		if r.Outcome != NoParse || r.String() != "" || r.Err != nil {
			t.Fatalf("'%s': unexpected result %+v", sentence, r)
		}
	}
}

func TestLengthLimit(t *testing.T) {
	g := mustGrammar(t,
		"1 A x A A",
		"1 A x a",
		"1 TOP x A",
	)
	p := NewParser(g)

	sentence := func(n int) []Label {
		return Tokens(strings.Fields(strings.Repeat("a ", n)))
	}

	r := p.Parse(sentence(DefaultMaxLength))
	if r.Outcome != Parsed || r.String() == IgnoreSentinel {
		t.Fatalf("%d tokens must be parsed, got %+v", DefaultMaxLength, r.Outcome)
	}
	for _, n := range []int{26, 27, 40} {
		r = p.Parse(sentence(n))
		if r.Outcome != Ignored || r.String() != IgnoreSentinel {
			t.Fatalf("%d tokens must be ignored, got '%s'", n, r.String())
		}
	}

	// The limit ignores sentences even when the grammar can't parse them
	r = p.Parse(Tokens(strings.Fields(strings.Repeat("zzz ", 26))))
	if r.String() != "*IGNORE*" {
		t.Fatalf("'%s' != '*IGNORE*'", r.String())
	}

	short := NewParser(g, WithMaxLength(2))
	if r = short.Parse(sentence(3)); r.Outcome != Ignored {
		t.Fatalf("3 tokens must be ignored with limit 2, got %s", r.Outcome)
	}
}

func TestViterbiKeepsBest(t *testing.T) {
	// C -> b is added before B -> b, so the worse S -> A C is found first
	g := mustGrammar(t,
		"1 S x A C",
		"3 S x A B",
		"1 A x a",
		"1 C x b",
		"1 B x b",
	)
	chart, err := Fill(g, Tokens([]string{"a", "b"}))
	if err != nil {
		t.Fatal(err)
	}
	root, _ := chart.Root("S")
	if root.Right.Label != "B" || root.Score != 0.75 {
		t.Fatalf("unexpected root %+v", root)
	}

	r := NewParser(g, WithRoot("S")).Parse(Tokens([]string{"a", "b"}))
	if r.String() != "(S (A a)(B b))" {
		t.Fatalf("'%s' != '(S (A a)(B b))'", r.String())
	}
}

func TestTieKeepsFirst(t *testing.T) {
	// Both S -> A b and S -> a B score 0.5. The right cell holds b before B,
	// so S -> A b is found first and kept
	g := mustGrammar(t,
		"1 S x a B",
		"1 S x A b",
		"1 A x a",
		"1 B x b",
	)
	p := NewParser(g, WithRoot("S"))
	expected := "(S (A a) b)"
	for i := 0; i < 20; i++ {
		r := p.Parse(Tokens([]string{"a", "b"}))
		if r.String() != expected {
			t.Fatalf("run %d: '%s' != '%s'", i, r.String(), expected)
		}
	}

	sentences := make([][]Label, 50)
	for i := range sentences {
		sentences[i] = Tokens([]string{"a", "b"})
	}
	for i, line := range Strings(p.ParseAll(sentences, 8)) {
		if line != expected {
			t.Fatalf("sentence %d: '%s' != '%s'", i, line, expected)
		}
	}
}

func TestUnaryClosureCycle(t *testing.T) {
	g := mustGrammar(t,
		"1 X x Y",
		"1 X x a",
		"1 Y x X",
		"1 TOP x X",
	)
	chart, err := Fill(g, Tokens([]string{"a"}))
	if err != nil {
		t.Fatal(err)
	}

	cell := chart.Cell(0, 1)
	expected := []Label{"a", "X", "Y", "TOP"}
	if cell.Len() != len(expected) {
		t.Fatalf("unexpected labels %v", cell.Labels())
	}
	for i, label := range expected {
		if cell.Labels()[i] != label {
			t.Fatalf("'%s' != '%s'", cell.Labels()[i], label)
		}
	}

	// X -> Y would give X 0.25, the first derivation X -> a scores 0.5
	x, _ := cell.Get("X")
	if x.Score != 0.5 || x.Left.Label != "a" {
		t.Fatalf("unexpected X %+v", x)
	}
	top, _ := cell.Get("TOP")
	if top.Score != 0.5 || top.Shape != Unary {
		t.Fatalf("unexpected TOP %+v", top)
	}
}

func TestUnaryClosureImproves(t *testing.T) {
	// B reaches the cell twice: directly from the token and through C. The
	// better path through C replaces the direct one
	g := mustGrammar(t,
		"1 B x b",
		"9 B x C",
		"1 C x b",
		"1 TOP x B",
	)
	chart, err := Fill(g, Tokens([]string{"b"}))
	if err != nil {
		t.Fatal(err)
	}
	b, _ := chart.Cell(0, 1).Get("B")
	if b.Left.Label != "C" || b.Score != 0.9 {
		t.Fatalf("unexpected B %+v", b)
	}
	// An improved label is not expanded again, TOP keeps the score it got
	// when B was first added
	top, _ := chart.Cell(0, 1).Get("TOP")
	if top.Score != 0.1 {
		t.Fatalf("%g != 0.1", top.Score)
	}
}

func TestChartBounds(t *testing.T) {
	g := mustGrammar(t, abCounts...)
	chart, err := Fill(g, Tokens([]string{"a", "b", "a"}))
	if err != nil {
		t.Fatal(err)
	}
	if chart.Len() != 3 || len(chart.cells) != 6 {
		t.Fatalf("unexpected chart size %d/%d", chart.Len(), len(chart.cells))
	}

	// Every span maps to its own cell
	seen := map[*Cell]bool{}
	for begin := 0; begin < 3; begin++ {
		for end := begin + 1; end <= 3; end++ {
			cell := chart.Cell(begin, end)
			if seen[cell] {
				t.Fatalf("[%d,%d) shares a cell", begin, end)
			}
			seen[cell] = true
		}
	}

	for _, span := range [][2]int{{0, 0}, {2, 1}, {0, 4}, {-1, 1}} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("[%d,%d) must panic", span[0], span[1])
				}
			}()
			chart.Cell(span[0], span[1])
		}()
	}

	var sb strings.Builder
	if err := chart.Dump(&sb); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sb.String(), "[0,2) S:1") {
		t.Fatalf("unexpected dump:\n%s", sb.String())
	}
}

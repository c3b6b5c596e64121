package pcfg

import (
	"fmt"
	"io"
	"strings"
)

// Backpointer addresses an entry in the chart: the label inside cell
// [Begin, End)
type Backpointer struct {
	Label Label
	Begin int
	End   int
}

func (bp Backpointer) String() string {
	return fmt.Sprintf("%s[%d,%d)", bp.Label, bp.Begin, bp.End)
}

// Entry is the best derivation found for a label over a span. Score is the
// Viterbi probability. A Leaf has no children, a Unary entry uses Left only
type Entry struct {
	Score float64
	Shape Shape
	Left  Backpointer
	Right Backpointer
}

// Cell maps labels to their best entry for one span. Labels are kept in the
// order they were first added
type Cell struct {
	labels  []Label
	entries []Entry
	index   map[Label]int
}

// Get returns the entry of label
func (c *Cell) Get(label Label) (Entry, bool) {
	i, ok := c.index[label]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Has reports whether label has an entry
func (c *Cell) Has(label Label) bool {
	_, ok := c.index[label]
	return ok
}

// Labels returns the labels of the cell in insertion order
func (c *Cell) Labels() []Label {
	return c.labels
}

// Len returns the number of labels in the cell
func (c *Cell) Len() int {
	return len(c.labels)
}

// offer installs e for label unless the cell already holds an entry scoring
// at least as well. Equal scores keep the first entry. added reports whether
// label was absent before
func (c *Cell) offer(label Label, e Entry) (added, installed bool) {
	if c.index == nil {
		c.index = map[Label]int{}
	}
	i, ok := c.index[label]
	if !ok {
		c.index[label] = len(c.labels)
		c.labels = append(c.labels, label)
		c.entries = append(c.entries, e)
		return true, true
	}
	if c.entries[i].Score < e.Score {
		c.entries[i] = e
		return false, true
	}
	return false, false
}

// Chart is the triangular table of cells for one sentence. Cell [begin, end)
// exists for 0 <= begin < end <= n
type Chart struct {
	tokens []Label
	cells  []Cell
}

// newChart allocates an empty chart for tokens
func newChart(tokens []Label) *Chart {
	n := len(tokens)
	return &Chart{
		tokens: tokens,
		cells:  make([]Cell, n*(n+1)/2),
	}
}

// offset maps a span to its position in cells. Row begin holds n - begin
// cells, one per end
func (c *Chart) offset(begin, end int) int {
	n := len(c.tokens)
	if begin < 0 || end <= begin || end > n {
		panic(fmt.Sprintf("pcfg: span [%d,%d) out of range for %d tokens", begin, end, n))
	}
	return begin*(2*n-begin+1)/2 + end - begin - 1
}

// Cell returns the cell of span [begin, end)
func (c *Chart) Cell(begin, end int) *Cell {
	return &c.cells[c.offset(begin, end)]
}

// Lookup follows a backpointer
func (c *Chart) Lookup(bp Backpointer) (Entry, bool) {
	return c.Cell(bp.Begin, bp.End).Get(bp.Label)
}

// Len returns the number of tokens
func (c *Chart) Len() int {
	return len(c.tokens)
}

// Tokens returns the sentence the chart was built for
func (c *Chart) Tokens() []Label {
	return c.tokens
}

// Root returns the entry of label over the whole sentence
func (c *Chart) Root(label Label) (Entry, bool) {
	if len(c.tokens) == 0 {
		return Entry{}, false
	}
	return c.Cell(0, len(c.tokens)).Get(label)
}

// Dump prints every non-empty cell, shortest spans first, for debugging
func (c *Chart) Dump(w io.Writer) error {
	n := len(c.tokens)
	for length := 1; length <= n; length++ {
		for begin := 0; begin+length <= n; begin++ {
			cell := c.Cell(begin, begin+length)
			if cell.Len() == 0 {
				continue
			}
			reprs := make([]string, 0, cell.Len())
			for i, label := range cell.labels {
				reprs = append(reprs, fmt.Sprintf("%s:%.3g", label, cell.entries[i].Score))
			}
			if _, err := fmt.Fprintf(w, "[%d,%d) %s\n", begin, begin+length, strings.Join(reprs, " ")); err != nil {
				return err
			}
		}
	}
	return nil
}

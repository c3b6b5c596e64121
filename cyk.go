package pcfg

import (
	"bytes"

	"github.com/golang/glog"
)

// Fill runs the CYK algorithm with Viterbi scores over tokens and returns the
// completed chart. Cells that no rule reaches simply stay empty. It panics
// when the grammar is not normalized
func Fill(grammar *Grammar, tokens []Label) (*Chart, error) {
	grammar.mustBeNormalized()
	if len(tokens) == 0 {
		return nil, ErrEmptySentence
	}

	chart := newChart(tokens)
	n := len(tokens)

	// Spans of the same length never read each other, shorter spans are always
	// complete before they are combined
	for length := 1; length <= n; length++ {
		for begin := 0; begin+length <= n; begin++ {
			fillCell(grammar, chart, begin, begin+length)
		}
	}

	if glog.V(2) {
		var buf bytes.Buffer
		chart.Dump(&buf)
		glog.Infof("chart for %v:\n%s", tokens, buf.String())
	}
	return chart, nil
}

// fillCell computes cell [begin, end) from its sub-cells. It reads the
// indices directly, Fill has checked the grammar is normalized
func fillCell(grammar *Grammar, chart *Chart, begin, end int) {
	cell := chart.Cell(begin, end)

	// Leaf: the token itself with probability 1
	if end == begin+1 {
		cell.offer(chart.tokens[begin], Entry{Score: 1.0, Shape: Leaf})
	}

	// Binary rules A -> B C, looked up from the labels of the right cell
	for split := begin + 1; split < end; split++ {
		leftCell := chart.Cell(begin, split)
		rightCell := chart.Cell(split, end)
		if leftCell.Len() == 0 || rightCell.Len() == 0 {
			continue
		}
		for ri, right := range rightCell.labels {
			rightScore := rightCell.entries[ri].Score
			for _, rule := range grammar.byRight[right] {
				li, ok := leftCell.index[rule.Left]
				if !ok {
					continue
				}
				score := rule.Weight * leftCell.entries[li].Score * rightScore
				cell.offer(rule.Parent, Entry{
					Score: score,
					Shape: Binary,
					Left:  Backpointer{Label: rule.Left, Begin: begin, End: split},
					Right: Backpointer{Label: right, Begin: split, End: end},
				})
			}
		}
	}

	closeUnary(grammar, cell, begin, end)
}

// closeUnary applies unary rules until a round adds no new label. Only labels
// that were added in the previous round are expanded again; a label whose
// score merely improved is not, which bounds the rounds by the number of
// labels even when unary rules form a cycle
func closeUnary(grammar *Grammar, cell *Cell, begin, end int) {
	frontier := make([]Label, len(cell.labels))
	copy(frontier, cell.labels)

	for len(frontier) > 0 {
		added := []Label{}
		for _, child := range frontier {
			rules := grammar.unary[child]
			if len(rules) == 0 {
				continue
			}
			for _, rule := range rules {
				// Read the score each time, a rule earlier in this round may
				// have improved it
				childScore := cell.entries[cell.index[child]].Score
				isNew, _ := cell.offer(rule.Parent, Entry{
					Score: rule.Weight * childScore,
					Shape: Unary,
					Left:  Backpointer{Label: child, Begin: begin, End: end},
				})
				if isNew {
					added = append(added, rule.Parent)
				}
			}
		}
		frontier = added
	}
}

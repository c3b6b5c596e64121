package pcfg

import (
	"fmt"
	"strings"
)

// RenderStyle decides how unary derivations show up in the parsing tree
type RenderStyle int

const (
	// CollapseUnary keeps only the bottom of each unary chain: the binary
	// node it ends in, or the label right above the token
	CollapseUnary RenderStyle = iota

	// KeepUnary brackets every unary step
	KeepUnary
)

// Node represents a single node in parsing tree
type Node struct {
	// Children nodes, nil for a token
	Children []*Node

	// Symbol in current node
	Symbol string
}

// Tree represents the parsing tree
type Tree struct {
	*Node
}

// IsLeaf returns true if the node is an input token
func (n *Node) IsLeaf() bool {
	return n.Children == nil
}

// Extract constructs the best parsing tree rooted at root over the whole
// sentence. Returns nil when the chart has no such entry
func Extract(chart *Chart, root Label, style RenderStyle) *Tree {
	if _, ok := chart.Root(root); !ok {
		return nil
	}
	node := constructNode(chart, Backpointer{Label: root, Begin: 0, End: chart.Len()}, style)
	return &Tree{Node: node}
}

// constructNode builds the subtree of the entry bp points to. Backpointers
// always lead to smaller spans or to a label added earlier to the same cell,
// so the recursion ends
func constructNode(chart *Chart, bp Backpointer, style RenderStyle) *Node {
	entry, ok := chart.Lookup(bp)
	if !ok {
		panic(fmt.Sprintf("pcfg: dangling backpointer %s", bp))
	}

	switch entry.Shape {
	case Leaf:
		return &Node{Symbol: string(bp.Label)}

	case Unary:
		child := constructNode(chart, entry.Left, style)
		if style == CollapseUnary && !child.IsLeaf() {
			// Intermediate label of a unary chain
			return child
		}
		return &Node{
			Symbol:   string(bp.Label),
			Children: []*Node{child},
		}

	case Binary:
		return &Node{
			Symbol: string(bp.Label),
			Children: []*Node{
				constructNode(chart, entry.Left, style),
				constructNode(chart, entry.Right, style),
			},
		}
	}
	panic(fmt.Sprintf("pcfg: unexpected entry shape %s at %s", entry.Shape, bp))
}

// Debinarize undoes the binarization of the training trees. A node whose
// label contains "_" is replaced by its children, and a trailing "^" is
// dropped from labels. The root and the tokens are never spliced
//
//	(S (NP n)(VP_PP (VP v)(PP p)))  =>  (S (NP n)(VP v)(PP p))
func (t *Tree) Debinarize() {
	if t == nil || t.Node == nil {
		return
	}
	t.Node.debinarize()
}

func (n *Node) debinarize() {
	if n.IsLeaf() {
		return
	}
	n.Symbol = strings.TrimSuffix(n.Symbol, "^")

	children := make([]*Node, 0, len(n.Children))
	for _, child := range n.Children {
		child.debinarize()
		if !child.IsLeaf() && strings.Contains(child.Symbol, "_") {
			children = append(children, child.Children...)
			continue
		}
		children = append(children, child)
	}
	n.Children = children
}

// Bracketed returns the single line form of the tree, like
//
//	(S (NP the dog)(VP barks))
func (t *Tree) Bracketed() string {
	if t == nil || t.Node == nil {
		return ""
	}
	var sb strings.Builder
	t.Node.bracket(&sb)
	return sb.String()
}

// bracket writes a token with a leading space and a node as its label
// followed by its children. The separator in front of the first child is
// replaced by the one after the label
func (n *Node) bracket(sb *strings.Builder) {
	if n.IsLeaf() {
		sb.WriteString(" ")
		sb.WriteString(n.Symbol)
		return
	}

	var children strings.Builder
	for _, child := range n.Children {
		child.bracket(&children)
	}
	sb.WriteString("(")
	sb.WriteString(n.Symbol)
	sb.WriteString(" ")
	sb.WriteString(strings.TrimPrefix(children.String(), " "))
	sb.WriteString(")")
}

// Convert the node to string
func (n *Node) String() string {
	return n.repr(0)
}

// Repr get the string representation of the node recursively
func (n *Node) repr(level int) string {
	// Don't wrap with parentheses when it's a leaf node
	prefix := strings.Repeat(" ", level*2)
	if level != 0 {
		prefix = "\n" + prefix
	}

	if n.Children == nil {
		return prefix + n.Symbol
	}

	childrenReprs := []string{}
	for _, child := range n.Children {
		childrenReprs = append(childrenReprs, child.repr(level+1))
	}

	return fmt.Sprintf(
		"%s(%s %s)",
		prefix,
		n.Symbol,
		strings.Join(childrenReprs, " "))
}

package pcfg

// unaryGraph links the parent of every unary rule to its child
func (g *Grammar) unaryGraph() *DirectedGraph {
	graph := NewDirectedGraph()
	for _, rule := range g.rules {
		if rule.IsUnary() {
			graph.Add(rule.Parent, rule.Left)
		}
	}
	return graph
}

// UnaryCycles returns the groups of labels that rewrite into each other
// through unary rules only, like A -> B, B -> A. The parser terminates on
// them, but which member wins a cell can depend on rule order
func (g *Grammar) UnaryCycles() [][]Label {
	return g.unaryGraph().StrongComponents()
}

// Unreachable returns the parents that no derivation from root can use, in
// the order they were added
func (g *Grammar) Unreachable(root Label) []Label {
	graph := NewDirectedGraph()
	graph.addVertex(root)
	for _, rule := range g.rules {
		graph.Add(rule.Parent, rule.Left)
		if rule.IsBinary() {
			graph.Add(rule.Parent, rule.Right)
		}
	}

	reachable := graph.Reachable(root)
	unreachable := []Label{}
	for _, parent := range g.parents {
		if !reachable[parent] {
			unreachable = append(unreachable, parent)
		}
	}
	return unreachable
}

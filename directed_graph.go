package pcfg

import (
	"sort"
)

// DirectedGraph represents a directed graph over labels. Vertices and arcs
// are visited in insertion order so results are stable
type DirectedGraph struct {
	Arcs     map[Label][]Label
	Vertices []Label

	seen map[Label]bool
	arcs map[[2]Label]bool
}

// NewDirectedGraph creates a new DirectedGraph
func NewDirectedGraph() *DirectedGraph {
	return &DirectedGraph{
		Arcs:     map[Label][]Label{},
		Vertices: []Label{},
		seen:     map[Label]bool{},
		arcs:     map[[2]Label]bool{},
	}
}

func (g *DirectedGraph) addVertex(v Label) {
	if !g.seen[v] {
		g.seen[v] = true
		g.Vertices = append(g.Vertices, v)
	}
}

// Add adds an arc into graph
func (g *DirectedGraph) Add(s, t Label) {
	g.addVertex(s)
	g.addVertex(t)
	if g.arcs[[2]Label{s, t}] {
		return
	}
	g.arcs[[2]Label{s, t}] = true
	g.Arcs[s] = append(g.Arcs[s], t)
}

// HasArc returns whether arc (s, t) exists in this graph
func (g *DirectedGraph) HasArc(s, t Label) bool {
	return g.arcs[[2]Label{s, t}]
}

// DFS runs depth-first search on graph and returns the vertices visited in
// post-order. It will not visit the vertices where visited[V] == true.
// After finished, it will update the visited map
//
// The search keeps its own stack, grammars with long unary chains would
// otherwise recurse once per label
func (g *DirectedGraph) DFS(s Label, visited map[Label]bool) []Label {
	if visited[s] || !g.seen[s] {
		return []Label{}
	}

	type frame struct {
		v    Label
		next int
	}
	order := []Label{}
	visited[s] = true
	stack := []frame{{v: s}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		arcs := g.Arcs[top.v]
		if top.next < len(arcs) {
			t := arcs[top.next]
			top.next++
			if !visited[t] {
				visited[t] = true
				stack = append(stack, frame{v: t})
			}
			continue
		}
		order = append(order, top.v)
		stack = stack[:len(stack)-1]
	}
	return order
}

// Reachable returns every vertex reachable from s, s included
func (g *DirectedGraph) Reachable(s Label) map[Label]bool {
	visited := map[Label]bool{}
	g.DFS(s, visited)
	return visited
}

// TopologicalSort sorts the graph by topological order. With cycles the order
// is the finishing order used by StrongComponents
func (g *DirectedGraph) TopologicalSort() []Label {
	visited := map[Label]bool{}
	postOrder := []Label{}
	for _, v := range g.Vertices {
		if !visited[v] {
			postOrder = append(postOrder, g.DFS(v, visited)...)
		}
	}

	order := make([]Label, len(postOrder))
	for i, v := range postOrder {
		order[len(postOrder)-1-i] = v
	}
	return order
}

// Transpose returns the reversed graph of g
func (g *DirectedGraph) Transpose() *DirectedGraph {
	reversed := NewDirectedGraph()
	for _, v := range g.Vertices {
		reversed.addVertex(v)
	}
	for _, s := range g.Vertices {
		for _, t := range g.Arcs[s] {
			reversed.Add(t, s)
		}
	}
	return reversed
}

// StrongComponents finds strong connected components with Kosaraju's
// algorithm. Single vertices are reported only when they have a self loop
func (g *DirectedGraph) StrongComponents() [][]Label {
	visited := map[Label]bool{}
	components := [][]Label{}
	gt := g.Transpose()
	for _, v := range g.TopologicalSort() {
		if visited[v] {
			continue
		}

		component := gt.DFS(v, visited)
		if len(component) == 1 && !g.HasArc(v, v) {
			continue
		}
		sort.Slice(component, func(i, j int) bool {
			return component[i] < component[j]
		})
		components = append(components, component)
	}
	return components
}

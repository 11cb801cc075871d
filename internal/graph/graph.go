package graph

import (
	"fmt"
	"sort"
)

// Graph is a directed or undirected attributed graph.
type Graph struct {
	Directed bool
	Attrs    map[string]any
	Nodes    []Node
	Edges    []Edge
}

// Node is a graph vertex identified by ID.
type Node struct {
	ID    string
	Attrs map[string]any
}

// Edge connects two nodes by ID. Parallel edges are allowed.
type Edge struct {
	Source string
	Target string
	Attrs  map[string]any
}

// New creates an empty graph.
func New(directed bool) *Graph {
	return &Graph{Directed: directed}
}

// AddNode appends a node and returns the graph for chaining.
func (g *Graph) AddNode(id string, attrs map[string]any) *Graph {
	g.Nodes = append(g.Nodes, Node{ID: id, Attrs: attrs})
	return g
}

// AddEdge appends an edge and returns the graph for chaining.
func (g *Graph) AddEdge(source, target string, attrs map[string]any) *Graph {
	g.Edges = append(g.Edges, Edge{Source: source, Target: target, Attrs: attrs})
	return g
}

// SetAttr sets a graph-level attribute.
func (g *Graph) SetAttr(key string, value any) *Graph {
	if g.Attrs == nil {
		g.Attrs = make(map[string]any)
	}
	g.Attrs[key] = value
	return g
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// NodeIDs returns all node IDs in sorted order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		ids = append(ids, n.ID)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns a deep copy of the graph. Attribute values are scalars,
// so copying the maps is sufficient. Cloning a nil graph returns nil.
func (g *Graph) Clone() *Graph {
	if g == nil {
		return nil
	}
	c := &Graph{
		Directed: g.Directed,
		Attrs:    copyAttrs(g.Attrs),
		Nodes:    make([]Node, len(g.Nodes)),
		Edges:    make([]Edge, len(g.Edges)),
	}
	for i, n := range g.Nodes {
		c.Nodes[i] = Node{ID: n.ID, Attrs: copyAttrs(n.Attrs)}
	}
	for i, e := range g.Edges {
		c.Edges[i] = Edge{Source: e.Source, Target: e.Target, Attrs: copyAttrs(e.Attrs)}
	}
	return c
}

// EdgeKey returns the identifier-based key of an edge. Undirected edges
// are normalized so that the lexically smaller endpoint comes first.
func (g *Graph) EdgeKey(e Edge) string {
	src, tgt := e.Source, e.Target
	if !g.Directed && tgt < src {
		src, tgt = tgt, src
	}
	if g.Directed {
		return src + " -> " + tgt
	}
	return src + " -- " + tgt
}

// Validate checks the structural rules every comparable graph must satisfy.
func Validate(g *Graph) error {
	if g == nil {
		return &MalformedError{Kind: "nil_graph", Msg: "graph is nil"}
	}
	if err := validateAttrs("graph", g.Attrs); err != nil {
		return err
	}

	seen := make(map[string]bool, len(g.Nodes))
	for i, n := range g.Nodes {
		if n.ID == "" {
			return &MalformedError{Kind: "empty_id", Msg: fmt.Sprintf("node at index %d has an empty id", i)}
		}
		if seen[n.ID] {
			return &MalformedError{Kind: "duplicate_id", Msg: fmt.Sprintf("duplicate node id %q", n.ID)}
		}
		seen[n.ID] = true
		if err := validateAttrs(fmt.Sprintf("node %q", n.ID), n.Attrs); err != nil {
			return err
		}
	}

	for i, e := range g.Edges {
		if !seen[e.Source] {
			return &MalformedError{Kind: "dangling_edge", Msg: fmt.Sprintf("edge %d references unknown source %q", i, e.Source)}
		}
		if !seen[e.Target] {
			return &MalformedError{Kind: "dangling_edge", Msg: fmt.Sprintf("edge %d references unknown target %q", i, e.Target)}
		}
		if err := validateAttrs(fmt.Sprintf("edge %d", i), e.Attrs); err != nil {
			return err
		}
	}
	return nil
}

func validateAttrs(owner string, attrs map[string]any) error {
	for _, key := range SortedKeys(attrs) {
		if !IsScalar(attrs[key]) {
			return &MalformedError{
				Kind: "attribute_type",
				Msg:  fmt.Sprintf("%s: attribute %q has non-scalar value of type %T", owner, key, attrs[key]),
			}
		}
	}
	return nil
}

// IsScalar reports whether v is an attribute value the comparators understand.
func IsScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool, float64, float32, int, int32, int64:
		return true
	default:
		return false
	}
}

// ToFloat converts numeric attribute values to float64.
func ToFloat(v any) (float64, bool) {
	switch f := v.(type) {
	case float64:
		return f, true
	case float32:
		return float64(f), true
	case int:
		return float64(f), true
	case int32:
		return float64(f), true
	case int64:
		return float64(f), true
	default:
		return 0, false
	}
}

// SortedKeys returns sorted keys of an attribute map for deterministic iteration.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func copyAttrs(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	c := make(map[string]any, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

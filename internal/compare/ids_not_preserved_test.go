package compare

import (
	"fmt"
	"strings"
	"testing"

	"github.com/AndreyAkinshin/convtest/internal/graph"
)

// renumber returns a copy of g with every node ID mapped through ids and the
// node order reversed.
func renumber(g *graph.Graph, ids map[string]string) *graph.Graph {
	out := graph.New(g.Directed)
	for k, v := range g.Attrs {
		out.SetAttr(k, v)
	}
	for i := len(g.Nodes) - 1; i >= 0; i-- {
		n := g.Nodes[i]
		out.AddNode(ids[n.ID], n.Attrs)
	}
	for _, e := range g.Edges {
		out.AddEdge(ids[e.Source], ids[e.Target], e.Attrs)
	}
	return out
}

func TestIdsNotPreserved_ConsistentRenumbering(t *testing.T) {
	t.Parallel()
	test := renumber(triangle(), map[string]string{"a": "n7", "b": "n3", "c": "n1"})

	out := mustCompare(t, mustComparator(t, KindIdsNotPreserved), test, triangle())
	if !out.Passed {
		t.Errorf("renumbered graph failed: %s", out.Detail)
	}
}

func TestIdsNotPreserved_UnlabelledStructure(t *testing.T) {
	t.Parallel()
	// Path a-b-c versus star with the same counts: identical node and edge
	// content signatures, distinguishable only by neighbourhood refinement.
	path := graph.New(false).AddNode("a", nil).AddNode("b", nil).AddNode("c", nil).AddNode("d", nil).
		AddEdge("a", "b", nil).AddEdge("b", "c", nil).AddEdge("c", "d", nil)
	star := graph.New(false).AddNode("a", nil).AddNode("b", nil).AddNode("c", nil).AddNode("d", nil).
		AddEdge("a", "b", nil).AddEdge("a", "c", nil).AddEdge("a", "d", nil)

	c := mustComparator(t, KindIdsNotPreserved)
	out := mustCompare(t, c, star, path)
	if out.Passed {
		t.Fatal("path and star compared equal")
	}
	if !strings.Contains(out.Detail, "neighbourhood") {
		t.Errorf("Detail = %q, want neighbourhood mismatch", out.Detail)
	}

	relabelled := renumber(path, map[string]string{"a": "4", "b": "3", "c": "2", "d": "1"})
	if out := mustCompare(t, c, relabelled, path); !out.Passed {
		t.Errorf("relabelled path failed: %s", out.Detail)
	}
}

func TestIdsNotPreserved_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(g *graph.Graph)
		want   string
	}{
		{"node count", func(g *graph.Graph) { g.AddNode("d", nil) }, "node count: expected 3, got 4"},
		{"edge count", func(g *graph.Graph) { g.AddEdge("a", "c", nil) }, "edge count: expected 3, got 4"},
		{"directedness", func(g *graph.Graph) { g.Directed = false }, "expected directed=true"},
		{"graph attribute", func(g *graph.Graph) { g.Attrs["name"] = "x" }, `graph: attribute "name"`},
		{"node content", func(g *graph.Graph) { g.Nodes[0].Attrs["label"] = "Q" }, "has no counterpart with the same attributes"},
		{"edge content", func(g *graph.Graph) { g.Edges[0].Attrs["w"] = 9.0 }, "edge (a -> b)"},
		{"edge rewired", func(g *graph.Graph) { g.Edges[2].Source, g.Edges[2].Target = "a", "c" }, "has no counterpart"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			test := triangle()
			tc.mutate(test)
			out := mustCompare(t, mustComparator(t, KindIdsNotPreserved), test, triangle())
			if out.Passed {
				t.Fatal("Compare() passed, want failure")
			}
			if !strings.Contains(out.Detail, tc.want) {
				t.Errorf("Detail = %q, want to contain %q", out.Detail, tc.want)
			}
		})
	}
}

func TestIdsNotPreserved_SignatureDigits(t *testing.T) {
	t.Parallel()
	ref := graph.New(true).AddNode("a", map[string]any{"x": 0.1 + 0.2})
	test := graph.New(true).AddNode("b", map[string]any{"x": 0.3})

	if out := mustCompare(t, mustComparator(t, KindIdsNotPreserved), test, ref); !out.Passed {
		t.Errorf("values equal to 12 significant digits failed: %s", out.Detail)
	}
}

// cycles builds an unlabelled graph made of disjoint cycles of
// the given lengths. Node IDs carry prefix.
func cycles(directed bool, prefix string, lengths ...int) *graph.Graph {
	g := graph.New(directed)
	next := 0
	for _, n := range lengths {
		for i := 0; i < n; i++ {
			g.AddNode(fmt.Sprintf("%s%d", prefix, next+i), nil)
		}
		for i := 0; i < n; i++ {
			g.AddEdge(fmt.Sprintf("%s%d", prefix, next+i), fmt.Sprintf("%s%d", prefix, next+(i+1)%n), nil)
		}
		next += n
	}
	return g
}

// fromEdges builds an undirected, unlabelled graph over nodes 0..n-1.
func fromEdges(n int, edges [][2]int) *graph.Graph {
	g := graph.New(false)
	for i := 0; i < n; i++ {
		g.AddNode(fmt.Sprint(i), nil)
	}
	for _, e := range edges {
		g.AddEdge(fmt.Sprint(e[0]), fmt.Sprint(e[1]), nil)
	}
	return g
}

func TestIdsNotPreserved_RegularGraphs(t *testing.T) {
	t.Parallel()

	prism := fromEdges(6, [][2]int{{0, 1}, {1, 2}, {2, 0}, {3, 4}, {4, 5}, {5, 3}, {0, 3}, {1, 4}, {2, 5}})
	bipartite := fromEdges(6, [][2]int{{0, 3}, {0, 4}, {0, 5}, {1, 3}, {1, 4}, {1, 5}, {2, 3}, {2, 4}, {2, 5}})

	tests := []struct {
		name      string
		reference *graph.Graph
		test      *graph.Graph
		pass      bool
	}{
		{"two triangles versus hexagon", cycles(false, "r", 6), cycles(false, "t", 3, 3), false},
		{"hexagon versus two triangles", cycles(false, "r", 3, 3), cycles(false, "t", 6), false},
		{"directed cycles", cycles(true, "r", 6), cycles(true, "t", 3, 3), false},
		{"prism versus complete bipartite", prism, bipartite, false},
		{"relabelled hexagon", cycles(false, "r", 6), cycles(false, "t", 6), true},
		{"relabelled triangles", cycles(false, "r", 3, 3), renumber(cycles(false, "t", 3, 3), map[string]string{
			"t0": "x", "t1": "y", "t2": "z", "t3": "u", "t4": "v", "t5": "w",
		}), true},
		{"relabelled prism", prism, renumber(prism, map[string]string{
			"0": "5", "1": "3", "2": "4", "3": "2", "4": "0", "5": "1",
		}), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			out := mustCompare(t, mustComparator(t, KindIdsNotPreserved), tc.test, tc.reference)
			if out.Passed != tc.pass {
				t.Fatalf("Passed = %v, want %v (%s)", out.Passed, tc.pass, out.Detail)
			}
			if !tc.pass && !strings.Contains(out.Detail, "no structure-preserving node mapping") {
				t.Errorf("Detail = %q, want a missing mapping", out.Detail)
			}
		})
	}
}

func TestBijectionSearch_Budget(t *testing.T) {
	t.Parallel()
	c := &idsNotPreserved{}
	ref, tst := c.newColoring(cycles(false, "r", 6)), c.newColoring(cycles(false, "t", 6))
	refineTogether(ref, tst)

	s := &bijectionSearch{budget: 1}
	if s.match(ref, tst, 0) {
		t.Fatal("match() succeeded with a budget of one step")
	}
	if !s.exhausted {
		t.Error("exhausted = false, want true")
	}
}

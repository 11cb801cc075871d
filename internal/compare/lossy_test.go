package compare

import (
	"strings"
	"testing"

	"github.com/AndreyAkinshin/convtest/internal/graph"
)

func TestLossy_SameIDs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(g *graph.Graph)
		pass   bool
		want   string
	}{
		{"dropped node attribute", func(g *graph.Graph) { delete(g.Nodes[0].Attrs, "label") }, true, ""},
		{"dropped graph attribute", func(g *graph.Graph) { g.Attrs = nil }, true, ""},
		{"dropped edge", func(g *graph.Graph) { g.Edges = g.Edges[:2] }, true, ""},
		{"dropped edge attribute", func(g *graph.Graph) { g.Edges[0].Attrs = nil }, true, ""},
		{"contradictory node value", func(g *graph.Graph) { g.Nodes[1].Attrs["label"] = "Z" }, false, `node "b": attribute "label": expected "B", got "Z"`},
		{"contradictory edge value", func(g *graph.Graph) { g.Edges[1].Attrs["w"] = 7.0 }, false, `edge (b -> c): attribute "w"`},
		{"contradictory graph value", func(g *graph.Graph) { g.Attrs["name"] = "sq" }, false, `graph: attribute "name"`},
		{"invented edge", func(g *graph.Graph) { g.AddEdge("a", "c", nil) }, false, "edge (a -> c) not present in reference"},
		{"directedness", func(g *graph.Graph) { g.Directed = false }, false, "expected directed=true"},
		{"dropped node", func(g *graph.Graph) { g.Nodes, g.Edges = g.Nodes[:2], g.Edges[:1] }, true, ""},
		{"dropped node and contradictory value", func(g *graph.Graph) {
			g.Nodes, g.Edges = g.Nodes[:2], g.Edges[:1]
			g.Nodes[0].Attrs["label"] = "Z"
		}, false, `node "a": attribute "label": expected "A", got "Z"`},
		{"dropped node and contradictory edge", func(g *graph.Graph) {
			g.Nodes, g.Edges = g.Nodes[:2], g.Edges[:1]
			g.Edges[0].Attrs["w"] = 9.0
		}, false, `edge (a -> b): attribute "w"`},
		{"dropped node and invented edge", func(g *graph.Graph) {
			g.Nodes, g.Edges = g.Nodes[:2], g.Edges[:1]
			g.AddEdge("b", "a", nil)
		}, false, "edge (b -> a) not present in reference"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			test := triangle()
			tc.mutate(test)
			out := mustCompare(t, mustComparator(t, KindLossy), test, triangle())
			if out.Passed != tc.pass {
				t.Fatalf("Passed = %v, want %v (%s)", out.Passed, tc.pass, out.Detail)
			}
			if tc.want != "" && !strings.Contains(out.Detail, tc.want) {
				t.Errorf("Detail = %q, want to contain %q", out.Detail, tc.want)
			}
		})
	}
}

func TestLossy_SubsetOfIDs(t *testing.T) {
	t.Parallel()

	ref := graph.New(true).
		AddNode("a", map[string]any{"label": "X"}).
		AddNode("b", nil)

	tests := []struct {
		name  string
		label string
		pass  bool
	}{
		{"agreeing label", "X", true},
		{"contradictory label", "Z", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			test := graph.New(true).AddNode("a", map[string]any{"label": tc.label})
			out := mustCompare(t, mustComparator(t, KindLossy), test, ref)
			if out.Passed != tc.pass {
				t.Fatalf("Passed = %v, want %v (%s)", out.Passed, tc.pass, out.Detail)
			}
			if !tc.pass && !strings.Contains(out.Detail, `node "a": attribute "label"`) {
				t.Errorf("Detail = %q, want the contradicted label", out.Detail)
			}
		})
	}
}

func TestLossy_DifferentIDs(t *testing.T) {
	t.Parallel()
	ref := triangle()

	t.Run("renumbered with dropped attributes", func(t *testing.T) {
		t.Parallel()
		test := graph.New(true).
			AddNode("1", map[string]any{"label": "A"}).
			AddNode("2", map[string]any{"weight": 2.0}).
			AddNode("3", nil).
			AddEdge("1", "2", nil).
			AddEdge("2", "3", map[string]any{"w": 1.5})
		if out := mustCompare(t, mustComparator(t, KindLossy), test, ref); !out.Passed {
			t.Errorf("Compare() failed: %s", out.Detail)
		}
	})

	t.Run("merged nodes", func(t *testing.T) {
		t.Parallel()
		test := graph.New(true).AddNode("ab", nil).AddEdge("ab", "ab", map[string]any{"w": 0.5})
		if out := mustCompare(t, mustComparator(t, KindLossy), test, ref); !out.Passed {
			t.Errorf("Compare() failed: %s", out.Detail)
		}
	})

	t.Run("node without compatible counterpart", func(t *testing.T) {
		t.Parallel()
		test := graph.New(true).AddNode("1", map[string]any{"label": "Q"})
		out := mustCompare(t, mustComparator(t, KindLossy), test, ref)
		if out.Passed || !strings.Contains(out.Detail, `test node "1"`) {
			t.Errorf("Detail = %q, want incompatible node", out.Detail)
		}
	})

	t.Run("edge without compatible counterpart", func(t *testing.T) {
		t.Parallel()
		test := graph.New(true).
			AddNode("1", map[string]any{"label": "A"}).
			AddNode("2", map[string]any{"label": "C"}).
			AddEdge("1", "2", nil)
		out := mustCompare(t, mustComparator(t, KindLossy), test, ref)
		if out.Passed || !strings.Contains(out.Detail, "test edge (1 -> 2)") {
			t.Errorf("Detail = %q, want incompatible edge (reference only has c -> a)", out.Detail)
		}
	})
}

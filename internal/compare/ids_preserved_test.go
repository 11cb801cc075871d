package compare

import (
	"strings"
	"testing"

	"github.com/AndreyAkinshin/convtest/internal/graph"
	"github.com/AndreyAkinshin/convtest/internal/results"
)

func TestIdsPreserved_Discrepancies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(g *graph.Graph)
		want   []string
	}{
		{
			name:   "added node",
			mutate: func(g *graph.Graph) { g.AddNode("d", nil) },
			want:   []string{`extra node "d"`},
		},
		{
			name: "removed node",
			mutate: func(g *graph.Graph) {
				g.Nodes = g.Nodes[:2]
				g.Edges = g.Edges[:1]
			},
			want: []string{`missing node "c"`, "missing edge (b -> c)", "missing edge (c -> a)"},
		},
		{
			name:   "changed attribute",
			mutate: func(g *graph.Graph) { g.Nodes[1].Attrs["label"] = "X" },
			want:   []string{`node "b": attribute "label": expected "B", got "X"`},
		},
		{
			name:   "dropped attribute",
			mutate: func(g *graph.Graph) { delete(g.Nodes[0].Attrs, "weight") },
			want:   []string{`node "a": missing attribute "weight"`},
		},
		{
			name:   "extra attribute",
			mutate: func(g *graph.Graph) { g.Edges[2].Attrs = map[string]any{"w": 1.0} },
			want:   []string{`edge (c -> a): unexpected attribute "w"`},
		},
		{
			name:   "reversed edge",
			mutate: func(g *graph.Graph) { g.Edges[0].Source, g.Edges[0].Target = "b", "a" },
			want:   []string{"missing edge (a -> b)", "extra edge (b -> a)"},
		},
		{
			name:   "graph attribute",
			mutate: func(g *graph.Graph) { g.Attrs["name"] = "other" },
			want:   []string{`graph: attribute "name"`},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			test := triangle()
			tc.mutate(test)
			out := mustCompare(t, mustComparator(t, KindIdsPreserved), test, triangle())
			if out.Passed {
				t.Fatal("Compare() passed, want failure")
			}
			if out.Status != results.StatusComparisonFailure {
				t.Errorf("Status = %q, want comparison_failure", out.Status)
			}
			for _, w := range tc.want {
				if !strings.Contains(out.Detail, w) {
					t.Errorf("Detail = %q, want to contain %q", out.Detail, w)
				}
			}
		})
	}
}

func TestIdsPreserved_AddedAndRemovedAreDistinct(t *testing.T) {
	t.Parallel()
	c := mustComparator(t, KindIdsPreserved)
	added := triangle().AddNode("d", nil)
	removed := triangle()
	removed.Nodes = removed.Nodes[:2]
	removed.Edges = removed.Edges[:1]

	a := mustCompare(t, c, added, triangle())
	r := mustCompare(t, c, removed, triangle())
	if a.Passed || r.Passed || a.Detail == r.Detail {
		t.Errorf("added = %q, removed = %q; want two distinct failures", a.Detail, r.Detail)
	}
}

func TestIdsPreserved_Undirected(t *testing.T) {
	t.Parallel()
	ref := graph.New(false).AddNode("a", nil).AddNode("b", nil).AddEdge("a", "b", map[string]any{"w": 1})
	test := graph.New(false).AddNode("b", nil).AddNode("a", nil).AddEdge("b", "a", map[string]any{"w": 1})

	if out := mustCompare(t, mustComparator(t, KindIdsPreserved), test, ref); !out.Passed {
		t.Errorf("undirected edge orientation should not matter: %s", out.Detail)
	}
}

func TestIdsPreserved_ParallelEdges(t *testing.T) {
	t.Parallel()
	ref := graph.New(true).AddNode("a", nil).AddNode("b", nil).
		AddEdge("a", "b", map[string]any{"k": "x"}).
		AddEdge("a", "b", map[string]any{"k": "y"})

	same := ref.Clone()
	if out := mustCompare(t, mustComparator(t, KindIdsPreserved), same, ref); !out.Passed {
		t.Errorf("identical parallel edges failed: %s", out.Detail)
	}

	fewer := ref.Clone()
	fewer.Edges = fewer.Edges[:1]
	out := mustCompare(t, mustComparator(t, KindIdsPreserved), fewer, ref)
	if out.Passed || !strings.Contains(out.Detail, "missing edge (a -> b)#2") {
		t.Errorf("Detail = %q, want missing second parallel edge", out.Detail)
	}
}

func TestIdsPreserved_AggregatesAll(t *testing.T) {
	t.Parallel()
	test := triangle().AddNode("d", nil).AddNode("e", nil)
	test.Nodes[0].Attrs["label"] = "Z"

	out := mustCompare(t, mustComparator(t, KindIdsPreserved), test, triangle())
	if !strings.HasPrefix(out.Detail, "3 discrepancies:") {
		t.Errorf("Detail = %q, want three aggregated discrepancies", out.Detail)
	}
}

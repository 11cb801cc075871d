package compare

import (
	"fmt"
	"sort"

	"github.com/AndreyAkinshin/convtest/internal/graph"
	"github.com/AndreyAkinshin/convtest/internal/results"
)

// idsPreserved matches nodes by ID and edges by endpoint IDs.
type idsPreserved struct{ base }

func (c *idsPreserved) Kind() Kind { return KindIdsPreserved }

func (c *idsPreserved) Compare(test, reference *graph.Graph) (results.FileOutcome, error) {
	if err := validate(test, reference); err != nil {
		return results.FileOutcome{}, err
	}

	var d discrepancies
	if test.Directed != reference.Directed {
		d.addf("graph: expected directed=%v, got directed=%v", reference.Directed, test.Directed)
	}
	c.diffAttrs("graph", reference.Attrs, test.Attrs, &d)

	testNodes := make(map[string]graph.Node, len(test.Nodes))
	for _, n := range test.Nodes {
		testNodes[n.ID] = n
	}
	refIDs := make(map[string]bool, len(reference.Nodes))
	for _, ref := range reference.Nodes {
		refIDs[ref.ID] = true
		n, ok := testNodes[ref.ID]
		if !ok {
			d.addf("missing node %q", ref.ID)
			continue
		}
		c.diffAttrs(fmt.Sprintf("node %q", ref.ID), ref.Attrs, n.Attrs, &d)
	}
	for _, n := range test.Nodes {
		if !refIDs[n.ID] {
			d.addf("extra node %q", n.ID)
		}
	}

	// Undirected graphs normalize endpoint order; a directedness mismatch is
	// already reported, so both sides are keyed with the reference's rule.
	refEdges := groupEdges(reference, reference.Directed)
	testEdges := groupEdges(test, reference.Directed)
	for _, key := range unionEdgeKeys(refEdges, testEdges) {
		refs, tests := refEdges[key], testEdges[key]
		for i := 0; i < len(refs) || i < len(tests); i++ {
			label := edgeLabel(key, i, len(refs), len(tests))
			switch {
			case i >= len(tests):
				d.addf("missing edge %s", label)
			case i >= len(refs):
				d.addf("extra edge %s", label)
			default:
				c.diffAttrs("edge "+label, refs[i].Attrs, tests[i].Attrs, &d)
			}
		}
	}

	return d.outcome(c.opts.MaxDetails), nil
}

// groupEdges buckets edges by endpoint key, keeping occurrence order so that
// parallel edges are matched by position.
func groupEdges(g *graph.Graph, directed bool) map[string][]graph.Edge {
	keyer := &graph.Graph{Directed: directed}
	groups := make(map[string][]graph.Edge)
	for _, e := range g.Edges {
		key := keyer.EdgeKey(e)
		groups[key] = append(groups[key], e)
	}
	return groups
}

func unionEdgeKeys(a, b map[string][]graph.Edge) []string {
	seen := make(map[string]bool, len(a)+len(b))
	keys := make([]string, 0, len(a)+len(b))
	for _, m := range []map[string][]graph.Edge{a, b} {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

// edgeLabel names the i-th parallel edge with the given key. The index is
// shown only when either side has parallel edges.
func edgeLabel(key string, i, nRef, nTest int) string {
	if nRef <= 1 && nTest <= 1 {
		return "(" + key + ")"
	}
	return fmt.Sprintf("(%s)#%d", key, i+1)
}

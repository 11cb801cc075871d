package compare

import (
	"fmt"

	"github.com/AndreyAkinshin/convtest/internal/graph"
	"github.com/AndreyAkinshin/convtest/internal/results"
)

// lossy accepts omissions and fails only on contradictions: a value that
// disagrees with the reference, or an element the reference cannot account for.
type lossy struct{ base }

func (c *lossy) Kind() Kind { return KindLossy }

func (c *lossy) Compare(test, reference *graph.Graph) (results.FileOutcome, error) {
	if err := validate(test, reference); err != nil {
		return results.FileOutcome{}, err
	}

	var d discrepancies
	if test.Directed != reference.Directed {
		d.addf("graph: expected directed=%v, got directed=%v", reference.Directed, test.Directed)
	}
	c.conflictingAttrs("graph", reference.Attrs, test.Attrs, &d)

	if idsWithin(test, reference) {
		c.compareByID(test, reference, &d)
	} else {
		c.compareByContent(test, reference, &d)
	}
	return d.outcome(c.opts.MaxDetails), nil
}

// idsWithin reports whether every node of a is also a node of b. Reference
// nodes absent from a are omissions, so identifiers still pair the rest.
func idsWithin(a, b *graph.Graph) bool {
	for _, n := range a.Nodes {
		if _, ok := b.Node(n.ID); !ok {
			return false
		}
	}
	return true
}

// compareByID matches nodes and edges through identifiers. Reference edges
// missing from the test graph are omissions; test edges beyond what the
// reference holds are contradictions.
func (c *lossy) compareByID(test, reference *graph.Graph, d *discrepancies) {
	for _, n := range test.Nodes {
		ref, _ := reference.Node(n.ID)
		c.conflictingAttrs(fmt.Sprintf("node %q", n.ID), ref.Attrs, n.Attrs, d)
	}

	refEdges := groupEdges(reference, reference.Directed)
	testEdges := groupEdges(test, reference.Directed)
	for _, key := range unionEdgeKeys(refEdges, testEdges) {
		refs, tests := refEdges[key], testEdges[key]
		for i, e := range tests {
			label := edgeLabel(key, i, len(refs), len(tests))
			if i >= len(refs) {
				d.addf("edge %s not present in reference", label)
				continue
			}
			c.conflictingAttrs("edge "+label, refs[i].Attrs, e.Attrs, d)
		}
	}
}

// compareByContent handles renumbered or merged nodes: every test node needs
// a reference node whose shared attributes agree, and every test edge a
// reference edge with agreeing attributes between compatible endpoints.
func (c *lossy) compareByContent(test, reference *graph.Graph, d *discrepancies) {
	compatible := make(map[string]map[string]bool, len(test.Nodes))
	for _, n := range test.Nodes {
		matches := make(map[string]bool)
		for _, ref := range reference.Nodes {
			if c.compatibleAttrs(ref.Attrs, n.Attrs) {
				matches[ref.ID] = true
			}
		}
		if len(matches) == 0 {
			d.addf("test node %q %s has no compatible reference node", n.ID, graph.Canonical(n.Attrs, c.ignore))
		}
		compatible[n.ID] = matches
	}

	for _, e := range test.Edges {
		if !c.hasCompatibleEdge(e, reference, compatible) {
			d.addf("test edge (%s) %s has no compatible reference edge", test.EdgeKey(e), graph.Canonical(e.Attrs, c.ignore))
		}
	}
}

func (c *lossy) hasCompatibleEdge(e graph.Edge, reference *graph.Graph, compatible map[string]map[string]bool) bool {
	src, tgt := compatible[e.Source], compatible[e.Target]
	for _, ref := range reference.Edges {
		endpoints := src[ref.Source] && tgt[ref.Target]
		if !reference.Directed {
			endpoints = endpoints || (src[ref.Target] && tgt[ref.Source])
		}
		if endpoints && c.compatibleAttrs(ref.Attrs, e.Attrs) {
			return true
		}
	}
	return false
}

package compare

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AndreyAkinshin/convtest/internal/graph"
	"github.com/AndreyAkinshin/convtest/internal/results"
)

// idsNotPreserved ignores node identifiers. It compares the multisets of node
// and edge content signatures, then refines node signatures with their
// neighbourhoods (Weisfeiler-Lehman) until the partition stops changing.
// Any round whose signature histograms differ proves that no
// structure-preserving bijection exists under content matching. Refinement
// alone cannot separate some non-isomorphic graphs (regular ones, for
// instance), so a stable partition is confirmed by an individualization
// search that must produce an explicit bijection.
type idsNotPreserved struct{ base }

func (c *idsNotPreserved) Kind() Kind { return KindIdsNotPreserved }

func (c *idsNotPreserved) Compare(test, reference *graph.Graph) (results.FileOutcome, error) {
	if err := validate(test, reference); err != nil {
		return results.FileOutcome{}, err
	}

	var d discrepancies
	if test.Directed != reference.Directed {
		d.addf("graph: expected directed=%v, got directed=%v", reference.Directed, test.Directed)
	}
	if len(test.Nodes) != len(reference.Nodes) {
		d.addf("node count: expected %d, got %d", len(reference.Nodes), len(test.Nodes))
	}
	if len(test.Edges) != len(reference.Edges) {
		d.addf("edge count: expected %d, got %d", len(reference.Edges), len(test.Edges))
	}
	c.diffAttrs("graph", reference.Attrs, test.Attrs, &d)
	if !d.empty() {
		return d.outcome(c.opts.MaxDetails), nil
	}

	ref := c.newColoring(reference)
	tst := c.newColoring(test)

	c.diffNodeHistograms(ref, tst, 0, &d)
	if !d.empty() {
		return d.outcome(c.opts.MaxDetails), nil
	}
	c.diffEdgeHistograms(ref, tst, &d)
	if !d.empty() {
		return d.outcome(c.opts.MaxDetails), nil
	}

	classes := ref.classes()
	for round := 1; round <= len(reference.Nodes); round++ {
		ref.refine()
		tst.refine()
		c.diffNodeHistograms(ref, tst, round, &d)
		if !d.empty() {
			return d.outcome(c.opts.MaxDetails), nil
		}
		next := ref.classes()
		if next == classes {
			break
		}
		classes = next
	}

	s := &bijectionSearch{budget: searchBudget}
	if !s.match(ref, tst, 0) {
		if s.exhausted {
			d.addf("no structure-preserving node mapping found within %d search steps", searchBudget)
		} else {
			d.addf("no structure-preserving node mapping exists (%d of %d nodes share a neighbourhood signature)", ambiguous(ref), len(reference.Nodes))
		}
		return d.outcome(c.opts.MaxDetails), nil
	}
	return results.Pass(), nil
}

// searchBudget caps the number of partitions visited by bijectionSearch.
const searchBudget = 1 << 16

// bijectionSearch individualizes one node per ambiguous class on both sides,
// refines again, and backtracks until the partition is discrete and the
// resulting mapping carries every edge onto an equal edge.
type bijectionSearch struct {
	budget    int
	steps     int
	exhausted bool
}

func (s *bijectionSearch) match(ref, tst *coloring, depth int) bool {
	s.steps++
	if s.steps > s.budget {
		s.exhausted = true
		return false
	}

	cell := ref.targetCell()
	if cell == "" {
		return mapsEdges(ref, tst)
	}
	v := ref.first(cell)
	mark := graph.Signature(cell, "individualized", fmt.Sprint(depth))
	for w, color := range tst.colors {
		if color != cell {
			continue
		}
		r, t := ref.clone(), tst.clone()
		r.colors[v], t.colors[w] = mark, mark
		if !refineTogether(r, t) {
			continue
		}
		if s.match(r, t, depth+1) {
			return true
		}
		if s.exhausted {
			return false
		}
	}
	return false
}

// refineTogether refines both colorings until the reference partition is
// stable. It reports false as soon as their color histograms diverge.
func refineTogether(ref, tst *coloring) bool {
	for {
		classes := ref.classes()
		ref.refine()
		tst.refine()
		if !sameHistogram(ref.colors, tst.colors) {
			return false
		}
		if ref.classes() == classes {
			return true
		}
	}
}

func sameHistogram(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	h := histogram(a)
	for _, s := range b {
		if h[s] == 0 {
			return false
		}
		h[s]--
	}
	return true
}

// mapsEdges checks that the node mapping given by a discrete pair of
// colorings turns the reference edge multiset into the test edge multiset.
func mapsEdges(ref, tst *coloring) bool {
	byColor := make(map[string]int, len(tst.colors))
	for i, color := range tst.colors {
		byColor[color] = i
	}
	mapping := make([]int, len(ref.colors))
	for i, color := range ref.colors {
		j, ok := byColor[color]
		if !ok {
			return false
		}
		mapping[i] = j
	}

	counts := make(map[string]int, len(ref.g.Edges))
	for i, e := range ref.g.Edges {
		s, t := mapping[ref.index[e.Source]], mapping[ref.index[e.Target]]
		counts[edgeSlot(ref.g.Directed, s, t, ref.edgeAttrs[i])]++
	}
	for i, e := range tst.g.Edges {
		key := edgeSlot(tst.g.Directed, tst.index[e.Source], tst.index[e.Target], tst.edgeAttrs[i])
		if counts[key] == 0 {
			return false
		}
		counts[key]--
	}
	return true
}

func edgeSlot(directed bool, s, t int, attrs string) string {
	if !directed && t < s {
		s, t = t, s
	}
	return fmt.Sprintf("%d>%d|%s", s, t, attrs)
}

// coloring holds the current signature ("color") of every node of a graph.
type coloring struct {
	g         *graph.Graph
	index     map[string]int
	colors    []string
	edgeAttrs []string // Attribute signature per edge
}

func (c *idsNotPreserved) newColoring(g *graph.Graph) *coloring {
	col := &coloring{
		g:         g,
		index:     make(map[string]int, len(g.Nodes)),
		colors:    make([]string, len(g.Nodes)),
		edgeAttrs: make([]string, len(g.Edges)),
	}
	for i, n := range g.Nodes {
		col.index[n.ID] = i
		col.colors[i] = graph.AttrSignature(n.Attrs, c.ignore)
	}
	for i, e := range g.Edges {
		col.edgeAttrs[i] = graph.AttrSignature(e.Attrs, c.ignore)
	}
	return col
}

// edgeSignature combines the edge's attribute signature with its endpoint colors.
func (col *coloring) edgeSignature(i int) string {
	e := col.g.Edges[i]
	src, tgt := col.colors[col.index[e.Source]], col.colors[col.index[e.Target]]
	if !col.g.Directed && tgt < src {
		src, tgt = tgt, src
	}
	return graph.Signature("edge", src, tgt, col.edgeAttrs[i])
}

// refine replaces every color with a digest of the color and the sorted
// multiset of (direction, edge attributes, neighbour color) around the node.
func (col *coloring) refine() {
	neighbours := make([][]string, len(col.colors))
	for i, e := range col.g.Edges {
		s, t := col.index[e.Source], col.index[e.Target]
		out, in := ">", "<"
		if !col.g.Directed {
			out, in = "-", "-"
		}
		neighbours[s] = append(neighbours[s], out+col.edgeAttrs[i]+col.colors[t])
		neighbours[t] = append(neighbours[t], in+col.edgeAttrs[i]+col.colors[s])
	}
	next := make([]string, len(col.colors))
	for i, nb := range neighbours {
		sort.Strings(nb)
		next[i] = graph.Signature(col.colors[i], strings.Join(nb, "|"))
	}
	col.colors = next
}

// classes returns the number of distinct colors.
func (col *coloring) classes() int {
	seen := make(map[string]bool, len(col.colors))
	for _, c := range col.colors {
		seen[c] = true
	}
	return len(seen)
}

// targetCell returns the smallest ambiguous color, or "" when every node
// has a color of its own.
func (col *coloring) targetCell() string {
	h := histogram(col.colors)
	best, size := "", 0
	for color, n := range h {
		if n < 2 {
			continue
		}
		if best == "" || n < size || (n == size && color < best) {
			best, size = color, n
		}
	}
	return best
}

func (col *coloring) first(color string) int {
	for i, c := range col.colors {
		if c == color {
			return i
		}
	}
	return -1
}

func (col *coloring) clone() *coloring {
	cp := *col
	cp.colors = append([]string(nil), col.colors...)
	return &cp
}

// ambiguous counts the nodes whose color is shared with another node.
func ambiguous(col *coloring) int {
	n := 0
	for _, count := range histogram(col.colors) {
		if count > 1 {
			n += count
		}
	}
	return n
}

func histogram(sigs []string) map[string]int {
	h := make(map[string]int, len(sigs))
	for _, s := range sigs {
		h[s]++
	}
	return h
}

func (c *idsNotPreserved) diffNodeHistograms(ref, tst *coloring, round int, d *discrepancies) {
	refHist, tstHist := histogram(ref.colors), histogram(tst.colors)
	for i, sig := range ref.colors {
		if refHist[sig] > tstHist[sig] {
			n := ref.g.Nodes[i]
			if round == 0 {
				d.addf("reference node %q %s has no counterpart with the same attributes", n.ID, graph.Canonical(n.Attrs, c.ignore))
			} else {
				d.addf("reference node %q has no counterpart with the same neighbourhood (refinement round %d)", n.ID, round)
			}
			refHist[sig] = tstHist[sig] // Report each class once.
		}
	}
	for i, sig := range tst.colors {
		if tstHist[sig] > refHist[sig] {
			n := tst.g.Nodes[i]
			if round == 0 {
				d.addf("test node %q %s has no counterpart with the same attributes", n.ID, graph.Canonical(n.Attrs, c.ignore))
			} else {
				d.addf("test node %q has no counterpart with the same neighbourhood (refinement round %d)", n.ID, round)
			}
			tstHist[sig] = refHist[sig]
		}
	}
}

func (c *idsNotPreserved) diffEdgeHistograms(ref, tst *coloring, d *discrepancies) {
	refSigs := make([]string, len(ref.g.Edges))
	for i := range ref.g.Edges {
		refSigs[i] = ref.edgeSignature(i)
	}
	tstSigs := make([]string, len(tst.g.Edges))
	for i := range tst.g.Edges {
		tstSigs[i] = tst.edgeSignature(i)
	}
	refHist, tstHist := histogram(refSigs), histogram(tstSigs)
	for i, sig := range refSigs {
		if refHist[sig] > tstHist[sig] {
			d.addf("reference edge %s has no counterpart", describeEdge(ref.g, i, c.ignore))
			refHist[sig] = tstHist[sig]
		}
	}
	for i, sig := range tstSigs {
		if tstHist[sig] > refHist[sig] {
			d.addf("test edge %s has no counterpart", describeEdge(tst.g, i, c.ignore))
			tstHist[sig] = refHist[sig]
		}
	}
}

func describeEdge(g *graph.Graph, i int, ignore map[string]bool) string {
	e := g.Edges[i]
	return fmt.Sprintf("(%s) %s", g.EdgeKey(e), graph.Canonical(e.Attrs, ignore))
}

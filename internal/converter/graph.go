package converter

import "github.com/AndreyAkinshin/convtest/internal/errors"

// Graph registers, per input format, an ordered list of test paths and the
// single compare path their results are checked against.
type Graph struct {
	formats      []string
	testPaths    map[string][]*Path
	comparePaths map[string]*Path
}

// NewGraph creates an empty converter graph.
func NewGraph() *Graph {
	return &Graph{
		testPaths:    make(map[string][]*Path),
		comparePaths: make(map[string]*Path),
	}
}

func (g *Graph) register(format string) {
	if _, ok := g.testPaths[format]; ok {
		return
	}
	if _, ok := g.comparePaths[format]; ok {
		return
	}
	g.formats = append(g.formats, format)
}

// AddTestPath appends a test path for format. The path must accept format.
func (g *Graph) AddTestPath(format string, p *Path) error {
	if err := checkAccepts(format, p); err != nil {
		return err
	}
	g.register(format)
	g.testPaths[format] = append(g.testPaths[format], p)
	return nil
}

// SetComparePath sets the compare path for format, replacing any previous one.
func (g *Graph) SetComparePath(format string, p *Path) error {
	if err := checkAccepts(format, p); err != nil {
		return err
	}
	g.register(format)
	g.comparePaths[format] = p
	return nil
}

// Formats returns the registered formats in registration order.
func (g *Graph) Formats() []string {
	formats := make([]string, len(g.formats))
	copy(formats, g.formats)
	return formats
}

// TestPaths returns the test paths for format in registration order.
func (g *Graph) TestPaths(format string) []*Path {
	paths := make([]*Path, len(g.testPaths[format]))
	copy(paths, g.testPaths[format])
	return paths
}

// ComparePath returns the compare path for format; ok is false if none is registered.
func (g *Graph) ComparePath(format string) (p *Path, ok bool) {
	p, ok = g.comparePaths[format]
	return p, ok
}

func checkAccepts(format string, p *Path) error {
	if p == nil {
		return errors.PathError(format, "", "nil path")
	}
	if p.AcceptedFormat() != format {
		return errors.PathError(format, p.String(), "path accepts "+p.AcceptedFormat())
	}
	return nil
}

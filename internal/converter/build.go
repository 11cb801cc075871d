package converter

import (
	"fmt"
	"sort"

	"github.com/AndreyAkinshin/convtest/internal/config"
	"github.com/AndreyAkinshin/convtest/internal/errors"
	"github.com/AndreyAkinshin/convtest/internal/graph"
)

// Build creates the converter graph described by cfg. Formats are registered
// in sorted name order. Warnings report formats whose tests will be skipped.
func Build(cfg *config.Config) (*Graph, []string, error) {
	converters := make(map[string]Converter, len(cfg.Converters))
	for name, c := range cfg.Converters {
		converters[name] = Converter{
			Name:         name,
			In:           c.In,
			Out:          c.Out,
			Command:      c.Command,
			Lossy:        c.Lossy,
			PreservesIDs: c.PreservesIDs,
			Vars:         c.Vars,
			Env:          c.Env,
		}
	}

	formats := make([]string, 0, len(cfg.Formats))
	for name := range cfg.Formats {
		formats = append(formats, name)
	}
	sort.Strings(formats)

	g := NewGraph()
	var warnings []string
	for _, format := range formats {
		fc := cfg.Formats[format]
		for _, chain := range fc.TestPaths {
			p, err := resolvePath(converters, format, chain)
			if err != nil {
				return nil, nil, err
			}
			if err := g.AddTestPath(format, p); err != nil {
				return nil, nil, err
			}
		}
		if fc.ComparePath == "" {
			if len(fc.TestPaths) > 0 {
				warnings = append(warnings, fmt.Sprintf("format %q has no compare path; its %d test path(s) will be skipped", format, len(fc.TestPaths)))
			}
			continue
		}
		p, err := resolvePath(converters, format, fc.ComparePath)
		if err != nil {
			return nil, nil, err
		}
		if err := g.SetComparePath(format, p); err != nil {
			return nil, nil, err
		}
	}
	return g, warnings, nil
}

// resolvePath parses chain and looks up its converters. The resulting path
// must end in a format that can be decoded into a graph.
func resolvePath(converters map[string]Converter, format, chain string) (*Path, error) {
	names, err := ParseChain(chain)
	if err != nil {
		return nil, errors.PathError(format, chain, err.Error())
	}
	steps := make([]Converter, 0, len(names))
	for _, name := range names {
		c, ok := converters[name]
		if !ok {
			return nil, errors.PathError(format, chain, fmt.Sprintf("unknown converter %q", name))
		}
		steps = append(steps, c)
	}
	p, err := NewPath(steps...)
	if err != nil {
		return nil, errors.PathError(format, chain, err.Error())
	}
	if p.AcceptedFormat() != format {
		return nil, errors.PathError(format, chain, "path accepts "+p.AcceptedFormat())
	}
	if !graph.IsDecodable(p.OutputFormat()) {
		return nil, errors.PathError(format, chain, fmt.Sprintf("path produces %q, which cannot be decoded as a graph (supported: %v)", p.OutputFormat(), graph.Formats()))
	}
	return p, nil
}

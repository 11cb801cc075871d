// Package converter models converters, the chains (paths) they form, and the
// per-format registry of test and compare paths. It also provides a command
// executor that runs a path as a series of shell commands.
package converter

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"
)

// Converter is one conversion step from format In to format Out.
type Converter struct {
	Name         string
	In           string
	Out          string
	Command      string // Shell command; empty copies the input unchanged
	Lossy        bool
	PreservesIDs bool
	Vars         map[string]string
	Env          map[string]string
}

func (c Converter) clone() Converter {
	c.Vars = maps.Clone(c.Vars)
	c.Env = maps.Clone(c.Env)
	return c
}

// Path is an immutable chain of converters accepting one format.
// A path is lossy if any step is lossy and preserves IDs only if every step does.
type Path struct {
	steps        []Converter
	lossy        bool
	preservesIDs bool
}

// NewPath builds a path from linked steps: the output format of each step
// must be the input format of the next.
func NewPath(steps ...Converter) (*Path, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("converter path must have at least one step")
	}
	p := &Path{
		steps:        make([]Converter, len(steps)),
		preservesIDs: true,
	}
	for i, step := range steps {
		p.steps[i] = step.clone()
	}
	for i, step := range p.steps {
		if step.Name == "" {
			return nil, fmt.Errorf("step %d has no name", i+1)
		}
		if i > 0 && p.steps[i-1].Out != step.In {
			return nil, fmt.Errorf("step %q produces %q but %q accepts %q",
				p.steps[i-1].Name, p.steps[i-1].Out, step.Name, step.In)
		}
		p.lossy = p.lossy || step.Lossy
		p.preservesIDs = p.preservesIDs && step.PreservesIDs
	}
	return p, nil
}

// MustPath is like NewPath but panics on error.
func MustPath(steps ...Converter) *Path {
	p, err := NewPath(steps...)
	if err != nil {
		panic(err)
	}
	return p
}

// AcceptedFormat returns the input format of the first step.
func (p *Path) AcceptedFormat() string { return p.steps[0].In }

// OutputFormat returns the output format of the last step.
func (p *Path) OutputFormat() string { return p.steps[len(p.steps)-1].Out }

// IsLossy reports whether any step may drop information.
func (p *Path) IsLossy() bool { return p.lossy }

// PreservesIDs reports whether every step keeps node identifiers.
func (p *Path) PreservesIDs() bool { return p.preservesIDs }

// Len returns the number of steps.
func (p *Path) Len() int { return len(p.steps) }

// Steps returns a copy of the steps in order. Vars and Env are copied too.
func (p *Path) Steps() []Converter {
	steps := make([]Converter, len(p.steps))
	for i, step := range p.steps {
		steps[i] = step.clone()
	}
	return steps
}

// String renders the path in chain syntax, e.g. "a -> b".
func (p *Path) String() string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name
	}
	return strings.Join(names, " "+arrow+" ")
}

type pathJSON struct {
	Chain        string `json:"chain"`
	Accepts      string `json:"accepts"`
	Produces     string `json:"produces"`
	Lossy        bool   `json:"lossy"`
	PreservesIDs bool   `json:"preserves_ids"`
}

// MarshalJSON encodes the path as its chain plus derived properties.
func (p *Path) MarshalJSON() ([]byte, error) {
	return json.Marshal(pathJSON{
		Chain:        p.String(),
		Accepts:      p.AcceptedFormat(),
		Produces:     p.OutputFormat(),
		Lossy:        p.lossy,
		PreservesIDs: p.preservesIDs,
	})
}

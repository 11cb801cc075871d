// Package compare decides whether two converted graphs are equivalent.
//
// Three strategies exist. IdsPreserved matches nodes and edges by identifier.
// IdsNotPreserved looks for a structure-preserving correspondence between
// nodes using content signatures refined over their neighbourhoods. Lossy
// tolerates omissions and fails only on contradictions. Select picks the
// strategy from the properties of the two converter paths.
package compare

import (
	"fmt"

	"github.com/AndreyAkinshin/convtest/internal/config"
	"github.com/AndreyAkinshin/convtest/internal/converter"
	"github.com/AndreyAkinshin/convtest/internal/graph"
	"github.com/AndreyAkinshin/convtest/internal/results"
)

// Kind names a comparison strategy.
type Kind int

const (
	KindIdsPreserved Kind = iota
	KindIdsNotPreserved
	KindLossy
)

func (k Kind) String() string {
	switch k {
	case KindIdsPreserved:
		return "ids_preserved"
	case KindIdsNotPreserved:
		return "ids_not_preserved"
	case KindLossy:
		return "lossy"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Select returns the strategy for comparing the output of testPath against comparePath.
func Select(testPath, comparePath *converter.Path) Kind {
	if testPath.IsLossy() && comparePath.IsLossy() {
		return KindLossy
	}
	if !(testPath.PreservesIDs() && comparePath.PreservesIDs()) {
		return KindIdsNotPreserved
	}
	return KindIdsPreserved
}

// Comparator checks a test graph against a reference graph.
// A comparison failure is a non-passing outcome; an error means a graph was malformed.
type Comparator interface {
	Kind() Kind
	Compare(test, reference *graph.Graph) (results.FileOutcome, error)
}

// Options tune value comparison for every strategy.
type Options struct {
	FloatTolerance   float64
	ToleranceMode    config.ToleranceMode
	IgnoreAttributes []string
	MaxDetails       int // Discrepancies listed before "and N more"; zero uses the default
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		FloatTolerance: config.DefaultFloatTolerance,
		ToleranceMode:  config.ToleranceModeRelative,
	}
}

// OptionsFromConfig converts the comparison section of a configuration.
func OptionsFromConfig(cfg *config.ComparisonConfig) Options {
	opts := DefaultOptions()
	if cfg == nil {
		return opts
	}
	if cfg.FloatTolerance != 0 {
		opts.FloatTolerance = cfg.FloatTolerance
	}
	if cfg.ToleranceMode != "" {
		opts.ToleranceMode = config.ToleranceMode(cfg.ToleranceMode)
	}
	opts.IgnoreAttributes = append([]string(nil), cfg.IgnoreAttributes...)
	return opts
}

func (o Options) ignored() map[string]bool {
	if len(o.IgnoreAttributes) == 0 {
		return nil
	}
	m := make(map[string]bool, len(o.IgnoreAttributes))
	for _, name := range o.IgnoreAttributes {
		m[name] = true
	}
	return m
}

// New builds the comparator for kind.
func New(kind Kind, opts Options) (Comparator, error) {
	base := base{opts: opts, ignore: opts.ignored()}
	switch kind {
	case KindIdsPreserved:
		return &idsPreserved{base}, nil
	case KindIdsNotPreserved:
		return &idsNotPreserved{base}, nil
	case KindLossy:
		return &lossy{base}, nil
	default:
		return nil, fmt.Errorf("unknown comparator kind %v", kind)
	}
}

// ForPaths selects and builds the comparator for a test path and its compare path.
func ForPaths(testPath, comparePath *converter.Path, opts Options) Comparator {
	c, err := New(Select(testPath, comparePath), opts)
	if err != nil {
		// Select only returns known kinds.
		panic(err)
	}
	return c
}

type base struct {
	opts   Options
	ignore map[string]bool
}

// validate checks both graphs, labelling which side was malformed.
func validate(test, reference *graph.Graph) error {
	if err := graph.Validate(test); err != nil {
		return fmt.Errorf("test graph: %w", err)
	}
	if err := graph.Validate(reference); err != nil {
		return fmt.Errorf("reference graph: %w", err)
	}
	return nil
}

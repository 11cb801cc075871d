// Package samples supplies the sample input files that converter paths are tested against.
package samples

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Input is one sample file of a known format.
type Input struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Label  string `json:"label"`
}

// NewInput returns an Input whose label defaults to its path.
func NewInput(path, format, label string) Input {
	if label == "" {
		label = path
	}
	return Input{Path: path, Format: format, Label: label}
}

// DirProvider reads samples from <Dir>/<format>/, keeping entries that match Pattern.
type DirProvider struct {
	Dir     string
	Pattern string
}

// NewDirProvider creates a provider rooted at dir. An empty pattern matches every file.
func NewDirProvider(dir, pattern string) *DirProvider {
	if pattern == "" {
		pattern = "*"
	}
	return &DirProvider{Dir: dir, Pattern: pattern}
}

// SampleInputs returns the samples registered for format in sorted name order.
// A format without a sample directory has no samples.
// Labels are "<format>/<file name>".
func (p *DirProvider) SampleInputs(format string) ([]Input, error) {
	if _, err := filepath.Match(p.Pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid sample pattern %q: %w", p.Pattern, err)
	}

	dir := filepath.Join(p.Dir, format)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Input{}, nil
		}
		return nil, fmt.Errorf("failed to read samples for %s: %w", format, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if len(name) > 0 && name[0] == '.' {
			continue
		}
		// Pattern was checked above, so Match cannot fail here.
		if ok, _ := filepath.Match(p.Pattern, name); !ok {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	inputs := make([]Input, 0, len(names))
	for _, name := range names {
		inputs = append(inputs, NewInput(filepath.Join(dir, name), format, format+"/"+name))
	}
	return inputs, nil
}

package project

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/AndreyAkinshin/convtest/internal/config"
	"github.com/AndreyAkinshin/convtest/internal/errors"
)

// DiscoverSampleFormats lists the format subdirectories of a samples
// directory in sorted order. Hidden directories are skipped. A missing
// directory yields no formats.
func DiscoverSampleFormats(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var formats []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		formats = append(formats, entry.Name())
	}
	sort.Strings(formats)
	return formats, nil
}

// checkSamples compares the samples on disk with the configured formats.
func checkSamples(dir string, cfg *config.Config) ([]string, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return []string{fmt.Sprintf("samples directory %q does not exist; no samples will be tested", dir)}, nil
	}
	if err != nil {
		return nil, errors.WrapEnvironment(err, fmt.Sprintf("cannot access samples directory %q", dir))
	}
	if !info.IsDir() {
		return nil, errors.Environmentf("samples directory %q is not a directory", dir)
	}

	found, err := DiscoverSampleFormats(dir)
	if err != nil {
		return nil, errors.WrapEnvironment(err, fmt.Sprintf("cannot list samples directory %q", dir))
	}
	present := make(map[string]bool, len(found))
	var warnings []string
	for _, name := range found {
		present[name] = true
		if _, ok := cfg.Formats[name]; !ok {
			warnings = append(warnings, fmt.Sprintf("samples for %q are not tested: no such format is configured", name))
		}
	}

	names := make([]string, 0, len(cfg.Formats))
	for name := range cfg.Formats {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if len(cfg.Formats[name].TestPaths) > 0 && !present[name] {
			warnings = append(warnings, fmt.Sprintf("format %q has no samples directory", name))
		}
	}
	return warnings, nil
}

package graph

import (
	"fmt"
	"io"
	"sort"

	"github.com/AndreyAkinshin/convtest/internal/fileutil"
)

// Graph formats with built-in decoders.
const (
	FormatJSON    = "graph-json"
	FormatGraphML = "graphml"
)

// Decoder reads a graph from r.
type Decoder func(r io.Reader) (*Graph, error)

var decoders = map[string]Decoder{
	FormatJSON:    DecodeJSON,
	FormatGraphML: DecodeGraphML,
}

// Formats returns the names of all decodable graph formats in sorted order.
func Formats() []string {
	names := make([]string, 0, len(decoders))
	for name := range decoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsDecodable reports whether a decoder exists for format.
func IsDecodable(format string) bool {
	_, ok := decoders[format]
	return ok
}

// Decode reads a graph in the given format.
func Decode(format string, r io.Reader) (*Graph, error) {
	dec, ok := decoders[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	g, err := dec(r)
	if err != nil {
		return nil, &DecodeError{Format: format, Err: err}
	}
	return g, nil
}

// ReadFile decodes the graph stored at path. Files ending in ".xz" are decompressed first.
func ReadFile(path, format string) (*Graph, error) {
	r, err := fileutil.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return Decode(format, r)
}

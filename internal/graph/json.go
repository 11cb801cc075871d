package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

type jsonGraph struct {
	Directed   *bool          `json:"directed,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
	Nodes      []jsonNode     `json:"nodes"`
	Edges      []jsonEdge     `json:"edges"`
}

type jsonNode struct {
	ID         jsonID         `json:"id"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

type jsonEdge struct {
	Source     jsonID         `json:"source"`
	Target     jsonID         `json:"target"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// jsonID accepts both string and numeric identifiers.
type jsonID string

func (id *jsonID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = jsonID(s)
		return nil
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("identifier must be a string or number, got %s", data)
	}
	*id = jsonID(n.String())
	return nil
}

// DecodeJSON reads the graph-json format:
//
//	{"directed": true, "attributes": {...},
//	 "nodes": [{"id": "a", "attributes": {...}}],
//	 "edges": [{"source": "a", "target": "b", "attributes": {...}}]}
//
// Graphs without a "directed" field are directed.
func DecodeJSON(r io.Reader) (*Graph, error) {
	var raw jsonGraph
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	g := New(true)
	if raw.Directed != nil {
		g.Directed = *raw.Directed
	}
	g.Attrs = raw.Attributes
	for _, n := range raw.Nodes {
		g.AddNode(string(n.ID), n.Attributes)
	}
	for _, e := range raw.Edges {
		g.AddEdge(string(e.Source), string(e.Target), e.Attributes)
	}
	return g, nil
}

// EncodeJSON writes g in the graph-json format.
func EncodeJSON(w io.Writer, g *Graph) error {
	directed := g.Directed
	raw := jsonGraph{
		Directed:   &directed,
		Attributes: g.Attrs,
		Nodes:      make([]jsonNode, 0, len(g.Nodes)),
		Edges:      make([]jsonEdge, 0, len(g.Edges)),
	}
	for _, n := range g.Nodes {
		raw.Nodes = append(raw.Nodes, jsonNode{ID: jsonID(n.ID), Attributes: n.Attrs})
	}
	for _, e := range g.Edges {
		raw.Edges = append(raw.Edges, jsonEdge{Source: jsonID(e.Source), Target: jsonID(e.Target), Attributes: e.Attrs})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(raw)
}

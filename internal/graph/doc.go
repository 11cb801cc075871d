// Package graph provides the structured graph produced by converter paths
// and the decoders that read converter output into it.
//
// A Graph is a set of nodes and edges, each carrying scalar attributes.
// Decoding and validation are separate phases:
//
//   - Decode: reads graph-json or GraphML into a Graph without judging it
//   - Validate: rejects structurally malformed graphs (duplicate or empty
//     node IDs, dangling edge endpoints, non-scalar attribute values)
//
// Validation failures wrap ErrMalformed and can be checked with errors.Is.
package graph

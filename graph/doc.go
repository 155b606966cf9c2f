// Package graph provides an undirected graph of named nodes with
// weighted, attributed edges.
//
// Nodes are addressed by name and carry free-form attribute maps.
// Adding a node that already exists merges the new attributes into it.
// Edges default to weight 1 and a "u-v" name, and the same edge value
// is reachable from both of its endpoints.
//
// Key features:
//   - Insertion-ordered node and edge listings
//   - Attribute merging on repeated adds
//   - Node removal that detaches every incident edge
//   - Concurrency-safe topology operations
//
// Basic usage:
//
//	g := graph.New(graph.WithName("routes"))
//
//	g.AddNode("OrderPlaced", graph.Attrs{"kind": "event"})
//	g.AddNode("billing", graph.Attrs{"kind": "service"})
//	g.AddEdge("OrderPlaced", "billing", graph.WithWeight(2))
//
//	for _, node := range g.Neighbors("billing") {
//	    fmt.Println(node.Name)
//	}
//
// One use is sketching dispatch topologies: message types and the
// components that handle or forward them, with edge weights for fan-out
// counts or costs.
package graph

package graph

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrNodeNotFound is returned when no node exists under a name.
	ErrNodeNotFound = errors.New("node not found")

	// ErrEdgeNotFound is returned when no edge connects two nodes.
	ErrEdgeNotFound = errors.New("edge not found")
)

// Attrs holds free-form attributes attached to graphs, nodes, and
// edges.
type Attrs map[string]interface{}

// Copy returns a shallow copy of the attributes.
func (a Attrs) Copy() Attrs {
	result := make(Attrs, len(a))
	for key, value := range a {
		result[key] = value
	}
	return result
}

// merge folds other into a, overwriting existing keys.
func (a Attrs) merge(other Attrs) {
	for key, value := range other {
		a[key] = value
	}
}

// Node is a named vertex with free-form attributes.
type Node struct {
	Name  string
	Attrs Attrs
}

// Edge connects two nodes. The zero weight is never stored; edges
// default to weight 1.
type Edge struct {
	Name   string
	U      string
	V      string
	Weight float64
	Attrs  Attrs
}

// EdgeOption configures an edge when it is added.
type EdgeOption func(*Edge)

// WithWeight sets the edge weight.
func WithWeight(weight float64) EdgeOption {
	return func(e *Edge) {
		e.Weight = weight
	}
}

// WithEdgeName overrides the default "u-v" edge name.
func WithEdgeName(name string) EdgeOption {
	return func(e *Edge) {
		e.Name = name
	}
}

// WithEdgeAttrs merges attributes into the edge.
func WithEdgeAttrs(attrs Attrs) EdgeOption {
	return func(e *Edge) {
		e.Attrs.merge(attrs)
	}
}

// Graph is an undirected graph of named nodes with weighted edges.
// Topology operations are safe for concurrent use; the attribute maps
// they hand out are not synchronized.
type Graph struct {
	name  string
	attrs Attrs

	mu    sync.RWMutex
	nodes map[string]*Node
	order []string
	adj   map[string]map[string]*Edge
	edges []*Edge
}

// Option configures a Graph.
type Option func(*Graph)

// WithName sets the graph name.
func WithName(name string) Option {
	return func(g *Graph) {
		g.name = name
	}
}

// WithAttrs merges graph-level attributes.
func WithAttrs(attrs Attrs) Option {
	return func(g *Graph) {
		g.attrs.merge(attrs)
	}
}

// New creates an empty graph.
func New(options ...Option) *Graph {
	g := &Graph{
		attrs: make(Attrs),
		nodes: make(map[string]*Node),
		adj:   make(map[string]map[string]*Edge),
	}

	for _, option := range options {
		option(g)
	}
	return g
}

// Name returns the graph name.
func (g *Graph) Name() string {
	return g.name
}

// Attrs returns the graph-level attributes.
func (g *Graph) Attrs() Attrs {
	return g.attrs
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// Contains reports whether a node exists under name.
func (g *Graph) Contains(name string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, exists := g.nodes[name]
	return exists
}

// AddNode adds a node, or merges attrs into the existing node of the
// same name. It returns the stored node.
func (g *Graph) AddNode(name string, attrs Attrs) *Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.addNode(name, attrs)
}

func (g *Graph) addNode(name string, attrs Attrs) *Node {
	node, exists := g.nodes[name]
	if !exists {
		node = &Node{Name: name, Attrs: make(Attrs)}
		g.nodes[name] = node
		g.order = append(g.order, name)
		g.adj[name] = make(map[string]*Edge)
	}

	node.Attrs.merge(attrs)
	return node
}

// Node returns the node stored under name.
func (g *Graph) Node(name string) (*Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	node, exists := g.nodes[name]
	return node, exists
}

// Nodes returns every node in the order it was added.
func (g *Graph) Nodes() []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	result := make([]*Node, 0, len(g.order))
	for _, name := range g.order {
		result = append(result, g.nodes[name])
	}
	return result
}

// RemoveNode removes a node and every edge touching it, returning the
// removed node.
func (g *Graph) RemoveNode(name string) (*Node, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	node, exists := g.nodes[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, name)
	}

	for neighbor := range g.adj[name] {
		delete(g.adj[neighbor], name)
	}
	delete(g.adj, name)
	delete(g.nodes, name)

	for i, existing := range g.order {
		if existing == name {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}

	kept := g.edges[:0]
	for _, edge := range g.edges {
		if edge.U != name && edge.V != name {
			kept = append(kept, edge)
		}
	}
	g.edges = kept

	return node, nil
}

// AddEdge connects u and v, adding either endpoint that does not exist
// yet. Adding an edge that already connects the two applies the
// options to the existing edge. The edge is returned.
func (g *Graph) AddEdge(u, v string, options ...EdgeOption) *Edge {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.addNode(u, nil)
	g.addNode(v, nil)

	edge, exists := g.adj[u][v]
	if !exists {
		edge = &Edge{
			Name:   u + "-" + v,
			U:      u,
			V:      v,
			Weight: 1,
			Attrs:  make(Attrs),
		}
		// Both directions share one edge value.
		g.adj[u][v] = edge
		g.adj[v][u] = edge
		g.edges = append(g.edges, edge)
	}

	for _, option := range options {
		option(edge)
	}
	return edge
}

// Edge returns the edge connecting u and v.
func (g *Graph) Edge(u, v string) (*Edge, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	edge, exists := g.adj[u][v]
	return edge, exists
}

// Edges returns every edge in the order it was added.
func (g *Graph) Edges() []*Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	result := make([]*Edge, len(g.edges))
	copy(result, g.edges)
	return result
}

// RemoveEdge disconnects u and v, returning the removed edge. The
// endpoints stay in the graph.
func (g *Graph) RemoveEdge(u, v string) (*Edge, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	edge, exists := g.adj[u][v]
	if !exists {
		return nil, fmt.Errorf("%w: %s-%s", ErrEdgeNotFound, u, v)
	}

	delete(g.adj[u], v)
	delete(g.adj[v], u)

	for i, existing := range g.edges {
		if existing == edge {
			g.edges = append(g.edges[:i], g.edges[i+1:]...)
			break
		}
	}

	return edge, nil
}

// Neighbors returns the nodes adjacent to name, sorted by name.
func (g *Graph) Neighbors(name string) []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	adjacent := g.adj[name]
	names := make([]string, 0, len(adjacent))
	for neighbor := range adjacent {
		names = append(names, neighbor)
	}
	sort.Strings(names)

	result := make([]*Node, 0, len(names))
	for _, neighbor := range names {
		result = append(result, g.nodes[neighbor])
	}
	return result
}

// Degree returns the number of edges touching name.
func (g *Graph) Degree(name string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.adj[name])
}

// Adjacency returns a copy of the adjacency structure. The copy shares
// edge values with the graph, so the same edge appears under both of
// its endpoints.
func (g *Graph) Adjacency() map[string]map[string]*Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	result := make(map[string]map[string]*Edge, len(g.adj))
	for name, adjacent := range g.adj {
		row := make(map[string]*Edge, len(adjacent))
		for neighbor, edge := range adjacent {
			row[neighbor] = edge
		}
		result[name] = row
	}
	return result
}

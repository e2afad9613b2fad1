package gfa

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] for the zero id.
	// GFA segment ids used by gfalace are positive integers.
	ErrInvalidNodeID = errors.New("node id must be positive")

	// ErrDuplicateNode is returned by [Graph.AddNode] when a node with the
	// same id already exists.
	ErrDuplicateNode = errors.New("duplicate node id")

	// ErrUnknownSegment is returned when an edge endpoint or path step
	// references a node that is not in the graph.
	ErrUnknownSegment = errors.New("unknown segment")

	// ErrDuplicatePath is returned by [Graph.AddPath] when a path with the
	// same name already exists.
	ErrDuplicatePath = errors.New("duplicate path name")

	// ErrEmptyPathName is returned by [Graph.AddPath] for an empty name.
	ErrEmptyPathName = errors.New("path name must not be empty")
)

// =============================================================================
// Handles, Nodes, Edges, Paths
// =============================================================================

// Handle is an oriented reference to a node: the unit of path traversal and
// the endpoint type of edges.
type Handle struct {
	ID      uint64
	Reverse bool
}

// Forward returns the forward handle of node id.
func Forward(id uint64) Handle { return Handle{ID: id} }

// Orient returns the GFA orientation character, '+' or '-'.
func (h Handle) Orient() byte {
	if h.Reverse {
		return '-'
	}
	return '+'
}

// Flip returns the same node on the opposite strand.
func (h Handle) Flip() Handle { return Handle{ID: h.ID, Reverse: !h.Reverse} }

// String renders the handle as a GFA path step, e.g. "12+".
func (h Handle) String() string {
	return strconv.FormatUint(h.ID, 10) + string(h.Orient())
}

// compareHandles orders handles by id, forward before reverse.
func compareHandles(a, b Handle) int {
	if c := cmp.Compare(a.ID, b.ID); c != 0 {
		return c
	}
	switch {
	case a.Reverse == b.Reverse:
		return 0
	case !a.Reverse:
		return -1
	default:
		return 1
	}
}

// Node is a segment: an id plus its sequence.
type Node struct {
	ID       uint64
	Sequence []byte
}

// Edge is an ordered pair of oriented node references. Two edges are the same
// edge only if both endpoints and both orientations are equal.
type Edge struct {
	From Handle
	To   Handle
}

// String renders the edge as "1+ -> 2-".
func (e Edge) String() string { return e.From.String() + " -> " + e.To.String() }

// compareEdges orders edges by (from id, to id), then by orientation.
func compareEdges(a, b Edge) int {
	if c := cmp.Compare(a.From.ID, b.From.ID); c != 0 {
		return c
	}
	if c := cmp.Compare(a.To.ID, b.To.ID); c != 0 {
		return c
	}
	if c := compareHandles(a.From, b.From); c != 0 {
		return c
	}
	return compareHandles(a.To, b.To)
}

// Path is a named, ordered sequence of oriented steps.
type Path struct {
	Name  string
	Steps []Handle
}

// =============================================================================
// Graph
// =============================================================================

// Graph is a sequence graph: nodes with sequences, a set of oriented edges
// and named paths. The zero value is not usable; use [New].
type Graph struct {
	nodes map[uint64]*Node
	edges map[Edge]struct{}
	paths map[string]*Path
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[uint64]*Node),
		edges: make(map[Edge]struct{}),
		paths: make(map[string]*Path),
	}
}

// AddNode adds a node. The graph keeps its own copy of the node struct but
// shares the sequence bytes, which must not be modified afterwards.
func (g *Graph) AddNode(n Node) error {
	if n.ID == 0 {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicateNode, n.ID)
	}
	g.nodes[n.ID] = &n
	return nil
}

// AddEdge adds e unless the identical oriented edge is already present.
// It reports whether the edge was newly added.
func (g *Graph) AddEdge(e Edge) (bool, error) {
	if _, ok := g.nodes[e.From.ID]; !ok {
		return false, fmt.Errorf("%w: %d", ErrUnknownSegment, e.From.ID)
	}
	if _, ok := g.nodes[e.To.ID]; !ok {
		return false, fmt.Errorf("%w: %d", ErrUnknownSegment, e.To.ID)
	}
	if _, exists := g.edges[e]; exists {
		return false, nil
	}
	g.edges[e] = struct{}{}
	return true, nil
}

// HasEdge reports whether the exact oriented edge e exists.
func (g *Graph) HasEdge(e Edge) bool {
	_, ok := g.edges[e]
	return ok
}

// AddPath adds a named path. Every step must reference an existing node.
// The steps slice is copied.
func (g *Graph) AddPath(name string, steps []Handle) error {
	if name == "" {
		return ErrEmptyPathName
	}
	if _, exists := g.paths[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePath, name)
	}
	for _, s := range steps {
		if _, ok := g.nodes[s.ID]; !ok {
			return fmt.Errorf("path %s: %w: %d", name, ErrUnknownSegment, s.ID)
		}
	}
	g.paths[name] = &Path{Name: name, Steps: slices.Clone(steps)}
	return nil
}

// Node returns the node with the given id.
func (g *Graph) Node(id uint64) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Path returns the path with the given name.
func (g *Graph) Path(name string) (*Path, bool) {
	p, ok := g.paths[name]
	return p, ok
}

// NodeIDs returns all node ids in ascending order.
func (g *Graph) NodeIDs() []uint64 {
	return slices.Sorted(maps.Keys(g.nodes))
}

// Nodes returns all nodes sorted by ascending id.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, id := range g.NodeIDs() {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns all edges sorted by (from id, to id), then orientation.
func (g *Graph) Edges() []Edge {
	return slices.SortedFunc(maps.Keys(g.edges), compareEdges)
}

// Paths returns all paths sorted by name (byte-wise).
// The returned paths are the graph's own; callers must not modify them.
func (g *Graph) Paths() []*Path {
	names := slices.Sorted(maps.Keys(g.paths))
	out := make([]*Path, len(names))
	for i, name := range names {
		out[i] = g.paths[name]
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// PathCount returns the number of paths.
func (g *Graph) PathCount() int { return len(g.paths) }

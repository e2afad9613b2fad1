package lace

import (
	"fmt"

	"github.com/matzehuels/gfalace/pkg/gfa"
)

// BuildStats summarizes what [BuildPaths] added to the graph.
type BuildStats struct {
	Paths      int // paths created
	Steps      int // steps across all created paths
	EdgesAdded int // edges that did not exist before
}

// BuildPaths creates each path in g and connects every consecutive pair of
// its steps with an edge, unless that exact oriented edge already exists.
// Paths are created in the given order; a duplicate name is an error.
func BuildPaths(g *gfa.Graph, paths []LacedPath) (BuildStats, error) {
	var stats BuildStats
	for _, p := range paths {
		if err := g.AddPath(p.Name, p.Steps); err != nil {
			return stats, fmt.Errorf("create path: %w", err)
		}
		stats.Paths++
		stats.Steps += len(p.Steps)

		for i := 1; i < len(p.Steps); i++ {
			added, err := g.AddEdge(gfa.Edge{From: p.Steps[i-1], To: p.Steps[i]})
			if err != nil {
				return stats, fmt.Errorf("connect path %s: %w", p.Name, err)
			}
			if added {
				stats.EdgesAdded++
			}
		}
	}
	return stats, nil
}

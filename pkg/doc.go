// Package pkg provides the core libraries for gfalace, a pangenome block lacer.
//
// # Overview
//
// Pangenome graphs for whole genomes are often built block by block: each
// block covers a slice of the genome and is stored as its own GFA file, with
// path names recording where each haplotype fragment came from
// (sample#haplotype#contig:start-end). gfalace laces those blocks back into a
// single graph. The pkg directory is organized into these areas:
//
//  1. [gfa] - GFA v1 graph model, reader (plain or gzipped) and writer
//  2. [lace] - Id translation, range extraction, reconciliation, path building
//  3. [pipeline] - Orchestration (load → lace → write) with result caching
//  4. [cache] - File-based result cache keyed by input digests
//  5. [observability] - Hooks for block, lace, write and cache events
//  6. [render] - Node-link diagrams of small laced graphs
//
// # Architecture
//
// The data flow through gfalace:
//
//	block GFA files (in argument order)
//	         ↓
//	    [gfa] package (load, decompress if needed)
//	         ↓
//	    [lace] package (translate ids, extract ranges)
//	         ↓
//	    [lace] package (reconcile per locus, build paths and edges)
//	         ↓
//	    [gfa] package (deterministic GFA output)
//
// # Quick Start
//
// Lace two blocks through the pipeline:
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Inputs: []string{"chr1_0.gfa.gz", "chr1_1.gfa.gz"},
//	    Output: "chr1.gfa",
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Stats.Paths, "paths")
//
// Or drive the lacer directly with in-memory graphs:
//
//	l := lace.New(logger)
//	l.AddBlock("a", blockA)
//	l.AddBlock("b", blockB)
//	res, _ := l.Finish()
//	gfa.Write(res.Graph, os.Stdout)
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/lace/...     # Specific package
//	go test -run Example ./... # Examples only
//
// [gfa]: https://pkg.go.dev/github.com/matzehuels/gfalace/pkg/gfa
// [lace]: https://pkg.go.dev/github.com/matzehuels/gfalace/pkg/lace
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/gfalace/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/gfalace/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/gfalace/pkg/observability
// [render]: https://pkg.go.dev/github.com/matzehuels/gfalace/pkg/render
package pkg

// Package lace merges independently built pangenome blocks into one graph and
// reconstructs the genome paths that block construction split apart.
//
// # Overview
//
// Every block is a [gfa.Graph] whose path names follow the locus convention
//
//	sample#haplotype#contig:start-end
//
// with a half-open coordinate range. A [Lacer] folds blocks into a combined
// graph one at a time:
//
//  1. Translate: the block's node ids are shifted into a fresh, dense id range
//     that starts after every node added so far ([Translate]).
//  2. Extract: each translated path name is parsed into a [LocusKey] and range
//     ([ParseRangeName], [ExtractRanges]). Paths whose names do not parse are
//     dropped.
//
// When all blocks are in, [Lacer.Finish] runs the reconciliation per locus:
//
//  3. Reconcile: ranges are sorted by (start, end, block) and scanned once
//     ([Reconcile]). A locus whose ranges all abut exactly becomes one path
//     named by the bare key; otherwise every maximal contiguous run becomes its
//     own path named key:start-end. Overlapping ranges are reported and never
//     merged.
//  4. Build: paths are written into the combined graph and every consecutive
//     step pair gets an edge unless it already exists ([BuildPaths]).
//
// # Example
//
//	l := lace.New(logger)
//	for _, path := range inputs {
//	    block, err := gfa.ReadFile(path)
//	    if err != nil {
//	        return err
//	    }
//	    if _, err := l.AddBlock(path, block); err != nil {
//	        return err
//	    }
//	}
//	res, err := l.Finish()
//	if err != nil {
//	    return err
//	}
//	return gfa.WriteFile(res.Graph, "laced.gfa")
//
// # Determinism
//
// Given the same inputs in the same order the combined graph is identical,
// and [gfa.Write] serializes it byte-for-byte the same. Ranges with identical
// coordinates are ordered by the position of their block in the input list.
package lace

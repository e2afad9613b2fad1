// Package gfa reads and writes pangenome graphs in the GFA v1 text format.
//
// The package is the serialization boundary of gfalace: it owns the in-memory
// graph model ([Graph], [Node], [Edge], [Path], [Handle]) that both the block
// loader and the lacing engine operate on, and the deterministic writer used
// for the combined output.
//
// # Records
//
// Only the records needed for lacing are interpreted:
//
//	H  header           H	VN:Z:1.0
//	S  segment          S	<id>	<sequence>
//	L  link             L	<from>	<+|->	<to>	<+|->	<overlap>
//	P  path             P	<name>	<id><+|->,<id><+|->,...	<overlaps>
//
// Other record types are skipped. Segment ids must be positive base-10
// integers; links and paths may reference segments declared later in the
// file, references are resolved once the whole file has been read.
//
// # Reading
//
//	g, err := gfa.ReadFile("block.gfa")           // plain text
//	g, err := gfa.Load("block.gfa.gz", gfa.LoadOptions{TempDir: dir})
//
// Gzip inputs are detected by the .gz suffix or the gzip magic bytes and are
// decompressed into a temporary file for the duration of the load. The
// temporary copy is removed whether or not parsing succeeds.
//
// # Writing
//
// [Write] emits segments ascending by id, links ascending by (from, to) and
// paths ascending by name, so identical graphs always serialize to identical
// bytes.
//
// # Concurrency
//
// A [Graph] is not safe for concurrent mutation.
package gfa

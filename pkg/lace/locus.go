package lace

import (
	"cmp"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/gfalace/pkg/gfa"
)

var (
	// ErrInvalidPathName is returned by [ParseRangeName] when a name does not
	// follow sample#haplotype#contig:start-end.
	ErrInvalidPathName = errors.New("path name is not sample#haplotype#contig:start-end")

	// ErrInvalidRange is returned by [ParseRangeName] for empty or inverted
	// coordinate ranges (start >= end).
	ErrInvalidRange = errors.New("range start must be below end")
)

const (
	keySep   = "#"
	rangeSep = ":"
	coordSep = "-"
)

// LocusKey identifies the genome and chromosome a path fragment belongs to.
// It is comparable and used directly as a map key.
type LocusKey struct {
	Sample    string
	Haplotype string
	Contig    string
}

// String renders the key as sample#haplotype#contig, the name of a fully
// reconstructed path.
func (k LocusKey) String() string {
	return k.Sample + keySep + k.Haplotype + keySep + k.Contig
}

// RangeName renders the key with a coordinate suffix, the name of a sub-path.
func (k LocusKey) RangeName(start, end uint64) string {
	return k.String() + rangeSep + strconv.FormatUint(start, 10) + coordSep + strconv.FormatUint(end, 10)
}

// Compare orders keys by sample, haplotype, then contig.
func (k LocusKey) Compare(o LocusKey) int {
	if c := cmp.Compare(k.Sample, o.Sample); c != 0 {
		return c
	}
	if c := cmp.Compare(k.Haplotype, o.Haplotype); c != 0 {
		return c
	}
	return cmp.Compare(k.Contig, o.Contig)
}

// RangeInfo is one block's contribution to a locus: a half-open range and the
// translated steps covering it.
type RangeInfo struct {
	Key    LocusKey
	Start  uint64 // inclusive
	End    uint64 // exclusive
	Block  int    // position of the source block in the input list
	Source string // source block name, for diagnostics
	Steps  []gfa.Handle
}

// Span renders the range as [start,end).
func (r RangeInfo) Span() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// ParseRangeName splits a path name of the form sample#haplotype#contig:start-end.
//
// The name must have exactly three '#'-separated non-empty fields, the last of
// which contains exactly one ':' followed by exactly one '-' between two
// base-10 integers. Coordinates must satisfy start < end.
func ParseRangeName(name string) (LocusKey, uint64, uint64, error) {
	fields := strings.Split(name, keySep)
	if len(fields) != 3 {
		return LocusKey{}, 0, 0, ErrInvalidPathName
	}
	if strings.Count(fields[2], rangeSep) != 1 {
		return LocusKey{}, 0, 0, ErrInvalidPathName
	}
	contig, coords, _ := strings.Cut(fields[2], rangeSep)
	if strings.Count(coords, coordSep) != 1 {
		return LocusKey{}, 0, 0, ErrInvalidPathName
	}
	startStr, endStr, _ := strings.Cut(coords, coordSep)

	key := LocusKey{Sample: fields[0], Haplotype: fields[1], Contig: contig}
	if key.Sample == "" || key.Haplotype == "" || key.Contig == "" {
		return LocusKey{}, 0, 0, ErrInvalidPathName
	}

	start, err := strconv.ParseUint(startStr, 10, 64)
	if err != nil {
		return LocusKey{}, 0, 0, ErrInvalidPathName
	}
	end, err := strconv.ParseUint(endStr, 10, 64)
	if err != nil {
		return LocusKey{}, 0, 0, ErrInvalidPathName
	}
	if start >= end {
		return LocusKey{}, 0, 0, fmt.Errorf("%w: %d-%d", ErrInvalidRange, start, end)
	}
	return key, start, end, nil
}

package lace

import (
	"github.com/matzehuels/gfalace/pkg/gfa"
)

// Rejection records a path left out of lacing because its name did not parse.
type Rejection struct {
	Block  int
	Source string
	Name   string
	Err    error
}

// ExtractRanges turns a block's translated paths into ranges. Paths whose
// names are not valid locus names are returned as rejections instead; they
// take no further part in lacing.
func ExtractRanges(block int, source string, paths []*gfa.Path) ([]RangeInfo, []Rejection) {
	var ranges []RangeInfo
	var rejected []Rejection
	for _, p := range paths {
		key, start, end, err := ParseRangeName(p.Name)
		if err != nil {
			rejected = append(rejected, Rejection{Block: block, Source: source, Name: p.Name, Err: err})
			continue
		}
		ranges = append(ranges, RangeInfo{
			Key:    key,
			Start:  start,
			End:    end,
			Block:  block,
			Source: source,
			Steps:  p.Steps,
		})
	}
	return ranges, rejected
}

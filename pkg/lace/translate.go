package lace

import (
	"errors"
	"fmt"

	"github.com/matzehuels/gfalace/pkg/gfa"
)

// ErrUnknownNode is returned when a block references a node id that the
// block does not contain.
var ErrUnknownNode = errors.New("node not in block")

// Translation maps one block's local node ids into the combined id space.
//
// The mapping is a bijection onto offset+1 .. offset+m (m = block node count)
// that preserves the relative order of ids. For the usual dense blocks with
// ids 1..m it is simply id+offset; sparse blocks are compacted by rank.
type Translation struct {
	offset uint64
	count  int
	rank   map[uint64]uint64 // nil when the block is dense
}

// Translate builds the translation for block, placing its nodes right after
// offset existing nodes.
func Translate(offset uint64, block *gfa.Graph) *Translation {
	ids := block.NodeIDs()
	t := &Translation{offset: offset, count: len(ids)}
	if len(ids) == 0 || ids[len(ids)-1] == uint64(len(ids)) {
		return t
	}
	t.rank = make(map[uint64]uint64, len(ids))
	for i, id := range ids {
		t.rank[id] = uint64(i + 1)
	}
	return t
}

// Offset returns the number of nodes that preceded this block.
func (t *Translation) Offset() uint64 { return t.offset }

// Len returns the number of nodes the block contributes.
func (t *Translation) Len() int { return t.count }

// ID maps a local id to its combined id.
func (t *Translation) ID(local uint64) (uint64, error) {
	if t.rank == nil {
		if local == 0 || local > uint64(t.count) {
			return 0, fmt.Errorf("%w: %d", ErrUnknownNode, local)
		}
		return local + t.offset, nil
	}
	r, ok := t.rank[local]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownNode, local)
	}
	return r + t.offset, nil
}

// Handle maps an oriented local reference, keeping its orientation.
func (t *Translation) Handle(h gfa.Handle) (gfa.Handle, error) {
	id, err := t.ID(h.ID)
	if err != nil {
		return gfa.Handle{}, err
	}
	return gfa.Handle{ID: id, Reverse: h.Reverse}, nil
}

// Steps maps a whole step sequence, preserving order.
func (t *Translation) Steps(steps []gfa.Handle) ([]gfa.Handle, error) {
	out := make([]gfa.Handle, len(steps))
	for i, s := range steps {
		h, err := t.Handle(s)
		if err != nil {
			return nil, err
		}
		out[i] = h
	}
	return out, nil
}

package gfa

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Header is the header line written by [Write].
const Header = "H\tVN:Z:1.0"

// defaultOverlap is the CIGAR written for every link; blunt-ended graphs only.
const defaultOverlap = "0M"

// =============================================================================
// Serialization API
// =============================================================================

// Marshal serializes g to GFA bytes.
func Marshal(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes g to path, creating or truncating the file.
// A failed write may leave a partial file behind; the error says so.
func WriteFile(g *Graph, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	if err := Write(g, f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Write serializes g to w: the header, then segments ascending by id, links
// ascending by (from, to) and paths ascending by name.
func Write(g *Graph, w io.Writer) error {
	bw := bufio.NewWriterSize(w, 1<<16)

	bw.WriteString(Header)
	bw.WriteByte('\n')

	for _, n := range g.Nodes() {
		bw.WriteString("S\t")
		bw.WriteString(strconv.FormatUint(n.ID, 10))
		bw.WriteByte('\t')
		if len(n.Sequence) == 0 {
			bw.WriteByte('*')
		} else {
			bw.Write(n.Sequence)
		}
		bw.WriteByte('\n')
	}

	for _, e := range g.Edges() {
		bw.WriteString("L\t")
		bw.WriteString(strconv.FormatUint(e.From.ID, 10))
		bw.WriteByte('\t')
		bw.WriteByte(e.From.Orient())
		bw.WriteByte('\t')
		bw.WriteString(strconv.FormatUint(e.To.ID, 10))
		bw.WriteByte('\t')
		bw.WriteByte(e.To.Orient())
		bw.WriteByte('\t')
		bw.WriteString(defaultOverlap)
		bw.WriteByte('\n')
	}

	for _, p := range g.Paths() {
		bw.WriteString("P\t")
		bw.WriteString(p.Name)
		bw.WriteByte('\t')
		writeSteps(bw, p.Steps)
		bw.WriteString("\t*\n")
	}

	// bufio.Writer keeps the first error; Flush reports it.
	return bw.Flush()
}

func writeSteps(bw *bufio.Writer, steps []Handle) {
	if len(steps) == 0 {
		bw.WriteByte('*')
		return
	}
	for i, s := range steps {
		if i > 0 {
			bw.WriteByte(',')
		}
		bw.WriteString(strconv.FormatUint(s.ID, 10))
		bw.WriteByte(s.Orient())
	}
}

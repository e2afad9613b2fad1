package gfa

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ErrMalformedRecord is wrapped by [ParseError] when a record does not have
// the expected fields.
var ErrMalformedRecord = errors.New("malformed record")

// ParseError reports a structural problem in a GFA file. Structural errors
// are fatal: a block with a corrupt record cannot be laced.
type ParseError struct {
	File string // Source name, empty for anonymous readers
	Line int    // 1-based line number
	Err  error
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error { return e.Err }

// ReadFile loads a GFA file from disk with default [LoadOptions].
// Gzip-compressed files are handled transparently.
func ReadFile(path string) (*Graph, error) {
	return Load(path, LoadOptions{})
}

// Read parses GFA text from r.
func Read(r io.Reader) (*Graph, error) {
	return readFrom(r, "")
}

// pending records are resolved after all segments are known, since GFA
// allows links and paths to precede the segments they reference.
type pendingLink struct {
	line int
	edge Edge
}

type pendingPath struct {
	line  int
	name  string
	steps []Handle
}

func readFrom(r io.Reader, name string) (*Graph, error) {
	g := New()
	br := bufio.NewReaderSize(r, 1<<16)

	var links []pendingLink
	var paths []pendingPath

	fail := func(line int, err error) error {
		return &ParseError{File: name, Line: line, Err: err}
	}

	for lineNo := 1; ; lineNo++ {
		raw, readErr := br.ReadBytes('\n')
		if readErr != nil && readErr != io.EOF {
			return nil, fmt.Errorf("read %s: %w", displayName(name), readErr)
		}
		line := bytes.TrimRight(raw, "\r\n")

		if len(line) > 0 {
			fields := bytes.Split(line, []byte{'\t'})
			switch string(fields[0]) {
			case "S":
				n, err := parseSegment(fields)
				if err != nil {
					return nil, fail(lineNo, err)
				}
				if err := g.AddNode(n); err != nil {
					return nil, fail(lineNo, err)
				}
			case "L":
				e, err := parseLink(fields)
				if err != nil {
					return nil, fail(lineNo, err)
				}
				links = append(links, pendingLink{line: lineNo, edge: e})
			case "P":
				name, steps, err := parsePath(fields)
				if err != nil {
					return nil, fail(lineNo, err)
				}
				paths = append(paths, pendingPath{line: lineNo, name: name, steps: steps})
			}
		}

		if readErr == io.EOF {
			break
		}
	}

	for _, l := range links {
		if _, err := g.AddEdge(l.edge); err != nil {
			return nil, fail(l.line, err)
		}
	}
	for _, p := range paths {
		if err := g.AddPath(p.name, p.steps); err != nil {
			return nil, fail(p.line, err)
		}
	}
	return g, nil
}

func displayName(name string) string {
	if name == "" {
		return "input"
	}
	return name
}

// =============================================================================
// Record Parsers
// =============================================================================

func parseSegment(fields [][]byte) (Node, error) {
	if len(fields) < 3 {
		return Node{}, fmt.Errorf("%w: S needs id and sequence", ErrMalformedRecord)
	}
	id, err := parseID(fields[1])
	if err != nil {
		return Node{}, err
	}
	seq := fields[2]
	if string(seq) == "*" {
		seq = nil
	}
	return Node{ID: id, Sequence: bytes.Clone(seq)}, nil
}

func parseLink(fields [][]byte) (Edge, error) {
	if len(fields) < 5 {
		return Edge{}, fmt.Errorf("%w: L needs from, orient, to, orient", ErrMalformedRecord)
	}
	from, err := parseHandle(fields[1], fields[2])
	if err != nil {
		return Edge{}, err
	}
	to, err := parseHandle(fields[3], fields[4])
	if err != nil {
		return Edge{}, err
	}
	return Edge{From: from, To: to}, nil
}

func parsePath(fields [][]byte) (string, []Handle, error) {
	if len(fields) < 3 {
		return "", nil, fmt.Errorf("%w: P needs name and steps", ErrMalformedRecord)
	}
	name := string(fields[1])
	if name == "" {
		return "", nil, fmt.Errorf("%w: empty path name", ErrMalformedRecord)
	}
	if len(fields[2]) == 0 || string(fields[2]) == "*" {
		return name, nil, nil
	}
	tokens := bytes.Split(fields[2], []byte{','})
	steps := make([]Handle, 0, len(tokens))
	for _, tok := range tokens {
		if len(tok) < 2 {
			return "", nil, fmt.Errorf("%w: path step %q", ErrMalformedRecord, tok)
		}
		h, err := parseHandle(tok[:len(tok)-1], tok[len(tok)-1:])
		if err != nil {
			return "", nil, err
		}
		steps = append(steps, h)
	}
	return name, steps, nil
}

func parseID(b []byte) (uint64, error) {
	id, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: segment id %q is not a positive integer", ErrMalformedRecord, b)
	}
	return id, nil
}

func parseHandle(id, orient []byte) (Handle, error) {
	n, err := parseID(id)
	if err != nil {
		return Handle{}, err
	}
	switch string(orient) {
	case "+":
		return Handle{ID: n}, nil
	case "-":
		return Handle{ID: n, Reverse: true}, nil
	default:
		return Handle{}, fmt.Errorf("%w: orientation %q", ErrMalformedRecord, orient)
	}
}

// readPlainFile parses an uncompressed GFA file.
func readPlainFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readFrom(f, path)
}

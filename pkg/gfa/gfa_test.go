package gfa

import (
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleGFA = "H\tVN:Z:1.0\n" +
	"S\t1\tACGT\n" +
	"S\t2\tTT\n" +
	"S\t3\t*\n" +
	"L\t1\t+\t2\t+\t0M\n" +
	"L\t2\t+\t3\t-\t0M\n" +
	"P\tgrch38#0#chr1:0-6\t1+,2+,3-\t*\n"

func TestReadSample(t *testing.T) {
	g, err := Read(strings.NewReader(sampleGFA))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if g.NodeCount() != 3 {
		t.Errorf("NodeCount() = %d, want 3", g.NodeCount())
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
	n, ok := g.Node(1)
	if !ok || string(n.Sequence) != "ACGT" {
		t.Errorf("Node(1) = %+v, want sequence ACGT", n)
	}
	if n, _ := g.Node(3); len(n.Sequence) != 0 {
		t.Errorf("Node(3) sequence should be empty for '*', got %q", n.Sequence)
	}
	p, ok := g.Path("grch38#0#chr1:0-6")
	if !ok {
		t.Fatal("path not found")
	}
	want := []Handle{{ID: 1}, {ID: 2}, {ID: 3, Reverse: true}}
	if len(p.Steps) != len(want) {
		t.Fatalf("steps = %v, want %v", p.Steps, want)
	}
	for i := range want {
		if p.Steps[i] != want[i] {
			t.Errorf("step %d = %v, want %v", i, p.Steps[i], want[i])
		}
	}
	if !g.HasEdge(Edge{From: Handle{ID: 2}, To: Handle{ID: 3, Reverse: true}}) {
		t.Error("edge 2+ -> 3- should exist")
	}
}

func TestReadForwardReferences(t *testing.T) {
	in := "P\tp\t1+,2+\t*\nL\t1\t+\t2\t+\t0M\nS\t1\tA\nS\t2\tC\n"
	g, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("links and paths before segments should parse: %v", err)
	}
	if g.PathCount() != 1 || g.EdgeCount() != 1 {
		t.Errorf("got %d paths, %d edges; want 1, 1", g.PathCount(), g.EdgeCount())
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		line    int
	}{
		{"short segment", "S\t1\n", ErrMalformedRecord, 1},
		{"non-numeric id", "S\tx\tA\n", ErrMalformedRecord, 1},
		{"zero id", "S\t0\tA\n", ErrMalformedRecord, 1},
		{"duplicate segment", "S\t1\tA\nS\t1\tC\n", ErrDuplicateNode, 2},
		{"bad orientation", "S\t1\tA\nL\t1\t*\t1\t+\t0M\n", ErrMalformedRecord, 2},
		{"unknown link target", "S\t1\tA\nL\t1\t+\t9\t+\t0M\n", ErrUnknownSegment, 2},
		{"unknown path step", "S\t1\tA\nP\tp\t1+,7-\t*\n", ErrUnknownSegment, 2},
		{"bad step", "S\t1\tA\nP\tp\t1\t*\n", ErrMalformedRecord, 2},
		{"duplicate path", "S\t1\tA\nP\tp\t1+\t*\nP\tp\t1+\t*\n", ErrDuplicatePath, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Read() error = %v, want %v", err, tt.wantErr)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error should be a *ParseError, got %T", err)
			}
			if pe.Line != tt.line {
				t.Errorf("ParseError.Line = %d, want %d", pe.Line, tt.line)
			}
		})
	}
}

func TestReadSkipsOtherRecords(t *testing.T) {
	in := "H\tVN:Z:1.0\n# comment\nS\t1\tA\nW\tsample\t0\tchr1\t0\t1\t>1\n\nC\tfoo\n"
	g, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if g.NodeCount() != 1 {
		t.Errorf("NodeCount() = %d, want 1", g.NodeCount())
	}
}

func TestReadWithoutHeader(t *testing.T) {
	// Block builders do not always write an H line.
	tests := []struct {
		name  string
		input string
	}{
		{"segments first", "S\t1\tGG\nP\tHG002#2#chr1:11-13\t1+\t*\n"},
		{"header later", "S\t1\tGG\nH\tVN:Z:1.0\nP\tp\t1+\t*\n"},
		{"blank lines and crlf", "\r\nS\t1\tGG\r\n\r\nP\tp\t1+\t*\r\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Read(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Read() error: %v", err)
			}
			if g.NodeCount() != 1 || g.PathCount() != 1 {
				t.Errorf("got %d nodes, %d paths; want 1, 1", g.NodeCount(), g.PathCount())
			}
		})
	}

	// Errors still carry the line of the offending record.
	_, err := Read(strings.NewReader("S\t1\tA\n\nL\t1\t+\t4\t+\t0M\n"))
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Line != 3 {
		t.Errorf("error = %v, want ParseError at line 3", err)
	}
}

func TestGraphAddEdgeDedup(t *testing.T) {
	g := New()
	addNodes(t, g, 1, 2)

	e := Edge{From: Forward(1), To: Forward(2)}
	added, err := g.AddEdge(e)
	if err != nil || !added {
		t.Fatalf("first AddEdge = %v, %v; want true, nil", added, err)
	}
	added, err = g.AddEdge(e)
	if err != nil || added {
		t.Fatalf("second AddEdge = %v, %v; want false, nil", added, err)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}

	// Same nodes, different orientation is a different edge.
	if added, _ := g.AddEdge(Edge{From: Forward(1), To: Forward(2).Flip()}); !added {
		t.Error("edge with different orientation should be added")
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
}

func TestGraphAddPathErrors(t *testing.T) {
	g := New()
	addNodes(t, g, 1)

	if err := g.AddPath("", nil); !errors.Is(err, ErrEmptyPathName) {
		t.Errorf("empty name error = %v", err)
	}
	if err := g.AddPath("p", []Handle{Forward(2)}); !errors.Is(err, ErrUnknownSegment) {
		t.Errorf("unknown step error = %v", err)
	}
	if err := g.AddPath("p", []Handle{Forward(1)}); err != nil {
		t.Fatalf("AddPath error: %v", err)
	}
	if err := g.AddPath("p", nil); !errors.Is(err, ErrDuplicatePath) {
		t.Errorf("duplicate path error = %v", err)
	}
}

func TestWriteDeterministicOrder(t *testing.T) {
	g := New()
	for _, id := range []uint64{3, 1, 2} {
		if err := g.AddNode(Node{ID: id, Sequence: []byte("A")}); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range []Edge{
		{From: Forward(2), To: Forward(3)},
		{From: Forward(1), To: Forward(3)},
		{From: Forward(1), To: Forward(2)},
	} {
		if _, err := g.AddEdge(e); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.AddPath("b", []Handle{Forward(2), Forward(3)}); err != nil {
		t.Fatal(err)
	}
	if err := g.AddPath("a", []Handle{Forward(1), Forward(2).Flip()}); err != nil {
		t.Fatal(err)
	}

	got, err := Marshal(g)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	want := "H\tVN:Z:1.0\n" +
		"S\t1\tA\nS\t2\tA\nS\t3\tA\n" +
		"L\t1\t+\t2\t+\t0M\nL\t1\t+\t3\t+\t0M\nL\t2\t+\t3\t+\t0M\n" +
		"P\ta\t1+,2-\t*\nP\tb\t2+,3+\t*\n"
	if string(got) != want {
		t.Errorf("Marshal() =\n%s\nwant\n%s", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	g, err := Read(strings.NewReader(sampleGFA))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	first, err := Marshal(g)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	again, err := Read(bytes.NewReader(first))
	if err != nil {
		t.Fatalf("re-Read() error: %v", err)
	}
	second, err := Marshal(again)
	if err != nil {
		t.Fatalf("re-Marshal() error: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("round trip not stable:\n%s\nvs\n%s", first, second)
	}
}

func TestWriteFileAndLoad(t *testing.T) {
	dir := t.TempDir()
	g, _ := Read(strings.NewReader(sampleGFA))

	path := filepath.Join(dir, "out.gfa")
	if err := WriteFile(g, path); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	back, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if back.NodeCount() != g.NodeCount() || back.EdgeCount() != g.EdgeCount() || back.PathCount() != g.PathCount() {
		t.Error("ReadFile should reproduce the written graph")
	}
}

func TestWriteFileBadDestination(t *testing.T) {
	err := WriteFile(New(), filepath.Join(t.TempDir(), "missing", "out.gfa"))
	if err == nil {
		t.Fatal("WriteFile into a missing directory should fail")
	}
}

func TestLoadGzipRemovesTempCopy(t *testing.T) {
	dir := t.TempDir()
	tmp := t.TempDir()

	data := gzipped(t, sampleGFA)

	path := filepath.Join(dir, "block.gfa.gz")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	g, err := Load(path, LoadOptions{TempDir: tmp})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if g.NodeCount() != 3 {
		t.Errorf("NodeCount() = %d, want 3", g.NodeCount())
	}
	assertEmptyDir(t, tmp)
}

func TestLoadGzipParseErrorRemovesTempCopy(t *testing.T) {
	dir := t.TempDir()
	tmp := t.TempDir()

	data := gzipped(t, "S\tnope\tA\n")

	path := filepath.Join(dir, "bad.gfa.gz")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path, LoadOptions{TempDir: tmp})
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Load() error = %v, want *ParseError", err)
	}
	if pe.File != path {
		t.Errorf("ParseError.File = %q, want %q", pe.File, path)
	}
	assertEmptyDir(t, tmp)
}

func TestLoadCorruptGzip(t *testing.T) {
	dir := t.TempDir()
	tmp := t.TempDir()
	path := filepath.Join(dir, "corrupt.gfa.gz")
	if err := os.WriteFile(path, []byte("not gzip at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, LoadOptions{TempDir: tmp}); err == nil {
		t.Fatal("Load() should fail on corrupt gzip")
	}
	assertEmptyDir(t, tmp)
}

func TestIsCompressedByMagic(t *testing.T) {
	dir := t.TempDir()

	data := gzipped(t, sampleGFA)

	gz := filepath.Join(dir, "block.gfa")
	writeFile(t, gz, data)
	plain := filepath.Join(dir, "plain.gfa")
	writeFile(t, plain, []byte(sampleGFA))

	if ok, err := IsCompressed(gz); err != nil || !ok {
		t.Errorf("IsCompressed(gzip without suffix) = %v, %v; want true", ok, err)
	}
	if ok, err := IsCompressed(plain); err != nil || ok {
		t.Errorf("IsCompressed(plain) = %v, %v; want false", ok, err)
	}
	if _, err := IsCompressed(filepath.Join(dir, "missing.gfa")); err == nil {
		t.Error("IsCompressed(missing) should fail")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.gfa")); err == nil {
		t.Fatal("ReadFile(missing) should fail")
	}
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("temporary copies left behind: %v", entries)
	}
}

func gzipped(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(text)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func addNodes(t *testing.T, g *Graph, ids ...uint64) {
	t.Helper()
	for _, id := range ids {
		if err := g.AddNode(Node{ID: id}); err != nil {
			t.Fatal(err)
		}
	}
}

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gfalace/pkg/cache"
	"github.com/matzehuels/gfalace/pkg/gfa"
	"github.com/matzehuels/gfalace/pkg/observability"
)

const (
	blockA = "H\tVN:Z:1.0\n" +
		"S\t1\tAC\n" +
		"S\t2\tGT\n" +
		"L\t1\t+\t2\t+\t0M\n" +
		"P\tHG002#1#chr1:0-4\t1+,2+\t*\n"
	blockB = "H\tVN:Z:1.0\n" +
		"S\t1\tTT\n" +
		"P\tHG002#1#chr1:4-6\t1+\t*\n" +
		"P\tunnamed\t1+\t*\n"

	wantLaced = "H\tVN:Z:1.0\n" +
		"S\t1\tAC\n" +
		"S\t2\tGT\n" +
		"S\t3\tTT\n" +
		"L\t1\t+\t2\t+\t0M\n" +
		"L\t2\t+\t3\t+\t0M\n" +
		"P\tHG002#1#chr1\t1+,2+,3+\t*\n"
)

func writeInputs(t *testing.T, contents ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, len(contents))
	for i, c := range contents {
		paths[i] = filepath.Join(dir, string(rune('a'+i))+".gfa")
		if err := os.WriteFile(paths[i], []byte(c), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return paths
}

func quietRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.NewWithOptions(&bytes.Buffer{}, log.Options{}))
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr error
	}{
		{"valid", Options{Inputs: []string{"a.gfa"}, Output: "out.gfa"}, nil},
		{"no inputs", Options{Output: "out.gfa"}, ErrNoInputs},
		{"no output", Options{Inputs: []string{"a.gfa"}}, ErrNoOutput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}

	empty := Options{Inputs: []string{"a.gfa", ""}, Output: "o"}
	if err := empty.Validate(); err == nil || !strings.Contains(err.Error(), "input 2") {
		t.Errorf("empty input path error = %v", err)
	}
}

func TestValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Inputs: []string{"a.gfa"}, Output: "o"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
	logger := opts.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil || opts.Logger != logger {
		t.Error("second call should be a no-op")
	}
}

func TestExecuteWritesLacedGraph(t *testing.T) {
	inputs := writeInputs(t, blockA, blockB)
	out := filepath.Join(t.TempDir(), "laced.gfa")

	res, err := quietRunner(nil).Execute(context.Background(), Options{Inputs: inputs, Output: out, NoCache: true})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != wantLaced {
		t.Errorf("output:\n%s\nwant:\n%s", got, wantLaced)
	}

	s := res.Stats
	if s.Blocks != 2 || s.Nodes != 3 || s.Edges != 2 || s.Paths != 1 || s.NewEdges != 1 {
		t.Errorf("stats = %+v", s)
	}
	if s.Rejected != 1 || s.Complete != 1 || s.Loci != 1 || s.Overlaps != 0 {
		t.Errorf("stats = %+v", s)
	}
	if s.Bytes != len(wantLaced) {
		t.Errorf("Bytes = %d, want %d", s.Bytes, len(wantLaced))
	}
	if res.CacheInfo.Key != "" || res.CacheInfo.Hit {
		t.Errorf("NoCache run should not use the cache: %+v", res.CacheInfo)
	}
	if res.Lace == nil {
		t.Error("Lace result should be set on a fresh run")
	}
}

func TestExecuteCache(t *testing.T) {
	ctx := context.Background()
	inputs := writeInputs(t, blockA, blockB)
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := quietRunner(fc)
	out := filepath.Join(t.TempDir(), "laced.gfa")

	first, err := runner.Execute(ctx, Options{Inputs: inputs, Output: out})
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.Hit || !first.CacheInfo.Stored || first.CacheInfo.Key == "" {
		t.Fatalf("first run cache info = %+v", first.CacheInfo)
	}

	if err := os.Remove(out); err != nil {
		t.Fatal(err)
	}
	second, err := runner.Execute(ctx, Options{Inputs: inputs, Output: out})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.Hit || second.Lace != nil {
		t.Errorf("second run should be served from cache: %+v", second.CacheInfo)
	}
	if second.Stats.Paths != first.Stats.Paths || second.Stats.Nodes != first.Stats.Nodes {
		t.Errorf("cached stats = %+v, want counts of %+v", second.Stats, first.Stats)
	}
	got, _ := os.ReadFile(out)
	if string(got) != wantLaced {
		t.Errorf("cached output:\n%s", got)
	}

	refreshed, err := runner.Execute(ctx, Options{Inputs: inputs, Output: out, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheInfo.Hit {
		t.Error("Refresh should bypass cache reads")
	}

	// Input order is part of the key.
	swapped, err := runner.Execute(ctx, Options{Inputs: []string{inputs[1], inputs[0]}, Output: out})
	if err != nil {
		t.Fatal(err)
	}
	if swapped.CacheInfo.Hit || swapped.CacheInfo.Key == first.CacheInfo.Key {
		t.Error("reordered inputs should miss the cache")
	}
}

func TestExecuteCancelled(t *testing.T) {
	inputs := writeInputs(t, blockA, blockB)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := quietRunner(nil).Execute(ctx, Options{Inputs: inputs, Output: filepath.Join(t.TempDir(), "o.gfa"), NoCache: true})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
}

func TestExecuteErrors(t *testing.T) {
	dir := t.TempDir()
	good := writeInputs(t, blockA)[0]
	bad := filepath.Join(dir, "bad.gfa")
	if err := os.WriteFile(bad, []byte("S\t1\tA\nL\t1\t+\t9\t+\t0M\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		inputs []string
		output string
		want   string
	}{
		{"missing input", []string{good, filepath.Join(dir, "missing.gfa")}, filepath.Join(dir, "o.gfa"), "missing.gfa"},
		{"structural error", []string{bad}, filepath.Join(dir, "o.gfa"), "bad.gfa:2"},
		{"unwritable output", []string{good}, filepath.Join(dir, "no", "such", "dir", "o.gfa"), "o.gfa"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := quietRunner(nil).Execute(context.Background(), Options{Inputs: tt.inputs, Output: tt.output, NoCache: true})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Execute() error = %v, want mention of %q", err, tt.want)
			}
		})
	}

	var pe *gfa.ParseError
	_, err := quietRunner(nil).Execute(context.Background(), Options{Inputs: []string{bad}, Output: filepath.Join(dir, "o.gfa"), NoCache: true})
	if !errors.As(err, &pe) || pe.Line != 2 {
		t.Errorf("structural error should unwrap to *gfa.ParseError at line 2, got %v", err)
	}
}

type recordingHooks struct {
	observability.NoopLaceHooks
	mu       sync.Mutex
	blocks   []string
	overlaps []string
	laced    int
}

func (h *recordingHooks) OnBlockComplete(_ context.Context, _ int, source string, _ int, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.blocks = append(h.blocks, filepath.Base(source))
}

func (h *recordingHooks) OnOverlap(_ context.Context, locus, first, second string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.overlaps = append(h.overlaps, locus+" "+first+" "+second)
}

func (h *recordingHooks) OnLaceComplete(_ context.Context, paths, _ int, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.laced = paths
}

func TestLaceHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetLaceHooks(hooks)
	defer observability.Reset()

	inputs := writeInputs(t,
		"S\t1\tA\nP\ts#1#c:0-100\t1+\t*\n",
		"S\t1\tC\nP\ts#1#c:50-150\t1+\t*\n",
	)
	if _, _, err := quietRunner(nil).Lace(context.Background(), Options{Inputs: inputs}); err != nil {
		t.Fatal(err)
	}

	if len(hooks.blocks) != 2 || hooks.blocks[0] != "a.gfa" || hooks.blocks[1] != "b.gfa" {
		t.Errorf("blocks = %v", hooks.blocks)
	}
	if len(hooks.overlaps) != 1 || hooks.overlaps[0] != "s#1#c [0,100) [50,150)" {
		t.Errorf("overlaps = %v", hooks.overlaps)
	}
	if hooks.laced != 2 {
		t.Errorf("laced paths = %d, want 2", hooks.laced)
	}
}

func TestExecuteCacheHitReplaysDiagnostics(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetLaceHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	inputs := writeInputs(t,
		"S\t1\tA\nP\ts#1#c:0-100\t1+\t*\nP\tjunk\t1+\t*\n",
		"S\t1\tC\nP\ts#1#c:50-150\t1+\t*\n",
	)
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "laced.gfa")

	run := func() (*Result, string) {
		t.Helper()
		var buf bytes.Buffer
		logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
		res, err := NewRunner(fc, nil, logger).Execute(ctx, Options{Inputs: inputs, Output: out})
		if err != nil {
			t.Fatal(err)
		}
		return res, buf.String()
	}

	_, fresh := run()
	hit, cached := run()
	if !hit.CacheInfo.Hit {
		t.Fatal("second run should be served from cache")
	}

	for _, want := range []string{"skipping path", "folded block", "overlapping ranges", "[50,150)", "laced paths"} {
		if !strings.Contains(cached, want) {
			t.Errorf("cache hit log missing %q:\n%s", want, cached)
		}
	}
	if strings.Count(fresh, "folded block") != strings.Count(cached, "folded block") {
		t.Errorf("per-block lines differ between runs:\n%s\nvs\n%s", fresh, cached)
	}

	want := "s#1#c [0,100) [50,150)"
	if len(hooks.overlaps) != 2 || hooks.overlaps[0] != want || hooks.overlaps[1] != want {
		t.Errorf("overlap hook calls = %v, want one per run", hooks.overlaps)
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"dot", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]string{
		"graph.svg": FormatSVG,
		"graph.dot": FormatDOT,
		"graph.GV":  FormatDOT,
		"graph":     FormatSVG,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestRenderDOT(t *testing.T) {
	g, err := gfa.Read(strings.NewReader(wantLaced))
	if err != nil {
		t.Fatal(err)
	}
	data, err := Render(context.Background(), g, RenderOptions{Format: FormatDOT})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"2" -> "3";`) {
		t.Errorf("DOT output missing laced edge:\n%s", data)
	}

	if _, err := Render(context.Background(), g, RenderOptions{Format: FormatDOT, MaxNodes: 2}); !errors.Is(err, ErrGraphTooLarge) {
		t.Errorf("Render() over limit error = %v, want ErrGraphTooLarge", err)
	}
	if _, err := Render(context.Background(), g, RenderOptions{Format: "png"}); err == nil {
		t.Error("Render() should reject unknown formats")
	}
}

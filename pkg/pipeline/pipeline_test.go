package pipeline

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/fiberflow/pkg/errors"
	"github.com/matzehuels/fiberflow/pkg/observability"
	"github.com/matzehuels/fiberflow/pkg/program"
)

func elementwise(t *testing.T) *program.Program {
	t.Helper()
	p, err := program.New([]program.Tensor{
		program.NewTensor("A", "I", "J"),
		program.NewTensor("B", "I", "J"),
		program.NewTensor("Z", "I", "J"),
	}, "Z", []string{"I", "J"}, nil)
	if err != nil {
		t.Fatalf("program.New: %v", err)
	}
	return p
}

// recordingHooks captures the stage events of one compilation.
type recordingHooks struct {
	observability.NoopCompileHooks
	mu     sync.Mutex
	events []string
	runs   map[string]bool
}

func (h *recordingHooks) record(run, event string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.runs == nil {
		h.runs = make(map[string]bool)
	}
	h.runs[run] = true
	h.events = append(h.events, event)
}

func (h *recordingHooks) OnBuildStart(_ context.Context, run string, _ int) {
	h.record(run, "build-start")
}

func (h *recordingHooks) OnBuildComplete(_ context.Context, run string, _, _ int, _ time.Duration, _ error) {
	h.record(run, "build")
}

func (h *recordingHooks) OnPruneComplete(_ context.Context, run string, _, _ int, _ time.Duration) {
	h.record(run, "prune")
}

func (h *recordingHooks) OnScheduleComplete(_ context.Context, run string, _ int, _ time.Duration, _ error) {
	h.record(run, "schedule")
}

type loadHooks struct {
	observability.NoopLoadHooks
	formats []string
	errs    []error
}

func (h *loadHooks) OnLoad(_ context.Context, _, format string, _ time.Duration, err error) {
	h.formats = append(h.formats, format)
	h.errs = append(h.errs, err)
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	opts.SetDefaults()
	if opts.VerifyLimit != DefaultVerifyLimit {
		t.Errorf("VerifyLimit should be %d, got %d", DefaultVerifyLimit, opts.VerifyLimit)
	}

	opts = Options{VerifyLimit: 5}
	opts.SetDefaults()
	if opts.VerifyLimit != 5 {
		t.Errorf("explicit VerifyLimit overwritten: %d", opts.VerifyLimit)
	}
}

func TestRunnerCompile(t *testing.T) {
	r := NewRunner(nil)
	res, err := r.Compile(context.Background(), elementwise(t), Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if res.Stats.RawNodes != 28 {
		t.Errorf("RawNodes = %d, want 28", res.Stats.RawNodes)
	}
	if res.Stats.Removed != 19 {
		t.Errorf("Removed = %d, want 19", res.Stats.Removed)
	}
	if res.Stats.Nodes != 9 || res.Graph.NodeCount() != 9 {
		t.Errorf("Nodes = %d (graph %d), want 9", res.Stats.Nodes, res.Graph.NodeCount())
	}
	if len(res.Order) != 9 {
		t.Errorf("len(Order) = %d, want 9", len(res.Order))
	}
	if res.Raw != nil {
		t.Error("Raw should be nil without KeepRaw")
	}
	if res.Stats.Verified {
		t.Error("Verified should be false without Verify")
	}
	if res.ID.String() == "" {
		t.Error("run ID should be set")
	}
}

func TestRunnerCompileKeepRaw(t *testing.T) {
	r := NewRunner(nil)
	res, err := r.Compile(context.Background(), elementwise(t), Options{KeepRaw: true})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if res.Raw == nil {
		t.Fatal("Raw should be retained")
	}
	if res.Raw.NodeCount() != res.Stats.RawNodes {
		t.Errorf("Raw has %d nodes, stats say %d", res.Raw.NodeCount(), res.Stats.RawNodes)
	}
	if res.Raw.NodeCount() == res.Graph.NodeCount() {
		t.Error("pruning should not alter the retained raw graph")
	}
}

func TestRunnerCompileVerify(t *testing.T) {
	r := NewRunner(nil)

	res, err := r.Compile(context.Background(), elementwise(t), Options{Verify: true})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !res.Stats.Verified {
		t.Error("small graph should be verified against the exhaustive order")
	}

	// Above the limit only the cheap check runs.
	res, err = r.Compile(context.Background(), elementwise(t), Options{Verify: true, VerifyLimit: 3})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if res.Stats.Verified {
		t.Error("graph above VerifyLimit should skip the exhaustive check")
	}
}

func TestRunnerCompileCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(nil).Compile(ctx, elementwise(t), Options{})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRunnerCompileHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()

	hooks := &recordingHooks{}
	observability.SetCompileHooks(hooks)

	res, err := NewRunner(nil).Compile(context.Background(), elementwise(t), Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	want := []string{"build-start", "build", "prune", "schedule"}
	if len(hooks.events) != len(want) {
		t.Fatalf("events = %v, want %v", hooks.events, want)
	}
	for i := range want {
		if hooks.events[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, hooks.events[i], want[i])
		}
	}
	if len(hooks.runs) != 1 || !hooks.runs[res.ID.String()] {
		t.Errorf("hooks saw runs %v, want only %s", hooks.runs, res.ID)
	}
}

func TestRunnerLoad(t *testing.T) {
	observability.Reset()
	defer observability.Reset()

	hooks := &loadHooks{}
	observability.SetLoadHooks(hooks)

	r := NewRunner(nil)
	prog, err := r.Load(context.Background(), filepath.Join("..", "program", "testdata", "matmul.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := prog.Output().Root(); got != "Z" {
		t.Errorf("output = %s, want Z", got)
	}

	_, err = r.Load(context.Background(), filepath.Join("testdata", "missing.yaml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: got %v, want FILE_NOT_FOUND", err)
	}

	if len(hooks.formats) != 2 || hooks.formats[0] != "toml" || hooks.formats[1] != "yaml" {
		t.Errorf("load formats = %v", hooks.formats)
	}
	if hooks.errs[0] != nil || hooks.errs[1] == nil {
		t.Errorf("load errors = %v", hooks.errs)
	}
}

func TestRunnerCompileMatmul(t *testing.T) {
	r := NewRunner(nil)
	prog, err := r.Load(context.Background(), filepath.Join("..", "program", "testdata", "matmul.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	res, err := r.Compile(context.Background(), prog, Options{Verify: true, VerifyLimit: 1})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(res.Order) != res.Graph.NodeCount() {
		t.Errorf("order covers %d of %d nodes", len(res.Order), res.Graph.NodeCount())
	}
}

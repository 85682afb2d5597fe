package profiling

import (
	"strings"
	"testing"
	"time"
)

func TestTrackAccumulates(t *testing.T) {
	p := New()
	for i := 0; i < 3; i++ {
		stop := p.Track("world.buildChunk")
		time.Sleep(time.Millisecond)
		stop()
	}
	if c := p.Count("world.buildChunk"); c != 3 {
		t.Fatalf("count = %d, want 3", c)
	}
	if d := p.Snapshot()["world.buildChunk"]; d < 3*time.Millisecond {
		t.Errorf("total %v shorter than slept time", d)
	}
}

func TestTopNOrdering(t *testing.T) {
	p := New()
	p.totals["a"] = 1 * time.Millisecond
	p.totals["b"] = 5 * time.Millisecond
	p.totals["c"] = 3 * time.Millisecond
	p.counts["b"] = 2

	got := p.TopN(2)
	if !strings.HasPrefix(got, "b:5.0ms(x2), c:3.0ms") {
		t.Errorf("TopN = %q", got)
	}
	if all := p.TopN(10); strings.Count(all, ",") != 2 {
		t.Errorf("TopN(10) should list all three entries: %q", all)
	}
}

func TestResetAndNil(t *testing.T) {
	p := New()
	p.Track("x")()
	p.Reset()
	if len(p.Snapshot()) != 0 {
		t.Errorf("Reset should clear totals")
	}

	var nilP *Profiler
	nilP.Track("x")()
	nilP.Reset()
	if nilP.TopN(3) != "" || nilP.Count("x") != 0 || nilP.Snapshot() != nil {
		t.Errorf("nil profiler should report nothing")
	}
}

// Package profiling records per-tick CPU timings so slow frames can report
// which subsystem ate the budget.
package profiling

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Profiler accumulates named durations for the current tick. It is owned by
// the tick loop and not safe for concurrent use.
type Profiler struct {
	totals map[string]time.Duration
	counts map[string]int
}

func New() *Profiler {
	return &Profiler{
		totals: make(map[string]time.Duration),
		counts: make(map[string]int),
	}
}

// Track returns a stop function that records the elapsed time under name.
// Usage: defer p.Track("world.Tick")()
// A nil Profiler tracks nothing.
func (p *Profiler) Track(name string) func() {
	if p == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		p.totals[name] += time.Since(start)
		p.counts[name]++
	}
}

// Reset clears the current tick totals. Call at the start of each tick.
func (p *Profiler) Reset() {
	if p == nil {
		return
	}
	clear(p.totals)
	clear(p.counts)
}

// Snapshot returns a copy of the current totals.
func (p *Profiler) Snapshot() map[string]time.Duration {
	if p == nil {
		return nil
	}
	out := make(map[string]time.Duration, len(p.totals))
	for k, v := range p.totals {
		out[k] = v
	}
	return out
}

// Count returns how many times name was tracked this tick.
func (p *Profiler) Count(name string) int {
	if p == nil {
		return 0
	}
	return p.counts[name]
}

// TopN formats the n most expensive entries, e.g.
// "world.Tick:4.2ms, world.buildChunk:3.9ms(x2)".
func (p *Profiler) TopN(n int) string {
	if p == nil {
		return ""
	}
	type entry struct {
		name string
		dur  time.Duration
	}
	list := make([]entry, 0, len(p.totals))
	for k, v := range p.totals {
		list = append(list, entry{k, v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur == list[j].dur {
			return list[i].name < list[j].name
		}
		return list[i].dur > list[j].dur
	})
	n = min(n, len(list))
	parts := make([]string, 0, n)
	for _, e := range list[:n] {
		s := fmt.Sprintf("%s:%.1fms", e.name, float64(e.dur.Microseconds())/1000)
		if c := p.counts[e.name]; c > 1 {
			s += fmt.Sprintf("(x%d)", c)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}

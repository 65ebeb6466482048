package purge

import (
	"sync"
	"time"
)

// Gate rate-limits purge sweeps. Due reports whether a sweep should run at
// now and, if so, records it; concurrent callers see at most one true per
// period. Reset re-arms the gate after a failed sweep.
type Gate interface {
	Due(now time.Time) bool
	Reset()
}

type IntervalGate struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	armed    bool
}

// NewIntervalGate is due on first use and then at most once per interval.
func NewIntervalGate(interval time.Duration) *IntervalGate {
	return &IntervalGate{interval: interval}
}

func (g *IntervalGate) Due(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.armed && now.Sub(g.last) < g.interval {
		return false
	}
	g.last = now
	g.armed = true
	return true
}

func (g *IntervalGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.armed = false
}

// AnchorGate is due once per distinct anchor value, so rolling into a new
// window triggers exactly one sweep.
type AnchorGate struct {
	mu     sync.Mutex
	anchor func(time.Time) string
	last   string
	armed  bool
}

func NewAnchorGate(anchor func(time.Time) string) *AnchorGate {
	return &AnchorGate{anchor: anchor}
}

func (g *AnchorGate) Due(now time.Time) bool {
	key := g.anchor(now)
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.armed && key == g.last {
		return false
	}
	g.last = key
	g.armed = true
	return true
}

func (g *AnchorGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.armed = false
}

package remote

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Latency decides how long a call takes before it resolves.
type Latency interface {
	Delay(op Op) time.Duration
}

type noLatency struct{}

func (noLatency) Delay(Op) time.Duration { return 0 }

// NoLatency resolves every call immediately.
var NoLatency Latency = noLatency{}

// Span is a closed-open delay range.
type Span struct {
	Min, Max time.Duration
}

// DefaultSpans are the delays of the reference mock service.
var DefaultSpans = map[Op]Span{
	OpList:   {500 * time.Millisecond, 1500 * time.Millisecond},
	OpGet:    {300 * time.Millisecond, 1000 * time.Millisecond},
	OpCreate: {700 * time.Millisecond, 1700 * time.Millisecond},
	OpUpdate: {500 * time.Millisecond, 1300 * time.Millisecond},
	OpDelete: {400 * time.Millisecond, 1000 * time.Millisecond},
}

type randomLatency struct {
	mu    sync.Mutex
	spans map[Op]Span
	scale float64
	rnd   *rand.Rand
}

// RandomLatency picks a uniform delay within the op span, multiplied by
// scale. Ops missing from spans resolve immediately.
func RandomLatency(spans map[Op]Span, scale float64, seed uint64) Latency {
	if spans == nil {
		spans = DefaultSpans
	}
	return &randomLatency{spans: spans, scale: scale, rnd: rand.New(rand.NewPCG(seed, seed+1))}
}

func (r *randomLatency) Delay(op Op) time.Duration {
	s, ok := r.spans[op]
	if !ok || r.scale <= 0 {
		return 0
	}
	d := s.Min
	if s.Max > s.Min {
		r.mu.Lock()
		d += time.Duration(r.rnd.Int64N(int64(s.Max - s.Min)))
		r.mu.Unlock()
	}
	return time.Duration(float64(d) * r.scale)
}

package remote

import (
	"math/rand/v2"
	"sync"
)

// DefaultFailureRate is the chance of a simulated network failure per call.
const DefaultFailureRate = 0.1

// FaultInjector decides whether a call fails with a transient error.
type FaultInjector interface {
	Fail(op Op) bool
}

// FaultFunc adapts a function to a FaultInjector.
type FaultFunc func(op Op) bool

func (f FaultFunc) Fail(op Op) bool { return f(op) }

// NoFaults never fails.
var NoFaults FaultInjector = FaultFunc(func(Op) bool { return false })

// AlwaysFail fails every call.
var AlwaysFail FaultInjector = FaultFunc(func(Op) bool { return true })

type randomFaults struct {
	mu   sync.Mutex
	rate float64
	rnd  *rand.Rand
}

// RandomFaults fails each call independently with probability rate. The same
// seed yields the same sequence of outcomes.
func RandomFaults(rate float64, seed uint64) FaultInjector {
	return &randomFaults{rate: rate, rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (r *randomFaults) Fail(Op) bool {
	if r.rate <= 0 {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Float64() < r.rate
}

// ScriptedFaults replays queued outcomes per operation and falls back to
// Fallback (NoFaults when nil) once a queue is drained.
type ScriptedFaults struct {
	mu       sync.Mutex
	queue    map[Op][]bool
	Fallback FaultInjector
}

func NewScriptedFaults() *ScriptedFaults {
	return &ScriptedFaults{queue: map[Op][]bool{}}
}

// Push appends outcomes for op; true means the call fails.
func (s *ScriptedFaults) Push(op Op, outcomes ...bool) *ScriptedFaults {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue[op] = append(s.queue[op], outcomes...)
	return s
}

func (s *ScriptedFaults) Fail(op Op) bool {
	s.mu.Lock()
	q := s.queue[op]
	if len(q) > 0 {
		s.queue[op] = q[1:]
		s.mu.Unlock()
		return q[0]
	}
	fb := s.Fallback
	s.mu.Unlock()
	if fb == nil {
		return false
	}
	return fb.Fail(op)
}

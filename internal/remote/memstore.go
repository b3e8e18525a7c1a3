package remote

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/idilsaglam/todoapp/internal/log"
	"github.com/idilsaglam/todoapp/internal/model"
)

// MemStore is an in-memory Store that simulates a slow, unreliable service.
// It is safe for concurrent use.
//
// Requests cannot be cancelled one by one. A done context only cuts the
// simulated delay short so the process can shut down; the call then fails
// without touching state.
type MemStore struct {
	mu     sync.Mutex
	items  []model.Item
	seeded bool

	latency Latency
	faults  FaultInjector
	ids     IDGenerator
	now     func() time.Time
	logger  log.Logger
}

// Option configures a MemStore.
type Option func(*MemStore)

func WithLatency(l Latency) Option { return func(s *MemStore) { s.latency = l } }

func WithFaults(f FaultInjector) Option { return func(s *MemStore) { s.faults = f } }

func WithIDs(g IDGenerator) Option { return func(s *MemStore) { s.ids = g } }

func WithClock(now func() time.Time) Option { return func(s *MemStore) { s.now = now } }

func WithLogger(l log.Logger) Option { return func(s *MemStore) { s.logger = l } }

// WithItems replaces the initial contents. Duplicate ids keep the first item.
func WithItems(items []model.Item) Option {
	return func(s *MemStore) {
		s.seeded = true
		s.items = make([]model.Item, 0, len(items))
		seen := make(map[string]bool, len(items))
		for _, it := range items {
			if seen[it.ID] {
				continue
			}
			seen[it.ID] = true
			s.items = append(s.items, it)
		}
	}
}

// NewMemStore returns a store seeded with DefaultSeed. Defaults are no
// latency and no faults; callers opt in to both.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		latency: NoLatency,
		faults:  NoFaults,
		ids:     &SequentialIDs{},
		now:     time.Now,
		logger:  log.Noop,
	}
	for _, opt := range opts {
		opt(s)
	}
	if !s.seeded {
		s.items = DefaultSeed(s.now())
	}
	for _, it := range s.items {
		s.ids.Observe(it.ID)
	}
	s.logger = s.logger.WithValues(log.Kv{"svc": "remote.MemStore"})
	return s
}

// call runs the simulated network leg of an operation: the delay and the
// fault draw. State is only touched after call succeeds. ctx is watched for
// shutdown only.
func (s *MemStore) call(ctx context.Context, op Op, id string) (log.Logger, error) {
	logger := s.logger.WithCtxValues(ctx).WithValues(log.Kv{"op": op, "req": uuid.NewString()})
	if id != "" {
		logger = logger.WithValues(log.Kv{"id": id})
	}

	d := s.latency.Delay(op)
	logger.Debugf("request started, delay %s", d)
	if d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			logger.Warningf("request interrupted: %v", ctx.Err())
			return logger, interrupted(op, id, ctx.Err())
		case <-t.C:
		}
	} else if err := ctx.Err(); err != nil {
		return logger, interrupted(op, id, err)
	}

	if s.faults.Fail(op) {
		logger.Warningf("simulated failure")
		return logger, transient(op, id)
	}
	return logger, nil
}

func (s *MemStore) List(ctx context.Context) ([]model.Item, error) {
	logger, err := s.call(ctx, OpList, "")
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	out := make([]model.Item, len(s.items))
	copy(out, s.items)
	s.mu.Unlock()
	logger.Debugf("listed %d items", len(out))
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, id string) (model.Item, error) {
	if _, err := s.call(ctx, OpGet, id); err != nil {
		return model.Item{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := model.IndexOf(s.items, id)
	if i < 0 {
		return model.Item{}, notFound(OpGet, id)
	}
	return s.items[i], nil
}

func (s *MemStore) Create(ctx context.Context, p model.CreatePayload) (Result[model.Item], error) {
	logger, err := s.call(ctx, OpCreate, "")
	if err != nil {
		return Result[model.Item]{}, err
	}
	s.mu.Lock()
	now := s.now()
	it := model.Item{
		ID:          s.ids.Next(),
		Title:       p.Title,
		Description: p.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.items = append(s.items, it)
	s.mu.Unlock()
	logger.Debugf("created item %s", it.ID)
	return Result[model.Item]{Data: it, Message: msgCreated}, nil
}

func (s *MemStore) Update(ctx context.Context, p model.UpdatePayload) (Result[model.Item], error) {
	if _, err := s.call(ctx, OpUpdate, p.ID); err != nil {
		return Result[model.Item]{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := model.IndexOf(s.items, p.ID)
	if i < 0 {
		return Result[model.Item]{}, notFound(OpUpdate, p.ID)
	}
	prev := s.items[i]
	it := p.Apply(prev)
	it.UpdatedAt = s.now()
	// updatedAt must move forward even on coarse clocks.
	if !it.UpdatedAt.After(prev.UpdatedAt) {
		it.UpdatedAt = prev.UpdatedAt.Add(time.Nanosecond)
	}
	s.items[i] = it
	return Result[model.Item]{Data: it, Message: msgUpdated}, nil
}

func (s *MemStore) Delete(ctx context.Context, id string) (Result[struct{}], error) {
	if _, err := s.call(ctx, OpDelete, id); err != nil {
		return Result[struct{}]{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := model.IndexOf(s.items, id)
	if i < 0 {
		return Result[struct{}]{}, notFound(OpDelete, id)
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return Result[struct{}]{Message: msgDeleted}, nil
}

var _ Store = (*MemStore)(nil)

package remote

import (
	"crypto/rand"
	"strconv"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/idilsaglam/todoapp/internal/model"
)

// IDGenerator assigns ids to new items.
type IDGenerator interface {
	// Observe is told about every seeded id so generated ids never collide.
	Observe(id string)
	Next() string
}

// SequentialIDs hands out "1", "2", ... continuing after the largest
// numeric id observed. Ids are never reused after a delete.
type SequentialIDs struct {
	mu   sync.Mutex
	last uint64
}

func (s *SequentialIDs) Observe(id string) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return
	}
	s.mu.Lock()
	if n > s.last {
		s.last = n
	}
	s.mu.Unlock()
}

func (s *SequentialIDs) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last++
	return strconv.FormatUint(s.last, 10)
}

// ULIDs generates lexically sortable random ids.
type ULIDs struct{}

func (ULIDs) Observe(string) {}

func (ULIDs) Next() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// DefaultSeed returns the items the mock service starts with.
func DefaultSeed(now time.Time) []model.Item {
	day := 24 * time.Hour
	return []model.Item{
		{
			ID:          "1",
			Title:       "Learn React",
			Description: "Study React hooks and context API",
			Completed:   true,
			CreatedAt:   now.Add(-7 * day),
			UpdatedAt:   now.Add(-3 * day),
		},
		{
			ID:          "2",
			Title:       "Build Todo App",
			Description: "Create a todo application with TypeScript and React",
			CreatedAt:   now.Add(-3 * day),
			UpdatedAt:   now.Add(-3 * day),
		},
		{
			ID:          "3",
			Title:       "Learn Next.js",
			Description: "Explore server-side rendering with Next.js",
			CreatedAt:   now.Add(-1 * day),
			UpdatedAt:   now.Add(-1 * day),
		},
	}
}

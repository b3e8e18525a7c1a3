// Package inflight tracks which (item, action) pairs have outstanding
// requests so presentation can block controls per item.
package inflight

import (
	"sort"

	"github.com/idilsaglam/todoapp/internal/model"
)

// Record marks an outstanding request.
type Record struct {
	ItemID string
	Action model.Action
}

// Tracker is a counted set of Records. Overlapping identical requests are
// counted so each one is released by its own End.
//
// A Tracker is not safe for concurrent use.
type Tracker struct {
	pending map[Record]int
	perItem map[string]int
}

func New() *Tracker {
	return &Tracker{pending: map[Record]int{}, perItem: map[string]int{}}
}

// Begin registers a request for (id, action).
func (t *Tracker) Begin(id string, action model.Action) {
	r := Record{ItemID: id, Action: action}
	t.pending[r]++
	t.perItem[id]++
}

// End releases one request for (id, action). Unknown pairs are ignored, so
// other actions on the same item are never affected.
func (t *Tracker) End(id string, action model.Action) {
	r := Record{ItemID: id, Action: action}
	n, ok := t.pending[r]
	if !ok {
		return
	}
	if n <= 1 {
		delete(t.pending, r)
	} else {
		t.pending[r] = n - 1
	}
	if t.perItem[id] <= 1 {
		delete(t.perItem, id)
	} else {
		t.perItem[id]--
	}
}

// IsBlocked reports whether any action is outstanding for id.
func (t *Tracker) IsBlocked(id string) bool {
	return t.perItem[id] > 0
}

// IsBlockedFor reports whether action is outstanding for id.
func (t *Tracker) IsBlockedFor(id string, action model.Action) bool {
	return t.pending[Record{ItemID: id, Action: action}] > 0
}

// Len is the number of outstanding requests, duplicates included.
func (t *Tracker) Len() int {
	n := 0
	for _, c := range t.pending {
		n += c
	}
	return n
}

// Records lists distinct outstanding pairs ordered by item then action.
func (t *Tracker) Records() []Record {
	out := make([]Record, 0, len(t.pending))
	for r := range t.pending {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ItemID != out[j].ItemID {
			return out[i].ItemID < out[j].ItemID
		}
		return out[i].Action < out[j].Action
	})
	return out
}

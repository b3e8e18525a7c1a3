package app_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todoapp/internal/app"
	"github.com/idilsaglam/todoapp/internal/model"
	"github.com/idilsaglam/todoapp/internal/notify"
	"github.com/idilsaglam/todoapp/internal/remote"
)

// recorder collects notifications in order.
type recorder struct {
	mu  sync.Mutex
	got []string
}

func (r *recorder) Show(kind model.NotificationKind, msg string) notify.ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, string(kind)+": "+msg)
	return notify.ID(len(r.got))
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.got...)
}

// gatedStore holds every update and delete until released, so tests decide
// the order in which responses arrive.
type gatedStore struct {
	remote.Store

	mu    sync.Mutex
	gates map[string]chan struct{}
	ready chan string
}

func newGatedStore(inner remote.Store) *gatedStore {
	return &gatedStore{Store: inner, gates: map[string]chan struct{}{}, ready: make(chan string, 16)}
}

func (g *gatedStore) gate(key string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[key]
	if !ok {
		ch = make(chan struct{})
		g.gates[key] = ch
	}
	return ch
}

func (g *gatedStore) wait(key string) {
	ch := g.gate(key)
	g.ready <- key
	<-ch
}

func (g *gatedStore) release(key string) { close(g.gate(key)) }

func (g *gatedStore) Update(ctx context.Context, p model.UpdatePayload) (remote.Result[model.Item], error) {
	key := "update:" + p.ID
	if p.Title != nil {
		key += ":" + *p.Title
	}
	g.wait(key)
	return g.Store.Update(ctx, p)
}

func (g *gatedStore) Delete(ctx context.Context, id string) (remote.Result[struct{}], error) {
	g.wait("delete:" + id)
	return g.Store.Delete(ctx, id)
}

func (g *gatedStore) awaitReady(t *testing.T, keys ...string) {
	t.Helper()
	want := map[string]bool{}
	for _, k := range keys {
		want[k] = true
	}
	for len(want) > 0 {
		select {
		case k := <-g.ready:
			delete(want, k)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %v", want)
		}
	}
}

func newController(t *testing.T, store remote.Store) (*app.Controller, *recorder) {
	t.Helper()
	rec := &recorder{}
	c := app.New(store, rec, nil)
	return c, rec
}

func ids(items []model.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestRefresh(t *testing.T) {
	tests := map[string]struct {
		faults   remote.FaultInjector
		expIDs   []string
		expError string
	}{
		"Refreshing with a healthy store should load all seeded items in order.": {
			faults: remote.NoFaults,
			expIDs: []string{"1", "2", "3"},
		},
		"A failing store should set the error and keep the collection empty.": {
			faults:   remote.AlwaysFail,
			expIDs:   []string{},
			expError: "Failed to fetch todos",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			c, rec := newController(t, remote.NewMemStore(remote.WithFaults(test.faults)))

			err := c.Refresh(context.Background())
			st := c.Snapshot()

			assert.Equal(t, test.expIDs, ids(st.Items))
			assert.False(t, st.IsLoading)
			assert.Equal(t, test.expError, st.Error)
			assert.Equal(t, test.expError != "", err != nil)
			assert.Empty(t, rec.all(), "refresh never notifies")
		})
	}
}

func TestRefreshClearsPreviousError(t *testing.T) {
	faults := remote.NewScriptedFaults().Push(remote.OpList, true)
	c, _ := newController(t, remote.NewMemStore(remote.WithFaults(faults)))

	require.Error(t, c.Refresh(context.Background()))
	assert.True(t, c.Snapshot().HasError())

	require.NoError(t, c.Refresh(context.Background()))
	st := c.Snapshot()
	assert.False(t, st.HasError())
	assert.Len(t, st.Items, 3)
}

func TestRefreshReportsLoading(t *testing.T) {
	c, _ := newController(t, remote.NewMemStore())
	var seen []bool
	c.OnChange(func() { seen = append(seen, c.Snapshot().IsLoading) })

	require.NoError(t, c.Refresh(context.Background()))
	assert.Equal(t, []bool{true, false}, seen)
}

func TestCreateOnEmptyCollection(t *testing.T) {
	c, rec := newController(t, remote.NewMemStore(remote.WithItems(nil)))
	ctx := context.Background()
	require.NoError(t, c.Refresh(ctx))

	var creating []bool
	c.OnChange(func() { creating = append(creating, c.Snapshot().IsCreating) })

	require.NoError(t, c.Create(ctx, model.CreatePayload{Title: "Buy milk", Description: ""}))

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Buy milk", items[0].Title)
	assert.Equal(t, "", items[0].Description)
	assert.False(t, items[0].Completed)
	assert.Equal(t, []bool{true, false}, creating)
	assert.Equal(t, []string{"success: Todo created successfully"}, rec.all())
}

func TestCreateGrowsCollectionByOne(t *testing.T) {
	c, _ := newController(t, remote.NewMemStore())
	ctx := context.Background()
	require.NoError(t, c.Refresh(ctx))

	for i, title := range []string{"a", "b", "c"} {
		require.NoError(t, c.Create(ctx, model.CreatePayload{Title: title, Description: "d-" + title}))
		items := c.Items()
		require.Len(t, items, 4+i)
		last := items[len(items)-1]
		assert.Equal(t, title, last.Title)
		assert.Equal(t, "d-"+title, last.Description)
		assert.False(t, last.Completed)
	}
}

func TestCreateFailures(t *testing.T) {
	tests := map[string]struct {
		payload    model.CreatePayload
		failCreate bool
		expError   string
		expIs      error
	}{
		"A store failure should surface its message.": {
			payload:    model.CreatePayload{Title: "x"},
			failCreate: true,
			expError:   "Failed to create todo",
			expIs:      remote.ErrTransient,
		},
		"A blank title should be rejected without calling the store.": {
			payload:  model.CreatePayload{Title: "   "},
			expError: "Title is required",
			expIs:    app.ErrInvalidRequest,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			faults := remote.NewScriptedFaults()
			if test.failCreate {
				faults.Push(remote.OpCreate, true)
			}
			store := remote.NewMemStore(remote.WithFaults(faults))
			c, rec := newController(t, store)
			ctx := context.Background()
			require.NoError(t, c.Refresh(ctx))

			err := c.Create(ctx, test.payload)
			require.Error(t, err)
			assert.ErrorIs(t, err, test.expIs)

			st := c.Snapshot()
			assert.Len(t, st.Items, 3)
			assert.False(t, st.IsCreating)
			assert.Equal(t, test.expError, st.Error)
			assert.Equal(t, []string{"error: " + test.expError}, rec.all())

			stored, err := store.List(ctx)
			require.NoError(t, err)
			assert.Len(t, stored, 3)
		})
	}
}

func TestApplyUpdateComplete(t *testing.T) {
	store := remote.NewMemStore()
	c, rec := newController(t, store)
	ctx := context.Background()
	require.NoError(t, c.Refresh(ctx))
	before := c.Items()[1]

	require.NoError(t, c.ApplyUpdate(ctx, "2", model.ActionComplete, model.UpdatePayload{Completed: model.Ptr(true)}))

	after := c.Items()[1]
	assert.Equal(t, "2", after.ID)
	assert.True(t, after.Completed)
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
	assert.Equal(t, []string{"success: Todo updated successfully"}, rec.all())
	assert.Empty(t, c.Snapshot().InFlight)

	// The change lives in the store, so it survives a refresh.
	require.NoError(t, c.Refresh(ctx))
	assert.True(t, c.Items()[1].Completed)
}

func TestApplyUpdateFailureKeepsItem(t *testing.T) {
	faults := remote.NewScriptedFaults().Push(remote.OpUpdate, true)
	c, rec := newController(t, remote.NewMemStore(remote.WithFaults(faults)))
	ctx := context.Background()
	require.NoError(t, c.Refresh(ctx))
	before := c.Items()

	err := c.ApplyUpdate(ctx, "2", model.ActionUpdate, model.UpdatePayload{Title: model.Ptr("renamed")})
	require.Error(t, err)

	st := c.Snapshot()
	assert.Equal(t, before, st.Items)
	assert.Equal(t, "Failed to update todo with id 2", st.Error)
	assert.Empty(t, st.InFlight)
	assert.Equal(t, []string{"error: Failed to update todo with id 2"}, rec.all())
}

func TestApplyUpdateRejectsBadRequests(t *testing.T) {
	tests := map[string]struct {
		action  model.Action
		updates model.UpdatePayload
		expMsg  string
	}{
		"Delete is not an update action.": {
			action:  model.ActionDelete,
			updates: model.UpdatePayload{Title: model.Ptr("x")},
			expMsg:  `Unsupported update action "delete"`,
		},
		"Unknown actions should be rejected.": {
			action:  model.Action("archive"),
			updates: model.UpdatePayload{Completed: model.Ptr(true)},
			expMsg:  `Unsupported update action "archive"`,
		},
		"An empty update should be rejected.": {
			action: model.ActionUpdate,
			expMsg: "Nothing to update for todo 2",
		},
		"A blank title should be rejected.": {
			action:  model.ActionUpdate,
			updates: model.UpdatePayload{Title: model.Ptr(" ")},
			expMsg:  "Title is required",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			c, rec := newController(t, remote.NewMemStore())
			ctx := context.Background()
			require.NoError(t, c.Refresh(ctx))

			err := c.ApplyUpdate(ctx, "2", test.action, test.updates)
			require.Error(t, err)
			assert.ErrorIs(t, err, app.ErrInvalidRequest)
			assert.Equal(t, test.expMsg, c.Snapshot().Error)
			assert.Equal(t, []string{"error: " + test.expMsg}, rec.all())
			assert.False(t, c.IsBlocked("2"))
		})
	}
}

func TestExplicitActionIsTracked(t *testing.T) {
	store := newGatedStore(remote.NewMemStore())
	c, _ := newController(t, store)
	ctx := context.Background()
	require.NoError(t, c.Refresh(ctx))

	done := make(chan error, 1)
	// A plain edit that also sets completed stays an update.
	go func() {
		done <- c.ApplyUpdate(ctx, "2", model.ActionUpdate, model.UpdatePayload{Title: model.Ptr("t"), Completed: model.Ptr(true)})
	}()
	store.awaitReady(t, "update:2:t")

	st := c.Snapshot()
	require.Len(t, st.InFlight, 1)
	assert.Equal(t, model.ActionUpdate, st.InFlight[0].Action)
	assert.True(t, c.IsBlocked("2"))

	store.release("update:2:t")
	require.NoError(t, <-done)
	assert.False(t, c.IsBlocked("2"))
}

func TestToggleComplete(t *testing.T) {
	c, _ := newController(t, remote.NewMemStore())
	ctx := context.Background()
	require.NoError(t, c.Refresh(ctx))

	require.NoError(t, c.ToggleComplete(ctx, "1"))
	assert.False(t, c.Items()[0].Completed)
	require.NoError(t, c.ToggleComplete(ctx, "1"))
	assert.True(t, c.Items()[0].Completed)
}

func TestRemove(t *testing.T) {
	c, rec := newController(t, remote.NewMemStore())
	ctx := context.Background()
	require.NoError(t, c.Refresh(ctx))

	require.NoError(t, c.Remove(ctx, "1"))

	assert.Equal(t, []string{"2", "3"}, ids(c.Items()))
	assert.Equal(t, []string{"success: Todo deleted successfully"}, rec.all())
	assert.Empty(t, c.Snapshot().InFlight)
}

func TestRemoveFailureLeavesCollection(t *testing.T) {
	faults := remote.NewScriptedFaults().Push(remote.OpDelete, true)
	c, rec := newController(t, remote.NewMemStore(remote.WithFaults(faults)))
	ctx := context.Background()
	require.NoError(t, c.Refresh(ctx))

	require.Error(t, c.Remove(ctx, "1"))

	st := c.Snapshot()
	assert.Equal(t, []string{"1", "2", "3"}, ids(st.Items))
	assert.Equal(t, "Failed to delete todo with id 1", st.Error)
	assert.Empty(t, st.InFlight)
	assert.Equal(t, []string{"error: Failed to delete todo with id 1"}, rec.all())
}

func TestRemoveUnknownID(t *testing.T) {
	c, _ := newController(t, remote.NewMemStore())
	ctx := context.Background()
	require.NoError(t, c.Refresh(ctx))

	err := c.Remove(ctx, "42")
	assert.ErrorIs(t, err, remote.ErrNotFound)
	assert.Equal(t, "Todo with id 42 not found", c.Snapshot().Error)
	assert.Len(t, c.Items(), 3)
}

func TestConcurrentUpdatesOnDistinctItemsResolveIndependently(t *testing.T) {
	store := newGatedStore(remote.NewMemStore())
	c, _ := newController(t, store)
	ctx := context.Background()
	require.NoError(t, c.Refresh(ctx))

	errs := make(chan error, 2)
	go func() {
		errs <- c.ApplyUpdate(ctx, "1", model.ActionUpdate, model.UpdatePayload{Title: model.Ptr("one")})
	}()
	go func() {
		errs <- c.ApplyUpdate(ctx, "2", model.ActionComplete, model.UpdatePayload{Completed: model.Ptr(true)})
	}()
	store.awaitReady(t, "update:1:one", "update:2")
	assert.True(t, c.IsBlocked("1"))
	assert.True(t, c.IsBlocked("2"))

	// The second request completes while the first one is still pending.
	store.release("update:2")
	require.NoError(t, <-errs)
	assert.True(t, c.IsBlocked("1"))
	assert.False(t, c.IsBlocked("2"))
	assert.True(t, c.Items()[1].Completed)
	assert.Equal(t, "Learn React", c.Items()[0].Title)

	store.release("update:1:one")
	require.NoError(t, <-errs)
	assert.Equal(t, "one", c.Items()[0].Title)
	assert.Empty(t, c.Snapshot().InFlight)
}

func TestConcurrentUpdatesOnSameItemLastResponseWins(t *testing.T) {
	store := newGatedStore(remote.NewMemStore())
	c, _ := newController(t, store)
	ctx := context.Background()
	require.NoError(t, c.Refresh(ctx))

	errs := make(chan error, 2)
	go func() {
		errs <- c.ApplyUpdate(ctx, "3", model.ActionUpdate, model.UpdatePayload{Title: model.Ptr("first")})
	}()
	go func() {
		errs <- c.ApplyUpdate(ctx, "3", model.ActionUpdate, model.UpdatePayload{Title: model.Ptr("second")})
	}()
	store.awaitReady(t, "update:3:first", "update:3:second")

	store.release("update:3:second")
	require.NoError(t, <-errs)
	assert.True(t, c.IsBlocked("3"), "the other request is still outstanding")

	store.release("update:3:first")
	require.NoError(t, <-errs)
	assert.Equal(t, "first", c.Items()[2].Title)
	assert.False(t, c.IsBlocked("3"))
}

func TestDeleteAndUpdateOnSameItemAreTrackedSeparately(t *testing.T) {
	store := newGatedStore(remote.NewMemStore())
	c, _ := newController(t, store)
	ctx := context.Background()
	require.NoError(t, c.Refresh(ctx))

	errs := make(chan error, 2)
	go func() { errs <- c.Remove(ctx, "2") }()
	go func() {
		errs <- c.ApplyUpdate(ctx, "2", model.ActionUpdate, model.UpdatePayload{Title: model.Ptr("x")})
	}()
	store.awaitReady(t, "delete:2", "update:2:x")

	store.release("delete:2")
	require.NoError(t, <-errs)
	assert.True(t, c.IsBlocked("2"))
	assert.Equal(t, []string{"1", "3"}, ids(c.Items()))

	// The item is gone from the store, so the update fails and nothing is re-added.
	store.release("update:2:x")
	require.Error(t, <-errs)
	assert.Equal(t, []string{"1", "3"}, ids(c.Items()))
	assert.Empty(t, c.Snapshot().InFlight)
	assert.Equal(t, "Todo with id 2 not found", c.Snapshot().Error)
}

func TestInFlightEmptiesAfterRandomInterleavings(t *testing.T) {
	store := remote.NewMemStore(
		remote.WithFaults(remote.RandomFaults(0.3, 11)),
		remote.WithLatency(remote.RandomLatency(nil, 0.001, 5)),
	)
	c, _ := newController(t, store)
	ctx := context.Background()
	require.Eventually(t, func() bool { return c.Refresh(ctx) == nil }, 5*time.Second, time.Millisecond)

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := []string{"1", "2", "3"}[i%3]
			switch i % 3 {
			case 0:
				_ = c.ToggleComplete(ctx, id)
			case 1:
				_ = c.ApplyUpdate(ctx, id, model.ActionUpdate, model.UpdatePayload{Description: model.Ptr("d")})
			case 2:
				_ = c.Create(ctx, model.CreatePayload{Title: "new"})
			}
		}(i)
	}
	wg.Wait()

	st := c.Snapshot()
	assert.Empty(t, st.InFlight)
	assert.False(t, st.IsCreating)
}

func TestSnapshotIsACopy(t *testing.T) {
	c, _ := newController(t, remote.NewMemStore())
	require.NoError(t, c.Refresh(context.Background()))

	st := c.Snapshot()
	st.Items[0].Title = "mutated"
	assert.Equal(t, "Learn React", c.Items()[0].Title)
}

func TestClearError(t *testing.T) {
	c, _ := newController(t, remote.NewMemStore(remote.WithFaults(remote.AlwaysFail)))
	require.Error(t, c.Refresh(context.Background()))
	c.ClearError()
	assert.False(t, c.Snapshot().HasError())
}

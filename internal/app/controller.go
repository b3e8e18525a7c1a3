// Package app holds the client side controller: the local copy of the
// items, loading and error flags, and the per item request tracker.
//
// Collection updates are applied only when the store answers. Concurrent
// requests on the same item resolve last-response-wins; there is no
// optimistic mutation and so no rollback.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/idilsaglam/todoapp/internal/inflight"
	"github.com/idilsaglam/todoapp/internal/log"
	"github.com/idilsaglam/todoapp/internal/model"
	"github.com/idilsaglam/todoapp/internal/notify"
	"github.com/idilsaglam/todoapp/internal/remote"
)

const (
	msgFetchFailed  = "Failed to fetch todos"
	msgAddFailed    = "Failed to add todo"
	msgAddOK        = "Todo added successfully"
	msgUpdateOK     = "Todo updated successfully"
	msgDeleteOK     = "Todo deleted successfully"
	msgTitleMissing = "Title is required"
)

// ErrInvalidRequest is wrapped by failures rejected before reaching the store.
var ErrInvalidRequest = errors.New("invalid request")

type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }
func (e *requestError) Unwrap() error { return ErrInvalidRequest }

func invalid(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

// Notifier receives user facing messages. *notify.Channel implements it.
type Notifier interface {
	Show(kind model.NotificationKind, msg string) notify.ID
}

// State is a point in time copy of the controller.
type State struct {
	Items      []model.Item
	IsLoading  bool
	IsCreating bool
	Error      string
	InFlight   []inflight.Record
}

// HasError reports whether the last failure is still displayed.
func (s State) HasError() bool { return s.Error != "" }

type Controller struct {
	store    remote.Store
	notifier Notifier
	logger   log.Logger
	validate *validator.Validate

	mu         sync.Mutex
	items      []model.Item
	isLoading  bool
	isCreating bool
	err        string
	tracker    *inflight.Tracker
	onChange   func()
}

// New returns a controller with an empty collection. Call Refresh to load.
func New(store remote.Store, notifier Notifier, logger log.Logger) *Controller {
	if logger == nil {
		logger = log.Noop
	}
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("register notblank validation: %v", err))
	}
	return &Controller{
		store:    store,
		notifier: notifier,
		logger:   logger.WithValues(log.Kv{"svc": "app.Controller"}),
		validate: v,
		tracker:  inflight.New(),
	}
}

// OnChange registers f to run after each state transition, outside the lock.
func (c *Controller) OnChange(f func()) {
	c.mu.Lock()
	c.onChange = f
	c.mu.Unlock()
}

// mutate applies f under the lock and then notifies the observer.
func (c *Controller) mutate(f func()) {
	c.mu.Lock()
	f()
	cb := c.onChange
	c.mu.Unlock()
	if cb != nil {
		cb()
	}
}

func (c *Controller) notify(kind model.NotificationKind, msg string) {
	if c.notifier != nil {
		c.notifier.Show(kind, msg)
	}
}

// Refresh replaces the collection with the store contents.
func (c *Controller) Refresh(ctx context.Context) error {
	ctx = log.CtxWithValues(ctx, log.Kv{"op": "refresh"})
	logger := c.logger.WithCtxValues(ctx)
	c.mutate(func() {
		c.isLoading = true
		c.err = ""
	})

	items, err := c.store.List(ctx)
	if err != nil {
		msg := remote.Message(err, msgFetchFailed)
		logger.Warningf("refresh failed: %v", err)
		c.mutate(func() {
			c.err = msg
			c.isLoading = false
		})
		return err
	}

	logger.Debugf("refreshed %d items", len(items))
	c.mutate(func() {
		c.items = items
		c.isLoading = false
	})
	return nil
}

// Create submits a new item and appends the stored result.
func (c *Controller) Create(ctx context.Context, p model.CreatePayload) error {
	c.mutate(func() {
		c.isCreating = true
		c.err = ""
	})

	ctx = log.CtxWithValues(ctx, log.Kv{"op": "create"})
	logger := c.logger.WithCtxValues(ctx)
	res, err := c.create(ctx, p)
	if err != nil {
		msg := remote.Message(err, msgAddFailed)
		logger.Warningf("create failed: %v", err)
		c.mutate(func() {
			c.err = msg
			c.isCreating = false
		})
		c.notify(model.NotifyError, msg)
		return err
	}

	logger.Infof("created item %s", res.Data.ID)
	c.mutate(func() {
		c.items = append(c.items, res.Data)
		c.isCreating = false
	})
	c.notify(model.NotifySuccess, messageOr(res.Message, msgAddOK))
	return nil
}

func (c *Controller) create(ctx context.Context, p model.CreatePayload) (remote.Result[model.Item], error) {
	if err := c.validate.Struct(p); err != nil {
		return remote.Result[model.Item]{}, invalid(msgTitleMissing)
	}
	return c.store.Create(ctx, p)
}

// ApplyUpdate sends a partial update for id. action must be ActionUpdate or
// ActionComplete and is what the in-flight tracker records.
func (c *Controller) ApplyUpdate(ctx context.Context, id string, action model.Action, updates model.UpdatePayload) error {
	ctx = log.CtxWithValues(ctx, log.Kv{"op": "update", "id": id, "action": action})
	logger := c.logger.WithCtxValues(ctx)
	updates.ID = id

	if err := checkUpdate(action, updates); err != nil {
		logger.Warningf("rejected update: %v", err)
		msg := err.Error()
		c.mutate(func() { c.err = msg })
		c.notify(model.NotifyError, msg)
		return err
	}

	c.mutate(func() {
		c.tracker.Begin(id, action)
		c.err = ""
	})

	res, err := c.store.Update(ctx, updates)
	if err != nil {
		msg := remote.Message(err, fmt.Sprintf("Failed to update todo %s", id))
		logger.Warningf("update failed: %v", err)
		c.mutate(func() {
			c.err = msg
			c.tracker.End(id, action)
		})
		c.notify(model.NotifyError, msg)
		return err
	}

	logger.Debugf("updated item")
	c.mutate(func() {
		if i := model.IndexOf(c.items, id); i >= 0 {
			c.items[i] = res.Data
		}
		c.tracker.End(id, action)
	})
	c.notify(model.NotifySuccess, messageOr(res.Message, msgUpdateOK))
	return nil
}

func checkUpdate(action model.Action, updates model.UpdatePayload) error {
	switch {
	case !action.Valid() || action == model.ActionDelete:
		return invalid("Unsupported update action %q", action)
	case updates.IsEmpty():
		return invalid("Nothing to update for todo %s", updates.ID)
	case updates.Title != nil && strings.TrimSpace(*updates.Title) == "":
		return invalid(msgTitleMissing)
	}
	return nil
}

// ToggleComplete flips the completed flag of the local copy of id.
func (c *Controller) ToggleComplete(ctx context.Context, id string) error {
	c.mu.Lock()
	i := model.IndexOf(c.items, id)
	completed := i >= 0 && c.items[i].Completed
	c.mu.Unlock()

	return c.ApplyUpdate(ctx, id, model.ActionComplete, model.UpdatePayload{Completed: model.Ptr(!completed)})
}

// Remove deletes id from the store and then from the collection.
func (c *Controller) Remove(ctx context.Context, id string) error {
	ctx = log.CtxWithValues(ctx, log.Kv{"op": "delete", "id": id})
	logger := c.logger.WithCtxValues(ctx)
	c.mutate(func() {
		c.tracker.Begin(id, model.ActionDelete)
		c.err = ""
	})

	res, err := c.store.Delete(ctx, id)
	if err != nil {
		msg := remote.Message(err, fmt.Sprintf("Failed to delete todo %s", id))
		logger.Warningf("delete failed: %v", err)
		c.mutate(func() {
			c.err = msg
			c.tracker.End(id, model.ActionDelete)
		})
		c.notify(model.NotifyError, msg)
		return err
	}

	logger.Infof("deleted item")
	c.mutate(func() {
		if i := model.IndexOf(c.items, id); i >= 0 {
			c.items = append(c.items[:i], c.items[i+1:]...)
		}
		c.tracker.End(id, model.ActionDelete)
	})
	c.notify(model.NotifySuccess, messageOr(res.Message, msgDeleteOK))
	return nil
}

// ClearError hides the last failure.
func (c *Controller) ClearError() {
	c.mutate(func() { c.err = "" })
}

// IsBlocked reports whether id has any request in flight.
func (c *Controller) IsBlocked(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tracker.IsBlocked(id)
}

// Items returns a copy of the collection.
func (c *Controller) Items() []model.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := make([]model.Item, len(c.items))
	copy(items, c.items)
	return State{
		Items:      items,
		IsLoading:  c.isLoading,
		IsCreating: c.isCreating,
		Error:      c.err,
		InFlight:   c.tracker.Records(),
	}
}

// Blocked returns the set of item ids with requests in flight.
func (s State) Blocked() map[string]bool {
	out := make(map[string]bool, len(s.InFlight))
	for _, r := range s.InFlight {
		out[r.ItemID] = true
	}
	return out
}

func messageOr(msg, def string) string {
	if strings.TrimSpace(msg) == "" {
		return def
	}
	return msg
}

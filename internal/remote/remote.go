// Package remote defines the contract of the backing todo service and ships
// an in-memory mock of it with injectable latency, failures and id schemes.
package remote

import (
	"context"
	"errors"

	"github.com/idilsaglam/todoapp/internal/model"
)

// Op names a remote store operation.
type Op string

const (
	OpList   Op = "list"
	OpGet    Op = "get"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Result is a successful store response. Message is optional.
type Result[T any] struct {
	Data    T
	Message string
}

// Store is the authoritative holder of items.
type Store interface {
	List(ctx context.Context) ([]model.Item, error)
	Get(ctx context.Context, id string) (model.Item, error)
	Create(ctx context.Context, p model.CreatePayload) (Result[model.Item], error)
	Update(ctx context.Context, p model.UpdatePayload) (Result[model.Item], error)
	Delete(ctx context.Context, id string) (Result[struct{}], error)
}

var (
	// ErrNotFound is wrapped by failures on unknown ids.
	ErrNotFound = errors.New("not found")
	// ErrTransient is wrapped by simulated network failures.
	ErrTransient = errors.New("transient failure")
)

// OperationError is the only failure a Store returns. Error() yields the
// human readable message meant for users.
type OperationError struct {
	Op      Op
	ID      string
	Message string
	Err     error
}

func (e *OperationError) Error() string { return e.Message }
func (e *OperationError) Unwrap() error { return e.Err }

// Message extracts the user facing message of err, falling back to def.
func Message(err error, def string) string {
	if err == nil {
		return def
	}
	var oe *OperationError
	if errors.As(err, &oe) && oe.Message != "" {
		return oe.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return def
}

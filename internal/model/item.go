package model

import "time"

// Item is the domain model for a todo entry.
// The remote store owns the authoritative copy; clients hold snapshots.
type Item struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Completed   bool      `json:"completed" yaml:"completed"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// CreatePayload is what a client submits to create an item.
type CreatePayload struct {
	Title       string `json:"title" validate:"required,notblank"`
	Description string `json:"description"`
}

// UpdatePayload carries a partial update. Nil fields are left untouched.
type UpdatePayload struct {
	ID          string  `json:"id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// IsEmpty reports whether the payload would change nothing.
func (p UpdatePayload) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil
}

// Apply merges the provided fields into it. Timestamps are not touched.
func (p UpdatePayload) Apply(it Item) Item {
	if p.Title != nil {
		it.Title = *p.Title
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.Completed != nil {
		it.Completed = *p.Completed
	}
	return it
}

// Ptr is a small helper for building UpdatePayloads in place.
func Ptr[T any](v T) *T { return &v }

// IndexOf returns the position of the item with the given id, or -1.
func IndexOf(items []Item, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Stats counts completed and pending items.
func Stats(items []Item) (done, pending int) {
	for _, it := range items {
		if it.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}

package editor

import "fmt"

// CollectionID names one of the record's sub-collections.
type CollectionID string

const (
	Addresses    CollectionID = "addresses"
	BankAccounts CollectionID = "bankAccounts"
	Attributes   CollectionID = "attributes"
	Certificates CollectionID = "certificates"
)

// CollectionIDs lists the sub-collections in wizard order.
var CollectionIDs = []CollectionID{Addresses, BankAccounts, Attributes, Certificates}

// ParseCollectionID accepts the canonical names and a few short aliases.
func ParseCollectionID(s string) (CollectionID, error) {
	switch s {
	case "addresses", "address":
		return Addresses, nil
	case "bankAccounts", "banks", "bank":
		return BankAccounts, nil
	case "attributes", "attribute", "attr":
		return Attributes, nil
	case "certificates", "certificate", "cert":
		return Certificates, nil
	default:
		return "", fmt.Errorf("unknown collection %q", s)
	}
}

// Collection is an ordered list of sub-records that never drops below one
// item. It performs no validation.
type Collection[T any] struct {
	items   []T
	newItem func() T
}

// NewCollection returns a collection holding a single default item.
func NewCollection[T any](newItem func() T) *Collection[T] {
	c := &Collection[T]{newItem: newItem}
	c.Clear()
	return c
}

func (c *Collection[T]) Len() int {
	return len(c.items)
}

// Add appends a default item and returns its index.
func (c *Collection[T]) Add() int {
	c.items = append(c.items, c.newItem())
	return len(c.items) - 1
}

// RemoveAt deletes the item at index unless it is the last one left or the
// index is out of range. It reports whether anything was removed.
func (c *Collection[T]) RemoveAt(index int) bool {
	if len(c.items) <= 1 || index < 0 || index >= len(c.items) {
		return false
	}
	c.items = append(c.items[:index], c.items[index+1:]...)
	return true
}

// ReplaceAll drops every item and loads items in order. An empty source
// leaves one default item.
func (c *Collection[T]) ReplaceAll(items []T) {
	c.items = make([]T, 0, max(len(items), 1))
	c.items = append(c.items, items...)
	if len(c.items) == 0 {
		c.items = append(c.items, c.newItem())
	}
}

// Clear resets the collection to one default item.
func (c *Collection[T]) Clear() {
	c.ReplaceAll(nil)
}

func (c *Collection[T]) At(index int) (T, bool) {
	if index < 0 || index >= len(c.items) {
		var zero T
		return zero, false
	}
	return c.items[index], true
}

// Update applies fn to the item at index in place.
func (c *Collection[T]) Update(index int, fn func(item *T)) error {
	if index < 0 || index >= len(c.items) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(c.items))
	}
	fn(&c.items[index])
	return nil
}

// Items returns a copy of the items.
func (c *Collection[T]) Items() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

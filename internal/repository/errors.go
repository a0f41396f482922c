// Package repository defines error types that are reused across multiple
// stores. These sentinel values allow higher layers such as the service
// package to distinguish between different failure scenarios regardless
// of the storage engine behind a store.
package repository

import "errors"

// ErrNotFound is returned by FindByID when no record exists for the
// requested identifier. Callers translate it into a domain specific
// "not found" error.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a write violates a uniqueness
// constraint enforced by the storage engine (for example the unique
// index on dealers.name in MySQL).
var ErrDuplicate = errors.New("duplicate record")

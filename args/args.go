// Package args holds named values shared by every handler invocation.
//
// Each value lives in its own Value[T] with its own lock, so handlers can
// lock one entry without blocking access to the others.
package args

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

var (
	// ErrArgNotFound is returned when no value is stored under the requested name.
	ErrArgNotFound = errors.New("argument not found")
	// ErrArgType is returned when the stored value has a different type than requested.
	ErrArgType = errors.New("argument type mismatch")
)

// Value is a single independently lockable shared value.
type Value[T any] struct {
	mu sync.RWMutex
	v  T
}

// NewValue wraps v in a Value.
func NewValue[T any](v T) *Value[T] {
	return &Value[T]{v: v}
}

// Load returns a copy of the current value under a read lock.
func (val *Value[T]) Load() T {
	val.mu.RLock()
	defer val.mu.RUnlock()
	return val.v
}

// Store replaces the value under a write lock.
func (val *Value[T]) Store(v T) {
	val.mu.Lock()
	defer val.mu.Unlock()
	val.v = v
}

// Read calls fn with the value while holding the read lock.
func (val *Value[T]) Read(fn func(T)) {
	val.mu.RLock()
	defer val.mu.RUnlock()
	fn(val.v)
}

// Update calls fn with a pointer to the value while holding the write lock.
func (val *Value[T]) Update(fn func(*T)) {
	val.mu.Lock()
	defer val.mu.Unlock()
	fn(&val.v)
}

// Args is a registry of named shared values.
type Args struct {
	mu   sync.RWMutex
	args map[string]any
}

// New creates an empty registry.
func New() *Args {
	return &Args{args: map[string]any{}}
}

// Add stores an already wrapped value under name, replacing any previous entry.
// It returns a so calls can be chained.
func Add[T any](a *Args, name string, val *Value[T]) *Args {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.args[name] = val
	return a
}

// Set wraps v in a new Value, stores it under name and returns it.
func Set[T any](a *Args, name string, v T) *Value[T] {
	val := NewValue(v)
	Add(a, name, val)
	return val
}

// Get returns the value stored under name if it holds a T.
func Get[T any](a *Args, name string) (*Value[T], error) {
	a.mu.RLock()
	raw, ok := a.args[name]
	a.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrArgNotFound, name)
	}
	val, ok := raw.(*Value[T])
	if !ok {
		var zero T
		return nil, fmt.Errorf("%w: %q is not a %T", ErrArgType, name, zero)
	}
	return val, nil
}

// MustGet is like Get but panics on error. Intended for values registered at startup.
func MustGet[T any](a *Args, name string) *Value[T] {
	val, err := Get[T](a, name)
	if err != nil {
		panic(err)
	}
	return val
}

// Has reports whether a value is stored under name.
func (a *Args) Has(name string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.args[name]
	return ok
}

// Remove deletes the entry stored under name.
func (a *Args) Remove(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.args, name)
}

// Names returns the registered names in sorted order.
func (a *Args) Names() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Sorted(maps.Keys(a.args))
}

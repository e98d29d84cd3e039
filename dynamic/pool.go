// Package dynamic implements the multibody model container: parts,
// markers, joints, motions, general motions, forces, and the named pools
// that own them. It plays the role the teacher's fem.Domain plays for a
// finite-element mesh: a single owner of all entity collections, wired
// together by Init() after construction or deserialization.
package dynamic

import "fmt"

// Pool is an insertion-ordered, name-indexed collection of entities of one
// kind, mirroring the contract every entity kind exposes in the model
// (spec §4.2): add, findByName, at, size, iterate in insertion order.
// Grounded on fem.Domain's pattern of owning flat slices of Nodes/Elems
// and looking them up by a side index; generalized here with Go generics
// since every pool in this model needs exactly the same operations.
//
// T is always a reference type (a pointer, or an interface wrapping one) —
// Add stores the reference itself, so growing the backing slice never
// invalidates a previously returned T: only the slice of references
// moves, never the entities they point to.
type Pool[T any] struct {
	names []string
	index map[string]int
	items []T
}

// NewPool returns an empty pool.
func NewPool[T any]() *Pool[T] {
	return &Pool[T]{index: make(map[string]int)}
}

// Add inserts a new named entity and returns it. It is a precondition
// violation — and therefore panics — to reuse a name already present in
// the pool (spec §3 Lifecycles: "names are unique within a pool").
func (p *Pool[T]) Add(name string, item T) T {
	if _, exists := p.index[name]; exists {
		panic(fmt.Sprintf("dynamic: Pool.Add: duplicate name %q", name))
	}
	p.index[name] = len(p.items)
	p.names = append(p.names, name)
	p.items = append(p.items, item)
	return item
}

// FindByName returns the named entity and true, or the zero value and
// false if absent.
func (p *Pool[T]) FindByName(name string) (T, bool) {
	i, ok := p.index[name]
	if !ok {
		var zero T
		return zero, false
	}
	return p.items[i], true
}

// MustFind returns the named entity, panicking if it does not exist —
// used internally once a reference is expected to have been resolved by
// Init().
func (p *Pool[T]) MustFind(name string) T {
	item, ok := p.FindByName(name)
	if !ok {
		panic(fmt.Sprintf("dynamic: Pool.MustFind: unknown name %q", name))
	}
	return item
}

// At returns the i-th entity in insertion order.
func (p *Pool[T]) At(i int) T { return p.items[i] }

// NameAt returns the name of the i-th entity in insertion order.
func (p *Pool[T]) NameAt(i int) string { return p.names[i] }

// IndexOf returns the insertion-order index of name, or -1 if absent.
func (p *Pool[T]) IndexOf(name string) int {
	i, ok := p.index[name]
	if !ok {
		return -1
	}
	return i
}

// Size returns the number of entities in the pool.
func (p *Pool[T]) Size() int { return len(p.items) }

// Each calls f for every entity in insertion order.
func (p *Pool[T]) Each(f func(i int, name string, item T)) {
	for i := range p.items {
		f(i, p.names[i], p.items[i])
	}
}

// Clear empties the pool. Per spec §3 Lifecycles, deletion is only
// permitted between solver runs; it is the caller's responsibility not to
// call this while holding references derived from a solver's scratch
// buffers (those are sized from pool contents at Init()).
func (p *Pool[T]) Clear() {
	p.names = nil
	p.index = make(map[string]int)
	p.items = nil
}

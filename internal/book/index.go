package book

import "simple_cross/internal/domain"

// Location is where a resting order lives. It carries identity only; the
// remaining quantity is read through Ref from the arena.
type Location struct {
	Symbol string
	Side   domain.Side
	Ref    Ref
}

// Index maps order ids to their location. It is the single source of truth
// for whether an id currently exists.
type Index struct {
	byID map[domain.OrderID]Location
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{byID: make(map[domain.OrderID]Location)}
}

// Contains checks if id is resting.
func (x *Index) Contains(id domain.OrderID) bool {
	_, ok := x.byID[id]
	return ok
}

// Lookup returns the location of id.
func (x *Index) Lookup(id domain.OrderID) (Location, bool) {
	loc, ok := x.byID[id]
	return loc, ok
}

// Put records id at loc. Returns false if id is already present.
func (x *Index) Put(id domain.OrderID, loc Location) bool {
	if _, ok := x.byID[id]; ok {
		return false
	}
	x.byID[id] = loc
	return true
}

// Delete forgets id. Deleting an absent id is a no-op.
func (x *Index) Delete(id domain.OrderID) (Location, bool) {
	loc, ok := x.byID[id]
	if ok {
		delete(x.byID, id)
	}
	return loc, ok
}

// Len returns the number of indexed orders.
func (x *Index) Len() int {
	return len(x.byID)
}

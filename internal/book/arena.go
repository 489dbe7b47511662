package book

import (
	"fmt"

	"simple_cross/internal/domain"
)

// Ref addresses an order slot in the arena. Refs stay valid until the slot
// is released, no matter what else is inserted or removed.
type Ref int32

type slot struct {
	order domain.Order
	used  bool
}

// Arena is the single owner of every resting order's mutable state.
// The side trees and the id index only hold Refs into it.
type Arena struct {
	slots []slot
	free  []Ref
	live  int
}

// Alloc stores o and returns its slot.
func (a *Arena) Alloc(o domain.Order) Ref {
	var r Ref
	if n := len(a.free); n > 0 {
		r = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, slot{})
		r = Ref(len(a.slots) - 1)
	}
	a.slots[r] = slot{order: o, used: true}
	a.live++
	return r
}

// Get returns the order in slot r. The pointer is only good until the next
// Alloc, which may grow the backing slice.
func (a *Arena) Get(r Ref) *domain.Order {
	if int(r) < 0 || int(r) >= len(a.slots) || !a.slots[r].used {
		panic(fmt.Sprintf("BOOK_INVARIANT_BROKEN: dangling ref %d", r))
	}
	return &a.slots[r].order
}

// Release frees slot r for reuse. Releasing a free slot is a no-op.
func (a *Arena) Release(r Ref) {
	if int(r) < 0 || int(r) >= len(a.slots) || !a.slots[r].used {
		return
	}
	a.slots[r] = slot{}
	a.free = append(a.free, r)
	a.live--
}

// Len returns the number of live orders.
func (a *Arena) Len() int {
	return a.live
}

package book

import (
	"fmt"

	"simple_cross/internal/domain"
)

// Book is the composite order store: one arena of orders, the id index and
// the per-symbol side trees. It is not safe for concurrent use; the engine
// that owns it processes one command at a time.
type Book struct {
	arena    Arena
	index    *Index
	registry *Registry
}

// New creates an empty book.
func New() *Book {
	return &Book{
		index:    NewIndex(),
		registry: NewRegistry(),
	}
}

// Insert rests o at its priority position and returns its slot.
// The caller must have checked that o.ID is free.
func (b *Book) Insert(o domain.Order) Ref {
	if b.index.Contains(o.ID) {
		panic(fmt.Sprintf("BOOK_INVARIANT_BROKEN: insert of live id %d", o.ID))
	}
	ref := b.arena.Alloc(o)
	b.index.Put(o.ID, Location{Symbol: o.Symbol, Side: o.Side, Ref: ref})
	b.registry.GetOrCreate(o.Symbol).Side(o.Side).insert(entry{price: o.Price, seq: o.Seq, ref: ref})
	return ref
}

// Order returns the order in slot ref. The pointer must not be kept across
// an Insert.
func (b *Book) Order(ref Ref) *domain.Order {
	return b.arena.Get(ref)
}

// Contains checks if id is resting.
func (b *Book) Contains(id domain.OrderID) bool {
	return b.index.Contains(id)
}

// Lookup returns the location of id.
func (b *Book) Lookup(id domain.OrderID) (Location, bool) {
	return b.index.Lookup(id)
}

// Get returns a copy of the resting order id.
func (b *Book) Get(id domain.OrderID) (domain.Order, bool) {
	loc, ok := b.index.Lookup(id)
	if !ok {
		return domain.Order{}, false
	}
	return *b.arena.Get(loc.Ref), true
}

// Remove takes id off the book and returns what was left of it.
// Removing an id that is not resting is a no-op.
func (b *Book) Remove(id domain.OrderID) (domain.Order, bool) {
	loc, ok := b.index.Delete(id)
	if !ok {
		return domain.Order{}, false
	}
	o := *b.arena.Get(loc.Ref)
	pair, ok := b.registry.Get(loc.Symbol)
	if !ok || !pair.Side(loc.Side).remove(entry{price: o.Price, seq: o.Seq, ref: loc.Ref}) {
		panic(fmt.Sprintf("BOOK_INVARIANT_BROKEN: id %d indexed but not on %s %s", id, loc.Symbol, loc.Side))
	}
	b.arena.Release(loc.Ref)
	return o, true
}

// Best returns the slot of the highest-priority order on side of symbol.
func (b *Book) Best(symbol string, side domain.Side) (Ref, bool) {
	pair, ok := b.registry.Get(symbol)
	if !ok {
		return 0, false
	}
	e, ok := pair.Side(side).best()
	return e.ref, ok
}

// Fill takes qty off the order in slot ref and returns its new remaining qty.
// The order stays in place; callers remove it once it reaches zero.
func (b *Book) Fill(ref Ref, qty domain.Qty) domain.Qty {
	o := b.arena.Get(ref)
	if qty > o.Remaining {
		panic(fmt.Sprintf("BOOK_INVARIANT_BROKEN: fill %d exceeds remaining %d of id %d", qty, o.Remaining, o.ID))
	}
	o.Remaining -= qty
	return o.Remaining
}

// Each visits the orders on side of symbol in priority order until fn
// returns false. fn must not modify the book.
func (b *Book) Each(symbol string, side domain.Side, fn func(o *domain.Order) bool) {
	pair, ok := b.registry.Get(symbol)
	if !ok {
		return
	}
	pair.Side(side).ascend(func(e entry) bool {
		return fn(b.arena.Get(e.ref))
	})
}

// Resting returns a copy of every resting order, grouped by symbol (lexical),
// bids before asks, each side in priority order.
func (b *Book) Resting() []domain.Order {
	out := make([]domain.Order, 0, b.Len())
	for _, sym := range b.registry.Symbols() {
		for _, side := range []domain.Side{domain.SideBuy, domain.SideSell} {
			b.Each(sym, side, func(o *domain.Order) bool {
				out = append(out, *o)
				return true
			})
		}
	}
	return out
}

// Len returns the number of resting orders.
func (b *Book) Len() int {
	return b.index.Len()
}

// Symbols returns every symbol that has ever had an order.
func (b *Book) Symbols() []string {
	return b.registry.Symbols()
}

// Known checks if symbol has a book, even an empty one.
func (b *Book) Known(symbol string) bool {
	return b.registry.Exists(symbol)
}

// Depth returns the number of orders resting on side of symbol.
func (b *Book) Depth(symbol string, side domain.Side) int {
	pair, ok := b.registry.Get(symbol)
	if !ok {
		return 0
	}
	return pair.Side(side).Len()
}

// CheckInvariants verifies that the index, the arena and the side trees
// agree. It walks the whole book and is meant for tests and post-mortems.
func (b *Book) CheckInvariants() error {
	seen := 0
	for _, sym := range b.registry.Symbols() {
		pair, _ := b.registry.Get(sym)
		for _, side := range []domain.Side{domain.SideBuy, domain.SideSell} {
			var err error
			pair.Side(side).ascend(func(e entry) bool {
				o := b.arena.Get(e.ref)
				loc, ok := b.index.Lookup(o.ID)
				switch {
				case !ok:
					err = fmt.Errorf("id %d on %s %s but not indexed", o.ID, sym, side)
				case loc.Ref != e.ref || loc.Symbol != sym || loc.Side != side:
					err = fmt.Errorf("id %d index location %+v disagrees with tree", o.ID, loc)
				case o.Remaining == 0:
					err = fmt.Errorf("id %d rests with zero quantity", o.ID)
				case o.Price <= 0:
					err = fmt.Errorf("id %d rests with non-positive price", o.ID)
				case o.Symbol != sym || o.Side != side || o.Price != e.price || o.Seq != e.seq:
					err = fmt.Errorf("id %d key drifted from its order", o.ID)
				}
				seen++
				return err == nil
			})
			if err != nil {
				return err
			}
		}
	}
	if seen != b.index.Len() || seen != b.arena.Len() {
		return fmt.Errorf("tree holds %d orders, index %d, arena %d", seen, b.index.Len(), b.arena.Len())
	}
	return nil
}

// PairSnapshot is the JSON form of one symbol's book.
type PairSnapshot struct {
	Bids []domain.Order `json:"bids"`
	Asks []domain.Order `json:"asks"`
}

// Snapshot copies the whole book for post-mortem dumps.
func (b *Book) Snapshot() map[string]PairSnapshot {
	out := make(map[string]PairSnapshot, b.registry.Count())
	for _, sym := range b.registry.Symbols() {
		var ps PairSnapshot
		b.Each(sym, domain.SideBuy, func(o *domain.Order) bool {
			ps.Bids = append(ps.Bids, *o)
			return true
		})
		b.Each(sym, domain.SideSell, func(o *domain.Order) bool {
			ps.Asks = append(ps.Asks, *o)
			return true
		})
		out[sym] = ps
	}
	return out
}

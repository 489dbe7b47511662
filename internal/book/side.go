package book

import (
	"github.com/google/btree"

	"simple_cross/internal/domain"
)

// entry is the priority key of a resting order. Price and Seq never change
// while the order rests, so the key is stable across partial fills.
type entry struct {
	price domain.Price
	seq   uint64
	ref   Ref
}

func lessBid(a, b entry) bool {
	if a.price != b.price {
		return a.price > b.price
	}
	return a.seq < b.seq
}

func lessAsk(a, b entry) bool {
	if a.price != b.price {
		return a.price < b.price
	}
	return a.seq < b.seq
}

// Side is one side of a symbol's book, best order first.
// Bids: price descending then seq ascending. Asks: price ascending then seq ascending.
type Side struct {
	side domain.Side
	tree *btree.BTreeG[entry]
}

func newSide(side domain.Side) *Side {
	less := lessAsk
	if side == domain.SideBuy {
		less = lessBid
	}
	return &Side{side: side, tree: btree.NewG(2, less)}
}

func (s *Side) insert(e entry) {
	if _, replaced := s.tree.ReplaceOrInsert(e); replaced {
		panic("BOOK_INVARIANT_BROKEN: duplicate priority key")
	}
}

func (s *Side) remove(e entry) bool {
	_, ok := s.tree.Delete(e)
	return ok
}

func (s *Side) best() (entry, bool) {
	return s.tree.Min()
}

// Len returns the number of resting orders on this side.
func (s *Side) Len() int {
	return s.tree.Len()
}

// ascend visits entries in priority order until fn returns false.
func (s *Side) ascend(fn func(entry) bool) {
	s.tree.Ascend(btree.ItemIteratorG[entry](fn))
}

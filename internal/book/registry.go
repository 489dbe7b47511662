package book

import (
	"sort"

	"simple_cross/internal/domain"
)

// Pair holds both sides of one symbol's book.
type Pair struct {
	Symbol string
	Bids   *Side
	Asks   *Side
}

func newPair(symbol string) *Pair {
	return &Pair{
		Symbol: symbol,
		Bids:   newSide(domain.SideBuy),
		Asks:   newSide(domain.SideSell),
	}
}

// Side returns the side orders of side s rest on.
func (p *Pair) Side(s domain.Side) *Side {
	if s == domain.SideBuy {
		return p.Bids
	}
	return p.Asks
}

// Len returns the number of resting orders on both sides.
func (p *Pair) Len() int {
	return p.Bids.Len() + p.Asks.Len()
}

// Registry maps symbols to their books. Books are created on first use and
// never removed: an empty book for a known symbol is not the same as a
// symbol that was never seen.
type Registry struct {
	pairs map[string]*Pair
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{pairs: make(map[string]*Pair)}
}

// GetOrCreate returns the book for symbol, creating it if needed.
func (r *Registry) GetOrCreate(symbol string) *Pair {
	p, ok := r.pairs[symbol]
	if !ok {
		p = newPair(symbol)
		r.pairs[symbol] = p
	}
	return p
}

// Get returns the book for symbol without creating it.
func (r *Registry) Get(symbol string) (*Pair, bool) {
	p, ok := r.pairs[symbol]
	return p, ok
}

// Exists checks if symbol has ever been booked.
func (r *Registry) Exists(symbol string) bool {
	_, ok := r.pairs[symbol]
	return ok
}

// Count returns the number of known symbols.
func (r *Registry) Count() int {
	return len(r.pairs)
}

// Symbols returns every known symbol in lexical order.
func (r *Registry) Symbols() []string {
	out := make([]string, 0, len(r.pairs))
	for s := range r.pairs {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

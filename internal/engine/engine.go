package engine

import (
	"cmp"
	"fmt"
	"slices"

	"simple_cross/internal/book"
	"simple_cross/internal/domain"
)

// PrintOrder selects how Print lays out the composite book.
type PrintOrder int

const (
	// PrintGlobal interleaves all symbols: price descending, then admission order.
	PrintGlobal PrintOrder = iota
	// PrintBySymbol groups by symbol name first, same order within a symbol.
	PrintBySymbol
)

// ParsePrintOrder reads the config spelling of a PrintOrder.
func ParsePrintOrder(s string) (PrintOrder, error) {
	switch s {
	case "", "global":
		return PrintGlobal, nil
	case "symbol":
		return PrintBySymbol, nil
	default:
		return 0, fmt.Errorf("unknown print order %q (want global or symbol)", s)
	}
}

// Engine is the matching engine. It owns the book and is driven one command
// at a time; every call runs to completion before the next one starts.
type Engine struct {
	book       *book.Book
	printOrder PrintOrder
	lastSeq    uint64
}

// NewEngine creates an engine with an empty book.
func NewEngine(printOrder PrintOrder) *Engine {
	return &Engine{
		book:       book.New(),
		printOrder: printOrder,
	}
}

// Book exposes the book for read-only inspection.
func (e *Engine) Book() *book.Book {
	return e.book
}

// Apply validates and executes one command and returns its result log.
// A rejected command yields exactly one error effect and leaves the book as it was.
func (e *Engine) Apply(cmd domain.Command) []domain.Effect {
	o, err := e.Validate(cmd)
	if err != nil {
		return []domain.Effect{ErrorEffect(err)}
	}
	switch cmd.Kind {
	case domain.CommandPlace:
		return e.Place(o)
	case domain.CommandCancel:
		return e.Cancel(o.ID)
	default:
		return e.Print()
	}
}

// Place admits a validated order and crosses it against the opposite side.
//
// The order is rested first, then the best opposite order is re-read after
// every fill, so removals never disturb a live traversal. Each cross emits the
// aggressor's fill and then the passive fill, both at the passive price.
func (e *Engine) Place(o domain.Order) []domain.Effect {
	e.lastSeq++
	o.Seq = e.lastSeq

	in := e.book.Insert(o)
	opposite := o.Side.Opposite()

	var log []domain.Effect
	for {
		agg := e.book.Order(in)
		if !agg.IsOpen() {
			break
		}
		ref, ok := e.book.Best(o.Symbol, opposite)
		if !ok {
			break
		}
		passive := e.book.Order(ref)
		if !agg.Crosses(passive.Price) {
			break
		}

		qty := min(agg.Remaining, passive.Remaining)
		px := passive.Price
		passiveID := passive.ID
		log = append(log,
			domain.FillEffect(agg.ID, agg.Symbol, qty, px),
			domain.FillEffect(passiveID, passive.Symbol, qty, px),
		)

		e.book.Fill(in, qty)
		if e.book.Fill(ref, qty) == 0 {
			e.book.Remove(passiveID)
		}
	}

	if !e.book.Order(in).IsOpen() {
		e.book.Remove(o.ID)
	}
	return log
}

// Cancel removes a resting order in full and acknowledges it.
func (e *Engine) Cancel(id domain.OrderID) []domain.Effect {
	if _, ok := e.book.Remove(id); !ok {
		return []domain.Effect{domain.ErrorEffect(id, domain.ReasonOrderIDNotFound)}
	}
	return []domain.Effect{domain.CancelEffect(id)}
}

// Print lists every resting order: price descending, earliest admission first
// at equal prices. With PrintBySymbol the list is grouped by symbol first.
func (e *Engine) Print() []domain.Effect {
	orders := e.book.Resting()
	slices.SortFunc(orders, func(a, b domain.Order) int {
		if e.printOrder == PrintBySymbol {
			if c := cmp.Compare(a.Symbol, b.Symbol); c != 0 {
				return c
			}
		}
		if c := cmp.Compare(b.Price, a.Price); c != 0 {
			return c
		}
		return cmp.Compare(a.Seq, b.Seq)
	})

	log := make([]domain.Effect, len(orders))
	for i := range orders {
		log[i] = domain.BookEntryEffect(&orders[i])
	}
	return log
}

// ErrorEffect turns a processing error into the single E effect reported
// for the command. Errors that are not rejects are reported as malformed.
func ErrorEffect(err error) domain.Effect {
	if re, ok := domain.AsReject(err); ok {
		return domain.ErrorEffect(re.ID, re.Reason)
	}
	return domain.ErrorEffect(0, domain.ReasonMalformedCommand)
}

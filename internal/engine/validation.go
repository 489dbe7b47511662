package engine

import (
	"fmt"
	"strconv"

	"simple_cross/internal/domain"
)

// MaxSymbolLen bounds the length of a symbol.
const MaxSymbolLen = 8

// Validate checks cmd against the current book without changing it.
// For a place command it returns the admitted order (without a sequence);
// for cancel and print the returned order is only meaningful for its ID.
//
// Checks run in a fixed order and the first failure wins: action, id,
// duplicate id, symbol, side, qty, price for places; existence for cancels.
func (e *Engine) Validate(cmd domain.Command) (domain.Order, error) {
	switch cmd.Kind {
	case domain.CommandPlace:
		return e.validatePlace(cmd)
	case domain.CommandCancel:
		if cmd.ID == 0 {
			return domain.Order{}, domain.Reject(0, domain.ReasonMalformedCommand)
		}
		if !e.book.Contains(cmd.ID) {
			return domain.Order{}, domain.RejectWith(cmd.ID, domain.ReasonOrderIDNotFound, domain.ErrOrderNotFound)
		}
		return domain.Order{ID: cmd.ID}, nil
	case domain.CommandPrint:
		// an empty book is a valid, empty print
		return domain.Order{}, nil
	default:
		return domain.Order{}, domain.Reject(cmd.ID, domain.ReasonInvalidAction)
	}
}

func (e *Engine) validatePlace(cmd domain.Command) (domain.Order, error) {
	id := cmd.ID
	if id == 0 {
		return domain.Order{}, domain.Reject(0, domain.ReasonMalformedCommand)
	}
	if e.book.Contains(id) {
		return domain.Order{}, domain.Reject(id, domain.ReasonDuplicateOrderID)
	}
	if reason, ok := checkSymbol(cmd.Symbol); !ok {
		return domain.Order{}, domain.Reject(id, reason)
	}
	side, ok := domain.ParseSide(cmd.Side)
	if !ok {
		return domain.Order{}, domain.RejectWith(id, domain.ReasonInvalidSide, fmt.Errorf("side %q", cmd.Side))
	}
	qty, err := parseQty(cmd.Qty)
	if err != nil {
		return domain.Order{}, domain.RejectWith(id, domain.ReasonInvalidQty, err)
	}
	px, err := domain.ParsePrice(cmd.Price)
	if err != nil {
		return domain.Order{}, domain.RejectWith(id, domain.ReasonInvalidPrice, err)
	}
	return domain.Order{
		ID:        id,
		Symbol:    cmd.Symbol,
		Side:      side,
		Remaining: qty,
		Price:     px,
	}, nil
}

func checkSymbol(symbol string) (domain.RejectReason, bool) {
	switch {
	case symbol == "":
		return domain.ReasonSymbolMissing, false
	case len(symbol) > MaxSymbolLen:
		return domain.ReasonSymbolTooLong, false
	}
	for i := 0; i < len(symbol); i++ {
		c := symbol[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
			return domain.ReasonSymbolNotAlphanumeric, false
		}
	}
	return 0, true
}

// parseQty reads a positive 16-bit quantity.
func parseQty(token string) (domain.Qty, error) {
	v, err := strconv.ParseUint(token, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("qty %q: %w", token, err)
	}
	if v == 0 {
		return 0, fmt.Errorf("qty must be positive")
	}
	return domain.Qty(v), nil
}

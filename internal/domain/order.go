package domain

// OrderID identifies an order. Valid ids are positive 32-bit values.
type OrderID uint32

// Qty is an order quantity. Valid quantities fit in 16 bits and are positive.
type Qty uint16

// Side is the side of the book an order rests on.
type Side uint8

const (
	SideBuy Side = iota + 1
	SideSell
)

// String returns the single-letter wire form ("B" or "S").
func (s Side) String() string {
	switch s {
	case SideBuy:
		return "B"
	case SideSell:
		return "S"
	default:
		return "?"
	}
}

// Opposite returns the side an order of this side matches against.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// ParseSide converts the wire letter into a Side.
func ParseSide(token string) (Side, bool) {
	switch token {
	case "B":
		return SideBuy, true
	case "S":
		return SideSell, true
	default:
		return 0, false
	}
}

// Order is a limit order.
// Remaining is the only mutable field once the order has been admitted.
type Order struct {
	ID        OrderID
	Symbol    string
	Side      Side
	Remaining Qty
	Price     Price
	Seq       uint64 // admission sequence, the time half of price-time priority
}

// Crosses reports whether this order, as the aggressor, trades against a
// resting order priced at passive.
func (o *Order) Crosses(passive Price) bool {
	if o.Side == SideBuy {
		return passive <= o.Price
	}
	return passive >= o.Price
}

// IsOpen checks if the order still has quantity to trade.
func (o *Order) IsOpen() bool {
	return o.Remaining > 0
}

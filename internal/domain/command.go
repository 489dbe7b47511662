package domain

// CommandKind is the action letter of an input line.
type CommandKind uint8

const (
	CommandUnknown CommandKind = iota
	CommandPlace               // O
	CommandCancel              // X
	CommandPrint               // P
)

// Command is one parsed input line.
// Side, Qty and Price stay as raw tokens: their checks belong to validation,
// which needs to report them in a fixed order after the duplicate-id check.
type Command struct {
	Kind   CommandKind
	Action string // raw action token, kept for diagnostics
	ID     OrderID
	Symbol string
	Side   string
	Qty    string
	Price  string
}

// EffectKind is the result letter of an output line.
type EffectKind uint8

const (
	EffectFill      EffectKind = iota + 1 // F
	EffectCancelAck                       // X
	EffectBookEntry                       // P
	EffectError                           // E
)

// Effect is one result produced while processing a command.
type Effect struct {
	Kind   EffectKind
	ID     OrderID
	Symbol string
	Side   Side // book entries only
	Qty    Qty  // fill qty or open qty
	Price  Price
	Reason RejectReason // errors only
}

// FillEffect records qty traded by id at the passive order's price.
func FillEffect(id OrderID, symbol string, qty Qty, px Price) Effect {
	return Effect{Kind: EffectFill, ID: id, Symbol: symbol, Qty: qty, Price: px}
}

// CancelEffect acknowledges a cancel.
func CancelEffect(id OrderID) Effect {
	return Effect{Kind: EffectCancelAck, ID: id}
}

// BookEntryEffect describes one resting order.
func BookEntryEffect(o *Order) Effect {
	return Effect{Kind: EffectBookEntry, ID: o.ID, Symbol: o.Symbol, Side: o.Side, Qty: o.Remaining, Price: o.Price}
}

// ErrorEffect reports a rejected command.
func ErrorEffect(id OrderID, reason RejectReason) Effect {
	return Effect{Kind: EffectError, ID: id, Reason: reason}
}

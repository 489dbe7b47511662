package book

import (
	"testing"

	"simple_cross/internal/domain"
)

func order(id domain.OrderID, symbol string, side domain.Side, qty domain.Qty, px string, seq uint64) domain.Order {
	return domain.Order{ID: id, Symbol: symbol, Side: side, Remaining: qty, Price: domain.MustParsePrice(px), Seq: seq}
}

func ids(orders []domain.Order) []domain.OrderID {
	out := make([]domain.OrderID, len(orders))
	for i, o := range orders {
		out[i] = o.ID
	}
	return out
}

func equalIDs(a, b []domain.OrderID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBook_PriorityOrder(t *testing.T) {
	b := New()
	b.Insert(order(1, "IBM", domain.SideBuy, 10, "99", 1))
	b.Insert(order(2, "IBM", domain.SideBuy, 10, "100", 2))
	b.Insert(order(3, "IBM", domain.SideBuy, 10, "100", 3))
	b.Insert(order(4, "IBM", domain.SideSell, 10, "102", 4))
	b.Insert(order(5, "IBM", domain.SideSell, 10, "101", 5))
	b.Insert(order(6, "IBM", domain.SideSell, 10, "101", 6))

	var bids, asks []domain.OrderID
	b.Each("IBM", domain.SideBuy, func(o *domain.Order) bool {
		bids = append(bids, o.ID)
		return true
	})
	b.Each("IBM", domain.SideSell, func(o *domain.Order) bool {
		asks = append(asks, o.ID)
		return true
	})

	if want := []domain.OrderID{2, 3, 1}; !equalIDs(bids, want) {
		t.Errorf("bids = %v, want %v", bids, want)
	}
	if want := []domain.OrderID{5, 6, 4}; !equalIDs(asks, want) {
		t.Errorf("asks = %v, want %v", asks, want)
	}

	ref, ok := b.Best("IBM", domain.SideBuy)
	if !ok || b.Order(ref).ID != 2 {
		t.Error("best bid should be id 2")
	}
	ref, ok = b.Best("IBM", domain.SideSell)
	if !ok || b.Order(ref).ID != 5 {
		t.Error("best ask should be id 5")
	}
	if err := b.CheckInvariants(); err != nil {
		t.Fatal(err)
	}
}

func TestBook_Remove(t *testing.T) {
	b := New()
	b.Insert(order(1, "IBM", domain.SideBuy, 10, "100", 1))
	b.Insert(order(2, "IBM", domain.SideBuy, 10, "100", 2))

	got, ok := b.Remove(1)
	if !ok || got.ID != 1 {
		t.Fatalf("Remove(1) = %v, %v", got, ok)
	}
	if b.Contains(1) {
		t.Error("id 1 should be gone from the index")
	}
	if _, ok := b.Remove(1); ok {
		t.Error("second Remove should be a no-op")
	}
	if b.Len() != 1 || b.Depth("IBM", domain.SideBuy) != 1 {
		t.Errorf("Len = %d, depth = %d", b.Len(), b.Depth("IBM", domain.SideBuy))
	}
	if _, ok := b.Remove(42); ok {
		t.Error("removing an unknown id should be a no-op")
	}
	if err := b.CheckInvariants(); err != nil {
		t.Fatal(err)
	}
}

func TestBook_FillKeepsPriority(t *testing.T) {
	b := New()
	first := b.Insert(order(1, "IBM", domain.SideSell, 10, "100", 1))
	b.Insert(order(2, "IBM", domain.SideSell, 10, "100", 2))

	if left := b.Fill(first, 4); left != 6 {
		t.Fatalf("remaining = %d, want 6", left)
	}
	ref, _ := b.Best("IBM", domain.SideSell)
	if ref != first {
		t.Error("partially filled order should keep its place")
	}
	if o, _ := b.Get(1); o.Remaining != 6 {
		t.Errorf("index view remaining = %d, want 6", o.Remaining)
	}
}

func TestBook_FillBeyondRemainingPanics(t *testing.T) {
	b := New()
	ref := b.Insert(order(1, "IBM", domain.SideSell, 5, "100", 1))

	defer func() {
		if r := recover(); r == nil {
			t.Error("overfill should panic")
		}
	}()
	b.Fill(ref, 6)
}

func TestBook_SymbolsAreIndependent(t *testing.T) {
	b := New()
	b.Insert(order(1, "IBM", domain.SideBuy, 10, "100", 1))
	b.Insert(order(2, "MSFT", domain.SideSell, 10, "50", 2))

	if _, ok := b.Best("IBM", domain.SideSell); ok {
		t.Error("IBM has no asks")
	}
	if _, ok := b.Best("AAPL", domain.SideBuy); ok {
		t.Error("unknown symbol has no book")
	}
	if b.Known("AAPL") {
		t.Error("lookups must not create books")
	}

	b.Remove(2)
	if !b.Known("MSFT") {
		t.Error("an emptied book stays registered")
	}
	if got := b.Symbols(); len(got) != 2 || got[0] != "IBM" || got[1] != "MSFT" {
		t.Errorf("Symbols = %v", got)
	}
}

func TestBook_SlotReuse(t *testing.T) {
	b := New()
	r1 := b.Insert(order(1, "IBM", domain.SideBuy, 10, "100", 1))
	b.Remove(1)
	r2 := b.Insert(order(1, "IBM", domain.SideBuy, 3, "101", 2))

	if r1 != r2 {
		t.Errorf("released slot should be reused: %d vs %d", r1, r2)
	}
	if o, _ := b.Get(1); o.Remaining != 3 || o.Seq != 2 {
		t.Errorf("reused id carries stale state: %+v", o)
	}
	if err := b.CheckInvariants(); err != nil {
		t.Fatal(err)
	}
}

func TestBook_RestingAndSnapshot(t *testing.T) {
	b := New()
	b.Insert(order(1, "MSFT", domain.SideSell, 1, "50", 1))
	b.Insert(order(2, "IBM", domain.SideSell, 1, "101", 2))
	b.Insert(order(3, "IBM", domain.SideBuy, 1, "100", 3))

	if got, want := ids(b.Resting()), []domain.OrderID{3, 2, 1}; !equalIDs(got, want) {
		t.Errorf("Resting = %v, want %v", got, want)
	}

	snap := b.Snapshot()
	if len(snap) != 2 || len(snap["IBM"].Bids) != 1 || len(snap["IBM"].Asks) != 1 || len(snap["MSFT"].Asks) != 1 {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}

func TestBook_DuplicateInsertPanics(t *testing.T) {
	b := New()
	b.Insert(order(1, "IBM", domain.SideBuy, 10, "100", 1))

	defer func() {
		if r := recover(); r == nil {
			t.Error("inserting a live id should panic")
		}
	}()
	b.Insert(order(1, "IBM", domain.SideBuy, 10, "100", 2))
}

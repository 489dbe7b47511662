package event

import "testing"

func TestCommandEventPool(t *testing.T) {
	ev := AcquireCommandEvent()
	ev.Line = "P"
	ev.Source = "test"
	ev.Reply = func([]string) {}

	ReleaseCommandEvent(ev)
	if ev.Line != "" || ev.Source != "" || ev.Reply != nil {
		t.Errorf("released event not reset: %+v", ev)
	}

	ReleaseCommandEvent(nil) // must not panic

	Warmup(8)
	got := AcquireCommandEvent()
	if got.Line != "" || got.Reply != nil {
		t.Errorf("pooled event not zeroed: %+v", got)
	}
}

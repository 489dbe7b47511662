package event

import (
	"sync"
)

// CommandEvent carries one command line from a source into the sequencer.
// Reply, if set, receives the formatted result lines once the command has
// been fully processed. It is called from the sequencer goroutine.
type CommandEvent struct {
	Line   string
	Source string
	Reply  func(lines []string)
}

// commandPool provides sync.Pool for high-frequency event allocation.
// Use this to reduce GC pressure in the hotpath.
//
// Usage:
//
//	ev := AcquireCommandEvent()
//	ev.Line = "O 1 IBM B 10 100.00000"
//	inbox <- ev
//	// the sequencer calls ReleaseCommandEvent(ev) after processing
var commandPool = sync.Pool{
	New: func() interface{} {
		return &CommandEvent{}
	},
}

// AcquireCommandEvent gets a CommandEvent from the pool.
// The returned event has zero values and must be initialized.
func AcquireCommandEvent() *CommandEvent {
	return commandPool.Get().(*CommandEvent)
}

// ReleaseCommandEvent returns a CommandEvent to the pool.
// The event is reset to zero values before being pooled.
func ReleaseCommandEvent(ev *CommandEvent) {
	if ev == nil {
		return
	}
	ev.Line = ""
	ev.Source = ""
	ev.Reply = nil

	commandPool.Put(ev)
}

// Warmup pre-allocates event objects to reduce GC pressure at startup.
func Warmup(n int) {
	evs := make([]*CommandEvent, 0, n)
	for i := 0; i < n; i++ {
		evs = append(evs, AcquireCommandEvent())
	}
	for _, ev := range evs {
		ReleaseCommandEvent(ev)
	}
}

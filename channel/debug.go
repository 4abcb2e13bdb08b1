package channel

import (
	"sync"

	"github.com/harlequix/parcheck/injection"
	"github.com/harlequix/parcheck/protocol"
)

const (
	EventSent      = "sent"
	EventCorrupted = "corrupted"
	EventChecked   = "checked"
	// EventLost is emitted when the receiver rejects a forwarded packet as
	// malformed, e.g. after the injection produced a delimiter or newline.
	EventLost      = "lost"
)

// Event describes one step of a packet through the channel.
type Event struct {
	Name      string
	Packet    *protocol.Packet
	Original  string
	Injection injection.Type
	Report    *Report
}

// Debugger fans events out to subscribers. Slow subscribers miss events
// instead of blocking the channel.
type Debugger struct {
	mu       sync.Mutex
	eventMap map[string][]chan Event
}

func NewDebugger() *Debugger {
	return &Debugger{
		eventMap: make(map[string][]chan Event),
	}
}

func (d *Debugger) Emit(event Event) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, ch := range d.eventMap[event.Name] {
		select {
		case ch <- event:
		default:
		}
	}
}

func (d *Debugger) Subscribe(event string, callback chan Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.eventMap[event] = append(d.eventMap[event], callback)
}

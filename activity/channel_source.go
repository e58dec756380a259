package activity

import "time"

// ChannelSource is a Source fed by Emit. Emit never blocks; events that do not
// fit the buffer are dropped since any later event refreshes the same stamp.
type ChannelSource struct {
	events chan Event
}

func NewChannelSource(buffer int) *ChannelSource {
	if buffer < 1 {
		buffer = 1
	}
	return &ChannelSource{events: make(chan Event, buffer)}
}

func (c *ChannelSource) Events() <-chan Event {
	return c.events
}

// Emit queues an interaction of kind
func (c *ChannelSource) Emit(kind Kind) bool {
	select {
	case c.events <- Event{Kind: kind, At: time.Now()}:
		return true
	default:
		return false
	}
}

// Close ends the listener attached to this source
func (c *ChannelSource) Close() {
	close(c.events)
}

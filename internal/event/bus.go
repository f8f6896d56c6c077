package event

import (
	"reflect"
	"sync"
	"time"
)

// subscriberBuffer sizes each subscriber queue. Publish blocks when a queue
// is full rather than dropping, so slow observers exert back-pressure on
// the mutator instead of desynchronizing from it.
const subscriberBuffer = 256

// Bus fans the ordered event stream out to subscribers. Sequence numbers
// are assigned under the same lock that delivers, so every subscriber sees
// the exact emission order and can detect gaps.
type Bus struct {
	mu          sync.Mutex
	subscribers []chan Event
	seq         uint64
	closed      bool
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe returns a buffered channel that receives every event published
// after the call. The caller must drain the channel until it is closed.
func (b *Bus) Subscribe() <-chan Event {
	ch := make(chan Event, subscriberBuffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch
	}
	b.subscribers = append(b.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Bus) Unsubscribe(ch <-chan Event) {
	if ch == nil {
		return
	}
	target := reflect.ValueOf(ch).Pointer()
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subscribers {
		if reflect.ValueOf(sub).Pointer() == target {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			close(sub)
			return
		}
	}
}

// Publish assigns the next sequence number and timestamp to ev and
// delivers it to every subscriber in order. The send blocks on a full
// queue. Returns the assigned sequence number, or 0 if the bus is closed.
func (b *Bus) Publish(ev Event) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return 0
	}
	b.seq++
	ev.Seq = b.seq
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	for _, sub := range b.subscribers {
		sub <- ev
	}
	return ev.Seq
}

// Published returns how many events have been assigned a sequence number.
func (b *Bus) Published() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.seq
}

// Close closes every subscriber channel after the last published event.
// Further publishes are no-ops.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, sub := range b.subscribers {
		close(sub)
	}
	b.subscribers = nil
}

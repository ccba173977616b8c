// Package changefeed fans out row-change notifications to in-process subscribers.
//
// Delivery is best effort: Publish never blocks, and a subscriber whose buffer is
// full simply misses the notification. Consumers treat a Change as a hint to
// re-fetch the whole collection, so a dropped event only delays a refresh.
package changefeed

import (
	"log/slog"
	"sync"
	"time"
)

// Collection names carried in a Change.
const (
	CollectionTasks   = "tasks"
	CollectionVendors = "vendors"
	CollectionGuests  = "guests"
)

// Operations carried in a Change.
const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 16

// Change describes one committed mutation.
type Change struct {
	Collection string    `json:"collection"`
	OwnerID    string    `json:"owner_id"`
	Op         string    `json:"op"`
	RowID      string    `json:"row_id"`
	At         time.Time `json:"at"`
}

// Publisher is the write side of the feed, as seen by orchestrators.
type Publisher interface {
	Publish(c Change)
}

// Broker is an in-memory publish/subscribe hub keyed by owner.
type Broker struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]*Subscription
	buffer int
}

// Compile-time check that *Broker satisfies Publisher.
var _ Publisher = (*Broker)(nil)

// NewBroker creates a Broker. A non-positive buffer uses DefaultBuffer.
func NewBroker(buffer int) *Broker {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Broker{subs: make(map[int]*Subscription), buffer: buffer}
}

// Subscription receives changes until Close is called.
type Subscription struct {
	id      int
	ownerID string
	ch      chan Change
	broker  *Broker
	once    sync.Once
}

// C returns the delivery channel. It is closed by Close.
func (s *Subscription) C() <-chan Change {
	return s.ch
}

// Close unregisters the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.broker.mu.Lock()
		delete(s.broker.subs, s.id)
		s.broker.mu.Unlock()
		close(s.ch)
	})
}

func (s *Subscription) wants(c Change) bool {
	return s.ownerID == "" || s.ownerID == c.OwnerID
}

// Subscribe registers a subscriber for one owner's changes.
// PRE: ownerID is non-empty
func (b *Broker) Subscribe(ownerID string) *Subscription {
	return b.add(ownerID)
}

// SubscribeAll registers a subscriber for every owner's changes.
func (b *Broker) SubscribeAll() *Subscription {
	return b.add("")
}

func (b *Broker) add(ownerID string) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	sub := &Subscription{
		id:      b.nextID,
		ownerID: ownerID,
		ch:      make(chan Change, b.buffer),
		broker:  b,
	}
	b.subs[sub.id] = sub
	return sub
}

// Publish delivers c to every matching subscriber without blocking.
// INVARIANT: a full subscriber buffer drops c for that subscriber only
func (b *Broker) Publish(c Change) {
	if c.At.IsZero() {
		c.At = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs {
		if !sub.wants(c) {
			continue
		}
		select {
		case sub.ch <- c:
		default:
			slog.Debug("change_event", "event", "dropped", "collection", c.Collection, "owner_id", c.OwnerID, "subscriber", sub.id)
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

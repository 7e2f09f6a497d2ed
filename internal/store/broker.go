package store

import (
	"sync"
)

// Broker fans change notifications out to subscribers.
// Handlers run synchronously on the publishing goroutine, outside the lock.
type Broker struct {
	mu   sync.RWMutex
	next int
	subs map[int]subscription
}

type subscription struct {
	table string
	fn    func(Change)
}

// NewBroker creates an empty broker
func NewBroker() *Broker {
	return &Broker{subs: make(map[int]subscription)}
}

// Subscribe registers fn for changes on table; "" matches every table.
func (b *Broker) Subscribe(table string, fn func(Change)) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = subscription{table: table, fn: fn}
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers c to every matching subscriber
func (b *Broker) Publish(c Change) {
	b.mu.RLock()
	handlers := make([]func(Change), 0, len(b.subs))
	for _, s := range b.subs {
		if s.table == "" || s.table == c.Table {
			handlers = append(handlers, s.fn)
		}
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(c)
	}
}

// Len returns the number of active subscriptions
func (b *Broker) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

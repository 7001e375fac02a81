// Package event carries the storefront's two local change signals:
// cart contents changed and favorites changed. Header badge counters
// subscribe; cart and favorites mutations publish. Replaces the
// ambient window-event dispatch the web storefront used with an owned
// bus that has an explicit subscriber lifecycle.
package event

import "sync"

// Topic names a signal channel on the bus.
type Topic string

const (
	CartChanged      Topic = "cart-changed"
	FavoritesChanged Topic = "favorites-changed"
)

type subscriber struct {
	id int
	ch chan struct{}
}

// Bus fans a topic notification out to every live subscriber. Publish
// never blocks: a subscriber that has not drained its channel keeps a
// single pending notification, so bursts coalesce the way repeated DOM
// events did.
type Bus struct {
	mu   sync.Mutex
	next int
	subs map[Topic][]subscriber
}

func NewBus() *Bus {
	return &Bus{subs: map[Topic][]subscriber{}}
}

// Subscribe registers for a topic. The returned cancel func must be
// called when the consumer goes away; after cancel the channel is
// closed and receives nothing further.
func (b *Bus) Subscribe(topic Topic) (<-chan struct{}, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	sub := subscriber{id: b.next, ch: make(chan struct{}, 1)}
	b.subs[topic] = append(b.subs[topic], sub)

	id := sub.id
	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[topic]
		for i, s := range list {
			if s.id == id {
				b.subs[topic] = append(list[:i], list[i+1:]...)
				close(s.ch)
				return
			}
		}
	}
	return sub.ch, cancel
}

// Publish notifies all current subscribers of the topic.
func (b *Bus) Publish(topic Topic) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.subs[topic] {
		select {
		case s.ch <- struct{}{}:
		default:
		}
	}
}

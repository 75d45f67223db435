// Package events dispatches change notifications to subscribers.
package events

import (
	"reflect"
	"sync"
	"sync/atomic"
	"time"
)

// Event names.
const (
	ListablesLoaded = "listables.loaded"
	ListableChanged = "listable.changed"
	ListableDeleted = "listable.deleted"
	ItemChanged     = "item.changed"
	ItemDeleted     = "item.deleted"
)

// Event describes one change.
type Event struct {
	Seq       uint64    `json:"seq"`
	Name      string    `json:"name"`
	UserID    string    `json:"userId,omitempty"`
	ListID    string    `json:"listId,omitempty"`
	ItemID    string    `json:"itemId,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	// Audience holds the ids of users allowed to see the event.
	// An empty audience means only UserID.
	Audience []string `json:"-"`
}

// Visible reports whether userID may receive the event.
func (e Event) Visible(userID string) bool {
	if e.UserID == userID {
		return true
	}
	for _, id := range e.Audience {
		if id == userID {
			return true
		}
	}
	return false
}

// subscriberBuffer is the channel capacity of each subscriber.
const subscriberBuffer = 64

// Listener handles one event. Listeners run synchronously in Trigger.
type Listener func(Event)

// ListenerID identifies a registered listener.
type ListenerID uint64

type namedListener struct {
	id ListenerID
	fn Listener
}

// Manager fans events out to named listeners and channel subscribers.
// The zero value is ready to use.
type Manager struct {
	mu          sync.RWMutex
	listeners   map[string][]namedListener
	subscribers []chan Event
	closed      bool
	sequence    atomic.Uint64
	nextID      atomic.Uint64
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{}
}

// AddListener registers fn for events named name.
func (m *Manager) AddListener(name string, fn Listener) ListenerID {
	id := ListenerID(m.nextID.Add(1))
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listeners == nil {
		m.listeners = make(map[string][]namedListener)
	}
	m.listeners[name] = append(m.listeners[name], namedListener{id: id, fn: fn})
	return id
}

// RemoveListener unregisters a listener. Unknown ids are ignored.
func (m *Manager) RemoveListener(name string, id ListenerID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	listeners := m.listeners[name]
	for i, l := range listeners {
		if l.id == id {
			m.listeners[name] = append(listeners[:i:i], listeners[i+1:]...)
			return
		}
	}
}

// Subscribe returns a channel that receives every triggered event.
// Slow subscribers drop events instead of blocking Trigger.
// After Close the channel is already closed.
func (m *Manager) Subscribe() <-chan Event {
	ch := make(chan Event, subscriberBuffer)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		close(ch)
		return ch
	}
	m.subscribers = append(m.subscribers, ch)
	return ch
}

// Unsubscribe removes and closes a subscriber channel.
func (m *Manager) Unsubscribe(ch <-chan Event) {
	if ch == nil {
		return
	}
	target := reflect.ValueOf(ch).Pointer()
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, sub := range m.subscribers {
		if reflect.ValueOf(sub).Pointer() == target {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(sub)
			return
		}
	}
}

// Trigger assigns a sequence number and dispatches the event. Events
// nobody listens to are dropped. Trigger on a nil manager does nothing.
func (m *Manager) Trigger(event Event) {
	if m == nil {
		return
	}
	event.Seq = m.sequence.Add(1)
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	m.mu.RLock()
	listeners := append([]namedListener(nil), m.listeners[event.Name]...)
	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
		}
	}
	m.mu.RUnlock()

	for _, l := range listeners {
		l.fn(event)
	}
}

// Close closes every subscriber channel.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
}

package events

import (
	"testing"
	"time"
)

func TestManager_TriggerDeliversToSubscribers(t *testing.T) {
	m := NewManager()
	first := m.Subscribe()
	second := m.Subscribe()

	m.Trigger(Event{Name: ListableChanged, UserID: "alice", ListID: "l1"})

	for _, ch := range []<-chan Event{first, second} {
		select {
		case event := <-ch:
			if event.Name != ListableChanged || event.ListID != "l1" {
				t.Fatalf("unexpected event %+v", event)
			}
			if event.Seq != 1 {
				t.Fatalf("expected seq 1, got %d", event.Seq)
			}
			if event.Timestamp.IsZero() {
				t.Fatal("expected timestamp to be set")
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestManager_UnsubscribeClosesChannel(t *testing.T) {
	m := NewManager()
	ch := m.Subscribe()
	m.Unsubscribe(ch)

	if _, ok := <-ch; ok {
		t.Fatal("expected closed channel")
	}

	m.Trigger(Event{Name: ItemDeleted})
}

func TestManager_SubscribeAfterClose(t *testing.T) {
	m := NewManager()
	before := m.Subscribe()
	m.Close()

	if _, ok := <-before; ok {
		t.Fatal("expected Close to close existing subscribers")
	}
	after := m.Subscribe()
	if _, ok := <-after; ok {
		t.Fatal("expected a closed channel after Close")
	}

	m.Trigger(Event{Name: ItemChanged})
	m.Unsubscribe(after)
}

func TestManager_SlowSubscriberDropsEvents(t *testing.T) {
	m := NewManager()
	ch := m.Subscribe()

	for i := 0; i < subscriberBuffer+10; i++ {
		m.Trigger(Event{Name: ItemChanged})
	}

	if got := len(ch); got != subscriberBuffer {
		t.Fatalf("expected %d buffered events, got %d", subscriberBuffer, got)
	}
}

func TestManager_NilTriggerIsNoop(t *testing.T) {
	var m *Manager
	m.Trigger(Event{Name: ListablesLoaded})
}

func TestEvent_Visible(t *testing.T) {
	event := Event{UserID: "alice", Audience: []string{"alice", "bob"}}

	if !event.Visible("alice") || !event.Visible("bob") {
		t.Fatal("expected owner and audience to see the event")
	}
	if event.Visible("carol") {
		t.Fatal("expected carol not to see the event")
	}
}

func TestManager_NamedListeners(t *testing.T) {
	m := NewManager()
	var got []string
	id := m.AddListener(ItemChanged, func(e Event) { got = append(got, e.ItemID) })
	m.AddListener(ItemDeleted, func(e Event) { got = append(got, "deleted:"+e.ItemID) })

	m.Trigger(Event{Name: ItemChanged, ItemID: "a"})
	m.Trigger(Event{Name: ItemDeleted, ItemID: "b"})
	m.Trigger(Event{Name: "unknown", ItemID: "c"})

	m.RemoveListener(ItemChanged, id)
	m.RemoveListener(ItemChanged, ListenerID(999))
	m.Trigger(Event{Name: ItemChanged, ItemID: "d"})

	want := []string{"a", "deleted:b"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

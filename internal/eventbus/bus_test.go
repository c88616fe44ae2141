package eventbus

import (
	"testing"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	b := New()
	_, ch1 := b.Subscribe(4)
	_, ch2 := b.Subscribe(4)

	b.PublishNew(EventTypeTaskCreated, "task_001", map[string]string{"status": "pending"})

	for i, ch := range []<-chan *Event{ch1, ch2} {
		select {
		case ev := <-ch:
			if ev.Type != EventTypeTaskCreated {
				t.Errorf("subscriber %d: type = %q, want TASK_CREATED", i, ev.Type)
			}
			if ev.ResourceID != "task_001" {
				t.Errorf("subscriber %d: resource_id = %q", i, ev.ResourceID)
			}
			if ev.ID == "" || ev.CreatedAt.IsZero() {
				t.Errorf("subscriber %d: event missing id or created_at", i)
			}
		default:
			t.Errorf("subscriber %d received no event", i)
		}
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := New()
	id, ch := b.Subscribe(1)
	b.Unsubscribe(id)

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after Unsubscribe")
	}
	// Publishing after unsubscribe must not panic.
	b.PublishNew(EventTypeTaskDeleted, "task_001", nil)
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	b := New()
	_, ch := b.Subscribe(1)

	b.PublishNew(EventTypeTaskCreated, "task_001", nil)
	b.PublishNew(EventTypeTaskCreated, "task_002", nil)

	ev := <-ch
	if ev.ResourceID != "task_001" {
		t.Errorf("first event = %q, want task_001", ev.ResourceID)
	}
	select {
	case ev := <-ch:
		t.Errorf("unexpected second event %q, want drop", ev.ResourceID)
	default:
	}
}

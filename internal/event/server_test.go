package event

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/taskflow-labs/taskflow/internal/eventbus"
)

func TestSubscribeStreamsMatchingEvents(t *testing.T) {
	bus := eventbus.New()
	srv := httptest.NewServer(http.HandlerFunc(NewServer(bus).HandleSubscribe))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "?type=TASK_CREATED")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}

	// Headers arrived, so the subscription is registered. A filtered-out
	// event must not come through; a matching one must.
	bus.PublishNew(eventbus.EventTypeStoryCreated, "story_001", nil)
	bus.PublishNew(eventbus.EventTypeTaskCreated, "task_003", map[string]string{"status": "pending"})

	lines := make(chan string, 1)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			if data, ok := strings.CutPrefix(scanner.Text(), "data: "); ok {
				lines <- data
				return
			}
		}
	}()

	select {
	case data := <-lines:
		var ev eventbus.Event
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		if ev.Type != eventbus.EventTypeTaskCreated {
			t.Errorf("type = %q, want TASK_CREATED (filter must drop STORY_CREATED)", ev.Type)
		}
		if ev.ResourceID != "task_003" {
			t.Errorf("resource_id = %q, want task_003", ev.ResourceID)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no event received")
	}
}

// Package event exposes the bus as a server-sent event stream.
package event

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/taskflow-labs/taskflow/internal/eventbus"
	"github.com/taskflow-labs/taskflow/pkg/apierr"
)

const subscriberBufSize = 64

type Server struct {
	eventBus *eventbus.Bus
}

func NewServer(eventBus *eventbus.Bus) *Server {
	return &Server{eventBus: eventBus}
}

// HandleSubscribe streams bus events as SSE until the client goes away.
// Optional repeatable "type" query params filter by event type.
func (s *Server) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	flusher, ok := w.(http.Flusher)
	if !ok {
		apierr.WriteError(ctx, w, apierr.NewError(apierr.Internal, "streaming unsupported", nil))
		return
	}

	subID, ch := s.eventBus.Subscribe(subscriberBufSize)
	defer s.eventBus.Unsubscribe(subID)

	// Build event type filter set.
	typeFilter := make(map[eventbus.EventType]struct{})
	for _, t := range r.URL.Query()["type"] {
		typeFilter[eventbus.EventType(t)] = struct{}{}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if len(typeFilter) > 0 {
				if _, match := typeFilter[event.Type]; !match {
					continue
				}
			}
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hperssn/focusnest/internal/runner"
)

const eventBuffer = 16

// streamTimerEvents writes every timer event as a server-sent event until
// the client goes away. The first event carries the current state.
func (s *Server) streamTimerEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	id, events := s.timer.Subscribe(eventBuffer)
	defer s.timer.Unsubscribe(id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	initial := runner.Event{Type: runner.EventState, Snapshot: s.timer.Snapshot()}
	if err := writeEvent(w, initial); err != nil {
		return
	}
	flusher.Flush()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := writeEvent(w, ev); err != nil {
				s.logger.Debug("event stream closed", "subscriber", id, "err", err)
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, ev runner.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
	return err
}

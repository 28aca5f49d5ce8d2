package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SessionEvents handles GET /events: a server-sent event stream of session
// changes. Other open views of the same installation subscribe here and
// re-derive their signed-in display state whenever a login or logout
// happens. Events are triggers only; the page re-reads its own state.
func (s *Server) SessionEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	events := s.Sessions.Watch(r.Context())
	if events == nil {
		http.Error(w, "session storage unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-events:
			payload, err := json.Marshal(map[string]string{
				"userId": ev.UserID,
				"at":     ev.At.UTC().Format(time.RFC3339),
			})
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, payload)
			flusher.Flush()
		}
	}
}

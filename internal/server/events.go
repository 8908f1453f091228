package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/debemdeboas/blogsync/internal/model"
	"github.com/debemdeboas/blogsync/internal/routes"
	"github.com/debemdeboas/blogsync/internal/sse"
)

// Event types sent on the events stream.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

type event struct {
	Type string       `json:"type"`
	ID   model.PostID `json:"id"`
}

func (s *Server) notify(typ string, id model.PostID) {
	msg, err := json.Marshal(event{Type: typ, ID: id})
	if err != nil {
		serverLogger.Warn().Err(err).Msg("Failed to encode event")
		return
	}
	s.clients.Broadcast(id, string(msg))
}

// events streams post changes as Server-Sent Events until the client leaves
// or the server shuts down.
func (s *Server) events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set(HCType, "text/event-stream")
	w.Header().Set(HCacheControl, "no-cache")
	w.Header().Set("Connection", "keep-alive")

	client := sse.NewClient(model.PostID(r.URL.Query().Get(routes.EventsPostParam)))
	s.clients.Add(client)
	defer s.clients.Delete(client)

	fmt.Fprintf(w, "event: connected\ndata: {}\n\n")
	flusher.Flush()

	serverLogger.Debug().Str("post", string(client.PostID)).Msg("SSE client connected")
	defer serverLogger.Debug().Msg("SSE client disconnected")

	notify := r.Context().Done()
	for {
		select {
		case msg, ok := <-client.Msg:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: post\ndata: %s\n\n", msg)
			flusher.Flush()
		case <-notify:
			return
		}
	}
}

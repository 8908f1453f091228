package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/debemdeboas/blogsync/internal/model"
)

// EventsPath is the Server-Sent Events stream of post changes.
const EventsPath = "events"

// Event is one change notification from the events stream.
type Event struct {
	Type string       `json:"type"`
	ID   model.PostID `json:"id"`
}

// Watcher is implemented by clients that can stream post changes.
type Watcher interface {
	Watch(ctx context.Context, fn func(Event)) error
}

var _ Watcher = (*HTTPClient)(nil)

// Watch calls fn for every post event until ctx is done or the stream ends.
// A cancelled ctx returns nil.
func (c *HTTPClient) Watch(ctx context.Context, fn func(Event)) error {
	body, err := c.http.Stream(ctx, EventsPath, "text/event-stream")
	if err != nil {
		return fmt.Errorf("watch posts: %w", err)
	}
	defer body.Close()

	err = readEvents(bufio.NewScanner(body), fn)
	if ctx.Err() != nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("watch posts: %w", err)
	}
	return errors.New("watch posts: stream closed by server")
}

// readEvents parses the "event:"/"data:" framing and hands post events to fn.
func readEvents(sc *bufio.Scanner, fn func(Event)) error {
	var name string
	var data []string

	for sc.Scan() {
		line := sc.Text()
		switch {
		case line == "":
			if name == "post" && len(data) > 0 {
				var ev Event
				if err := json.Unmarshal([]byte(strings.Join(data, "\n")), &ev); err == nil {
					fn(ev)
				}
			}
			name, data = "", nil
		case strings.HasPrefix(line, ":"):
			// comment
		case strings.HasPrefix(line, "event:"):
			name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	return sc.Err()
}

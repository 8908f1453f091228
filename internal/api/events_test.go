package api

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debemdeboas/blogsync/internal/httpx"
)

func TestReadEvents(t *testing.T) {
	stream := strings.Join([]string{
		"event: connected",
		"data: {}",
		"",
		": keep-alive",
		"event: post",
		`data: {"type":"created","id":"7"}`,
		"",
		"event: post",
		"data: not json",
		"",
		"event: post",
		`data: {"type":"deleted",`,
		`data: "id":"8"}`,
		"",
	}, "\n")

	var got []Event
	require.NoError(t, readEvents(bufio.NewScanner(strings.NewReader(stream)), func(e Event) {
		got = append(got, e)
	}))
	assert.Equal(t, []Event{{Type: "created", ID: "7"}, {Type: "deleted", ID: "8"}}, got)
}

func TestWatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events", r.URL.Path)
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: post\ndata: {\"type\":\"updated\",\"id\":\"1\"}\n\n")
	}))
	defer ts.Close()

	hc, err := httpx.New(ts.URL, httpx.WithTimeout(time.Second))
	require.NoError(t, err)

	var got []Event
	err = NewHTTPClient(hc).Watch(context.Background(), func(e Event) { got = append(got, e) })
	assert.ErrorContains(t, err, "stream closed")
	assert.Equal(t, []Event{{Type: "updated", ID: "1"}}, got)
}

func TestWatchNotFound(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	hc, err := httpx.New(ts.URL)
	require.NoError(t, err)

	err = NewHTTPClient(hc).Watch(context.Background(), func(Event) {})
	assert.True(t, IsNotFound(err))
}

func TestWatchCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))
	defer ts.Close()

	hc, err := httpx.New(ts.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)
	assert.NoError(t, NewHTTPClient(hc).Watch(ctx, func(Event) {}))
}

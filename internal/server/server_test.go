package server

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debemdeboas/blogsync/internal/api"
	"github.com/debemdeboas/blogsync/internal/db"
	"github.com/debemdeboas/blogsync/internal/httpx"
	"github.com/debemdeboas/blogsync/internal/model"
	"github.com/debemdeboas/blogsync/internal/repository"
)

const future = "2030-01-01T10:00"

func fixedClock() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)
}

func newTestServer(t *testing.T, repo repository.PostRepository) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(New(repo, WithClock(fixedClock)).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func sqliteRepo(t *testing.T) repository.PostRepository {
	t.Helper()
	conn := db.NewSQLite(db.MemoryPath)
	require.NoError(t, conn.InitDb())
	t.Cleanup(func() { conn.Close() })
	return repository.NewDBPostRepository(conn)
}

func do(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	// Collection bodies are arrays and stay undecoded.
	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

// rawList returns the undecoded body of GET /posts.
func rawList(t *testing.T, base string) string {
	t.Helper()
	resp, err := http.Get(base + "/posts")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return strings.TrimSpace(string(body))
}

func TestValidate(t *testing.T) {
	s := New(repository.NewMemoryPostRepository(), WithClock(fixedClock))

	testCases := []struct {
		name   string
		in     model.PostInput
		fields []string
	}{
		{"Valid", model.PostInput{Title: "t", PublishDate: future}, nil},
		{"Same minute", model.PostInput{Title: "t", PublishDate: "2025-06-01T12:00"}, nil},
		{"Missing title", model.PostInput{Title: "  ", PublishDate: future}, []string{"title"}},
		{"Missing date", model.PostInput{Title: "t"}, []string{"publishDate"}},
		{"Bad date", model.PostInput{Title: "t", PublishDate: "tomorrow"}, []string{"publishDate"}},
		{"Past date", model.PostInput{Title: "t", PublishDate: "2025-06-01T11:59"}, []string{"publishDate"}},
		{"Both", model.PostInput{PublishDate: "2020-01-01T00:00"}, []string{"publishDate", "title"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fields := s.validate(tc.in)
			if tc.fields == nil {
				assert.Nil(t, fields)
				return
			}
			keys := make([]string, 0, len(fields))
			for k := range fields {
				keys = append(keys, k)
			}
			assert.ElementsMatch(t, tc.fields, keys)
		})
	}
}

func TestHandlers(t *testing.T) {
	ts := newTestServer(t, repository.NewMemoryPostRepository())
	assert.Equal(t, "[]", rawList(t, ts.URL), "empty collection is an array")

	resp, created := do(t, http.MethodPost, ts.URL+"/posts", `{"title":"Hello","publishDate":"`+future+`"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "1", created["id"])
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

	resp, _ = do(t, http.MethodPost, ts.URL+"/posts", `{"title":""}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, body := do(t, http.MethodPut, ts.URL+"/posts/1", `{"id":"1","title":"Hello","publishDate":"2020-01-01T00:00"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, map[string]any{"publishDate": "publish date must not be in the past"}, body["error"])

	resp, _ = do(t, http.MethodPut, ts.URL+"/posts/42", `{"title":"x","publishDate":"`+future+`"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, ts.URL+"/posts/42", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, http.MethodDelete, ts.URL+"/posts/42", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, http.MethodPost, ts.URL+"/posts", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodPatch, ts.URL+"/posts/1", `{}`)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, deleted := do(t, http.MethodDelete, ts.URL+"/posts/1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Hello", deleted["title"])
	assert.Equal(t, "[]", rawList(t, ts.URL), "emptied collection is an array")
}

// The api client against the server over SQLite covers the whole round trip.
func TestClientRoundTripOverSQLite(t *testing.T) {
	ts := newTestServer(t, sqliteRepo(t))

	hc, err := httpx.New(ts.URL, httpx.WithRetryPolicy(httpx.RetryPolicy{}))
	require.NoError(t, err)
	client := api.NewHTTPClient(hc)
	ctx := context.Background()

	posts, err := client.ListPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)

	created, err := client.CreatePost(ctx, model.PostInput{Title: "First", Description: "Body", PublishDate: future})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	_, err = client.CreatePost(ctx, model.PostInput{PublishDate: future})
	verr, ok := api.AsValidationError(err)
	require.True(t, ok, "create validation surfaces as a validation error")
	assert.Equal(t, "title is required", verr.Field("title"))

	got, err := client.GetPost(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	got.Title = "First, edited"
	updated, err := client.UpdatePost(ctx, got.ID, got)
	require.NoError(t, err)
	assert.Equal(t, got, updated)

	got.PublishDate = "2001-01-01T00:00"
	_, err = client.UpdatePost(ctx, got.ID, got)
	var typed *api.ValidationError
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, "publish date must not be in the past", typed.Field("publishDate"))

	deleted, err := client.DeletePost(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, deleted)

	_, err = client.GetPost(ctx, created.ID)
	assert.True(t, api.IsNotFound(err))
}

func TestEventsStream(t *testing.T) {
	repo := repository.NewMemoryPostRepository()
	srv := New(repo, WithClock(fixedClock))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get(HCType))

	lines := bufio.NewScanner(resp.Body)
	readData := func() string {
		for lines.Scan() {
			if data, ok := strings.CutPrefix(lines.Text(), "data: "); ok {
				return data
			}
		}
		return ""
	}
	assert.Equal(t, "{}", readData(), "connected event")

	created, err := repo.Create(model.PostInput{Title: "x"})
	require.NoError(t, err)
	srv.notify(EventUpdated, created.ID)

	var ev event
	require.NoError(t, json.Unmarshal([]byte(readData()), &ev))
	assert.Equal(t, event{Type: EventUpdated, ID: created.ID}, ev)
}

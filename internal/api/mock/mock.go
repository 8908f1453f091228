// Package mock provides an in-memory api.Client with hooks for holding and
// failing individual calls. It is meant for tests and offline demos.
package mock

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/debemdeboas/blogsync/internal/api"
	"github.com/debemdeboas/blogsync/internal/httpx"
	"github.com/debemdeboas/blogsync/internal/model"
)

// Operation names used by Hold, FailNext and Calls.
const (
	OpList   = "list"
	OpCreate = "create"
	OpGet    = "get"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Gate blocks one call until released.
type Gate struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

// Entered is closed once the held call has reached the gate.
func (g *Gate) Entered() <-chan struct{} {
	return g.entered
}

// Release lets the held call proceed.
func (g *Gate) Release() {
	g.once.Do(func() { close(g.release) })
}

// Mock implements api.Client against an in-memory ordered post list.
type Mock struct {
	mu     sync.Mutex
	posts  []model.Post
	nextID int
	gates  map[string][]*Gate
	fails  map[string][]error
	calls  map[string]int
}

var _ api.Client = (*Mock)(nil)

type Option func(*Mock)

// WithPosts seeds the mock with posts in order.
func WithPosts(posts ...model.Post) Option {
	return func(m *Mock) {
		m.posts = append(m.posts, posts...)
	}
}

func New(opts ...Option) *Mock {
	m := &Mock{
		nextID: 1,
		gates:  make(map[string][]*Gate),
		fails:  make(map[string][]error),
		calls:  make(map[string]int),
	}
	for _, opt := range opts {
		opt(m)
	}
	for _, p := range m.posts {
		if n, err := strconv.Atoi(string(p.ID)); err == nil && n >= m.nextID {
			m.nextID = n + 1
		}
	}
	return m
}

// Hold queues a gate for the next call of op. Gates are consumed in FIFO order.
func (m *Mock) Hold(op string) *Gate {
	g := &Gate{entered: make(chan struct{}), release: make(chan struct{})}
	m.mu.Lock()
	m.gates[op] = append(m.gates[op], g)
	m.mu.Unlock()
	return g
}

// FailNext makes the next call of op return err without touching the data.
func (m *Mock) FailNext(op string, err error) {
	m.mu.Lock()
	m.fails[op] = append(m.fails[op], err)
	m.mu.Unlock()
}

// Calls returns how many times op was invoked.
func (m *Mock) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// Posts returns a copy of the server-side list.
func (m *Mock) Posts() []model.Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Post(nil), m.posts...)
}

func (m *Mock) enter(ctx context.Context, op string) error {
	m.mu.Lock()
	m.calls[op]++
	var gate *Gate
	if q := m.gates[op]; len(q) > 0 {
		gate, m.gates[op] = q[0], q[1:]
	}
	var failure error
	if q := m.fails[op]; len(q) > 0 {
		failure, m.fails[op] = q[0], q[1:]
	}
	m.mu.Unlock()

	if gate != nil {
		close(gate.entered)
		select {
		case <-gate.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return failure
}

func (m *Mock) ListPosts(ctx context.Context) ([]model.Post, error) {
	if err := m.enter(ctx, OpList); err != nil {
		return nil, err
	}
	return m.Posts(), nil
}

func (m *Mock) CreatePost(ctx context.Context, in model.PostInput) (model.Post, error) {
	if err := m.enter(ctx, OpCreate); err != nil {
		return model.Post{}, err
	}
	if verr := validate(in); verr != nil {
		return model.Post{}, verr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	post := in.WithID(model.PostID(strconv.Itoa(m.nextID)))
	m.nextID++
	m.posts = append(m.posts, post)
	return post, nil
}

func (m *Mock) GetPost(ctx context.Context, id model.PostID) (model.Post, error) {
	if err := m.enter(ctx, OpGet); err != nil {
		return model.Post{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return model.Post{}, notFound(http.MethodGet, id)
	}
	return m.posts[i], nil
}

func (m *Mock) UpdatePost(ctx context.Context, id model.PostID, post model.Post) (model.Post, error) {
	if err := m.enter(ctx, OpUpdate); err != nil {
		return model.Post{}, err
	}
	if verr := validate(post.Input()); verr != nil {
		return model.Post{}, verr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return model.Post{}, notFound(http.MethodPut, id)
	}
	post.ID = id
	m.posts[i] = post
	return post, nil
}

func (m *Mock) DeletePost(ctx context.Context, id model.PostID) (model.Post, error) {
	if err := m.enter(ctx, OpDelete); err != nil {
		return model.Post{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return model.Post{}, notFound(http.MethodDelete, id)
	}
	post := m.posts[i]
	m.posts = append(m.posts[:i], m.posts[i+1:]...)
	return post, nil
}

func (m *Mock) indexOf(id model.PostID) int {
	for i := range m.posts {
		if m.posts[i].ID == id {
			return i
		}
	}
	return -1
}

func validate(in model.PostInput) *api.ValidationError {
	if strings.TrimSpace(in.Title) == "" {
		return &api.ValidationError{Fields: map[string]string{"title": "title is required"}}
	}
	return nil
}

func notFound(method string, id model.PostID) error {
	return &httpx.HTTPError{
		Method:     method,
		URL:        api.PostPath(id),
		StatusCode: http.StatusNotFound,
		Body:       []byte(fmt.Sprintf(`{"error":"post %s not found"}`, id)),
	}
}

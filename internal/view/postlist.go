package view

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/debemdeboas/blogsync/internal/blog"
	"github.com/debemdeboas/blogsync/internal/model"
	"github.com/debemdeboas/blogsync/internal/store"
)

const (
	listTitle   = "Dev Blog"
	listTagline = "Never give up. Today is hard, tomorrow will be worse, but the day after tomorrow will be sunshine."
)

// RenderPostList draws the list pane: two skeleton cards while loading,
// otherwise one card per post.
func RenderPostList(s blog.State) string {
	blocks := []string{
		headerStyle.Render(listTitle),
		taglineStyle.Render(listTagline),
		"",
	}

	switch {
	case s.Loading:
		for i := 0; i < skeletonCards; i++ {
			blocks = append(blocks, renderSkeleton())
		}
	case len(s.PostList) == 0:
		blocks = append(blocks, hintStyle.Render("No posts yet."))
	default:
		for _, p := range s.PostList {
			blocks = append(blocks, renderCard(p))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

// RenderPost draws a single post card.
func RenderPost(p model.Post) string {
	return renderCard(p)
}

func renderCard(p model.Post) string {
	meta := "unscheduled"
	if t, ok := p.PublishTime(); ok {
		meta = t.Format("Jan 2, 2006 15:04")
	}

	lines := []string{
		titleStyle.Render(p.GetTitle()),
		metaStyle.Render(fmt.Sprintf("#%s · %s", p.ID, meta)),
	}
	if desc := strings.TrimSpace(p.Description); desc != "" {
		lines = append(lines, desc)
	}
	lines = append(lines, hintStyle.Render(fmt.Sprintf("[e] edit %s  [d] delete %s", p.ID, p.ID)))

	return cardStyle.Render(strings.Join(lines, "\n"))
}

func renderSkeleton() string {
	bar := func(n int) string { return strings.Repeat("░", n) }
	return skeletonStyle.Render(strings.Join([]string{bar(24), bar(16), bar(cardWidth - 4), bar(32)}, "\n"))
}

// PostList is the list component. Mount subscribes and requests the list;
// Unmount aborts that request so a late response cannot overwrite newer state.
type PostList struct {
	store *store.Store[blog.State]
	sync  *blog.Synchronizer
	out   io.Writer

	mu          sync.Mutex
	req         *blog.Request[[]model.Post]
	unsubscribe func()
	last        string
}

func NewPostList(st *store.Store[blog.State], s *blog.Synchronizer, out io.Writer) *PostList {
	return &PostList{store: st, sync: s, out: out}
}

// Mount renders the current state, subscribes to changes and starts a list
// request. Mounting twice without Unmount is a no-op returning the first request.
func (p *PostList) Mount(ctx context.Context) *blog.Request[[]model.Post] {
	p.mu.Lock()
	if p.unsubscribe != nil {
		req := p.req
		p.mu.Unlock()
		return req
	}
	p.unsubscribe = p.store.Subscribe(p.render)
	p.mu.Unlock()

	p.render(p.store.State())

	req := p.sync.ListPosts(ctx)
	p.mu.Lock()
	p.req = req
	p.mu.Unlock()
	return req
}

// Unmount aborts the list request and stops rendering.
func (p *PostList) Unmount() {
	p.mu.Lock()
	req, unsubscribe := p.req, p.unsubscribe
	p.req, p.unsubscribe = nil, nil
	p.mu.Unlock()

	if req != nil {
		req.Abort()
	}
	if unsubscribe != nil {
		unsubscribe()
	}
}

// Refresh starts a new list request, aborting the previous one.
func (p *PostList) Refresh(ctx context.Context) *blog.Request[[]model.Post] {
	req := p.sync.ListPosts(ctx)
	p.mu.Lock()
	prev := p.req
	p.req = req
	p.mu.Unlock()
	if prev != nil {
		prev.Abort()
	}
	return req
}

// render writes the list when it changed since the last frame.
func (p *PostList) render(s blog.State) {
	frame := RenderPostList(s)

	p.mu.Lock()
	defer p.mu.Unlock()
	if frame == p.last {
		return
	}
	p.last = frame
	fmt.Fprintln(p.out, frame)
}

package view

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/debemdeboas/blogsync/internal/api"
	"github.com/debemdeboas/blogsync/internal/blog"
	"github.com/debemdeboas/blogsync/internal/model"
)

// editorFields lists the form rows in display order.
var editorFields = []struct {
	key   string
	label string
	value func(model.Post) string
}{
	{"title", "Title", func(p model.Post) string { return p.Title }},
	{"featuredImage", "Image", func(p model.Post) string { return p.FeaturedImage }},
	{"description", "Description", func(p model.Post) string { return p.Description }},
	{"publishDate", "Publish date", func(p model.Post) string { return p.PublishDate }},
	{"published", "Published", func(p model.Post) string { return fmt.Sprintf("%t", p.Published) }},
}

// RenderEditor draws the form for the editing post, or an empty create form.
// Field messages from verr are shown under their rows.
func RenderEditor(s blog.State, verr *api.ValidationError) string {
	heading := "Create post"
	post := model.Post{}
	if s.EditingPost != nil {
		post = *s.EditingPost
		heading = "Edit post #" + string(post.ID)
	}

	rows := []string{headerStyle.Render(heading), ""}
	for _, f := range editorFields {
		rows = append(rows, labelStyle.Render(f.label)+f.value(post))
		if msg := verr.Field(f.key); msg != "" {
			rows = append(rows, errorStyle.Render("  ↳ "+msg))
		}
	}

	if s.EditingPost != nil {
		rows = append(rows, "", hintStyle.Render("[s] save  [esc] cancel"))
	} else {
		rows = append(rows, "", hintStyle.Render("[s] publish"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// Editor drives load-for-edit, save and cancel for a single pane.
type Editor struct {
	sync *blog.Synchronizer

	mu   sync.Mutex
	load *blog.Request[model.Post]
	verr *api.ValidationError
}

func NewEditor(s *blog.Synchronizer) *Editor {
	return &Editor{sync: s}
}

// Open loads id for editing, aborting a previous load still in flight.
func (e *Editor) Open(ctx context.Context, id model.PostID) *blog.Request[model.Post] {
	req := e.sync.LoadPostForEdit(ctx, id)

	e.mu.Lock()
	prev := e.load
	e.load = req
	e.verr = nil
	e.mu.Unlock()

	if prev != nil {
		prev.Abort()
	}
	return req
}

// Close aborts any pending load and clears the editing post.
func (e *Editor) Close() error {
	e.mu.Lock()
	prev := e.load
	e.load = nil
	e.verr = nil
	e.mu.Unlock()

	if prev != nil {
		prev.Abort()
	}
	return e.sync.CancelEdit()
}

// Save sends post and waits for the result. Validation failures are kept
// for rendering and returned as *api.ValidationError.
func (e *Editor) Save(ctx context.Context, post model.Post) (model.Post, error) {
	saved, err := e.sync.UpdatePost(ctx, post.ID, post).Wait(ctx)

	e.remember(err)
	return saved, err
}

// Create submits a new post from the empty form.
func (e *Editor) Create(ctx context.Context, in model.PostInput) (model.Post, error) {
	created, err := e.sync.AddPost(ctx, in).Wait(ctx)

	e.remember(err)
	return created, err
}

// remember keeps the validation payload of err for rendering, if any.
func (e *Editor) remember(err error) {
	verr, _ := api.AsValidationError(err)
	e.mu.Lock()
	e.verr = verr
	e.mu.Unlock()
}

// Render draws the editor for s with the last validation failure.
func (e *Editor) Render(s blog.State) string {
	e.mu.Lock()
	verr := e.verr
	e.mu.Unlock()
	return RenderEditor(s, verr)
}

// ValidationSummary flattens a validation error for one-line output.
func ValidationSummary(verr *api.ValidationError) string {
	if verr == nil {
		return ""
	}
	return strings.TrimPrefix(verr.Error(), "validation failed: ")
}

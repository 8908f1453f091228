// Package api is the client side of the Posts REST API.
package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/debemdeboas/blogsync/internal/httpx"
	"github.com/debemdeboas/blogsync/internal/model"
)

// PostsPath is the collection path relative to the API base URL.
const PostsPath = "posts"

// Client is the Posts API contract consumed by the synchronizer.
type Client interface {
	ListPosts(ctx context.Context) ([]model.Post, error)
	CreatePost(ctx context.Context, in model.PostInput) (model.Post, error)
	GetPost(ctx context.Context, id model.PostID) (model.Post, error)
	UpdatePost(ctx context.Context, id model.PostID, post model.Post) (model.Post, error)
	DeletePost(ctx context.Context, id model.PostID) (model.Post, error)
}

func PostPath(id model.PostID) string {
	return PostsPath + "/" + url.PathEscape(string(id))
}

// IsNotFound reports whether err carries a 404 from the API.
func IsNotFound(err error) bool {
	return httpx.StatusCode(err) == http.StatusNotFound
}

package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/debemdeboas/blogsync/internal/httpx"
	"github.com/debemdeboas/blogsync/internal/model"
)

// HTTPClient implements Client over JSON HTTP.
type HTTPClient struct {
	http *httpx.Client
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(c *httpx.Client) *HTTPClient {
	return &HTTPClient{http: c}
}

func (c *HTTPClient) ListPosts(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	if err := c.http.DoJSON(ctx, http.MethodGet, PostsPath, nil, &posts); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if posts == nil {
		posts = []model.Post{}
	}
	return posts, nil
}

func (c *HTTPClient) CreatePost(ctx context.Context, in model.PostInput) (model.Post, error) {
	var post model.Post
	if err := c.http.DoJSON(ctx, http.MethodPost, PostsPath, in, &post); err != nil {
		return model.Post{}, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

func (c *HTTPClient) GetPost(ctx context.Context, id model.PostID) (model.Post, error) {
	var post model.Post
	if err := c.http.DoJSON(ctx, http.MethodGet, PostPath(id), nil, &post); err != nil {
		return model.Post{}, fmt.Errorf("get post %s: %w", id, err)
	}
	return post, nil
}

// UpdatePost replaces the post. A 422 response is returned as *ValidationError.
func (c *HTTPClient) UpdatePost(ctx context.Context, id model.PostID, body model.Post) (model.Post, error) {
	var post model.Post
	if err := c.http.DoJSON(ctx, http.MethodPut, PostPath(id), body, &post); err != nil {
		if verr, ok := AsValidationError(err); ok {
			return model.Post{}, verr
		}
		return model.Post{}, fmt.Errorf("update post %s: %w", id, err)
	}
	return post, nil
}

func (c *HTTPClient) DeletePost(ctx context.Context, id model.PostID) (model.Post, error) {
	var post model.Post
	if err := c.http.DoJSON(ctx, http.MethodDelete, PostPath(id), nil, &post); err != nil {
		return model.Post{}, fmt.Errorf("delete post %s: %w", id, err)
	}
	if post.ID == "" {
		post.ID = id
	}
	return post, nil
}

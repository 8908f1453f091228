// Package repository stores posts for the reference Posts API.
package repository

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/blogsync/internal/model"
)

var ErrNotFound = errors.New("post not found")

// PostRepository keeps posts in insertion order.
type PostRepository interface {
	List() ([]model.Post, error)
	Get(id model.PostID) (model.Post, error)
	Create(in model.PostInput) (model.Post, error)
	Update(id model.PostID, in model.PostInput) (model.Post, error)
	Delete(id model.PostID) (model.Post, error)

	// Seed inserts posts with their own ids when the repository is empty.
	Seed(posts []model.Post) error
}

var repoLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	repoLogger = l
}

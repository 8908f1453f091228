package repository

import (
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/debemdeboas/blogsync/internal/model"
)

// MemoryPostRepository keeps posts in process memory with sequential numeric ids.
type MemoryPostRepository struct {
	mu     sync.RWMutex
	posts  []model.Post
	nextID int
}

var _ PostRepository = (*MemoryPostRepository)(nil)

func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{nextID: 1}
}

func (r *MemoryPostRepository) List() ([]model.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append(make([]model.Post, 0, len(r.posts)), r.posts...), nil
}

func (r *MemoryPostRepository) Get(id model.PostID) (model.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		return r.posts[i], nil
	}
	return model.Post{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (r *MemoryPostRepository) Create(in model.PostInput) (model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post := in.WithID(model.PostID(strconv.Itoa(r.nextID)))
	r.nextID++
	r.posts = append(r.posts, post)
	return post, nil
}

func (r *MemoryPostRepository) Update(id model.PostID, in model.PostInput) (model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return model.Post{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	r.posts[i] = in.WithID(id)
	return r.posts[i], nil
}

func (r *MemoryPostRepository) Delete(id model.PostID) (model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return model.Post{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	post := r.posts[i]
	r.posts = slices.Delete(r.posts, i, i+1)
	return post, nil
}

func (r *MemoryPostRepository) Seed(posts []model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.posts) > 0 {
		return nil
	}
	r.posts = slices.Clone(posts)
	for _, p := range posts {
		if n, err := strconv.Atoi(string(p.ID)); err == nil && n >= r.nextID {
			r.nextID = n + 1
		}
	}
	return nil
}

func (r *MemoryPostRepository) indexOf(id model.PostID) int {
	return slices.IndexFunc(r.posts, func(p model.Post) bool { return p.ID == id })
}

package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/debemdeboas/blogsync/internal/cache"
	"github.com/debemdeboas/blogsync/internal/db"
	"github.com/debemdeboas/blogsync/internal/model"
	"github.com/debemdeboas/blogsync/internal/util"
	"github.com/debemdeboas/blogsync/internal/util/compression"
)

const selectPost = `SELECT id, title, description, description_hash, featured_image, publish_date, published FROM posts`

type DBPostRepository struct { // implements PostRepository
	// mu orders every cache write against the statement that produced it,
	// so a list snapshot cannot resurrect a post deleted meanwhile.
	mu         sync.Mutex
	postsCache *cache.Cache[model.PostID, model.Post]

	db         db.Db
	compressor compression.Compressor
	newID      func() model.PostID
}

var _ PostRepository = (*DBPostRepository)(nil)

type DBOption func(*DBPostRepository)

func WithCompressor(c compression.Compressor) DBOption {
	return func(r *DBPostRepository) {
		if c != nil {
			r.compressor = c
		}
	}
}

func WithIDGenerator(fn func() model.PostID) DBOption {
	return func(r *DBPostRepository) {
		if fn != nil {
			r.newID = fn
		}
	}
}

func NewDBPostRepository(db db.Db, opts ...DBOption) *DBPostRepository {
	r := &DBPostRepository{
		postsCache: cache.NewCache[model.PostID, model.Post](),

		db: db,

		compressor: compression.ZstdCompressor{},
		newID:      func() model.PostID { return model.PostID(uuid.NewString()) },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *DBPostRepository) List() ([]model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(selectPost + ` ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("error querying posts: %w", err)
	}
	defer rows.Close()

	posts := make([]model.Post, 0)
	postMap := make(map[model.PostID]model.Post)
	for rows.Next() {
		post, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
		postMap[post.ID] = post
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading posts: %w", err)
	}

	r.postsCache.SetTo(postMap)
	return posts, nil
}

func (r *DBPostRepository) Get(id model.PostID) (model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id)
}

func (r *DBPostRepository) get(id model.PostID) (model.Post, error) {
	return r.postsCache.GetOrLoad(id, func() (model.Post, error) {
		row := r.db.QueryRow(selectPost+` WHERE id = ?`, id)
		post, err := r.scan(row)
		if errors.Is(err, sql.ErrNoRows) {
			return model.Post{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return post, err
	})
}

func (r *DBPostRepository) Create(in model.PostInput) (model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post := in.WithID(r.newID())
	if err := r.insert(post); err != nil {
		return model.Post{}, err
	}
	r.postsCache.Set(post.ID, post)
	repoLogger.Info().Str("post_id", string(post.ID)).Str("title", post.Title).Msg("Post created")
	return post, nil
}

func (r *DBPostRepository) Update(id model.PostID, in model.PostInput) (model.Post, error) {
	compressed, hash, err := r.pack(in.Description)
	if err != nil {
		return model.Post{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.Exec(
		`UPDATE posts SET title = ?, description = ?, description_hash = ?, featured_image = ?, publish_date = ?, published = ?, modified_at = ? WHERE id = ?`,
		in.Title, compressed, hash, in.FeaturedImage, in.PublishDate, in.Published, time.Now().UTC(), id,
	)
	if err != nil {
		return model.Post{}, fmt.Errorf("error saving post: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return model.Post{}, fmt.Errorf("error saving post: %w", err)
	} else if n == 0 {
		return model.Post{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	post := in.WithID(id)
	r.postsCache.Set(id, post)
	repoLogger.Debug().Str("post_id", string(id)).Str("description_hash", hash).Msg("Post updated")
	return post, nil
}

func (r *DBPostRepository) Delete(id model.PostID) (model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, err := r.get(id)
	if err != nil {
		return model.Post{}, err
	}

	res, err := r.db.Exec(`DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return model.Post{}, fmt.Errorf("error deleting post: %w", err)
	}
	r.postsCache.Delete(id)
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Post{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	repoLogger.Info().Str("post_id", string(id)).Msg("Post deleted")
	return post, nil
}

func (r *DBPostRepository) Seed(posts []model.Post) error {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&n); err != nil {
		return fmt.Errorf("error counting posts: %w", err)
	}
	if n > 0 {
		repoLogger.Debug().Int("posts", n).Msg("Repository not empty, skipping seed")
		return nil
	}

	if _, err := r.Import(posts); err != nil {
		return err
	}
	repoLogger.Info().Int("posts", len(posts)).Msg("Repository seeded")
	return nil
}

// Import appends posts keeping their ids. Posts whose id is already stored
// are skipped. It returns how many were inserted.
func (r *DBPostRepository) Import(posts []model.Post) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	imported := 0
	for _, post := range posts {
		if post.ID == "" {
			post.ID = r.newID()
		} else if _, err := r.get(post.ID); err == nil {
			repoLogger.Debug().Str("post_id", string(post.ID)).Msg("Post exists, skipping")
			continue
		} else if !errors.Is(err, ErrNotFound) {
			return imported, err
		}

		if err := r.insert(post); err != nil {
			return imported, err
		}
		r.postsCache.Set(post.ID, post)
		imported++
	}
	return imported, nil
}

func (r *DBPostRepository) insert(post model.Post) error {
	compressed, hash, err := r.pack(post.Description)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = r.db.Exec(
		`INSERT INTO posts (id, position, title, description, description_hash, featured_image, publish_date, published, created_at, modified_at)
		 VALUES (?, (SELECT COALESCE(MAX(position), 0) + 1 FROM posts), ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID, post.Title, compressed, hash, post.FeaturedImage, post.PublishDate, post.Published, now, now,
	)
	if err != nil {
		return fmt.Errorf("error saving post: %w", err)
	}
	return nil
}

// pack compresses a description and hashes the stored bytes.
func (r *DBPostRepository) pack(description string) ([]byte, string, error) {
	compressed, err := r.compressor.Compress([]byte(description))
	if err != nil {
		return nil, "", fmt.Errorf("error compressing description: %w", err)
	}
	return compressed, util.ContentHash(compressed), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *DBPostRepository) scan(row scanner) (model.Post, error) {
	var (
		post       model.Post
		compressed []byte
		hash       sql.NullString
		image      sql.NullString
		date       sql.NullString
	)
	if err := row.Scan(&post.ID, &post.Title, &compressed, &hash, &image, &date, &post.Published); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Post{}, err
		}
		return model.Post{}, fmt.Errorf("error scanning post: %w", err)
	}

	if hash.Valid && util.ContentHash(compressed) != hash.String {
		repoLogger.Warn().Str("post_id", string(post.ID)).Msg("Description hash mismatch")
	}

	content, err := r.compressor.Decompress(compressed)
	if err != nil {
		return model.Post{}, fmt.Errorf("error decompressing description: %w", err)
	}
	post.Description = string(content)
	post.FeaturedImage = image.String
	post.PublishDate = date.String
	return post, nil
}

package blog

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/blogsync/internal/api"
	"github.com/debemdeboas/blogsync/internal/model"
	"github.com/debemdeboas/blogsync/internal/store"
)

// Dispatcher applies actions to the blog region. *store.Store[State] satisfies it.
type Dispatcher interface {
	Dispatch(action store.Action) error
}

type Option func(*Synchronizer)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Synchronizer) {
		s.log = l
	}
}

// WithIDGenerator replaces the UUID request id source.
func WithIDGenerator(fn func() string) Option {
	return func(s *Synchronizer) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// Synchronizer runs the remote blog operations and feeds their lifecycle
// into a Dispatcher.
type Synchronizer struct {
	store  Dispatcher
	client api.Client
	log    zerolog.Logger
	newID  func() string

	generation atomic.Uint64
	inflight   sync.WaitGroup
}

func NewSynchronizer(d Dispatcher, client api.Client, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		store:  d,
		client: client,
		log:    zerolog.Nop(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListPosts replaces the post list with the server's.
func (s *Synchronizer) ListPosts(ctx context.Context) *Request[[]model.Post] {
	return start(s, ctx, OpGetPostsList, s.client.ListPosts,
		func(tok Token, posts []model.Post) Fulfilled {
			return Fulfilled{Token: tok, Posts: posts}
		}, nil)
}

// AddPost creates a post and appends the server's copy.
func (s *Synchronizer) AddPost(ctx context.Context, in model.PostInput) *Request[model.Post] {
	return start(s, ctx, OpAddPost,
		func(ctx context.Context) (model.Post, error) {
			return s.client.CreatePost(ctx, in)
		}, fulfilledPost, nil)
}

// LoadPostForEdit fetches id and makes it the editing post.
func (s *Synchronizer) LoadPostForEdit(ctx context.Context, id model.PostID) *Request[model.Post] {
	return start(s, ctx, OpEditingPost,
		func(ctx context.Context) (model.Post, error) {
			return s.client.GetPost(ctx, id)
		}, fulfilledPost, nil)
}

// UpdatePost replaces id with body on the server. A validation failure is
// handled: it settles with a *api.ValidationError and leaves the list as is.
func (s *Synchronizer) UpdatePost(ctx context.Context, id model.PostID, body model.Post) *Request[model.Post] {
	return start(s, ctx, OpEditPost,
		func(ctx context.Context) (model.Post, error) {
			return s.client.UpdatePost(ctx, id, body)
		}, fulfilledPost,
		func(err error) (any, error) {
			if verr, ok := api.AsValidationError(err); ok {
				return verr, verr
			}
			return nil, err
		})
}

// DeletePost removes id on the server and from the list.
func (s *Synchronizer) DeletePost(ctx context.Context, id model.PostID) *Request[model.Post] {
	return start(s, ctx, OpDeletePost,
		func(ctx context.Context) (model.Post, error) {
			post, err := s.client.DeletePost(ctx, id)
			if err == nil {
				// Remove what was asked for, whatever the body said.
				post.ID = id
			}
			return post, err
		}, fulfilledPost, nil)
}

// CancelEdit clears the editing post locally.
func (s *Synchronizer) CancelEdit() error {
	return s.store.Dispatch(EditCancelled{})
}

// Wait blocks until every started request has settled.
func (s *Synchronizer) Wait() {
	s.inflight.Wait()
}

func fulfilledPost(tok Token, post model.Post) Fulfilled {
	return Fulfilled{Token: tok, Post: post}
}

// start dispatches Pending, runs call on its own goroutine and dispatches the
// settlement. handle, when set, turns an error into a handled rejection
// value and the error returned to the caller.
func start[T any](
	s *Synchronizer,
	parent context.Context,
	op Op,
	call func(context.Context) (T, error),
	fulfilled func(Token, T) Fulfilled,
	handle func(error) (any, error),
) *Request[T] {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	tok := Token{Op: op, Generation: s.generation.Add(1), ID: s.newID()}
	req := newRequest[T](tok, cancel)
	log := s.log.With().Str("op", string(op)).Str("request_id", tok.ID).Logger()

	var zero T
	if err := s.store.Dispatch(Pending{Token: tok}); err != nil {
		cancel()
		req.markSettled()
		req.finish(zero, fmt.Errorf("start %s: %w", op, err))
		return req
	}
	log.Debug().Uint64("generation", tok.Generation).Msg("Request started")

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer cancel()

		result, err := call(ctx)
		aborted := req.markSettled() || ctx.Err() != nil

		var action store.Action
		switch {
		case aborted:
			result, err = zero, ErrAborted
			action = Rejected{Token: tok, Err: ErrAborted, Aborted: true}
			log.Debug().Msg("Request aborted")

		case err != nil:
			var value any
			if handle != nil {
				value, err = handle(err)
			}
			result = zero
			action = Rejected{Token: tok, Err: err, Value: value}
			if value != nil {
				log.Debug().Err(err).Msg("Request rejected with value")
			} else {
				log.Error().Err(err).Msg("Request failed")
			}

		default:
			action = fulfilled(tok, result)
			log.Debug().Msg("Request fulfilled")
		}

		if derr := s.store.Dispatch(action); derr != nil {
			log.Warn().Err(derr).Msg("Settlement not applied")
			if err == nil {
				result, err = zero, fmt.Errorf("settle %s: %w", op, derr)
			}
		}
		req.finish(result, err)
	}()

	return req
}

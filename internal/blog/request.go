package blog

import (
	"context"
	"fmt"
	"sync"
)

// ErrAborted is returned by requests that were aborted before settling.
var ErrAborted = fmt.Errorf("blog: request aborted: %w", context.Canceled)

// Request is the handle of one in-flight remote operation.
type Request[T any] struct {
	token  Token
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	aborted bool
	settled bool

	result T
	err    error
}

func newRequest[T any](tok Token, cancel context.CancelFunc) *Request[T] {
	return &Request[T]{
		token:  tok,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

func (r *Request[T]) ID() string {
	return r.token.ID
}

func (r *Request[T]) Token() Token {
	return r.token
}

// Done is closed once the request has settled and its action was dispatched.
func (r *Request[T]) Done() <-chan struct{} {
	return r.done
}

// Abort cancels the request. Its response, if any, is ignored by the state
// layer. Aborting a settled request does nothing.
func (r *Request[T]) Abort() {
	r.mu.Lock()
	if r.settled || r.aborted {
		r.mu.Unlock()
		return
	}
	r.aborted = true
	r.mu.Unlock()

	r.cancel()
}

// Aborted reports whether Abort won against settlement.
func (r *Request[T]) Aborted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.aborted
}

// Wait blocks until the request settles or ctx is done.
func (r *Request[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-r.done:
		return r.result, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// markSettled closes the abort window and reports whether Abort got in first.
func (r *Request[T]) markSettled() (aborted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settled = true
	return r.aborted
}

func (r *Request[T]) finish(result T, err error) {
	r.result = result
	r.err = err
	close(r.done)
}

// Package blog keeps the blog state region in sync with the Posts API.
//
// The five remote operations run as cancellable requests. Each one dispatches
// a Pending action when it starts and exactly one Fulfilled or Rejected action
// when it settles. Reduce folds those actions into State. Only the most
// recently started request drives the loading flag. It is identified by a
// Token carrying a generation from a monotonic counter.
package blog

import (
	"github.com/debemdeboas/blogsync/internal/model"
)

// Token identifies one started request.
type Token struct {
	Op         Op
	Generation uint64
	ID         string
}

func (t Token) IsZero() bool {
	return t.Generation == 0
}

// State is the blog region. Values are treated as immutable: Reduce never
// writes through a slice or pointer reachable from a previous State.
type State struct {
	PostList    []model.Post
	EditingPost *model.Post

	Loading          bool
	CurrentRequestID string
	// Tracked is the request currently driving Loading, zero when idle.
	Tracked Token
}

// InitialState returns the state before any request, showing seed.
func InitialState(seed []model.Post) State {
	posts := make([]model.Post, len(seed))
	copy(posts, seed)
	return State{PostList: posts}
}

// FindPost returns the post with id from the list.
func (s State) FindPost(id model.PostID) (model.Post, bool) {
	for _, p := range s.PostList {
		if p.ID == id {
			return p, true
		}
	}
	return model.Post{}, false
}

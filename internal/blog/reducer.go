package blog

import (
	"github.com/debemdeboas/blogsync/internal/model"
	"github.com/debemdeboas/blogsync/internal/store"
)

// Reduce is the blog region reducer.
func Reduce(prev State, action store.Action) State {
	next := prev

	switch a := action.(type) {
	case Pending:
		next.Loading = true
		next.CurrentRequestID = a.Token.ID
		next.Tracked = a.Token

	case Fulfilled:
		next = applyFulfilled(next, a)
		next = settle(next, a.Token)

	case Rejected:
		// Failures and aborts carry no data effect.
		next = settle(next, a.Token)

	case EditCancelled:
		next.EditingPost = nil
	}

	return next
}

// settle clears loading only when tok is the tracked request.
func settle(s State, tok Token) State {
	if s.Loading && s.Tracked == tok {
		s.Loading = false
		s.CurrentRequestID = ""
		s.Tracked = Token{}
	}
	return s
}

func applyFulfilled(s State, a Fulfilled) State {
	switch a.Token.Op {
	case OpGetPostsList:
		s.PostList = clonePosts(a.Posts)

	case OpAddPost:
		if i := indexOf(s.PostList, a.Post.ID); i >= 0 {
			// A list response raced ahead and already holds the new post.
			s.PostList = replaceAt(s.PostList, i, a.Post)
		} else {
			s.PostList = append(clonePosts(s.PostList), a.Post)
		}

	case OpEditingPost:
		post := a.Post
		s.EditingPost = &post

	case OpEditPost:
		if i := indexOf(s.PostList, a.Post.ID); i >= 0 {
			s.PostList = replaceAt(s.PostList, i, a.Post)
		}
		s.EditingPost = nil

	case OpDeletePost:
		if i := indexOf(s.PostList, a.Post.ID); i >= 0 {
			posts := make([]model.Post, 0, len(s.PostList)-1)
			posts = append(posts, s.PostList[:i]...)
			s.PostList = append(posts, s.PostList[i+1:]...)
		}
	}
	return s
}

func indexOf(posts []model.Post, id model.PostID) int {
	for i := range posts {
		if posts[i].ID == id {
			return i
		}
	}
	return -1
}

func replaceAt(posts []model.Post, i int, p model.Post) []model.Post {
	out := clonePosts(posts)
	out[i] = p
	return out
}

func clonePosts(posts []model.Post) []model.Post {
	out := make([]model.Post, len(posts))
	copy(out, posts)
	return out
}

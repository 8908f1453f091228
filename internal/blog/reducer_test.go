package blog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debemdeboas/blogsync/internal/api"
	"github.com/debemdeboas/blogsync/internal/model"
)

func tok(op Op, gen uint64) Token {
	return Token{Op: op, Generation: gen, ID: string(op) + "-" + string(rune('a'+gen))}
}

func posts(ids ...string) []model.Post {
	out := make([]model.Post, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Post{ID: model.PostID(id), Title: "post " + id})
	}
	return out
}

func ids(ps []model.Post) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, string(p.ID))
	}
	return out
}

func TestReduce_PendingTracksRequest(t *testing.T) {
	t1 := tok(OpGetPostsList, 1)

	s := Reduce(InitialState(nil), Pending{Token: t1})

	assert.True(t, s.Loading)
	assert.Equal(t, t1.ID, s.CurrentRequestID)
	assert.Equal(t, t1, s.Tracked)
}

func TestReduce_SettleClearsOnlyTracked(t *testing.T) {
	t1 := tok(OpGetPostsList, 1)
	t2 := tok(OpGetPostsList, 2)

	s := Reduce(InitialState(nil), Pending{Token: t1})
	s = Reduce(s, Pending{Token: t2})
	require.Equal(t, t2.ID, s.CurrentRequestID)

	s = Reduce(s, Fulfilled{Token: t1, Posts: posts("old")})
	assert.True(t, s.Loading, "stale settlement must not clear loading")
	assert.Equal(t, t2.ID, s.CurrentRequestID)
	assert.Equal(t, []string{"old"}, ids(s.PostList), "stale data still applies")

	s = Reduce(s, Fulfilled{Token: t2, Posts: posts("new")})
	assert.False(t, s.Loading)
	assert.Empty(t, s.CurrentRequestID)
	assert.True(t, s.Tracked.IsZero())
	assert.Equal(t, []string{"new"}, ids(s.PostList))
}

func TestReduce_RejectedClearsTrackedWithoutData(t *testing.T) {
	t1 := tok(OpDeletePost, 1)
	start := InitialState(posts("1", "2"))

	s := Reduce(start, Pending{Token: t1})
	s = Reduce(s, Rejected{Token: t1, Err: errors.New("boom")})

	assert.False(t, s.Loading)
	assert.Empty(t, s.CurrentRequestID)
	assert.Equal(t, []string{"1", "2"}, ids(s.PostList))
}

func TestReduce_ListReplacesPreservingOrder(t *testing.T) {
	t1 := tok(OpGetPostsList, 1)
	response := posts("3", "1", "2")

	s := Reduce(InitialState(posts("9")), Pending{Token: t1})
	s = Reduce(s, Fulfilled{Token: t1, Posts: response})

	assert.Equal(t, []string{"3", "1", "2"}, ids(s.PostList))

	response[0].Title = "mutated"
	assert.Equal(t, "post 3", s.PostList[0].Title, "state must not alias the response")
}

func TestReduce_AddAppendsOne(t *testing.T) {
	t1 := tok(OpAddPost, 1)
	start := InitialState(posts("1", "2"))

	s := Reduce(start, Pending{Token: t1})
	s = Reduce(s, Fulfilled{Token: t1, Post: model.Post{ID: "3", Title: "new"}})

	assert.Len(t, s.PostList, len(start.PostList)+1)
	assert.Equal(t, []string{"1", "2", "3"}, ids(s.PostList))
	assert.Len(t, start.PostList, 2, "previous state untouched")
}

func TestReduce_AddKeepsIDsUnique(t *testing.T) {
	t1 := tok(OpAddPost, 1)

	s := Reduce(InitialState(posts("1", "3")), Fulfilled{Token: t1, Post: model.Post{ID: "3", Title: "fresh"}})

	assert.Equal(t, []string{"1", "3"}, ids(s.PostList))
	assert.Equal(t, "fresh", s.PostList[1].Title)
}

func TestReduce_LoadForEditAndCancel(t *testing.T) {
	t1 := tok(OpEditingPost, 1)

	s := Reduce(InitialState(posts("1")), Pending{Token: t1})
	s = Reduce(s, Fulfilled{Token: t1, Post: model.Post{ID: "1", Title: "edit me"}})

	require.NotNil(t, s.EditingPost)
	assert.Equal(t, model.PostID("1"), s.EditingPost.ID)

	s = Reduce(s, EditCancelled{})
	assert.Nil(t, s.EditingPost)
	assert.Equal(t, []string{"1"}, ids(s.PostList))
}

func TestReduce_UpdateReplacesInPlace(t *testing.T) {
	t1 := tok(OpEditPost, 1)
	start := InitialState(posts("1", "2", "3"))
	editing := start.PostList[1]
	start.EditingPost = &editing

	s := Reduce(start, Pending{Token: t1})
	s = Reduce(s, Fulfilled{Token: t1, Post: model.Post{ID: "2", Title: "updated"}})

	assert.Equal(t, []string{"1", "2", "3"}, ids(s.PostList))
	assert.Equal(t, "updated", s.PostList[1].Title)
	assert.Nil(t, s.EditingPost)
	assert.Equal(t, "post 2", start.PostList[1].Title, "previous state untouched")
}

func TestReduce_UpdateValidationLeavesState(t *testing.T) {
	t1 := tok(OpEditPost, 1)
	start := InitialState(posts("1", "2"))
	editing := start.PostList[0]
	start.EditingPost = &editing

	verr := &api.ValidationError{Fields: map[string]string{"title": "required"}}
	s := Reduce(start, Pending{Token: t1})
	s = Reduce(s, Rejected{Token: t1, Err: verr, Value: verr})

	assert.Equal(t, start.PostList, s.PostList)
	require.NotNil(t, s.EditingPost, "editing continues after validation failure")
	assert.False(t, s.Loading)
}

func TestReduce_DeleteRemovesMatch(t *testing.T) {
	t1 := tok(OpDeletePost, 1)
	t2 := tok(OpDeletePost, 2)
	start := InitialState(posts("1", "2", "3"))

	s := Reduce(start, Fulfilled{Token: t1, Post: model.Post{ID: "2"}})
	assert.Equal(t, []string{"1", "3"}, ids(s.PostList))
	assert.Equal(t, []string{"1", "2", "3"}, ids(start.PostList), "previous state untouched")

	s = Reduce(s, Fulfilled{Token: t2, Post: model.Post{ID: "missing"}})
	assert.Equal(t, []string{"1", "3"}, ids(s.PostList), "absent id is a no-op")
}

func TestActionTypes(t *testing.T) {
	t1 := tok(OpGetPostsList, 1)

	assert.Equal(t, "blog/getPostsList/pending", Pending{Token: t1}.Type())
	assert.Equal(t, "blog/getPostsList/fulfilled", Fulfilled{Token: t1}.Type())
	assert.Equal(t, "blog/getPostsList/rejected", Rejected{Token: t1}.Type())
	assert.Equal(t, "blog/cancelEditingPost", EditCancelled{}.Type())

	assert.True(t, Rejected{Value: &api.ValidationError{}}.Handled())
	assert.False(t, Rejected{Err: errors.New("x")}.Handled())
}

func TestState_FindPost(t *testing.T) {
	s := InitialState(posts("1", "2"))

	p, ok := s.FindPost("2")
	require.True(t, ok)
	assert.Equal(t, "post 2", p.Title)

	_, ok = s.FindPost("nope")
	assert.False(t, ok)
}

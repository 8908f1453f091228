package blog

import "github.com/debemdeboas/blogsync/internal/model"

// Op names a remote operation. Action types are "<op>/<phase>".
type Op string

const (
	OpGetPostsList Op = "blog/getPostsList"
	OpAddPost      Op = "blog/addPost"
	OpEditingPost  Op = "blog/editingPost"
	OpEditPost     Op = "blog/editPost"
	OpDeletePost   Op = "blog/deletePost"
)

const (
	PhasePending   = "pending"
	PhaseFulfilled = "fulfilled"
	PhaseRejected  = "rejected"
)

// Pending is dispatched when a request starts.
type Pending struct {
	Token Token
}

func (a Pending) Type() string { return string(a.Token.Op) + "/" + PhasePending }

// Fulfilled carries the server response of a successful request.
type Fulfilled struct {
	Token Token
	// Posts is set for OpGetPostsList, Post for every other op.
	Posts []model.Post
	Post  model.Post
}

func (a Fulfilled) Type() string { return string(a.Token.Op) + "/" + PhaseFulfilled }

// Rejected is dispatched when a request fails or is aborted. Value holds a
// payload the caller handles itself, such as a validation error.
type Rejected struct {
	Token   Token
	Err     error
	Value   any
	Aborted bool
}

func (a Rejected) Type() string { return string(a.Token.Op) + "/" + PhaseRejected }

// Handled reports whether the rejection was recovered into a value.
func (a Rejected) Handled() bool {
	return a.Value != nil
}

// EditCancelled clears the editing post without a server call.
type EditCancelled struct{}

func (EditCancelled) Type() string { return "blog/cancelEditingPost" }

// Package routes defines HTTP route patterns for the Posts API.
package routes

const (
	Posts  = "/posts"
	Post   = "/posts/{id}"
	Events = "/events"

	// PostIDParam is the path wildcard in Post.
	PostIDParam = "id"
	// EventsPostParam filters the event stream to one post.
	EventsPostParam = "post"
)

// Method qualifies a route pattern with an HTTP method.
func Method(method, pattern string) string {
	return method + " " + pattern
}

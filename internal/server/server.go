// Package server is the reference Posts API the blog client talks to.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/blogsync/internal/model"
	"github.com/debemdeboas/blogsync/internal/repository"
	"github.com/debemdeboas/blogsync/internal/routes"
	"github.com/debemdeboas/blogsync/internal/sse"
)

const (
	HCType        = "Content-Type"
	HCacheControl = "Cache-Control"

	contentTypeJSON = "application/json"

	shutdownTimeout = 5 * time.Second
)

var serverLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	serverLogger = l
}

type Option func(*Server)

// WithClock replaces time.Now for publish date validation.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

type Server struct {
	repo    repository.PostRepository
	clients *sse.SSEClients
	now     func() time.Time
}

func New(repo repository.PostRepository, opts ...Option) *Server {
	s := &Server{
		repo:    repo,
		clients: sse.NewSSEClients(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(routes.Method(http.MethodGet, routes.Posts), s.listPosts)
	mux.HandleFunc(routes.Method(http.MethodPost, routes.Posts), s.createPost)
	mux.HandleFunc(routes.Method(http.MethodGet, routes.Post), s.getPost)
	mux.HandleFunc(routes.Method(http.MethodPut, routes.Post), s.updatePost)
	mux.HandleFunc(routes.Method(http.MethodDelete, routes.Post), s.deletePost)
	mux.HandleFunc(routes.Method(http.MethodGet, routes.Events), s.events)

	return logRequests(secureHeaders(mux))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		serverLogger.Info().Str("addr", addr).Msg("Posts API listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.clients.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	serverLogger.Info().Msg("Posts API stopped")
	return nil
}

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.repo.List()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if posts == nil {
		posts = []model.Post{}
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	var in model.PostInput
	if !decodeBody(w, r, &in) {
		return
	}
	if fields := s.validate(in); fields != nil {
		writeValidation(w, fields)
		return
	}

	post, err := s.repo.Create(in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.notify(EventCreated, post.ID)
	writeJSON(w, http.StatusCreated, post)
}

func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.repo.Get(postID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) updatePost(w http.ResponseWriter, r *http.Request) {
	var body model.Post
	if !decodeBody(w, r, &body) {
		return
	}
	in := body.Input()
	if fields := s.validate(in); fields != nil {
		writeValidation(w, fields)
		return
	}

	post, err := s.repo.Update(postID(r), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.notify(EventUpdated, post.ID)
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	post, err := s.repo.Delete(postID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.notify(EventDeleted, post.ID)
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	serverLogger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("Request failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}

func postID(r *http.Request) model.PostID {
	return model.PostID(r.PathValue(routes.PostIDParam))
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(HCType, contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		serverLogger.Warn().Err(err).Msg("Failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeValidation(w http.ResponseWriter, fields map[string]string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]map[string]string{"error": fields})
}

package server

import (
	"net/http"

	"inkwell/internal/api"
)

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req api.PostCreateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	post, err := s.posts.CreateDraft(r.Context(), req.Title, req.Content, req.AuthorEmail)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, post)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}

	post, err := s.posts.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.Feed(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, posts)
}

func (s *Server) handleFilterPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.Filter(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, posts)
}

func (s *Server) handlePublishPost(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}

	post, err := s.posts.Publish(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}

	post, err := s.posts.Delete(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, post)
}

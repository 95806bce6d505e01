package server

import (
	"net/http"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health check and info.
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /v1/info", s.handleInfo)

	// Users and identity documents.
	mux.HandleFunc("POST /v1/users", s.handleSignup)
	mux.HandleFunc("GET /v1/users/{id}", s.handleGetUser)
	mux.HandleFunc("POST /v1/users/{id}/documents", s.handleUploadDocuments)
	mux.HandleFunc("GET /v1/users/{id}/documents/{doctype}", s.handleDownloadDocument)

	// Posts.
	mux.HandleFunc("POST /v1/posts", s.handleCreatePost)
	mux.HandleFunc("GET /v1/posts/feed", s.handleFeed)
	mux.HandleFunc("GET /v1/posts/filter", s.handleFilterPosts)
	mux.HandleFunc("GET /v1/posts/{id}", s.handleGetPost)
	mux.HandleFunc("POST /v1/posts/{id}/publish", s.handlePublishPost)
	mux.HandleFunc("DELETE /v1/posts/{id}", s.handleDeletePost)

	// Categories.
	mux.HandleFunc("GET /v1/categories", s.handleListCategories)

	return s.withRequestLogging(mux)
}

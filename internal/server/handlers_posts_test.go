package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"inkwell/internal/api"
	"inkwell/internal/models"
)

func createTestPost(t *testing.T, srv *Server, title, content, authorEmail string) models.Post {
	t.Helper()
	w := doJSON(t, srv, http.MethodPost, "/v1/posts", api.PostCreateRequest{
		Title:       title,
		Content:     content,
		AuthorEmail: authorEmail,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	var post models.Post
	if err := json.Unmarshal(w.Body.Bytes(), &post); err != nil {
		t.Fatalf("decode post: %v", err)
	}
	return post
}

func TestCreatePostHandler(t *testing.T) {
	srv, st := newTestServer(t)
	seedTestUser(t, st, "Alice", "alice@example.com")

	post := createTestPost(t, srv, "First draft", "hello world", "alice@example.com")
	if post.ID == 0 {
		t.Fatal("expected assigned post id")
	}
	if post.Published {
		t.Fatal("expected new post to be a draft")
	}
	if post.AuthorID != 1 {
		t.Fatalf("expected author 1, got %d", post.AuthorID)
	}
}

func TestCreatePostUnknownAuthor(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/v1/posts", api.PostCreateRequest{
		Title:       "Orphan",
		AuthorEmail: "ghost@example.com",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d (%s)", w.Code, w.Body.String())
	}
	resp := decodeErrorResponse(t, w)
	if resp.ErrorCode != ErrCodeUserNotFound {
		t.Fatalf("expected error_code %d, got %d", ErrCodeUserNotFound, resp.ErrorCode)
	}
}

func TestFeedExcludesDrafts(t *testing.T) {
	srv, st := newTestServer(t)
	seedTestUser(t, st, "Alice", "alice@example.com")

	draft := createTestPost(t, srv, "Draft", "unpublished", "alice@example.com")
	published := createTestPost(t, srv, "Live", "published", "alice@example.com")

	w := doJSON(t, srv, http.MethodPost, "/v1/posts/2/publish", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("publish: expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	w = doJSON(t, srv, http.MethodGet, "/v1/posts/feed", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("feed: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var feed []models.Post
	if err := json.Unmarshal(w.Body.Bytes(), &feed); err != nil {
		t.Fatalf("decode feed: %v", err)
	}
	if len(feed) != 1 {
		t.Fatalf("expected 1 published post, got %d", len(feed))
	}
	if feed[0].ID != published.ID {
		t.Fatalf("expected post %d in feed, got %d", published.ID, feed[0].ID)
	}
	_ = draft
}

func TestFilterMatchesTitleOrContent(t *testing.T) {
	srv, st := newTestServer(t)
	seedTestUser(t, st, "Alice", "alice@example.com")

	createTestPost(t, srv, "Go generics", "type parameters", "alice@example.com")
	createTestPost(t, srv, "Weekend notes", "thoughts on generics", "alice@example.com")
	createTestPost(t, srv, "Cooking", "pasta recipe", "alice@example.com")

	w := doJSON(t, srv, http.MethodGet, "/v1/posts/filter?q=generics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var posts []models.Post
	if err := json.Unmarshal(w.Body.Bytes(), &posts); err != nil {
		t.Fatalf("decode posts: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(posts))
	}
}

func TestFilterRequiresQuery(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/v1/posts/filter", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%s)", w.Code, w.Body.String())
	}
	resp := decodeErrorResponse(t, w)
	if resp.ErrorCode != ErrCodeMissingRequired {
		t.Fatalf("expected error_code %d, got %d", ErrCodeMissingRequired, resp.ErrorCode)
	}
}

func TestPublishAndDeleteHandlers(t *testing.T) {
	srv, st := newTestServer(t)
	seedTestUser(t, st, "Alice", "alice@example.com")
	post := createTestPost(t, srv, "Lifecycle", "draft to gone", "alice@example.com")

	w := doJSON(t, srv, http.MethodPost, "/v1/posts/1/publish", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("publish: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var published models.Post
	if err := json.Unmarshal(w.Body.Bytes(), &published); err != nil {
		t.Fatalf("decode post: %v", err)
	}
	if !published.Published {
		t.Fatal("expected published flag set")
	}
	if published.Title != post.Title {
		t.Fatalf("publish changed title: %q", published.Title)
	}

	w = doJSON(t, srv, http.MethodDelete, "/v1/posts/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	w = doJSON(t, srv, http.MethodGet, "/v1/posts/1", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d (%s)", w.Code, w.Body.String())
	}
	resp := decodeErrorResponse(t, w)
	if resp.ErrorCode != ErrCodePostNotFound {
		t.Fatalf("expected error_code %d, got %d", ErrCodePostNotFound, resp.ErrorCode)
	}
}

func TestPublishMissingPost(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/v1/posts/9/publish", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d (%s)", w.Code, w.Body.String())
	}
	resp := decodeErrorResponse(t, w)
	if resp.ErrorCode != ErrCodePostNotFound {
		t.Fatalf("expected error_code %d, got %d", ErrCodePostNotFound, resp.ErrorCode)
	}
}

func TestCreatePostRejectsInvalidJSON(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/v1/posts", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%s)", w.Code, w.Body.String())
	}
	resp := decodeErrorResponse(t, w)
	if resp.ErrorCode != ErrCodeInvalidJSON {
		t.Fatalf("expected error_code %d, got %d", ErrCodeInvalidJSON, resp.ErrorCode)
	}
}

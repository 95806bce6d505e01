package server

import (
	"context"
	"fmt"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

// PostService orchestrates post drafting, publishing and retrieval.
type PostService struct {
	store Stores
}

// NewPostService constructs a PostService.
func NewPostService(st Stores) *PostService {
	return &PostService{store: st}
}

// CreateDraft creates an unpublished post for the author identified by email.
func (s *PostService) CreateDraft(ctx context.Context, title, content, authorEmail string) (*models.Post, error) {
	title = strings.TrimSpace(title)
	authorEmail = strings.TrimSpace(authorEmail)
	if title == "" {
		return nil, badRequestCode(fmt.Errorf("title is required"), ErrCodeMissingRequired)
	}
	if authorEmail == "" {
		return nil, badRequestCode(fmt.Errorf("author_email is required"), ErrCodeMissingRequired)
	}

	author, err := s.store.GetUserByEmail(ctx, authorEmail)
	if err != nil {
		return nil, storeFailure(err)
	}
	if author == nil {
		return nil, notFoundCode(fmt.Errorf("no user with email %s", authorEmail), ErrCodeUserNotFound)
	}

	post := &models.Post{Title: title, Content: content, AuthorID: author.ID}
	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, storeFailure(err)
	}
	return post, nil
}

// Get returns a post by id.
func (s *PostService) Get(ctx context.Context, id int64) (*models.Post, error) {
	post, err := s.store.GetPost(ctx, id)
	if err != nil {
		return nil, storeFailure(err)
	}
	if post == nil {
		return nil, notFoundCode(fmt.Errorf("post not found: %d", id), ErrCodePostNotFound)
	}
	return post, nil
}

// Feed lists published posts, newest first.
func (s *PostService) Feed(ctx context.Context) ([]models.Post, error) {
	published := true
	posts, err := s.store.ListPosts(ctx, store.PostFilter{Published: &published})
	if err != nil {
		return nil, storeFailure(err)
	}
	return posts, nil
}

// Filter lists posts whose title or content contains the query substring.
func (s *PostService) Filter(ctx context.Context, query string) ([]models.Post, error) {
	if strings.TrimSpace(query) == "" {
		return nil, badRequestCode(fmt.Errorf("query parameter q is required"), ErrCodeMissingRequired)
	}
	posts, err := s.store.ListPosts(ctx, store.PostFilter{Contains: query})
	if err != nil {
		return nil, storeFailure(err)
	}
	return posts, nil
}

// Publish flips a draft to published.
func (s *PostService) Publish(ctx context.Context, id int64) (*models.Post, error) {
	post, err := s.store.SetPostPublished(ctx, id, true)
	if err != nil {
		return nil, storeFailure(err)
	}
	if post == nil {
		return nil, notFoundCode(fmt.Errorf("post not found: %d", id), ErrCodePostNotFound)
	}
	return post, nil
}

// Delete removes a post.
func (s *PostService) Delete(ctx context.Context, id int64) (*models.Post, error) {
	post, err := s.store.GetPost(ctx, id)
	if err != nil {
		return nil, storeFailure(err)
	}
	if post == nil {
		return nil, notFoundCode(fmt.Errorf("post not found: %d", id), ErrCodePostNotFound)
	}

	deleted, err := s.store.DeletePost(ctx, id)
	if err != nil {
		return nil, storeFailure(err)
	}
	if !deleted {
		return nil, notFoundCode(fmt.Errorf("post not found: %d", id), ErrCodePostNotFound)
	}
	return post, nil
}

package store

import (
	"context"

	"inkwell/internal/models"
)

// UserStore is the record-store surface the user services depend on.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UserExists(ctx context.Context, id int64) (bool, error)
	UpdateUserDocuments(ctx context.Context, id int64, update DocumentUpdate) (*models.User, error)
}

// PostStore is the record-store surface the post service depends on.
type PostStore interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	ListPosts(ctx context.Context, filter PostFilter) ([]models.Post, error)
	SetPostPublished(ctx context.Context, id int64, published bool) (*models.Post, error)
	DeletePost(ctx context.Context, id int64) (bool, error)
}

// CategoryStore is the record-store surface for the category catalog.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ReplaceCategories(ctx context.Context, categories []models.Category) error
}

// InfoStore reports store-wide diagnostics.
type InfoStore interface {
	StoreInfo(ctx context.Context) (Info, error)
}

var (
	_ UserStore     = (*Store)(nil)
	_ PostStore     = (*Store)(nil)
	_ CategoryStore = (*Store)(nil)
	_ InfoStore     = (*Store)(nil)
)

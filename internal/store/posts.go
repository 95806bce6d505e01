package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"inkwell/internal/models"
)

const postColumns = "id, title, content, published, author_id, created_at, updated_at"

// PostFilter narrows ListPosts. Contains matches title OR content by
// substring; Published is an exact match when set.
type PostFilter struct {
	Contains  string
	Published *bool
	AuthorID  int64
	Limit     int
	Offset    int
}

// CreatePost inserts a draft row and assigns the generated id.
func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	if post == nil {
		return fmt.Errorf("post is required")
	}
	now := time.Now().UTC()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	if post.UpdatedAt.IsZero() {
		post.UpdatedAt = post.CreatedAt
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO posts (title, content, published, author_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		post.Title,
		nullIfEmpty(post.Content),
		boolToInt(post.Published),
		post.AuthorID,
		formatTime(post.CreatedAt),
		formatTime(post.UpdatedAt),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	post.ID = id
	return nil
}

// GetPost returns one post by id, or nil when absent.
func (s *Store) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	return scanPost(row)
}

// ListPosts returns posts matching the filter, newest first.
func (s *Store) ListPosts(ctx context.Context, filter PostFilter) ([]models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts`
	clauses := []string{}
	args := []any{}

	if filter.Contains != "" {
		clauses = append(clauses, "(title LIKE ? ESCAPE '\\' OR content LIKE ? ESCAPE '\\')")
		pattern := "%" + escapeLike(filter.Contains) + "%"
		args = append(args, pattern, pattern)
	}
	if filter.Published != nil {
		clauses = append(clauses, "published = ?")
		args = append(args, boolToInt(*filter.Published))
	}
	if filter.AuthorID != 0 {
		clauses = append(clauses, "author_id = ?")
		args = append(args, filter.AuthorID)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		if post == nil {
			continue
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

// SetPostPublished flips the published flag and returns the fresh row,
// or nil when the post does not exist.
func (s *Store) SetPostPublished(ctx context.Context, id int64, published bool) (*models.Post, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE posts SET published = ?, updated_at = ? WHERE id = ?
	`, boolToInt(published), formatTime(time.Now().UTC()), id)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, nil
	}
	return s.GetPost(ctx, id)
}

// DeletePost removes one post row. Returns false when no row matched.
func (s *Store) DeletePost(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func scanPost(row rowScanner) (*models.Post, error) {
	var (
		post      models.Post
		content   sql.NullString
		published int
		createdAt string
		updatedAt string
	)
	err := row.Scan(&post.ID, &post.Title, &content, &published, &post.AuthorID, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	post.Content = content.String
	post.Published = published != 0
	if post.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if post.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &post, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}

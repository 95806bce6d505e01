package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"inkwell/internal/models"
)

const userColumns = "id, name, email, selfie_file, selfie_mime, document_file, document_mime, created_at"

// DocumentPair is one slot's metadata written during an upload. File and
// Mime are always persisted together.
type DocumentPair struct {
	File string
	Mime string
}

// DocumentUpdate carries the slots to overwrite on a user row. A nil
// pair leaves that slot's columns untouched.
type DocumentUpdate struct {
	Selfie   *DocumentPair
	Document *DocumentPair
}

// IsEmpty reports whether the update would change nothing.
func (u DocumentUpdate) IsEmpty() bool {
	return u.Selfie == nil && u.Document == nil
}

// CreateUser inserts a user row and assigns the generated id.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return fmt.Errorf("user is required")
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (name, email, created_at) VALUES (?, ?, ?)
	`, nullIfEmpty(user.Name), user.Email, formatTime(user.CreatedAt))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = id
	return nil
}

// GetUser returns one user by id, or nil when absent.
func (s *Store) GetUser(ctx context.Context, id int64) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByEmail returns one user by email, or nil when absent.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// UserExists checks whether a user row exists by id.
func (s *Store) UserExists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id = ? LIMIT 1", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UpdateUserDocuments overwrites the provided slot pairs in one atomic
// per-row update and returns the fresh row. Slots absent from the update
// keep their previous values.
func (s *Store) UpdateUserDocuments(ctx context.Context, id int64, update DocumentUpdate) (*models.User, error) {
	if update.IsEmpty() {
		return s.GetUser(ctx, id)
	}

	assignments := make([]string, 0, 4)
	args := make([]any, 0, 5)
	if update.Selfie != nil {
		assignments = append(assignments, "selfie_file = ?", "selfie_mime = ?")
		args = append(args, update.Selfie.File, update.Selfie.Mime)
	}
	if update.Document != nil {
		assignments = append(assignments, "document_file = ?", "document_mime = ?")
		args = append(args, update.Document.File, update.Document.Mime)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, "UPDATE users SET "+strings.Join(assignments, ", ")+" WHERE id = ?", args...)
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
	return s.GetUser(ctx, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		user       models.User
		name       sql.NullString
		selfieFile sql.NullString
		selfieMime sql.NullString
		docFile    sql.NullString
		docMime    sql.NullString
		createdAt  string
	)
	err := row.Scan(&user.ID, &name, &user.Email, &selfieFile, &selfieMime, &docFile, &docMime, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	user.Name = name.String
	user.SelfieFile = selfieFile.String
	user.SelfieMime = selfieMime.String
	user.DocumentFile = docFile.String
	user.DocumentMime = docMime.String
	if user.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &user, nil
}

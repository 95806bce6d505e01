package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/mail"
	"strings"

	"inkwell/internal/blobstore"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

const fallbackDocumentMediaType = "application/octet-stream"

// UserService orchestrates signup and identity-document workflows.
type UserService struct {
	store  store.UserStore
	blobs  blobstore.BlobStore
	logger *slog.Logger
}

// NewUserService constructs a UserService.
func NewUserService(st store.UserStore, blobs blobstore.BlobStore, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{store: st, blobs: blobs, logger: logger}
}

// Signup registers a new user account.
func (s *UserService) Signup(ctx context.Context, name, email string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, badRequestCode(fmt.Errorf("email is required"), ErrCodeMissingRequired)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, badRequestCode(fmt.Errorf("invalid email address: %q", email), ErrCodeInvalidEmail)
	}

	user := &models.User{Name: name, Email: email}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if isUniqueEmail(err) {
			return nil, conflictCode(fmt.Errorf("email already registered: %s", email), ErrCodeEmailExists)
		}
		return nil, storeFailure(err)
	}
	return user, nil
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, storeFailure(err)
	}
	if user == nil {
		return nil, notFoundCode(fmt.Errorf("user not found: %d", id), ErrCodeUserNotFound)
	}
	return user, nil
}

// SlotUpload is one incoming document payload bound to an upload slot.
type SlotUpload struct {
	Slot              models.DocType
	Content           io.Reader
	OriginalName      string
	DeclaredMediaType string
}

// SlotWrite records the blob written for one slot during an upload.
type SlotWrite struct {
	Slot      models.DocType
	BlobKey   string
	MediaType string
	SizeBytes int64
}

// UploadOutcome reports what an upload request accomplished. Writes lists
// blobs in the order they were persisted; MetadataCommitted is false when
// the blobs landed but the user record was not updated.
type UploadOutcome struct {
	Writes            []SlotWrite
	MetadataCommitted bool
	User              *models.User
}

// UploadDocuments stores the supplied slot payloads and binds them to the
// user record. All blob content is persisted before the record is touched,
// and the record is updated in a single write covering every slot.
func (s *UserService) UploadDocuments(ctx context.Context, userID int64, uploads []SlotUpload) (UploadOutcome, error) {
	var outcome UploadOutcome

	if len(uploads) == 0 {
		return outcome, badRequestCode(fmt.Errorf("no document slots supplied"), ErrCodeMissingRequired)
	}

	seen := make(map[models.DocType]bool, len(uploads))
	for i := range uploads {
		slot, err := models.ParseDocType(string(uploads[i].Slot))
		if err != nil {
			return outcome, badRequestCode(err, ErrCodeInvalidDoctype)
		}
		if seen[slot] {
			return outcome, badRequestCode(fmt.Errorf("slot %q supplied more than once", slot), ErrCodeSlotMultiplicity)
		}
		seen[slot] = true
		uploads[i].Slot = slot
	}

	exists, err := s.store.UserExists(ctx, userID)
	if err != nil {
		return outcome, storeFailure(err)
	}
	if !exists {
		return outcome, notFoundCode(fmt.Errorf("user not found: %d", userID), ErrCodeUserNotFound)
	}

	// Phase one: persist every payload to the blob store. Only keys this
	// request created are eligible for cleanup: a deduplicated Put returns
	// a key that committed records may already reference.
	var createdKeys []string
	for _, up := range uploads {
		res, err := s.blobs.Put(ctx, up.Content)
		if err != nil {
			s.cleanupBlobs(ctx, createdKeys)
			return outcome, blobWriteFailed(fmt.Errorf("store %s payload: %w", up.Slot, err))
		}
		if !res.Existed {
			createdKeys = append(createdKeys, res.Key)
		}
		if res.SizeBytes == 0 {
			s.cleanupBlobs(ctx, createdKeys)
			return outcome, badRequestCode(fmt.Errorf("slot %q payload is empty", up.Slot), ErrCodeEmptyUpload)
		}
		outcome.Writes = append(outcome.Writes, SlotWrite{
			Slot:      up.Slot,
			BlobKey:   res.Key,
			MediaType: resolveMediaType(up.DeclaredMediaType),
			SizeBytes: res.SizeBytes,
		})
	}

	// Phase two: bind every slot to the user record in one write.
	update := store.DocumentUpdate{}
	for _, w := range outcome.Writes {
		pair := &store.DocumentPair{File: w.BlobKey, Mime: w.MediaType}
		switch w.Slot {
		case models.DocTypeSelfie:
			update.Selfie = pair
		case models.DocTypeDocument:
			update.Document = pair
		}
	}

	user, err := s.store.UpdateUserDocuments(ctx, userID, update)
	if err != nil {
		s.logOrphanedBlobs(userID, outcome.Writes, err)
		return outcome, storeFailure(fmt.Errorf("bind documents to user %d: %w", userID, err))
	}
	if user == nil {
		s.logOrphanedBlobs(userID, outcome.Writes, nil)
		return outcome, notFoundCode(fmt.Errorf("user not found: %d", userID), ErrCodeUserNotFound)
	}

	outcome.MetadataCommitted = true
	outcome.User = user
	return outcome, nil
}

// DocumentContent is an open stream over a stored identity document.
type DocumentContent struct {
	Reader    io.ReadCloser
	MediaType string
	Key       string
}

// OpenDocument opens the stored document for the given slot. The doctype is
// validated before any store access so an invalid selector never reads state.
func (s *UserService) OpenDocument(ctx context.Context, userID int64, rawDoctype string) (DocumentContent, error) {
	var zero DocumentContent

	doctype, err := models.ParseDocType(rawDoctype)
	if err != nil {
		return zero, badRequestCode(err, ErrCodeInvalidDoctype)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return zero, storeFailure(err)
	}
	if user == nil {
		return zero, notFoundCode(fmt.Errorf("user not found: %d", userID), ErrCodeUserNotFound)
	}

	key, mediaType := user.DocumentRef(doctype)
	if key == "" {
		return zero, notFoundCode(fmt.Errorf("no %s uploaded for user %d", doctype, userID), ErrCodeDocumentNotFound)
	}

	reader, err := s.blobs.Open(ctx, key)
	if err != nil {
		// The record points at the blob, so a missing or unreadable
		// blob is storage corruption, not an absent document.
		return zero, blobReadFailed(fmt.Errorf("open %s blob %s for user %d: %w", doctype, key, userID, err))
	}

	if mediaType == "" {
		mediaType = fallbackDocumentMediaType
	}
	return DocumentContent{Reader: reader, MediaType: mediaType, Key: key}, nil
}

func (s *UserService) cleanupBlobs(ctx context.Context, keys []string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.blobs.Delete(ctx, key); err != nil {
			s.logger.Warn("cleanup blob after failed upload", "key", key, "error", err)
		}
	}
}

func (s *UserService) logOrphanedBlobs(userID int64, writes []SlotWrite, err error) {
	keys := make([]string, 0, len(writes))
	for _, w := range writes {
		keys = append(keys, w.BlobKey)
	}
	s.logger.Error("document metadata update failed, blobs orphaned",
		"user_id", userID, "keys", keys, "error", err)
}

func resolveMediaType(declared string) string {
	declared = strings.TrimSpace(declared)
	if declared == "" {
		return fallbackDocumentMediaType
	}
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil || mediaType == "" {
		return fallbackDocumentMediaType
	}
	return mediaType
}

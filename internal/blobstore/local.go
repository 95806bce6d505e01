package blobstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	keyAlgorithm = "sha256"
	stagingDir   = "incoming"
)

// LocalStore keeps blob bytes in a content-addressed tree under one root
// directory. Keys look like sha256/ab/<digest>, so two distinct payloads
// can never collide and identical payloads share one object.
type LocalStore struct {
	root string
}

// NewLocalStore creates the root and staging directories and returns a
// store rooted there.
func NewLocalStore(root string) (*LocalStore, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("blob root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	for _, dir := range []string{abs, filepath.Join(abs, stagingDir)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return &LocalStore{root: abs}, nil
}

// Put streams r to a staging file, hashes it, and renames the file into
// its content-addressed location. An object that already exists for the
// same digest is left in place.
func (s *LocalStore) Put(ctx context.Context, r io.Reader) (PutResult, error) {
	var zero PutResult
	if s == nil {
		return zero, fmt.Errorf("blob store is not configured")
	}
	if r == nil {
		return zero, fmt.Errorf("reader is required")
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	staged, err := os.CreateTemp(filepath.Join(s.root, stagingDir), "blob-*")
	if err != nil {
		return zero, err
	}
	stagedPath := staged.Name()
	discard := func() {
		_ = staged.Close()
		_ = os.Remove(stagedPath)
	}

	hasher := sha256.New()
	size, err := io.Copy(io.MultiWriter(staged, hasher), r)
	if err != nil {
		discard()
		return zero, err
	}
	if err := staged.Close(); err != nil {
		discard()
		return zero, err
	}

	digest := hex.EncodeToString(hasher.Sum(nil))
	key := keyForDigest(digest)
	result := PutResult{Key: key, SHA256: digest, SizeBytes: size}

	dst := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		discard()
		return zero, err
	}
	if _, err := os.Stat(dst); err == nil {
		_ = os.Remove(stagedPath)
		result.Existed = true
		return result, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		discard()
		return zero, err
	}
	if err := os.Rename(stagedPath, dst); err != nil {
		// A concurrent Put of the same content may have won the rename.
		if _, statErr := os.Stat(dst); statErr == nil {
			_ = os.Remove(stagedPath)
			result.Existed = true
			return result, nil
		}
		discard()
		return zero, err
	}
	return result, nil
}

// Open returns a reader for the object stored under key.
func (s *LocalStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if s == nil {
		return nil, fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.objectPath(key)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Delete removes one object. A missing object is not an error.
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	if s == nil {
		return fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.objectPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func keyForDigest(digest string) string {
	return fmt.Sprintf("%s/%s/%s", keyAlgorithm, digest[:2], digest)
}

// objectPath rejects absolute and escaping keys so reads can never leave
// the configured root.
func (s *LocalStore) objectPath(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("blob key is required")
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("blob key must be relative")
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid blob key")
	}
	return filepath.Join(s.root, clean), nil
}

package store

import (
	"context"
	"strings"
	"testing"

	"inkwell/internal/models"
)

func TestCreateAndGetUser(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	created := seedUser(t, st, "Ada", "ada@example.com")
	if created.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if created.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}

	got, err := st.GetUser(ctx, created.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got == nil {
		t.Fatal("expected user")
	}
	if got.Email != "ada@example.com" || got.Name != "Ada" {
		t.Fatalf("unexpected user: %+v", got)
	}
	if got.SelfieFile != "" || got.SelfieMime != "" || got.DocumentFile != "" || got.DocumentMime != "" {
		t.Fatalf("expected empty document metadata on signup, got %+v", got)
	}

	byEmail, err := st.GetUserByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail == nil || byEmail.ID != created.ID {
		t.Fatalf("expected same user by email, got %+v", byEmail)
	}
}

func TestGetUserMissingReturnsNil(t *testing.T) {
	st := newTestStore(t)

	got, err := st.GetUser(context.Background(), 9999)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing user, got %+v", got)
	}

	exists, err := st.UserExists(context.Background(), 9999)
	if err != nil {
		t.Fatalf("user exists: %v", err)
	}
	if exists {
		t.Fatal("expected user to not exist")
	}
}

func TestCreateUserDuplicateEmailFails(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	seedUser(t, st, "Ada", "dup@example.com")
	err := st.CreateUser(ctx, &models.User{Name: "Other", Email: "dup@example.com"})
	if err == nil {
		t.Fatal("expected unique constraint violation")
	}
	if !strings.Contains(err.Error(), "UNIQUE") {
		t.Fatalf("expected UNIQUE constraint error, got %v", err)
	}
}

func TestUpdateUserDocumentsPartial(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, st, "", "docs@example.com")

	updated, err := st.UpdateUserDocuments(ctx, user.ID, DocumentUpdate{
		Selfie: &DocumentPair{File: "sha256/ab/abc123", Mime: "image/jpeg"},
	})
	if err != nil {
		t.Fatalf("update selfie: %v", err)
	}
	if updated == nil {
		t.Fatal("expected updated user")
	}
	if updated.SelfieFile != "sha256/ab/abc123" || updated.SelfieMime != "image/jpeg" {
		t.Fatalf("selfie pair not written: %+v", updated)
	}
	if updated.DocumentFile != "" || updated.DocumentMime != "" {
		t.Fatalf("document pair must stay untouched: %+v", updated)
	}

	updated, err = st.UpdateUserDocuments(ctx, user.ID, DocumentUpdate{
		Document: &DocumentPair{File: "sha256/cd/cde456", Mime: "application/pdf"},
	})
	if err != nil {
		t.Fatalf("update document: %v", err)
	}
	if updated.SelfieFile != "sha256/ab/abc123" {
		t.Fatalf("selfie pair lost on document update: %+v", updated)
	}
	if updated.DocumentFile != "sha256/cd/cde456" || updated.DocumentMime != "application/pdf" {
		t.Fatalf("document pair not written: %+v", updated)
	}
}

func TestUpdateUserDocumentsReplace(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, st, "", "replace@example.com")

	if _, err := st.UpdateUserDocuments(ctx, user.ID, DocumentUpdate{
		Selfie: &DocumentPair{File: "sha256/aa/first", Mime: "image/png"},
	}); err != nil {
		t.Fatalf("first update: %v", err)
	}
	updated, err := st.UpdateUserDocuments(ctx, user.ID, DocumentUpdate{
		Selfie: &DocumentPair{File: "sha256/bb/second", Mime: "image/jpeg"},
	})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if updated.SelfieFile != "sha256/bb/second" || updated.SelfieMime != "image/jpeg" {
		t.Fatalf("expected replace semantics, got %+v", updated)
	}
}

func TestUpdateUserDocumentsMissingUser(t *testing.T) {
	st := newTestStore(t)

	updated, err := st.UpdateUserDocuments(context.Background(), 4242, DocumentUpdate{
		Selfie: &DocumentPair{File: "sha256/ee/eee", Mime: "image/png"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated != nil {
		t.Fatalf("expected nil for missing user, got %+v", updated)
	}
}

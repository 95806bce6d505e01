package server

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"inkwell/internal/api"
	"inkwell/internal/models"
	"inkwell/internal/seed"
)

func TestHealthHandler(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestInfoHandler(t *testing.T) {
	srv, st := newTestServer(t)
	seedTestUser(t, st, "Alice", "alice@example.com")

	w := doJSON(t, srv, http.MethodGet, "/v1/info", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	var info api.InfoResponse
	if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode info: %v", err)
	}
	if info.UserCount != 1 {
		t.Fatalf("expected 1 user, got %d", info.UserCount)
	}
	if info.SchemaVersion == 0 {
		t.Fatal("expected nonzero schema version")
	}
	if info.DBPath == "" || info.BlobRoot == "" {
		t.Fatalf("expected db and blob paths, got %+v", info)
	}
}

func TestListCategoriesHandler(t *testing.T) {
	srv, st := newTestServer(t)
	if _, err := seed.Run(context.Background(), st); err != nil {
		t.Fatalf("seed: %v", err)
	}

	w := doJSON(t, srv, http.MethodGet, "/v1/categories", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	var categories []models.Category
	if err := json.Unmarshal(w.Body.Bytes(), &categories); err != nil {
		t.Fatalf("decode categories: %v", err)
	}
	if len(categories) != 10 {
		t.Fatalf("expected 10 seeded categories, got %d", len(categories))
	}
	if categories[0].ID != 1 {
		t.Fatalf("expected first category id 1, got %d", categories[0].ID)
	}
}

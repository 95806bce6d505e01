package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"testing"

	"inkwell/internal/api"
	"inkwell/internal/models"
)

func doJSON(t *testing.T, srv *Server, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	return w
}

func decodeErrorResponse(t *testing.T, w *httptest.ResponseRecorder) api.ErrorResponse {
	t.Helper()
	var resp api.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v (%s)", err, w.Body.String())
	}
	return resp
}

func multipartUpload(t *testing.T, parts map[string]uploadPart) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for field, part := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+part.filename+`"`)
		if part.mediaType != "" {
			h.Set("Content-Type", part.mediaType)
		}
		pw, err := mw.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := pw.Write([]byte(part.content)); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

type uploadPart struct {
	filename  string
	mediaType string
	content   string
}

func TestSignupHandler(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/v1/users", api.SignupRequest{Name: "Alice", Email: "alice@example.com"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
	}

	var user models.User
	if err := json.Unmarshal(w.Body.Bytes(), &user); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected assigned user id")
	}

	w = doJSON(t, srv, http.MethodPost, "/v1/users", api.SignupRequest{Name: "Alice Again", Email: "alice@example.com"})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d (%s)", w.Code, w.Body.String())
	}
	resp := decodeErrorResponse(t, w)
	if resp.ErrorCode != ErrCodeEmailExists {
		t.Fatalf("expected error_code %d, got %d", ErrCodeEmailExists, resp.ErrorCode)
	}
}

func TestUploadAndDownloadHandlers(t *testing.T) {
	srv, st := newTestServer(t)
	user := seedTestUser(t, st, "Alice", "alice@example.com")

	body, contentType := multipartUpload(t, map[string]uploadPart{
		"selfie":   {filename: "me.jpg", mediaType: "image/jpeg", content: "\xff\xd8\xff\xe0 selfie"},
		"document": {filename: "passport.pdf", mediaType: "application/pdf", content: "%PDF-1.4 scan"},
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/users/1/documents", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	var updated models.User
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if updated.ID != user.ID {
		t.Fatalf("expected user %d, got %d", user.ID, updated.ID)
	}
	if updated.SelfieFile == "" || updated.DocumentFile == "" {
		t.Fatalf("expected both slots bound, got %+v", updated)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/users/1/documents/selfie", nil)
	w = httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Type"); got != "image/jpeg" {
		t.Fatalf("expected image/jpeg, got %q", got)
	}
	if w.Body.String() != "\xff\xd8\xff\xe0 selfie" {
		t.Fatalf("selfie bytes changed: %q", w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/users/1/documents/document", nil)
	w = httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("expected application/pdf, got %q", got)
	}
}

func TestDownloadErrorDistinction(t *testing.T) {
	srv, st := newTestServer(t)
	seedTestUser(t, st, "Alice", "alice@example.com")

	tests := []struct {
		name     string
		path     string
		status   int
		errCode  int
		codeName string
	}{
		{name: "invalid doctype", path: "/v1/users/1/documents/passport", status: http.StatusBadRequest, errCode: ErrCodeInvalidDoctype, codeName: "invalid_argument"},
		{name: "no upload yet", path: "/v1/users/1/documents/selfie", status: http.StatusNotFound, errCode: ErrCodeDocumentNotFound, codeName: "not_found"},
		{name: "unknown user", path: "/v1/users/99/documents/selfie", status: http.StatusNotFound, errCode: ErrCodeUserNotFound, codeName: "not_found"},
		{name: "invalid id", path: "/v1/users/abc/documents/selfie", status: http.StatusBadRequest, errCode: ErrCodeInvalidID, codeName: "invalid_argument"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			srv.routes().ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d (%s)", tt.status, w.Code, w.Body.String())
			}
			resp := decodeErrorResponse(t, w)
			if resp.ErrorCode != tt.errCode {
				t.Fatalf("expected error_code %d, got %d (%s)", tt.errCode, resp.ErrorCode, w.Body.String())
			}
			if resp.Code != tt.codeName {
				t.Fatalf("expected code %q, got %q", tt.codeName, resp.Code)
			}
		})
	}
}

func TestUploadRejectsRepeatedSlotField(t *testing.T) {
	srv, st := newTestServer(t)
	seedTestUser(t, st, "Alice", "alice@example.com")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, content := range []string{"one", "two"} {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="selfie"; filename="me.png"`)
		h.Set("Content-Type", "image/png")
		pw, err := mw.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := io.WriteString(pw, content); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/users/1/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%s)", w.Code, w.Body.String())
	}
	resp := decodeErrorResponse(t, w)
	if resp.ErrorCode != ErrCodeSlotMultiplicity {
		t.Fatalf("expected error_code %d, got %d", ErrCodeSlotMultiplicity, resp.ErrorCode)
	}
}

func TestUploadRejectsUnknownSlotField(t *testing.T) {
	srv, st := newTestServer(t)
	seedTestUser(t, st, "Alice", "alice@example.com")

	body, contentType := multipartUpload(t, map[string]uploadPart{
		"passport": {filename: "p.pdf", mediaType: "application/pdf", content: "%PDF-1.4"},
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/users/1/documents", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%s)", w.Code, w.Body.String())
	}
	resp := decodeErrorResponse(t, w)
	if resp.ErrorCode != ErrCodeInvalidDoctype {
		t.Fatalf("expected error_code %d, got %d", ErrCodeInvalidDoctype, resp.ErrorCode)
	}
}

func openFileCount(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		t.Skipf("cannot inspect open files: %v", err)
	}
	return len(entries)
}

func TestCollectSlotUploadsOpensNothingOnBadField(t *testing.T) {
	body, contentType := multipartUpload(t, map[string]uploadPart{
		"selfie":   {filename: "me.jpg", mediaType: "image/jpeg", content: "\xff\xd8\xff\xe0 selfie"},
		"document": {filename: "scan.pdf", mediaType: "application/pdf", content: "%PDF-1.4 scan"},
		"passport": {filename: "p.pdf", mediaType: "application/pdf", content: "%PDF-1.4"},
	})
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		t.Fatalf("parse content type: %v", err)
	}

	// maxMemory 0 pushes every part to a temp file, so an Open that is
	// never closed shows up as a lingering file descriptor.
	form, err := multipart.NewReader(body, params["boundary"]).ReadForm(0)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	defer form.RemoveAll()

	before := openFileCount(t)
	_, uerr := collectSlotUploads(form)
	requireErrCode(t, uerr, http.StatusBadRequest, ErrCodeInvalidDoctype)
	if after := openFileCount(t); after != before {
		t.Fatalf("open files changed from %d to %d after rejected form", before, after)
	}
}

func TestUploadRejectsEmptyPart(t *testing.T) {
	srv, st := newTestServer(t)
	seedTestUser(t, st, "Alice", "alice@example.com")

	body, contentType := multipartUpload(t, map[string]uploadPart{
		"selfie": {filename: "empty.png", mediaType: "image/png", content: ""},
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/users/1/documents", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%s)", w.Code, w.Body.String())
	}
	resp := decodeErrorResponse(t, w)
	if resp.ErrorCode != ErrCodeEmptyUpload {
		t.Fatalf("expected error_code %d, got %d", ErrCodeEmptyUpload, resp.ErrorCode)
	}
}

func TestUploadSniffsMissingContentType(t *testing.T) {
	srv, st := newTestServer(t)
	seedTestUser(t, st, "Alice", "alice@example.com")

	pngMagic := "\x89PNG\r\n\x1a\n" + strings.Repeat("\x00", 16)
	body, contentType := multipartUpload(t, map[string]uploadPart{
		"selfie": {filename: "me.png", content: pngMagic},
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/users/1/documents", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/users/1/documents/selfie", nil)
	w = httptest.NewRecorder()
	srv.routes().ServeHTTP(w, req)
	if got := w.Header().Get("Content-Type"); got != "image/png" {
		t.Fatalf("expected sniffed image/png, got %q", got)
	}
}

func TestGetUserHandler(t *testing.T) {
	srv, st := newTestServer(t)
	seedTestUser(t, st, "Alice", "alice@example.com")

	w := doJSON(t, srv, http.MethodGet, "/v1/users/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	w = doJSON(t, srv, http.MethodGet, "/v1/users/42", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d (%s)", w.Code, w.Body.String())
	}
	resp := decodeErrorResponse(t, w)
	if resp.ErrorCode != ErrCodeUserNotFound {
		t.Fatalf("expected error_code %d, got %d", ErrCodeUserNotFound, resp.ErrorCode)
	}
}

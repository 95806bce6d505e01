package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"inkwell/internal/api"
	"inkwell/internal/models"
)

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req api.SignupRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	user, err := s.users.Signup(r.Context(), req.Name, req.Email)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}

	user, err := s.users.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUploadDocuments(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.multipartMaxMemory); err != nil {
		code := ErrCodeInvalidArgument
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			code = ErrCodeRequestTooLarge
		}
		s.writeErrorReq(w, r, http.StatusBadRequest,
			badRequestCode(fmt.Errorf("parse multipart form: %w", err), code))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	uploads, err := collectSlotUploads(r.MultipartForm)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	defer func() {
		for _, up := range uploads {
			if closer, ok := up.Content.(io.Closer); ok {
				_ = closer.Close()
			}
		}
	}()

	outcome, err := s.users.UploadDocuments(r.Context(), id, uploads)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, outcome.User)
}

func (s *Server) handleDownloadDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}

	content, err := s.users.OpenDocument(r.Context(), id, r.PathValue("doctype"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	defer content.Reader.Close()

	w.Header().Set("Content-Type", content.MediaType)
	if _, err := io.Copy(w, content.Reader); err != nil {
		s.log().Error("stream document", "user_id", id, "key", content.Key, "error", err)
	}
}

// collectSlotUploads maps multipart form fields onto upload slots. Every
// slot is validated before any part is opened; unknown field names,
// repeated slots, and empty payloads are rejected up front.
func collectSlotUploads(form *multipart.Form) ([]SlotUpload, error) {
	if form == nil || len(form.File) == 0 {
		return nil, badRequestCode(fmt.Errorf("no document slots supplied"), ErrCodeMissingRequired)
	}

	type slotPart struct {
		slot   models.DocType
		header *multipart.FileHeader
	}
	var parts []slotPart
	for field, headers := range form.File {
		slot, err := models.ParseDocType(field)
		if err != nil {
			return nil, badRequestCode(err, ErrCodeInvalidDoctype)
		}
		if len(headers) > 1 {
			return nil, badRequestCode(fmt.Errorf("slot %q supplied more than once", slot), ErrCodeSlotMultiplicity)
		}
		if headers[0].Size == 0 {
			return nil, badRequestCode(fmt.Errorf("slot %q payload is empty", slot), ErrCodeEmptyUpload)
		}
		parts = append(parts, slotPart{slot: slot, header: headers[0]})
	}

	var uploads []SlotUpload
	closeOpened := func() {
		for _, up := range uploads {
			if closer, ok := up.Content.(io.Closer); ok {
				_ = closer.Close()
			}
		}
	}
	for _, part := range parts {
		file, err := part.header.Open()
		if err != nil {
			closeOpened()
			return nil, internalError(fmt.Errorf("open %s part: %w", part.slot, err))
		}

		mediaType := strings.TrimSpace(part.header.Header.Get("Content-Type"))
		if mediaType == "" {
			mediaType, err = sniffMediaType(file)
			if err != nil {
				file.Close()
				closeOpened()
				return nil, internalError(fmt.Errorf("sniff %s part: %w", part.slot, err))
			}
		}

		uploads = append(uploads, SlotUpload{
			Slot:              part.slot,
			Content:           file,
			OriginalName:      part.header.Filename,
			DeclaredMediaType: mediaType,
		})
	}
	return uploads, nil
}

func sniffMediaType(file multipart.File) (string, error) {
	peek := make([]byte, 512)
	n, err := file.Read(peek)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(peek[:n]), nil
}

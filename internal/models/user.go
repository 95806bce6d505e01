package models

import "time"

// User is a registered author. The four document columns hold identity
// upload metadata; each file/mime pair is set together or not at all.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name,omitempty"`
	Email        string    `json:"email"`
	SelfieFile   string    `json:"selfie_file,omitempty"`
	SelfieMime   string    `json:"selfie_mime,omitempty"`
	DocumentFile string    `json:"document_file,omitempty"`
	DocumentMime string    `json:"document_mime,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// DocumentRef returns the stored blob key and media type for one slot.
// Both strings are empty when the slot was never uploaded.
func (u *User) DocumentRef(doctype DocType) (key, mediaType string) {
	if u == nil {
		return "", ""
	}
	switch doctype {
	case DocTypeSelfie:
		return u.SelfieFile, u.SelfieMime
	case DocTypeDocument:
		return u.DocumentFile, u.DocumentMime
	default:
		return "", ""
	}
}

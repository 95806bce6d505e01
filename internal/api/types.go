package api

// ErrorResponse is the JSON error envelope returned by the HTTP API.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// SignupRequest creates a user.
type SignupRequest struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// PostCreateRequest creates a draft post. The author is resolved from
// the email at creation time.
type PostCreateRequest struct {
	Title       string `json:"title"`
	Content     string `json:"content,omitempty"`
	AuthorEmail string `json:"author_email"`
}

// InfoResponse describes the running server.
type InfoResponse struct {
	DBPath        string `json:"db_path"`
	BlobRoot      string `json:"blob_root"`
	SchemaVersion int    `json:"schema_version"`
	UserCount     int    `json:"user_count"`
	PostCount     int    `json:"post_count"`
	CategoryCount int    `json:"category_count"`
}

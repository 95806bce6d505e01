package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"inkwell/internal/models"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	httpTimeoutEnvKey  = "INKWELL_HTTP_TIMEOUT"
)

// Client is a simple HTTP client for the inkwell API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a new API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: httpTimeoutFromEnv()},
	}
}

// Ping checks whether the API server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

func (c *Client) GetInfo(ctx context.Context) (InfoResponse, error) {
	var resp InfoResponse
	err := c.do(ctx, http.MethodGet, "/v1/info", nil, nil, &resp)
	return resp, err
}

func (c *Client) Signup(ctx context.Context, req SignupRequest) (models.User, error) {
	var resp models.User
	err := c.do(ctx, http.MethodPost, "/v1/users", nil, req, &resp)
	return resp, err
}

func (c *Client) GetUser(ctx context.Context, id int64) (models.User, error) {
	var resp models.User
	err := c.do(ctx, http.MethodGet, "/v1/users/"+formatID(id), nil, nil, &resp)
	return resp, err
}

// UploadFile is one slot's payload for UploadDocuments.
type UploadFile struct {
	Slot      models.DocType
	Filename  string
	MediaType string
	Content   io.Reader
}

// UploadDocuments sends a multipart upload binding request.
func (c *Client) UploadDocuments(ctx context.Context, id int64, files []UploadFile) (models.User, error) {
	var resp models.User

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, file := range files {
		part, err := writer.CreatePart(filePartHeader(file))
		if err != nil {
			return resp, err
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return resp, err
		}
	}
	if err := writer.Close(); err != nil {
		return resp, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/users/"+formatID(id)+"/documents", body)
	if err != nil {
		return resp, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	httpResp, err := c.http.Do(req)
	if err != nil {
		return resp, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= 400 {
		return resp, decodeError(httpResp)
	}
	err = json.NewDecoder(httpResp.Body).Decode(&resp)
	return resp, err
}

// DownloadDocument streams one slot's bytes to w and returns the media
// type reported by the server.
func (c *Client) DownloadDocument(ctx context.Context, id int64, doctype models.DocType, w io.Writer) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/users/"+formatID(id)+"/documents/"+url.PathEscape(string(doctype)), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", decodeError(resp)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return "", err
	}
	return resp.Header.Get("Content-Type"), nil
}

func (c *Client) CreatePost(ctx context.Context, req PostCreateRequest) (models.Post, error) {
	var resp models.Post
	err := c.do(ctx, http.MethodPost, "/v1/posts", nil, req, &resp)
	return resp, err
}

func (c *Client) GetPost(ctx context.Context, id int64) (models.Post, error) {
	var resp models.Post
	err := c.do(ctx, http.MethodGet, "/v1/posts/"+formatID(id), nil, nil, &resp)
	return resp, err
}

func (c *Client) Feed(ctx context.Context) ([]models.Post, error) {
	var resp []models.Post
	err := c.do(ctx, http.MethodGet, "/v1/posts/feed", nil, nil, &resp)
	return resp, err
}

func (c *Client) FilterPosts(ctx context.Context, search string) ([]models.Post, error) {
	query := url.Values{"q": []string{search}}
	var resp []models.Post
	err := c.do(ctx, http.MethodGet, "/v1/posts/filter", query, nil, &resp)
	return resp, err
}

func (c *Client) PublishPost(ctx context.Context, id int64) (models.Post, error) {
	var resp models.Post
	err := c.do(ctx, http.MethodPost, "/v1/posts/"+formatID(id)+"/publish", nil, nil, &resp)
	return resp, err
}

func (c *Client) DeletePost(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/v1/posts/"+formatID(id), nil, nil, nil)
}

func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var resp []models.Category
	err := c.do(ctx, http.MethodGet, "/v1/categories", nil, nil, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
		return &APIError{
			Status:    resp.StatusCode,
			Code:      errResp.Code,
			ErrorCode: errResp.ErrorCode,
			Message:   errResp.Error,
		}
	}
	return &APIError{Status: resp.StatusCode, Message: resp.Status}
}

func filePartHeader(file UploadFile) textproto.MIMEHeader {
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, string(file.Slot), file.Filename))
	if file.MediaType != "" {
		header.Set("Content-Type", file.MediaType)
	}
	return header
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func httpTimeoutFromEnv() time.Duration {
	raw := strings.TrimSpace(os.Getenv(httpTimeoutEnvKey))
	if raw == "" {
		return defaultHTTPTimeout
	}
	if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
		return parsed
	}
	return defaultHTTPTimeout
}

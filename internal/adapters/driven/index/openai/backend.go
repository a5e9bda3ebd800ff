// Package openai provides a search index backend over OpenAI vector stores.
//
// Files are uploaded through the Files API with purpose "assistants" and
// then attached to a single vector store. Requests that fail with 429 or a
// 5xx status are retried with exponential backoff.
package openai

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
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/carriersync/internal/core/domain"
	"github.com/custodia-labs/carriersync/internal/core/ports/driven"
)

// Ensure Backend implements the interface.
var _ driven.IndexBackend = (*Backend)(nil)

// Default configuration values.
const (
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultTimeout     = 60 * time.Second
	DefaultMaxAttempts = 4
	DefaultRetryDelay  = time.Second

	// DefaultListLimit is the page size requested when listing files.
	DefaultListLimit = 100

	// FilePurpose is the purpose declared for uploaded files.
	FilePurpose = "assistants"
)

// Config holds configuration for the vector store backend.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// VectorStoreID is the target vector store (required).
	VectorStoreID string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	BaseURL string

	// Timeout is the per-request timeout (default: 60s).
	Timeout time.Duration

	// MaxAttempts bounds how often a retryable request is sent (default: 4).
	MaxAttempts int

	// RetryDelay is the initial backoff delay (default: 1s).
	RetryDelay time.Duration

	// RequestsPerSecond throttles outgoing requests. Zero means unlimited.
	RequestsPerSecond float64

	// Transport overrides the base HTTP transport.
	Transport http.RoundTripper
}

// Backend publishes files into an OpenAI vector store.
type Backend struct {
	client        *http.Client
	baseURL       string
	vectorStoreID string
	maxAttempts   int
	retryDelay    time.Duration
	limiter       *rate.Limiter
}

type fileObject struct {
	ID string `json:"id"`
}

type fileList struct {
	Data    []fileObject `json:"data"`
	HasMore bool         `json:"has_more"`
	LastID  string       `json:"last_id"`
}

type errorResponse struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// NewBackend creates a vector store backend.
func NewBackend(cfg Config) (*Backend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required: %w", domain.ErrConfigMissing)
	}
	if cfg.VectorStoreID == "" {
		return nil, fmt.Errorf("openai: vector store id is required: %w", domain.ErrConfigMissing)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.Transport == nil {
		cfg.Transport = http.DefaultTransport
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Backend{
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIKey}),
				Base:   cfg.Transport,
			},
		},
		baseURL:       cfg.BaseURL,
		vectorStoreID: cfg.VectorStoreID,
		maxAttempts:   cfg.MaxAttempts,
		retryDelay:    cfg.RetryDelay,
		limiter:       rate.NewLimiter(limit, 1),
	}, nil
}

// CreateFile uploads content as a multipart file and returns its id.
func (b *Backend) CreateFile(ctx context.Context, name, mediaType string, content []byte) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("purpose", FilePurpose); err != nil {
		return "", fmt.Errorf("write purpose: %w", err)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	h.Set("Content-Type", mediaType)
	part, err := w.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return "", fmt.Errorf("write file part: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close multipart body: %w", err)
	}

	var file fileObject
	err = b.do(ctx, http.MethodPost, "/files", w.FormDataContentType(), body.Bytes(), &file)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	if file.ID == "" {
		return "", fmt.Errorf("upload %s: %w: response carried no file id", name, domain.ErrIndexUnavailable)
	}
	return file.ID, nil
}

// AttachFile adds an uploaded file to the vector store.
func (b *Backend) AttachFile(ctx context.Context, fileID string) error {
	payload, err := json.Marshal(map[string]string{"file_id": fileID})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	return b.do(ctx, http.MethodPost, b.storePath("/files"), "application/json", payload, nil)
}

// ListFiles returns one page of file ids attached to the vector store.
func (b *Backend) ListFiles(ctx context.Context, after string) (*domain.IndexFilePage, error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprint(DefaultListLimit))
	if after != "" {
		q.Set("after", after)
	}

	var list fileList
	if err := b.do(ctx, http.MethodGet, b.storePath("/files")+"?"+q.Encode(), "", nil, &list); err != nil {
		return nil, fmt.Errorf("list vector store files: %w", err)
	}

	page := &domain.IndexFilePage{
		FileIDs: make([]string, 0, len(list.Data)),
		HasMore: list.HasMore,
		LastID:  list.LastID,
	}
	for _, f := range list.Data {
		page.FileIDs = append(page.FileIDs, f.ID)
	}
	if page.LastID == "" && len(page.FileIDs) > 0 {
		page.LastID = page.FileIDs[len(page.FileIDs)-1]
	}
	return page, nil
}

// DetachFile removes a file from the vector store without deleting it.
func (b *Backend) DetachFile(ctx context.Context, fileID string) error {
	return b.do(ctx, http.MethodDelete, b.storePath("/files/"+url.PathEscape(fileID)), "", nil, nil)
}

// DeleteFile deletes an uploaded file.
func (b *Backend) DeleteFile(ctx context.Context, fileID string) error {
	return b.do(ctx, http.MethodDelete, "/files/"+url.PathEscape(fileID), "", nil, nil)
}

func (b *Backend) storePath(suffix string) string {
	return "/vector_stores/" + url.PathEscape(b.vectorStoreID) + suffix
}

// do sends a request, retrying transient failures, and decodes a
// successful JSON response into out when out is non-nil.
func (b *Backend) do(ctx context.Context, method, path, contentType string, payload []byte, out any) error {
	return withRetry(ctx, b.maxAttempts, b.retryDelay, func() error {
		if err := b.limiter.Wait(ctx); err != nil {
			return err
		}
		var body io.Reader = http.NoBody
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, body)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		req.Header.Set("OpenAI-Beta", "assistants=v2")

		resp, err := b.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &errRetryable{err: fmt.Errorf("send request: %w: %w", domain.ErrIndexUnavailable, err)}
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return &errRetryable{err: fmt.Errorf("read response: %w: %w", domain.ErrIndexUnavailable, err)}
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			apiErr := decodeError(resp.StatusCode, data)
			if retryable(resp.StatusCode) {
				return &errRetryable{err: apiErr, after: retryAfter(resp)}
			}
			return apiErr
		}

		if out == nil || len(data) == 0 {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	})
}

func decodeError(status int, data []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var er errorResponse
	if err := json.Unmarshal(data, &er); err == nil && er.Error != nil {
		apiErr.Message = er.Error.Message
		apiErr.Type = er.Error.Type
		apiErr.Code = er.Error.Code
		return apiErr
	}
	apiErr.Message = string(bytes.TrimSpace(data))
	return apiErr
}

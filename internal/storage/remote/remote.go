// Package remote implements storage.Store as an HTTP client for the sync
// backend's JSON document API. Failures are classified so callers can tell
// retryable conditions apart: an unreachable or erroring backend maps to
// models.ErrTransient, a missing document to models.ErrNotFound, and a
// rejected payload to models.ErrMalformed.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"traveltracker/internal/models"
	"traveltracker/internal/storage"
)

var _ storage.Store = (*Client)(nil)

// Client talks to a sync backend over HTTP.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a client for the backend at baseURL, authenticating with the
// given bearer token. A nil httpClient falls back to a client with a 30s
// timeout.
func New(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    httpClient,
	}
}

// SetToken replaces the bearer token, e.g. after a login refresh.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Put uploads the document, replacing any existing copy with the same id.
func (c *Client) Put(ctx context.Context, e models.Entity) error {
	body, err := models.MarshalDocument(e)
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, http.MethodPut, c.documentURL(e.UUID()), body)
	if err != nil {
		return models.NewDocumentError("put", e.UUID(), err)
	}
	defer drain(resp)

	if err := c.checkStatus(resp); err != nil {
		return models.NewDocumentError("put", e.UUID(), err)
	}
	return nil
}

// Get fetches a document by id.
func (c *Client) Get(ctx context.Context, id uuid.UUID) (models.Entity, error) {
	resp, err := c.do(ctx, http.MethodGet, c.documentURL(id), nil)
	if err != nil {
		return nil, models.NewDocumentError("get", id, err)
	}
	defer drain(resp)

	if err := c.checkStatus(resp); err != nil {
		return nil, models.NewDocumentError("get", id, err)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.NewDocumentError("get", id, fmt.Errorf("%w: %v", models.ErrTransient, err))
	}
	return models.UnmarshalDocument(data)
}

// Delete removes a document by id.
func (c *Client) Delete(ctx context.Context, id uuid.UUID) error {
	resp, err := c.do(ctx, http.MethodDelete, c.documentURL(id), nil)
	if err != nil {
		return models.NewDocumentError("delete", id, err)
	}
	defer drain(resp)

	if err := c.checkStatus(resp); err != nil {
		return models.NewDocumentError("delete", id, err)
	}
	return nil
}

// ListByKind fetches all documents of one kind, optionally narrowed to an
// owner id.
func (c *Client) ListByKind(ctx context.Context, kind models.Kind, owner uuid.UUID) ([]models.Entity, error) {
	query := url.Values{"kind": {kind.String()}}
	if owner != uuid.Nil {
		query.Set("owner", owner.String())
	}
	return c.list(ctx, c.baseURL+"/v1/documents?"+query.Encode())
}

// ListAll fetches every document, for bulk loading.
func (c *Client) ListAll(ctx context.Context) ([]models.Entity, error) {
	return c.list(ctx, c.baseURL+"/v1/documents")
}

// Close is a no-op; the underlying http.Client needs no teardown.
func (c *Client) Close() error { return nil }

func (c *Client) list(ctx context.Context, listURL string) ([]models.Entity, error) {
	resp, err := c.do(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer drain(resp)

	if err := c.checkStatus(resp); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w: %v", models.ErrTransient, err)
	}
	return unmarshalList(data)
}

func (c *Client) documentURL(id uuid.UUID) string {
	return c.baseURL + "/v1/documents/" + id.String()
}

func (c *Client) do(ctx context.Context, method, reqURL string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Connection refused, DNS failure, timeout: all retryable.
		return nil, fmt.Errorf("%w: %v", models.ErrTransient, err)
	}
	return resp, nil
}

// checkStatus maps HTTP status codes onto the error taxonomy.
func (c *Client) checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return models.ErrNotFound
	case resp.StatusCode == http.StatusBadRequest,
		resp.StatusCode == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: backend rejected payload", models.ErrMalformed)
	case resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("backend refused credentials: %s", resp.Status)
	case resp.StatusCode == http.StatusRequestTimeout,
		resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode >= 500:
		return fmt.Errorf("%w: %s", models.ErrTransient, resp.Status)
	default:
		return fmt.Errorf("unexpected backend status: %s", resp.Status)
	}
}

// unmarshalList decodes a JSON array of document envelopes.
func unmarshalList(data []byte) ([]models.Entity, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrMalformed, err)
	}
	entities := make([]models.Entity, 0, len(raw))
	for _, doc := range raw {
		e, err := models.UnmarshalDocument(doc)
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, nil
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/alfredjeanlab/lanes/internal/automation"
	"github.com/alfredjeanlab/lanes/internal/model"
)

// Identity is the actor the client acts as. It is forwarded on every
// request through the identity headers the server trusts.
type Identity struct {
	ActorID   string
	Roles     []string
	Superuser bool
}

// HTTPClient implements LanesClient using the lanes HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	identity   Identity
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string, identity Identity) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		identity:   identity,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Automations ---

func (c *HTTPClient) ListAutomations(ctx context.Context) ([]automation.Descriptor, error) {
	var resp struct {
		Automations []automation.Descriptor `json:"automations"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/automations", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Automations, nil
}

func (c *HTTPClient) GetSchema(ctx context.Context, kind string) (*automation.Descriptor, error) {
	var desc automation.Descriptor
	if err := c.doJSON(ctx, http.MethodGet, "/v1/automations/"+url.PathEscape(kind)+"/schema", nil, &desc); err != nil {
		return nil, err
	}
	return &desc, nil
}

// --- Submissions ---

func (c *HTTPClient) Submit(ctx context.Context, kind string, payload json.RawMessage) (*SubmitResponse, error) {
	var resp SubmitResponse
	path := "/v1/automations/" + url.PathEscape(kind) + "/submit"
	if err := c.doRaw(ctx, http.MethodPost, path, payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ListSubmissions(ctx context.Context, kind string, req *ListSubmissionsRequest) (*ListSubmissionsResponse, error) {
	q := url.Values{}
	if len(req.Status) > 0 {
		q.Set("status", strings.Join(req.Status, ","))
	}
	if req.ActorID != "" {
		q.Set("actor_id", req.ActorID)
	}
	if req.Limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", req.Limit))
	}
	if req.Offset > 0 {
		q.Set("offset", fmt.Sprintf("%d", req.Offset))
	}

	path := "/v1/automations/" + url.PathEscape(kind) + "/submissions"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp ListSubmissionsResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) GetSubmission(ctx context.Context, kind, id string) (*model.Submission, error) {
	var sub model.Submission
	path := "/v1/automations/" + url.PathEscape(kind) + "/submissions/" + url.PathEscape(id)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (c *HTTPClient) Download(ctx context.Context, kind, id string) (*DownloadResponse, error) {
	path := "/v1/automations/" + url.PathEscape(kind) + "/submissions/" + url.PathEscape(id) + "/download"
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, apiError(resp.StatusCode, body)
	}

	return &DownloadResponse{
		Data:        body,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

func (c *HTTPClient) GetSubmissionEvents(ctx context.Context, kind, id string) ([]*model.AuditEvent, error) {
	var resp struct {
		Events []*model.AuditEvent `json:"events"`
	}
	path := "/v1/automations/" + url.PathEscape(kind) + "/submissions/" + url.PathEscape(id) + "/events"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Events, nil
}

// --- Catalog ---

func (c *HTTPClient) GetCatalog(ctx context.Context) (*CatalogResponse, error) {
	var resp CatalogResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/catalog", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) GetNavigation(ctx context.Context) ([]model.Group, error) {
	var resp struct {
		Groups []model.Group `json:"groups"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/navigation", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Groups, nil
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// --- internal helpers ---

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

func apiError(status int, body []byte) error {
	var errResp struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		return &APIError{StatusCode: status, Message: errResp.Error}
	}
	return &APIError{StatusCode: status, Message: string(body)}
}

// newRequest builds a request with auth and identity headers set.
func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.identity.ActorID != "" {
		req.Header.Set("X-Actor-Id", c.identity.ActorID)
	}
	if len(c.identity.Roles) > 0 {
		req.Header.Set("X-Actor-Roles", strings.Join(c.identity.Roles, ","))
	}
	if c.identity.Superuser {
		req.Header.Set("X-Actor-Superuser", "true")
	}
	return req, nil
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded (for 204 responses).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var raw json.RawMessage
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		raw = data
	}
	return c.doRaw(ctx, method, path, raw, result)
}

// doRaw performs an HTTP request with an already-serialized JSON body.
func (c *HTTPClient) doRaw(ctx context.Context, method, path string, body json.RawMessage, result any) error {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := c.newRequest(ctx, method, path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	// 204 No Content — success with no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return apiError(resp.StatusCode, respBody)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}

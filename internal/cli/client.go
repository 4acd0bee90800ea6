// Package cli implements dispatchctl, the command line client for the
// dispatch HTTP API. It speaks plain HTTP and imports none of the server's
// internal packages.
package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ── Wire types ───────────────────────────────────────────────────────────────
// These mirror the server's JSON shapes.

type ExecutorResponse struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Params        map[string]string `json:"parameters"`
	TotalAssigned int               `json:"total_assigned"`
	IsActive      bool              `json:"is_active"`
	CreatedAt     string            `json:"created_at"`
}

type RequestResponse struct {
	ID         string         `json:"id"`
	Params     map[string]any `json:"parameters"`
	Status     string         `json:"status"`
	AssignedTo string         `json:"assigned_to,omitempty"`
	AssignedAt string         `json:"assigned_at,omitempty"`
	CreatedAt  string         `json:"created_at"`
}

type BulkResponse struct {
	Created int      `json:"created"`
	IDs     []string `json:"ids"`
}

type ExecutorStatsResponse struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Params        map[string]string `json:"parameters"`
	IsActive      bool              `json:"is_active"`
	TotalAssigned int               `json:"total_assigned"`
	ActualCount   int               `json:"actual_count"`
}

type StatsResponse struct {
	Total            int                     `json:"total_requests"`
	Pending          int                     `json:"pending_requests"`
	Assigned         int                     `json:"assigned_requests"`
	Completed        int                     `json:"completed_requests"`
	ActiveExecutors  int                     `json:"active_executors"`
	Executors        []ExecutorStatsResponse `json:"executor_stats"`
	ImbalancePercent float64                 `json:"distribution_error_percent"`
}

type CreateExecutorRequest struct {
	Name   string            `json:"name"`
	Params map[string]string `json:"parameters,omitempty"`
}

type UpdateExecutorRequest struct {
	Name     *string            `json:"name,omitempty"`
	Params   *map[string]string `json:"parameters,omitempty"`
	IsActive *bool              `json:"is_active,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ── Client ───────────────────────────────────────────────────────────────────

// Client is an HTTP client for the dispatch API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ── Executors ────────────────────────────────────────────────────────────────

func (c *Client) CreateExecutor(req CreateExecutorRequest) (*ExecutorResponse, error) {
	var exec ExecutorResponse
	err := c.post("/api/executors", req, &exec)
	return &exec, err
}

// ListExecutors returns executors, optionally filtered by active state.
func (c *Client) ListExecutors(active *bool) ([]ExecutorResponse, error) {
	path := "/api/executors"
	if active != nil {
		params := url.Values{}
		params.Set("active", strconv.FormatBool(*active))
		path += "?" + params.Encode()
	}
	var execs []ExecutorResponse
	err := c.get(path, &execs)
	return execs, err
}

func (c *Client) GetExecutor(id string) (*ExecutorResponse, error) {
	var exec ExecutorResponse
	err := c.get("/api/executors/"+id, &exec)
	return &exec, err
}

func (c *Client) UpdateExecutor(id string, req UpdateExecutorRequest) (*ExecutorResponse, error) {
	var exec ExecutorResponse
	err := c.patch("/api/executors/"+id, req, &exec)
	return &exec, err
}

func (c *Client) DeleteExecutor(id string) error {
	return c.delete("/api/executors/" + id)
}

// PullNext asks the server to assign executor id its next request. A nil
// result with a nil error means the executor is unknown, inactive, or the
// queue holds nothing for it.
func (c *Client) PullNext(id string) (*RequestResponse, error) {
	resp, err := c.send(http.MethodPost, "/api/executors/"+id+"/pull", nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	var req RequestResponse
	if err := json.NewDecoder(resp.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &req, nil
}

// ── Requests ─────────────────────────────────────────────────────────────────

func (c *Client) CreateRequest(params map[string]any) (*RequestResponse, error) {
	var req RequestResponse
	err := c.post("/api/requests", params, &req)
	return &req, err
}

// BulkCreateRequests creates several requests in one call. A non-empty
// idempotencyKey makes the call replayable: repeating the key returns the
// original result instead of creating duplicates.
func (c *Client) BulkCreateRequests(requests []map[string]any, idempotencyKey string) (*BulkResponse, error) {
	body := map[string]any{"requests": requests}
	resp, err := c.send(http.MethodPost, "/api/requests/bulk", body, idempotencyKey)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return nil, err
	}

	var bulk BulkResponse
	if err := json.NewDecoder(resp.Body).Decode(&bulk); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &bulk, nil
}

func (c *Client) GetRequest(id string) (*RequestResponse, error) {
	var req RequestResponse
	err := c.get("/api/requests/"+id, &req)
	return &req, err
}

// RecentRequests returns the newest requests, up to limit. Zero means the
// server default.
func (c *Client) RecentRequests(limit int) ([]RequestResponse, error) {
	path := "/api/requests/recent"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var reqs []RequestResponse
	err := c.get(path, &reqs)
	return reqs, err
}

func (c *Client) CompleteRequest(id string) (*RequestResponse, error) {
	var req RequestResponse
	err := c.post("/api/requests/"+id+"/complete", nil, &req)
	return &req, err
}

// ── Distribution ─────────────────────────────────────────────────────────────

// AutoDistribute spreads the given request ids across active executors and
// returns the number assigned.
func (c *Client) AutoDistribute(requestIDs []string) (int, error) {
	body := map[string][]string{"request_ids": requestIDs}
	var result struct {
		Assigned int `json:"assigned"`
	}
	if err := c.post("/api/distribution/auto", body, &result); err != nil {
		return 0, err
	}
	return result.Assigned, nil
}

// LeastLoaded returns the active executor with the fewest assignments, or nil
// when no executor is active.
func (c *Client) LeastLoaded() (*ExecutorResponse, error) {
	resp, err := c.send(http.MethodGet, "/api/distribution/least-loaded", nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	var exec ExecutorResponse
	if err := json.NewDecoder(resp.Body).Decode(&exec); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &exec, nil
}

func (c *Client) Stats() (*StatsResponse, error) {
	var stats StatsResponse
	err := c.get("/api/distribution/stats", &stats)
	return &stats, err
}

// ── HTTP helpers ─────────────────────────────────────────────────────────────

func (c *Client) get(path string, result any) error {
	return c.doJSON(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body, result any) error {
	return c.doJSON(http.MethodPost, path, body, result)
}

func (c *Client) patch(path string, body, result any) error {
	return c.doJSON(http.MethodPatch, path, body, result)
}

func (c *Client) delete(path string) error {
	resp, err := c.send(http.MethodDelete, path, nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.checkError(resp)
}

func (c *Client) doJSON(method, path string, body, result any) error {
	resp, err := c.send(method, path, body, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}
	if resp.StatusCode == http.StatusNoContent || result == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *Client) send(method, path string, body any, idempotencyKey string) (*http.Response, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil || er.Error == "" {
		return fmt.Errorf("server returned HTTP %d", resp.StatusCode)
	}
	return fmt.Errorf("%s (HTTP %d)", er.Error, resp.StatusCode)
}

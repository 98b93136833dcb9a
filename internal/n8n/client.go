// Package n8n is a thin client for the n8n REST API, covering the two
// calls the tool needs: listing workflows and fetching one by id.
package n8n

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/binalyze/n8n-workflow-tool/internal/errors"
	"github.com/binalyze/n8n-workflow-tool/internal/logger"
)

// apiKeyHeader carries the API token on every request.
const apiKeyHeader = "X-N8N-API-KEY"

// maxRawErrorLen bounds how much of a non-JSON error body is surfaced.
const maxRawErrorLen = 200

// WorkflowSummary is one element of the workflow list. Only id and name
// are inspected; everything else the server returns is ignored here.
type WorkflowSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// workflowList matches the {data: [...]} envelope of the list endpoint.
type workflowList struct {
	Data []WorkflowSummary `json:"data"`
}

// APIError is a non-2xx response from the n8n API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Message)
}

// newAPIError builds an APIError from a response, preferring the body's
// "message" field when the body parses as JSON and falling back to the
// first 200 characters of raw text.
func newAPIError(resp *resty.Response) *APIError {
	body := resp.Body()

	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		return &APIError{StatusCode: resp.StatusCode(), Message: parsed.Message}
	}

	text := strings.TrimSpace(string(body))
	if len(text) > maxRawErrorLen {
		text = text[:maxRawErrorLen]
	}
	return &APIError{StatusCode: resp.StatusCode(), Message: text}
}

// Client talks to a single n8n instance. Requests carry the API token
// and are never retried; any failure is fatal to the invocation.
type Client struct {
	rest *resty.Client
}

// NewClient returns a client for the given instance URL and API token.
func NewClient(instanceURL, apiToken string) *Client {
	rest := resty.New().
		SetBaseURL(strings.TrimRight(instanceURL, "/")).
		SetTimeout(30*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader(apiKeyHeader, apiToken)

	return &Client{rest: rest}
}

// ListWorkflows fetches the workflow list.
func (c *Client) ListWorkflows(ctx context.Context) ([]WorkflowSummary, error) {
	var list workflowList

	resp, err := c.rest.R().
		SetContext(ctx).
		SetResult(&list).
		Get("/api/v1/workflows")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrAPIRequestFailed, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: %w", errors.ErrAPIRequestFailed, newAPIError(resp))
	}

	logger.LogDebug("Listed workflows", map[string]interface{}{
		"count": len(list.Data),
	})
	return list.Data, nil
}

// GetWorkflow fetches the full definition of a workflow by id. The
// response body is returned unmodified.
func (c *Client) GetWorkflow(ctx context.Context, id string) (json.RawMessage, error) {
	resp, err := c.rest.R().
		SetContext(ctx).
		Get("/api/v1/workflows/" + url.PathEscape(id))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrAPIRequestFailed, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: %w", errors.ErrAPIRequestFailed, newAPIError(resp))
	}

	return json.RawMessage(resp.Body()), nil
}

// FetchWorkflowByName lists all workflows, scans for the first exact
// name match, and fetches its full definition.
func (c *Client) FetchWorkflowByName(ctx context.Context, name string) (json.RawMessage, error) {
	workflows, err := c.ListWorkflows(ctx)
	if err != nil {
		return nil, err
	}

	for _, wf := range workflows {
		if wf.Name == name {
			return c.GetWorkflow(ctx, wf.ID)
		}
	}

	return nil, fmt.Errorf("%w: '%s'", errors.ErrWorkflowNotFound, name)
}

// Probe checks that the instance is reachable and the token accepted.
// It reports failure detail to out and never returns an error.
func (c *Client) Probe(ctx context.Context, out io.Writer) bool {
	resp, err := c.rest.R().
		SetContext(ctx).
		Get("/api/v1/workflows")
	if err != nil {
		fmt.Fprintf(out, "\n❌ API Connection Test Failed:\n")
		fmt.Fprintf(out, "   %v\n", err)
		return false
	}
	if !resp.IsSuccess() {
		apiErr := newAPIError(resp)
		fmt.Fprintf(out, "\n❌ API Connection Test Failed:\n")
		fmt.Fprintf(out, "   Status Code: %d\n", apiErr.StatusCode)
		fmt.Fprintf(out, "   Error Message: %s\n", apiErr.Message)
		return false
	}

	return true
}

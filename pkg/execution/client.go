// Package execution provides the client that triggers a workflow on the remote automation webhook.
package execution

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/otelhelper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultAPIBase is the path prefix every workflow endpoint is appended to.
const DefaultAPIBase = "/webhook-test"

const tracerName = "github.com/dukex/leadflow/pkg/execution"

// Executor triggers a workflow endpoint with a form payload.
type Executor interface {
	Execute(ctx context.Context, endpoint string, payload models.FormValues) (*Response, error)
}

// Response is the decoded reply of a successful webhook call.
type Response struct {
	StatusCode int `json:"status_code"`
	Body       any `json:"body"`
}

// Config configures a Client.
type Config struct {
	// BaseURL is the scheme and host of the automation server, e.g. http://localhost:5678.
	BaseURL string
	// APIBase is the path prefix placed before each endpoint. Defaults to DefaultAPIBase.
	APIBase string
	// Timeout bounds a single call. Zero leaves the transport defaults in charge.
	Timeout time.Duration
	// HTTPClient overrides the underlying client.
	HTTPClient *http.Client
}

// Client posts form values as JSON to <BaseURL><APIBase><endpoint>.
type Client struct {
	baseURL    string
	apiBase    string
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
}

// NewClient creates a webhook execution client.
func NewClient(config Config, logger *slog.Logger) *Client {
	apiBase := config.APIBase
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		apiBase:    normalizeAPIBase(apiBase),
		httpClient: httpClient,
		logger:     logger.With("module", "execution_client"),
		tracer:     otel.Tracer(tracerName),
	}
}

// normalizeAPIBase returns the prefix with one leading slash and no trailing
// one. A prefix of only slashes becomes empty.
func normalizeAPIBase(apiBase string) string {
	trimmed := strings.Trim(apiBase, "/")
	if trimmed == "" {
		return ""
	}

	return "/" + trimmed
}

// URL returns the full target URL for an endpoint.
func (c *Client) URL(endpoint string) string {
	return c.baseURL + c.apiBase + endpoint
}

// Execute sends the payload to the endpoint. Network failures, non-2xx statuses
// and bodies that are empty or not JSON all return a *TransportError; nothing
// is retried.
func (c *Client) Execute(ctx context.Context, endpoint string, payload models.FormValues) (*Response, error) {
	target := c.URL(endpoint)

	ctx, span := otelhelper.StartSpan(ctx, c.tracer, "execution.execute",
		attribute.String(otelhelper.EndpointKey, endpoint),
		attribute.String(otelhelper.TargetURLKey, target),
	)
	defer span.End()

	resp, err := c.post(ctx, endpoint, target, payload)
	if err != nil {
		otelhelper.SetError(span, err, attribute.String(otelhelper.EndpointKey, endpoint))
		c.logger.ErrorContext(ctx, "Workflow webhook call failed", "endpoint", endpoint, "error", err)

		return nil, err
	}

	span.SetAttributes(attribute.Int(otelhelper.StatusCodeKey, resp.StatusCode))
	span.SetStatus(codes.Ok, "")
	c.logger.InfoContext(ctx, "Workflow webhook call succeeded", "endpoint", endpoint, "status", resp.StatusCode)

	return resp, nil
}

func (c *Client) post(ctx context.Context, endpoint, target string, payload models.FormValues) (*Response, error) {
	if payload == nil {
		payload = models.FormValues{}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: fmt.Errorf("failed to encode payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: fmt.Errorf("failed to create request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: fmt.Errorf("request failed: %w", err)}
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.WarnContext(ctx, "Failed to close response body", "error", err)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: ErrUnexpectedStatus}
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil, &TransportError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: ErrEmptyResponse}
	}

	result := &Response{StatusCode: resp.StatusCode}

	if err := json.Unmarshal(respBody, &result.Body); err != nil {
		return nil, &TransportError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return result, nil
}

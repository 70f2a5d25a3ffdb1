// Package api is the typed client for the PiOrchestrator REST/SSE API.
//
// Each method builds one request, issues it, classifies non-2xx outcomes into
// a categorized *Error, and runs 2xx bodies through the contract layer before
// anything else in the dashboard sees them.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/shelfsense/pidash/internal/contract"
)

var (
	orchestratorRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orchestrator_client_requests_total",
			Help: "Total orchestrator API requests by method and outcome code.",
		},
		[]string{"method", "code"},
	)
	orchestratorValidationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orchestrator_contract_failures_total",
			Help: "Responses rejected by contract validation, per resource.",
		},
		[]string{"resource"},
	)
)

func init() {
	prometheus.MustRegister(orchestratorRequestsTotal)
	prometheus.MustRegister(orchestratorValidationFailures)
}

// Config holds client construction parameters.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	// AllowBarePayloads enables the resilient parse strategy: a response
	// missing the envelope wrapper is still accepted when the bare payload
	// validates. Deliberately configurable rather than hard-coded.
	AllowBarePayloads bool
}

// Client wraps the PiOrchestrator REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	allowBare  bool
	logger     *zap.Logger
}

// New creates an orchestrator API client.
func New(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		allowBare:  cfg.AllowBarePayloads,
		logger:     logger,
	}
}

// BaseURL returns the configured orchestrator base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) unwrapOpts() contract.UnwrapOptions {
	return contract.UnwrapOptions{AllowBare: c.allowBare}
}

// do performs one HTTP exchange and returns the raw 2xx body. Non-2xx
// statuses and transport failures come back as a categorized *Error.
func (c *Client) do(ctx context.Context, method, path, resource string, body any) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Correlation-ID", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		orchestratorRequestsTotal.WithLabelValues(method, string(CodeNetwork)).Inc()
		return nil, &Error{
			Code:      CodeNetwork,
			Resource:  resource,
			Message:   err.Error(),
			Retryable: true,
			Err:       err,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		orchestratorRequestsTotal.WithLabelValues(method, string(CodeNetwork)).Inc()
		return nil, &Error{
			Code:      CodeNetwork,
			Resource:  resource,
			Message:   fmt.Sprintf("read response: %v", err),
			Retryable: true,
			Err:       err,
		}
	}

	if resp.StatusCode >= 400 {
		apiErr := c.classify(resp.StatusCode, respBody, resource)
		orchestratorRequestsTotal.WithLabelValues(method, string(apiErr.Code)).Inc()
		return nil, apiErr
	}

	orchestratorRequestsTotal.WithLabelValues(method, "ok").Inc()
	return respBody, nil
}

func (c *Client) get(ctx context.Context, path, resource string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, resource, nil)
}

// classify maps a non-2xx response to the error taxonomy. The orchestrator's
// error envelope, when parseable, supplies code, message, retryability, and
// the correlation id; the HTTP status decides the category.
func (c *Client) classify(status int, body []byte, resource string) *Error {
	apiErr := &Error{
		Resource:   resource,
		HTTPStatus: status,
		Message:    http.StatusText(status),
	}

	var env contract.Envelope
	if err := json.Unmarshal(body, &env); err == nil {
		apiErr.CorrelationID = env.CorrelationID
		if env.Error != nil {
			apiErr.Message = env.Error.Message
			apiErr.Retryable = env.Error.Retryable
			apiErr.RetryAfterSec = env.Error.RetryAfterSeconds
			if env.Error.Code == "feature_unavailable" || env.Error.Code == "not_implemented" {
				apiErr.Code = CodeUnavailable
				apiErr.Retryable = false
				return apiErr
			}
		}
	}

	switch {
	case status == http.StatusNotFound:
		apiErr.Code = CodeNotFound
		apiErr.Retryable = false
	case status == http.StatusServiceUnavailable || status == http.StatusNotImplemented:
		apiErr.Code = CodeUnavailable
		apiErr.Retryable = false
	case status >= 500:
		apiErr.Code = CodeServer
		apiErr.Retryable = true
	default:
		apiErr.Code = CodeClient
		apiErr.Retryable = false
	}
	return apiErr
}

// validationError wraps a contract failure, preserving envelope metadata.
func (c *Client) validationError(resource string, env *contract.Envelope, err error) *Error {
	orchestratorValidationFailures.WithLabelValues(resource).Inc()
	apiErr := &Error{
		Code:      CodeValidation,
		Resource:  resource,
		Message:   err.Error(),
		Retryable: false,
		Err:       err,
	}
	if env != nil {
		apiErr.CorrelationID = env.CorrelationID
	}
	c.logger.Warn("orchestrator response failed contract validation",
		zap.String("resource", resource),
		zap.String("correlation_id", apiErr.CorrelationID),
		zap.Error(err),
	)
	return apiErr
}

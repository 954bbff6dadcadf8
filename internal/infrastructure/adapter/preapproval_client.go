package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/cuotakiwi/quote-service/internal/domain/model"
	"github.com/cuotakiwi/quote-service/internal/domain/port"
)

// maxResponseBytes caps the size of a pre-approval response body.
const maxResponseBytes = 1 << 20

// PreApprovalClientConfig holds configuration for the HTTP pre-approval adapter.
type PreApprovalClientConfig struct {
	// URL is the pre-approval endpoint.
	URL string
	// Timeout bounds a single attempt.
	Timeout time.Duration
	// MaxRetries is the number of retries after the first attempt on
	// transient failures.
	MaxRetries int
	// InitialBackoff is the first wait between attempts. It grows
	// exponentially with jitter.
	InitialBackoff time.Duration
}

// PreApprovalClient calls the pre-approval HTTP API. It implements
// port.PreApprovalSource.
//
// Network errors and 5xx responses are retried with exponential backoff.
// Other non-2xx responses and malformed bodies fail immediately.
type PreApprovalClient struct {
	config PreApprovalClientConfig
	client *http.Client
	logger *slog.Logger
}

// NewPreApprovalClient creates a client. A nil httpClient uses one with
// config.Timeout.
func NewPreApprovalClient(config PreApprovalClientConfig, httpClient *http.Client, logger *slog.Logger) *PreApprovalClient {
	if config.InitialBackoff <= 0 {
		config.InitialBackoff = 200 * time.Millisecond
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}
	return &PreApprovalClient{config: config, client: httpClient, logger: logger}
}

// Request sends the applicant data and decodes the response.
func (c *PreApprovalClient) Request(ctx context.Context, req port.PreApprovalRequest) (port.PreApprovalResult, error) {
	body, err := json.Marshal(toWireRequest(req))
	if err != nil {
		return port.PreApprovalResult{}, fmt.Errorf("marshal pre-approval request: %w", err)
	}

	var result port.PreApprovalResult
	operation := func() error {
		r, err := c.attempt(ctx, body)
		if err != nil {
			return err
		}
		result = r
		return nil
	}

	notify := func(err error, wait time.Duration) {
		c.logger.WarnContext(ctx, "pre-approval attempt failed, retrying",
			"error", err,
			"wait", wait,
			"branch_id", req.BranchID,
		)
	}

	if err := backoff.RetryNotify(operation, c.newBackOff(ctx), notify); err != nil {
		return port.PreApprovalResult{}, err
	}
	return result, nil
}

func (c *PreApprovalClient) newBackOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.config.InitialBackoff
	exp.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(c.config.MaxRetries)), ctx)
}

// attempt performs one HTTP round trip. Errors wrapped in
// backoff.Permanent stop the retry loop.
func (c *PreApprovalClient) attempt(ctx context.Context, body []byte) (port.PreApprovalResult, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, bytes.NewReader(body))
	if err != nil {
		return port.PreApprovalResult{}, backoff.Permanent(fmt.Errorf("build pre-approval request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return port.PreApprovalResult{}, backoff.Permanent(fmt.Errorf("%w: %w", model.ErrTransport, ctxErr))
		}
		return port.PreApprovalResult{}, fmt.Errorf("%w: %w", model.ErrTransport, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return port.PreApprovalResult{}, fmt.Errorf("%w: read body: %w", model.ErrTransport, err)
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return port.PreApprovalResult{}, fmt.Errorf("%w: status %d", model.ErrTransport, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return port.PreApprovalResult{}, backoff.Permanent(
			fmt.Errorf("%w: status %d", model.ErrTransport, resp.StatusCode))
	}

	result, err := DecodeResponse(payload)
	if err != nil {
		var decodeErr *model.DecodeError
		if errors.As(err, &decodeErr) {
			c.logger.ErrorContext(ctx, "malformed pre-approval response", "field", decodeErr.Field, "error", decodeErr.Err)
		}
		return port.PreApprovalResult{}, backoff.Permanent(err)
	}
	return result, nil
}

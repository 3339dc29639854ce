// Package enhance wraps the external generative enhancement service and
// provides the deterministic rule-based fallback used when the service is
// unavailable or returns a payload that fails schema validation.
package enhance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"goalpath/pkg/circuitbreaker"
	"goalpath/pkg/config"
	"goalpath/pkg/metrics"
	"goalpath/pkg/util"
)

// ErrMalformedResponse marks a response that parsed but failed schema
// validation, or did not parse at all. Callers catch it and take the
// fallback path; it never reaches the UI as a raw parse failure.
var ErrMalformedResponse = errors.New("malformed enhancement response")

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cb         *circuitbreaker.CircuitBreaker
	logger     *zap.Logger
}

func NewClient(cfg config.EnhanceConfig, logger *zap.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cb:     circuitbreaker.New(circuitbreaker.DefaultConfig()),
		logger: logger,
	}
}

// EnhanceGoal asks the service for an action/milestone breakdown of a
// freshly created goal.
func (c *Client) EnhanceGoal(ctx context.Context, req EnhanceGoalRequest) (*EnhanceGoalResponse, error) {
	var resp EnhanceGoalResponse
	if err := c.post(ctx, "/enhance-goal", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Actions) == 0 {
		return nil, fmt.Errorf("%w: no actions suggested", ErrMalformedResponse)
	}
	return &resp, nil
}

// BreakDownAction asks the service for 3-5 sub-steps of one action.
func (c *Client) BreakDownAction(ctx context.Context, req BreakdownRequest) (*BreakdownResponse, error) {
	var resp BreakdownResponse
	if err := c.post(ctx, "/breakdown-action", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.SubActions) == 0 {
		return nil, fmt.Errorf("%w: no sub-actions suggested", ErrMalformedResponse)
	}
	return &resp, nil
}

// EstimateActionTime asks for a minute estimate for one action. There is no
// fallback for estimates; the error is the caller's to report.
func (c *Client) EstimateActionTime(ctx context.Context, req EstimateRequest) (int, error) {
	var resp estimateResponse
	if err := c.post(ctx, "/estimate-time", req, &resp); err != nil {
		return 0, err
	}
	if resp.EstimatedMinutes <= 0 {
		return 0, fmt.Errorf("%w: non-positive estimate", ErrMalformedResponse)
	}
	return resp.EstimatedMinutes, nil
}

// AnalyzeTask returns the read-only analysis blocks for one task.
func (c *Client) AnalyzeTask(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponse, error) {
	var resp AnalyzeResponse
	if err := c.post(ctx, "/analyze-task", req, &resp); err != nil {
		return nil, err
	}
	if resp.Summary == "" {
		return nil, fmt.Errorf("%w: empty analysis", ErrMalformedResponse)
	}
	return &resp, nil
}

// GenerateTools returns a productivity-tool bundle derived from the user's
// current goals.
func (c *Client) GenerateTools(ctx context.Context, req ToolsRequest) (*ToolsBundle, error) {
	var resp toolsResponse
	if err := c.post(ctx, "/generate-tools", req, &resp); err != nil {
		return nil, err
	}
	if resp.Tools == nil {
		return nil, fmt.Errorf("%w: empty tools payload", ErrMalformedResponse)
	}
	return resp.Tools, nil
}

func (c *Client) post(ctx context.Context, endpoint string, in, out interface{}) error {
	start := time.Now()

	err := c.cb.Execute(func() error {
		err := c.doPost(ctx, endpoint, in, out)
		if err == nil {
			return nil
		}
		if retryable, kind := util.IsRetryableError(err); retryable {
			c.logger.Warn("Enhancement call failed, retrying once",
				zap.String("endpoint", endpoint),
				zap.String("error_type", kind),
				zap.Error(err),
			)
			return c.doPost(ctx, endpoint, in, out)
		}
		return err
	})

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.RecordEnhanceCallLatency(endpoint, status, time.Since(start))

	if err != nil {
		c.logger.Warn("Enhancement call failed",
			zap.String("endpoint", endpoint),
			zap.Error(err),
		)
	}
	return err
}

func (c *Client) doPost(ctx context.Context, endpoint string, in, out interface{}) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("enhancement service 5xx: %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("enhancement service error: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

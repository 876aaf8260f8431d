package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/felixgeelhaar/fortify/timeout"
	"golang.org/x/time/rate"

	"github.com/rcliao/harbour/internal/domain"
)

type httpClient struct {
	baseURL    string
	httpClient *http.Client
	timeoutCfg timeout.Config
	limiter    *rate.Limiter
}

func newHTTPClient(cfg Config) *httpClient {
	c := &httpClient{
		baseURL:    cfg.BaseURL,
		httpClient: cfg.HTTPClient,
		timeoutCfg: timeout.Config{DefaultTimeout: cfg.Timeout},
	}
	if cfg.RatePerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(float64(cfg.RatePerMinute)/60.0), cfg.Burst)
	}
	return c
}

// Analyze calls POST /api/tasks/analyze/.
func (c *httpClient) Analyze(ctx context.Context, req Request) ([]domain.AnalysisEntry, error) {
	body, err := c.post(ctx, AnalyzePath, req)
	if err != nil {
		return nil, err
	}

	var entries []domain.AnalysisEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("%w: failed to decode analyze response: %v", domain.ErrBackendUnavailable, err)
	}
	if entries == nil {
		entries = make([]domain.AnalysisEntry, 0)
	}
	return entries, nil
}

// Suggest calls POST /api/tasks/suggest/.
func (c *httpClient) Suggest(ctx context.Context, req Request) (*domain.SuggestedTask, error) {
	body, err := c.post(ctx, SuggestPath, req)
	if err != nil {
		return nil, err
	}

	var resp suggestResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode suggest response: %v", domain.ErrBackendUnavailable, err)
	}
	return resp.RecommendedTask, nil
}

func (c *httpClient) post(ctx context.Context, path string, req Request) ([]byte, error) {
	if c.limiter != nil && !c.limiter.Allow() {
		return nil, domain.ErrRateLimited
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("backend: failed to marshal request: %w", err)
	}

	t := timeout.New[[]byte](c.timeoutCfg)
	body, err := t.Execute(ctx, c.timeoutCfg.DefaultTimeout, func(ctx context.Context) ([]byte, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(raw))
		}
		return raw, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrBackendUnavailable, path, err)
	}
	return body, nil
}

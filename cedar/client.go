// Package cedar provides a client for the CEDAR metadata repository REST API
// with retry, instance caching and bounded concurrent fetches.
package cedar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/c360studio/cedar2ccf/metrics"
	"github.com/c360studio/cedar2ccf/storage"
)

// DefaultBaseURL is the public CEDAR resource server.
const DefaultBaseURL = "https://resource.metadatacenter.org"

// maxResponseSize limits a response body to prevent memory exhaustion.
const maxResponseSize = 32 * 1024 * 1024 // 32MB

// Defaults for paging and fan-out.
const (
	DefaultPageSize    = 100
	DefaultConcurrency = 4
)

// Endpoint labels used in logs and metrics.
const (
	endpointSearch   = "search"
	endpointInstance = "instance"
)

// InstanceCache stores fetched instance documents. A Get miss must return
// storage.ErrNotFound.
type InstanceCache interface {
	Get(ctx context.Context, id string) ([]byte, error)
	Put(ctx context.Context, id string, payload []byte) error
}

// Client fetches template instances from CEDAR.
type Client struct {
	baseURL     string
	apiKey      string
	userID      string
	httpClient  *http.Client
	retryConfig RetryConfig
	logger      *slog.Logger
	cache       InstanceCache
	metrics     *metrics.Metrics
	pageSize    int
	concurrency int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the CEDAR server URL.
func WithBaseURL(u string) ClientOption {
	return func(client *Client) {
		client.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithRetryConfig sets the retry configuration.
func WithRetryConfig(cfg RetryConfig) ClientOption {
	return func(client *Client) {
		client.retryConfig = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(client *Client) {
		client.logger = logger
	}
}

// WithCache enables instance caching. Cache failures never fail a fetch.
func WithCache(cache InstanceCache) ClientOption {
	return func(client *Client) {
		client.cache = cache
	}
}

// WithMetrics records request, retry and cache counters.
func WithMetrics(m *metrics.Metrics) ClientOption {
	return func(client *Client) {
		client.metrics = m
	}
}

// WithPageSize sets the number of search results requested per page.
func WithPageSize(n int) ClientOption {
	return func(client *Client) {
		if n > 0 {
			client.pageSize = n
		}
	}
}

// WithConcurrency bounds the number of instance fetches in flight.
func WithConcurrency(n int) ClientOption {
	return func(client *Client) {
		if n > 0 {
			client.concurrency = n
		}
	}
}

// WithUserID records the CEDAR user the API key belongs to.
func WithUserID(id string) ClientOption {
	return func(client *Client) {
		client.userID = id
	}
}

// NewClient creates a CEDAR client authenticating with apiKey.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		apiKey:      apiKey,
		retryConfig: DefaultRetryConfig(),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger:      slog.Default(),
		pageSize:    DefaultPageSize,
		concurrency: DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(c)
	}
	if c.userID != "" {
		c.logger = c.logger.With("cedar_user", c.userID)
	}

	return c
}

// BaseURL returns the server the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

type searchResponse struct {
	TotalCount int `json:"totalCount"`
	Resources  []struct {
		ID string `json:"@id"`
	} `json:"resources"`
}

// SearchInstanceIDs returns the @ids of the latest instances based on
// templateID, in server order. A limit of zero or less returns all of them.
func (c *Client) SearchInstanceIDs(ctx context.Context, templateID string, limit int) ([]string, error) {
	if templateID == "" {
		return nil, fmt.Errorf("template ID is required")
	}

	var ids []string
	for offset := 0; ; {
		size := c.pageSize
		if limit > 0 && limit-len(ids) < size {
			size = limit - len(ids)
		}
		q := url.Values{}
		q.Set("version", "latest")
		q.Set("is_based_on", templateID)
		q.Set("limit", strconv.Itoa(size))
		q.Set("offset", strconv.Itoa(offset))

		body, err := c.get(ctx, endpointSearch, c.baseURL+"/search?"+q.Encode())
		if err != nil {
			return nil, fmt.Errorf("search instances of %s: %w", templateID, err)
		}
		var page searchResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, permanent(fmt.Errorf("decode search response: %w", err))
		}

		for _, r := range page.Resources {
			ids = append(ids, r.ID)
		}
		offset += len(page.Resources)

		c.logger.Debug("Fetched search page",
			"template", templateID,
			"offset", offset,
			"page", len(page.Resources),
			"total", page.TotalCount)

		switch {
		case len(page.Resources) == 0,
			offset >= page.TotalCount,
			limit > 0 && len(ids) >= limit:
			return ids, nil
		}
	}
}

// GetInstance returns the instance document identified by id, consulting the
// cache first when one is configured.
func (c *Client) GetInstance(ctx context.Context, id string) (json.RawMessage, error) {
	if c.cache != nil {
		payload, err := c.cache.Get(ctx, id)
		switch {
		case err == nil:
			c.metrics.CacheLookup(metrics.CacheHit)
			return payload, nil
		case errors.Is(err, storage.ErrNotFound):
			c.metrics.CacheLookup(metrics.CacheMiss)
		default:
			c.metrics.CacheLookup(metrics.CacheError)
			c.logger.Warn("Instance cache lookup failed", "id", id, "error", err)
		}
	}

	body, err := c.get(ctx, endpointInstance, c.baseURL+"/template-instances/"+url.QueryEscape(id))
	if err != nil {
		return nil, fmt.Errorf("get instance %s: %w", id, err)
	}
	if !json.Valid(body) {
		return nil, permanent(fmt.Errorf("get instance %s: response is not valid JSON", id))
	}

	if c.cache != nil {
		if err := c.cache.Put(ctx, id, body); err != nil {
			c.logger.Warn("Instance cache store failed", "id", id, "error", err)
		}
	}
	return body, nil
}

// GetInstances searches the instances of templateID and fetches them with
// bounded concurrency. Documents are returned in search order.
func (c *Client) GetInstances(ctx context.Context, templateID string, limit int) ([]json.RawMessage, error) {
	ids, err := c.SearchInstanceIDs(ctx, templateID, limit)
	if err != nil {
		return nil, err
	}

	docs := make([]json.RawMessage, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			doc, err := c.GetInstance(gctx, id)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.Info("Fetched template instances", "template", templateID, "count", len(docs))
	return docs, nil
}

// get performs a GET with retry on transient errors.
func (c *Client) get(ctx context.Context, endpoint, u string) ([]byte, error) {
	attempts := max(c.retryConfig.MaxAttempts, 1)
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		body, err := c.doRequest(ctx, u)
		if err == nil {
			c.metrics.Request(endpoint, metrics.OutcomeSuccess)
			return body, nil
		}
		lastErr = err

		if !IsTransient(err) {
			c.metrics.Request(endpoint, metrics.OutcomeFatal)
			return nil, err
		}
		c.metrics.Request(endpoint, metrics.OutcomeTransient)

		if attempt < attempts {
			backoff := c.retryConfig.backoff(attempt)
			c.logger.Debug("Request failed, retrying",
				"endpoint", endpoint,
				"attempt", attempt,
				"max_attempts", attempts,
				"backoff", backoff,
				"error", err)
			c.metrics.Retry()

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return nil, fmt.Errorf("%d attempts failed: %w", attempts, lastErr)
}

// doRequest executes a single authenticated GET.
func (c *Client) doRequest(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, permanent(fmt.Errorf("create HTTP request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "apiKey "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// Network errors are transient
		return nil, retryable(fmt.Errorf("HTTP request failed: %w", err))
	}
	defer resp.Body.Close()

	// Read response body with size limit to prevent memory exhaustion
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, retryable(fmt.Errorf("read response body: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, body)
	}
	return body, nil
}

package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"marketreport/internal/config"
	"marketreport/internal/logger"
	"marketreport/internal/models"
	"marketreport/pkg/utils"
)

// NewsAPI client defaults.
const (
	DefaultBaseURL      = "https://newsapi.org/v2/everything"
	DefaultSortBy       = "publishedAt"
	DefaultTimeout      = 30 * time.Second
	DefaultRateLimit    = 5 // requests per second
	DefaultBufferSizeKb = 2048
)

// ErrMissingAPIKey is returned before any request is made when no key is configured.
var ErrMissingAPIKey = errors.New("NEWSAPI_KEY is not set")

// APIError represents a non-OK answer from NewsAPI.
type APIError struct {
	Code       string
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("NewsAPI error: %s (code: %s, status: %d)", e.Message, e.Code, e.StatusCode)
}

// everythingResponse is the body of /v2/everything, success or error.
type everythingResponse struct {
	Status       string           `json:"status"`
	Code         string           `json:"code"`
	Message      string           `json:"message"`
	Articles     []models.Article `json:"articles"`
	TotalResults int              `json:"totalResults"`
}

// Client fetches articles from the NewsAPI "everything" endpoint.
type Client struct {
	httpClient   *http.Client
	limiter      *rate.Limiter
	logger       *logger.Logger
	attempts     *AttemptLog
	headers      http.Header
	baseURL      string
	apiKey       string
	sortBy       string
	bufferSizeKb int
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL sets the endpoint URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// WithRateLimit sets the request rate. Zero disables throttling.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}

		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client, keeping the configured timeout.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		timeout := c.httpClient.Timeout

		hcCopy := *hc
		if hcCopy.Timeout == 0 {
			hcCopy.Timeout = timeout
		}

		c.httpClient = &hcCopy
	}
}

// WithSortBy sets the sortBy parameter.
func WithSortBy(sortBy string) ClientOption {
	return func(c *Client) {
		c.sortBy = sortBy
	}
}

// WithBufferSize caps the response body size in KB.
func WithBufferSize(kb int) ClientOption {
	return func(c *Client) {
		c.bufferSizeKb = kb
	}
}

// NewClient creates a new NewsAPI client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		sortBy:  DefaultSortBy,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter:      rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:       logger.NewDiscardLogger(),
		attempts:     NewAttemptLog(),
		bufferSizeKb: DefaultBufferSizeKb,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.headers = utils.NewHTTPHelper().BuildHeaders(map[string]string{"X-Api-Key": c.apiKey})

	return c
}

// NewClientFromConfig creates a client from the news section of the configuration.
func NewClientFromConfig(cfg config.NewsConfig, l *logger.Logger) *Client {
	if l == nil {
		l = logger.NewDiscardLogger()
	}

	return NewClient(cfg.APIKey,
		WithBaseURL(cfg.BaseURL),
		WithSortBy(cfg.SortBy),
		WithTimeout(cfg.GetTimeout()),
		WithRateLimit(cfg.RateLimitPerSec),
		WithBufferSize(cfg.BufferSizeKb),
		WithLogger(l.With("component", "newsapi")),
	)
}

// Name identifies the source in logs.
func (c *Client) Name() string {
	return "NewsAPI"
}

// Attempts exposes the fetch attempt log.
func (c *Client) Attempts() *AttemptLog {
	return c.attempts
}

// Fetch returns up to pageSize articles for query, or nil on any failure.
func (c *Client) Fetch(ctx context.Context, query, language string, pageSize int) []models.Article {
	start := time.Now()

	articles, statusCode, err := c.FetchArticles(ctx, query, language, pageSize)
	c.attempts.Record(query, err, statusCode, len(articles), time.Since(start))

	if err != nil {
		c.logger.Error("failed to fetch articles", "query", query, "error", err)

		return nil
	}

	c.logger.Debug("fetched articles", "query", query, "count", len(articles), "duration", time.Since(start))

	return articles
}

// FetchArticles performs one request and reports the failure instead of swallowing it.
// Every returned error wraps ErrSourceUnavailable.
func (c *Client) FetchArticles(ctx context.Context, query, language string, pageSize int) ([]models.Article, int, error) {
	if c.apiKey == "" {
		return nil, 0, fmt.Errorf("%w: %w", ErrSourceUnavailable, ErrMissingAPIKey)
	}

	if pageSize <= 0 {
		return nil, 0, fmt.Errorf("%w: page size must be positive, got %d", ErrSourceUnavailable, pageSize)
	}

	if language == "" {
		language = DefaultLanguage
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("%w: rate limit wait: %w", ErrSourceUnavailable, err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("language", language)
	params.Set("sortBy", c.sortBy)
	params.Set("pageSize", strconv.Itoa(pageSize))

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: failed to create request: %w", ErrSourceUnavailable, err)
	}

	req.Header = c.headers.Clone()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: request failed: %w", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	// Read with buffer limit
	limit := int64(c.bufferSizeKb) * 1024

	var body everythingResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, limit)).Decode(&body); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, resp.StatusCode, fmt.Errorf("%w: %w", ErrSourceUnavailable,
				&APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)})
		}

		return nil, resp.StatusCode, fmt.Errorf("%w: failed to decode response: %w", ErrSourceUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK || body.Status == "error" {
		return nil, resp.StatusCode, fmt.Errorf("%w: %w", ErrSourceUnavailable,
			&APIError{StatusCode: resp.StatusCode, Code: body.Code, Message: body.Message})
	}

	// The provider may ignore pageSize; never hand back more than asked for.
	if len(body.Articles) > pageSize {
		body.Articles = body.Articles[:pageSize]
	}

	return body.Articles, resp.StatusCode, nil
}

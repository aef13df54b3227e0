package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds a single keyword request.
const DefaultTimeout = 20 * time.Second

// Keyword is a single TMDB keyword entry.
type Keyword struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// KeywordsResponse models the /movie/{id}/keywords payload.
type KeywordsResponse struct {
	ID       json.RawMessage `json:"id"`
	Keywords []Keyword       `json:"keywords"`
}

// Names returns the keyword names in response order.
func (r *KeywordsResponse) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.Keywords))
	for _, kw := range r.Keywords {
		names = append(names, kw.Name)
	}
	return names
}

// KeywordLookup defines the TMDB operations used by keyword reconciliation.
type KeywordLookup interface {
	MovieKeywords(ctx context.Context, imdbID string) (*KeywordsResponse, error)
}

// Client provides access to the TMDB API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ KeywordLookup = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the timeout on the client's HTTP client. Non-positive
// values are ignored.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			clone := *c.httpClient
			clone.Timeout = timeout
			c.httpClient = &clone
		}
	}
}

// New creates a TMDB client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// MovieKeywords fetches the keywords TMDB associates with an IMDb id.
func (c *Client) MovieKeywords(ctx context.Context, imdbID string) (*KeywordsResponse, error) {
	imdbID = strings.TrimSpace(imdbID)
	if imdbID == "" {
		return nil, errors.New("imdb id must not be empty")
	}
	endpoint, err := url.Parse(c.baseURL + "/movie/" + url.PathEscape(imdbID) + "/keywords")
	if err != nil {
		return nil, fmt.Errorf("parse tmdb url: %w", err)
	}
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, c.redact(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("tmdb movie keywords returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload KeywordsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode movie keywords: %w", err)
	}
	return &payload, nil
}

// redact strips the API key from transport errors, which embed the request URL.
func (c *Client) redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = strings.ReplaceAll(urlErr.URL, url.QueryEscape(c.apiKey), "REDACTED")
	}
	return err
}

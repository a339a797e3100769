package bingsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	contractx "github.com/attache-labs/attache/agent/contract"
)

const maxResponseSizeBytes = 2 << 20

type Config struct {
	URL     string        `split_words:"true" default:"https://api.bing.microsoft.com/v7.0/search"`
	Key     string        `split_words:"true" required:"true"`
	Timeout time.Duration `split_words:"true" default:"10s"`
}

// Client queries the Bing Web Search REST API.
type Client struct {
	endpoint   string
	key        string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	endpoint := strings.TrimSpace(cfg.URL)
	if endpoint == "" {
		return nil, errors.New("bing search url is required")
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("invalid bing search url: %w", err)
	}

	key := strings.TrimSpace(cfg.Key)
	if key == "" {
		return nil, errors.New("bing search key is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &Client{
		endpoint: endpoint,
		key:      key,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

type searchResponse struct {
	WebPages struct {
		Value []struct {
			Name    string `json:"name"`
			URL     string `json:"url"`
			Snippet string `json:"snippet"`
		} `json:"value"`
	} `json:"webPages"`
}

// Results runs the query and returns up to count hits.
func (c *Client) Results(ctx context.Context, query string, count int) ([]contractx.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("empty search query")
	}
	if count <= 0 {
		count = 5
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build bing request: %w", err)
	}
	q := req.URL.Query()
	q.Set("q", query)
	q.Set("count", strconv.Itoa(count))
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute bing request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read bing response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("bing http status=%d body=%s", resp.StatusCode, string(raw))
	}

	var parsed searchResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode bing response: %w", err)
	}

	results := make([]contractx.SearchResult, 0, len(parsed.WebPages.Value))
	for _, page := range parsed.WebPages.Value {
		results = append(results, contractx.SearchResult{
			Title:   page.Name,
			Link:    page.URL,
			Snippet: page.Snippet,
		})
	}
	return results, nil
}

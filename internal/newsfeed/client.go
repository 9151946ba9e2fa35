// Package newsfeed pulls articles from an external news API and imports them
// as news items.
package newsfeed

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	fastshot "github.com/opus-domini/fast-shot"
)

// ErrAPIKeyMissing is returned when no API key is configured.
var ErrAPIKeyMissing = errors.New("news api key is required")

// Article is one article of the news API response.
type Article struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string    `json:"author"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	URLToImage  string    `json:"urlToImage"`
	PublishedAt time.Time `json:"publishedAt"`
	Content     string    `json:"content"`
}

type searchResponse struct {
	Status       string    `json:"status"`
	Code         string    `json:"code"`
	Message      string    `json:"message"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
}

// ClientConfig configures a Client.
type ClientConfig struct {
	BaseURL  string
	APIKey   string
	Language string
	PageSize int
	Timeout  time.Duration

	// RetryInterval is the first backoff step; zero uses one second.
	RetryInterval time.Duration
	MaxRetries    uint
}

// Client talks to a NewsAPI compatible /v2/everything endpoint.
type Client struct {
	cfg ClientConfig
}

// NewClient creates a Client. BaseURL defaults to https://newsapi.org.
func NewClient(cfg ClientConfig) *Client {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://newsapi.org"
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.PageSize <= 0 || cfg.PageSize > 100 {
		cfg.PageSize = 20
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	return &Client{cfg: cfg}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return strings.TrimSpace(c.cfg.APIKey) != ""
}

func (c *Client) http() fastshot.ClientHttpMethods {
	return fastshot.NewClient(c.cfg.BaseURL).
		Config().SetTimeout(c.cfg.Timeout).
		Header().Add("Accept", "application/json").
		Header().Add("X-Api-Key", c.cfg.APIKey).
		Build()
}

// Search returns the newest articles matching query.
func (c *Client) Search(ctx context.Context, query string, pageSize int) ([]Article, error) {
	if !c.Configured() {
		return nil, ErrAPIKeyMissing
	}
	if pageSize <= 0 {
		pageSize = c.cfg.PageSize
	}

	params := map[string]string{
		"q":        query,
		"language": c.cfg.Language,
		"pageSize": strconv.Itoa(pageSize),
		"sortBy":   "publishedAt",
	}
	resp, err := c.http().
		GET("/v2/everything").
		Context().Set(ctx).
		Query().AddParams(params).
		Retry().SetExponentialBackoff(c.cfg.RetryInterval, c.cfg.MaxRetries, 2.0).
		Send()
	if err != nil {
		return nil, fmt.Errorf("request news api: %w", err)
	}
	defer resp.Body().Close()

	var res searchResponse
	if err := parseHTTPResponse(*resp, &res); err != nil {
		return nil, fmt.Errorf("news api query %q: %w", query, err)
	}
	if res.Status != "" && res.Status != "ok" {
		return nil, fmt.Errorf("news api query %q: %s: %s", query, res.Code, res.Message)
	}
	return res.Articles, nil
}

// Ping performs the smallest possible search to verify the API key.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Search(ctx, "news", 1)
	return err
}

func parseHTTPResponse[T any](resp fastshot.Response, result *T) error {
	if resp.Status().IsError() {
		msg, err := resp.Body().AsString()
		if err != nil {
			return fmt.Errorf("failed to read error response: %w", err)
		}
		return errors.New(strings.TrimSpace(msg))
	}

	if err := resp.Body().AsJSON(result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

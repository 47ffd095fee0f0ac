package api

import (
	"context"
	"fmt"
	"strings"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/rs/zerolog"

	"github.com/diogo/nuchat/internal/models"
)

// HTTPDoer is the part of tls_client.HttpClient the client needs
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientInterface is implemented by Client and by test doubles
type ClientInterface interface {
	Health(ctx context.Context) error
	Chat(ctx context.Context, message, model string) (*models.ChatResponse, error)
	Models(ctx context.Context) ([]models.ModelInfo, error)
	BaseURL() string
}

var _ ClientInterface = (*Client)(nil)

// Client talks to the chat backend
type Client struct {
	httpClient HTTPDoer
	baseURL    string
	timeout    time.Duration
	logger     zerolog.Logger
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithHTTPClient injects the HTTP client, used by tests
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithTimeout sets the per-request deadline
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client for baseURL, e.g. http://localhost:5000/api
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = models.DefaultBaseURL
	}

	client := &Client{
		baseURL: baseURL,
		timeout: models.DefaultRequestTimeout,
		logger:  zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		seconds := int(client.timeout / time.Second)
		if seconds <= 0 {
			seconds = int(models.DefaultRequestTimeout / time.Second)
		}
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(seconds),
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithNotFollowRedirects(),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// BaseURL returns the backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetHTTPClient returns the underlying HTTP client
func (c *Client) GetHTTPClient() HTTPDoer {
	return c.httpClient
}

func (c *Client) endpoint(path string) string {
	return c.BaseURL() + path
}

package safecomms

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/safecomms/gosdk/internal"
)

const (
	defaultBaseURL = "https://api.safecomms.dev"
	defaultTimeout = 30 * time.Second
)

// Endpoint paths, relative to the base URL.
const (
	pathModerateText      = "/moderation/text"
	pathModerateImage     = "/moderation/image"
	pathModerateImageFile = "/moderation/image/upload"
	pathUsage             = "/usage"
)

// Variant selects which set of endpoints the target deployment exposes. Two deployments of the
// service exist: the full one, and an older one that only offers text moderation and usage.
type Variant int

const (
	// VariantFull exposes text moderation, image moderation, image upload and usage. This is the
	// default.
	VariantFull Variant = iota
	// VariantTextOnly exposes text moderation and usage only. Image operations fail with
	// ErrEndpointUnavailable without contacting the service.
	VariantTextOnly
)

// String returns the string representation of the variant.
func (v Variant) String() string {
	switch v {
	case VariantFull:
		return "full"
	case VariantTextOnly:
		return "text-only"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// Supports reports whether the variant exposes the endpoint at path.
func (v Variant) Supports(path string) bool {
	switch path {
	case pathModerateText, pathUsage:
		return true
	case pathModerateImage, pathModerateImageFile:
		return v == VariantFull
	}
	return false
}

// Option is a function that configures the client
type Option func(*cfg)

// WithAPIKey sets the API key for the client. It is required.
func WithAPIKey(apiKey string) Option {
	return func(c *cfg) {
		c.apiKey = apiKey
	}
}

// WithBaseURL sets the root URL of the service. Trailing slashes are removed, so
// "https://example.com/" and "https://example.com" are equivalent. Unless you run against a
// different deployment, there's no need to set this.
func WithBaseURL(baseURL string) Option {
	return func(c *cfg) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the timeout applied to each request. If not set, the default timeout is 30
// seconds. A timeout of zero disables it. Ignored when WithHTTPClient is used.
func WithTimeout(timeout time.Duration) Option {
	return func(c *cfg) {
		c.timeout = timeout
	}
}

// WithHTTPClient uses the given client instead of a new one. The client is copied, so it is never
// modified, and its own Timeout and Transport are kept.
func WithHTTPClient(client *http.Client) Option {
	return func(c *cfg) {
		c.httpClient = client
	}
}

// WithLogger sets the logger used for per-request debug logging. By default nothing is logged.
// The API key and request bodies are never logged.
func WithLogger(logger *zap.Logger) Option {
	return func(c *cfg) {
		c.logger = logger
	}
}

// WithVariant selects the deployment variant. The default is VariantFull.
func WithVariant(variant Variant) Option {
	return func(c *cfg) {
		c.variant = variant
	}
}

// cfg holds configuration for the SafeComms client
type cfg struct {
	// apiKey is your SafeComms API key
	apiKey string
	// baseURL is the service root (default: "https://api.safecomms.dev")
	baseURL string
	// timeout is the per-request timeout
	timeout time.Duration
	// httpClient, if set, replaces the default HTTP client
	httpClient *http.Client
	// logger receives per-request debug logs
	logger *zap.Logger
	// variant selects the available endpoints
	variant Variant
}

// Client is the SafeComms SDK client. It is safe for concurrent use by multiple goroutines and
// holds no per-call state.
type Client struct {
	config    *cfg
	transport *internal.Transport
}

// New creates a new SafeComms client.
func New(options ...Option) (*Client, error) {
	config := &cfg{
		baseURL: defaultBaseURL,
		timeout: defaultTimeout,
		logger:  zap.NewNop(),
		variant: VariantFull,
	}

	for _, option := range options {
		option(config)
	}

	if config.apiKey == "" {
		return nil, configError(ErrAPIKeyRequired)
	}

	baseURL, err := normalizeBaseURL(config.baseURL)
	if err != nil {
		return nil, configError(err)
	}
	config.baseURL = baseURL

	if config.logger == nil {
		config.logger = zap.NewNop()
	}

	return &Client{
		config: config,
		transport: internal.NewTransport(
			config.baseURL,
			config.apiKey,
			config.httpClient,
			config.timeout,
			config.logger.Named("safecomms"),
		),
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimRight(raw, "/")
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q must be an absolute http(s) URL", ErrInvalidBaseURL, raw)
	}
	return trimmed, nil
}

// BaseURL returns the base URL requests are sent to, without trailing slashes.
func (c *Client) BaseURL() string {
	return c.config.baseURL
}

// Variant returns the deployment variant the client targets.
func (c *Client) Variant() Variant {
	return c.config.variant
}

// Close releases idle keep-alive connections. It does not stop the client: a later call simply
// opens new connections. You can do this with defer to ensure that idle connections are always
// cleaned up.
func (c *Client) Close() error {
	c.transport.CloseIdleConnections()
	return nil
}

func (c *Client) checkEndpoint(path string) error {
	if !c.config.variant.Supports(path) {
		return fmt.Errorf("%w: %s (variant %s)", ErrEndpointUnavailable, path, c.config.variant)
	}
	return nil
}

// ModerateText moderates a piece of text.
func (c *Client) ModerateText(ctx context.Context, req *TextRequest) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if err := c.checkEndpoint(pathModerateText); err != nil {
		return nil, err
	}

	body, err := c.transport.PostJSON(ctx, pathModerateText, req.toPayload())
	if err != nil {
		return nil, fmt.Errorf("failed to moderate text: %w", err)
	}
	return newResult(body)
}

// ModerateImage moderates an image given as a URL or a base64 encoded string.
func (c *Client) ModerateImage(ctx context.Context, req *ImageRequest) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if err := c.checkEndpoint(pathModerateImage); err != nil {
		return nil, err
	}

	body, err := c.transport.PostJSON(ctx, pathModerateImage, req.toPayload())
	if err != nil {
		return nil, fmt.Errorf("failed to moderate image: %w", err)
	}
	return newResult(body)
}

// ModerateImageFile uploads an image as multipart/form-data and moderates it. The file is
// streamed, not buffered, and read exactly once. It is not closed; the caller owns it.
func (c *Client) ModerateImageFile(ctx context.Context, req *ImageFileRequest) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if err := c.checkEndpoint(pathModerateImageFile); err != nil {
		return nil, err
	}

	body, err := c.transport.PostMultipart(ctx, pathModerateImageFile, req.writeMultipart)
	if err != nil {
		return nil, fmt.Errorf("failed to moderate image file: %w", err)
	}
	return newResult(body)
}

// ModerateImagePath opens the image at path, uploads it with ModerateImageFile under its base
// name, and closes it again.
func (c *Client) ModerateImagePath(ctx context.Context, path string, options ImageOptions) (*Result, error) {
	// Check before opening the file so an unsupported variant never touches the file system.
	if err := c.checkEndpoint(pathModerateImageFile); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer f.Close()

	return c.ModerateImageFile(ctx, &ImageFileRequest{
		File:     f,
		FileName: filepath.Base(path),
		Options:  options,
	})
}

// GetUsage returns the usage statistics of the account the API key belongs to.
func (c *Client) GetUsage(ctx context.Context) (*Result, error) {
	if err := c.checkEndpoint(pathUsage); err != nil {
		return nil, err
	}

	body, err := c.transport.Get(ctx, pathUsage)
	if err != nil {
		return nil, fmt.Errorf("failed to get usage: %w", err)
	}
	return newResult(body)
}

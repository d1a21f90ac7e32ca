package objectstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout bounds every store round-trip unless the config overrides it.
const DefaultTimeout = 30 * time.Second

// headerContentSHA declares an object's SHA-256 hex digest, both on upload
// and in probe responses.
const headerContentSHA = "X-Content-Sha256"

// quotaExceededCode is the body code some stores return with a 403 instead
// of a plain 507 when storage quota is exhausted.
const quotaExceededCode = "storage_quota_exceeded"

// Config carries the connection settings for the remote store.
type Config struct {
	// Endpoint is the store's base URL.
	Endpoint string
	// Prefix is the key prefix all objects live under, e.g. "bibles".
	Prefix string
	// Token is the bearer credential sent with every request.
	Token string
	// Timeout bounds each request; DefaultTimeout when zero.
	Timeout time.Duration
}

// ObjectInfo is the metadata a probe returns for a stored object.
type ObjectInfo struct {
	// Hash is the object's SHA-256 hex digest.
	Hash string
	// Size is the object's byte size.
	Size int64
}

// Client talks to the remote object store.
type Client struct {
	http   *resty.Client
	prefix string
}

// NewClient creates a store client from the given config.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, ErrEndpointRequired
	}
	if cfg.Token == "" {
		return nil, ErrCredentialRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.Endpoint, "/")).
		SetTimeout(timeout).
		SetHeader("Authorization", "Bearer "+cfg.Token)

	return &Client{
		http:   client,
		prefix: strings.Trim(cfg.Prefix, "/"),
	}, nil
}

// TranslationKey returns the object key holding a translation document.
func (c *Client) TranslationKey(code string) string {
	return c.join(code + "/" + code + "_bible.json")
}

// ManifestKey returns the object key holding the shared sync manifest.
func (c *Client) ManifestKey() string {
	return c.join("manifest.json")
}

func (c *Client) join(rest string) string {
	if c.prefix == "" {
		return rest
	}
	return c.prefix + "/" + rest
}

// Probe checks whether an object exists and returns its declared hash and
// size without transferring the content. Returns ErrNotFound for absent keys.
func (c *Client) Probe(ctx context.Context, key string) (*ObjectInfo, error) {
	resp, err := c.http.R().SetContext(ctx).Head("/" + key)
	if err != nil {
		return nil, fmt.Errorf("probing %s: %w", key, err)
	}
	if err := statusError(resp, key); err != nil {
		return nil, err
	}

	return &ObjectInfo{
		Hash: resp.Header().Get(headerContentSHA),
		Size: resp.RawResponse.ContentLength,
	}, nil
}

// Fetch retrieves an object's content. Returns ErrNotFound for absent keys.
func (c *Client) Fetch(ctx context.Context, key string) ([]byte, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/" + key)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", key, err)
	}
	if err := statusError(resp, key); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// Upload stores an object's content under the given key, declaring its
// SHA-256 so the store can verify the payload.
func (c *Client) Upload(ctx context.Context, key string, data []byte) error {
	sum := sha256.Sum256(data)

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(headerContentSHA, hex.EncodeToString(sum[:])).
		SetHeader("Content-Type", "application/json").
		SetBody(data).
		Put("/" + key)
	if err != nil {
		return fmt.Errorf("uploading %s: %w", key, err)
	}
	return statusError(resp, key)
}

// statusError classifies a non-2xx response into the package's error types.
func statusError(resp *resty.Response, key string) error {
	code := resp.StatusCode()
	if code < 400 {
		return nil
	}
	if code == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if quota := quotaError(resp, key); quota != nil {
		return quota
	}
	return &APIError{
		StatusCode: code,
		Message:    strings.TrimSpace(resp.String()),
		Key:        key,
	}
}

// quotaError recognizes quota exhaustion: a plain 507, or a 403 whose body
// carries the storage_quota_exceeded code.
func quotaError(resp *resty.Response, key string) *QuotaError {
	code := resp.StatusCode()
	if code == http.StatusInsufficientStorage {
		return &QuotaError{StatusCode: code, Key: key}
	}
	if code == http.StatusForbidden {
		var body struct {
			Code string `json:"code"`
		}
		if json.Unmarshal(resp.Body(), &body) == nil && body.Code == quotaExceededCode {
			return &QuotaError{StatusCode: code, Key: key}
		}
	}
	return nil
}

// Package graphql is a small GraphQL-over-HTTP client with a response cache.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// CachePolicy selects whether a query may be answered from the cache.
type CachePolicy int

const (
	// ReturnCacheDataElseFetch answers from the cache when an entry exists for
	// the identical operation, and goes to the network otherwise.
	ReturnCacheDataElseFetch CachePolicy = iota
	// FetchIgnoringCacheData always goes to the network and refreshes the cache.
	FetchIgnoringCacheData
)

func (p CachePolicy) String() string {
	switch p {
	case ReturnCacheDataElseFetch:
		return "cache-else-network"
	case FetchIgnoringCacheData:
		return "network-only"
	default:
		return fmt.Sprintf("CachePolicy(%d)", int(p))
	}
}

// ErrNoData is returned by Response.Decode when the response has no data object.
var ErrNoData = errors.New("graphql: response has no data")

// Operation is a named GraphQL document plus its variables.
type Operation struct {
	Name      string
	Document  string
	Variables map[string]any
}

// Error is a single entry of a response's "errors" list.
type Error struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

// Response is a decoded GraphQL response envelope.
type Response struct {
	Data   json.RawMessage `json:"data,omitempty"`
	Errors []Error         `json:"errors,omitempty"`

	// FromCache is set when the response was served from the cache.
	FromCache bool `json:"-"`
}

// Decode unmarshals the data object into v.
func (r *Response) Decode(v any) error {
	if len(r.Data) == 0 || string(r.Data) == "null" {
		return ErrNoData
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("graphql: decode data: %w", err)
	}
	return nil
}

type request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

// Client sends operations to a single GraphQL endpoint. One Client is
// constructed per process and shared; it is safe for concurrent use.
type Client struct {
	endpoint   string
	httpClient *http.Client
	cache      Cache
	log        *slog.Logger

	networkCalls atomic.Int64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client (30s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithCache sets the response cache. The default is NopCache.
func WithCache(cache Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient creates a Client targeting endpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      NopCache{},
		log:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NetworkCalls returns how many requests have been sent to the endpoint.
func (c *Client) NetworkCalls() int64 {
	return c.networkCalls.Load()
}

// Fetch runs a query under the given cache policy. A non-nil error means the
// transport failed; GraphQL-level errors are reported in Response.Errors.
func (c *Client) Fetch(ctx context.Context, op Operation, policy CachePolicy) (*Response, error) {
	key := CacheKey(op)

	if policy == ReturnCacheDataElseFetch {
		if resp, ok := c.cached(key, op.Name); ok {
			return resp, nil
		}
	}

	resp, err := c.send(ctx, op)
	if err != nil {
		return nil, err
	}

	if len(resp.Errors) == 0 && len(resp.Data) > 0 && string(resp.Data) != "null" {
		c.store(key, op.Name, resp)
	}
	return resp, nil
}

// Perform runs a mutation. Mutations always go to the network and never
// read, write or invalidate the cache.
func (c *Client) Perform(ctx context.Context, op Operation) (*Response, error) {
	return c.send(ctx, op)
}

func (c *Client) cached(key []byte, opName string) (*Response, bool) {
	body, err := c.cache.Get(key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			c.log.Warn("graphql cache read failed", "op", opName, "error", err)
		}
		return nil, false
	}

	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		c.log.Warn("graphql cache entry corrupt", "op", opName, "error", err)
		return nil, false
	}
	resp.FromCache = true
	c.log.Debug("graphql cache hit", "op", opName)
	return &resp, true
}

func (c *Client) store(key []byte, opName string, resp *Response) {
	body, err := json.Marshal(resp)
	if err != nil {
		c.log.Warn("graphql cache encode failed", "op", opName, "error", err)
		return
	}
	if err := c.cache.Set(key, body); err != nil {
		c.log.Warn("graphql cache write failed", "op", opName, "error", err)
	}
}

func (c *Client) send(ctx context.Context, op Operation) (*Response, error) {
	payload, err := json.Marshal(request{
		Query:         op.Document,
		Variables:     op.Variables,
		OperationName: op.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("graphql: encode %s: %w", op.Name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("graphql: create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	c.networkCalls.Add(1)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graphql: %s: %w", op.Name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("graphql: read body: %w", err)
	}

	c.log.Debug("graphql request",
		"op", op.Name,
		"request_id", requestID,
		"status", resp.StatusCode,
		"duration", time.Since(start).String(),
	)

	var out Response
	decodeErr := json.Unmarshal(body, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Servers may pair a 4xx with a well-formed error list.
		if decodeErr == nil && len(out.Errors) > 0 {
			return &out, nil
		}
		return nil, fmt.Errorf("graphql: %s returned %d: %s", op.Name, resp.StatusCode, body)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("graphql: decode %s response: %w", op.Name, decodeErr)
	}
	return &out, nil
}

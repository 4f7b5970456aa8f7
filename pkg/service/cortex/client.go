package cortex

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/haus-labs/haus-agent/pkg/domain/interfaces"
	"github.com/haus-labs/haus-agent/pkg/domain/model"
	"github.com/haus-labs/haus-agent/pkg/utils/logging"
	"github.com/haus-labs/haus-agent/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

const (
	// DefaultTimeout is the shared budget for every request to the memory service.
	DefaultTimeout = 30 * time.Second

	// DefaultRecallLimit is the number of results requested when the caller passes 0.
	DefaultRecallLimit = 10

	maxErrorBodySize = 512
)

// Client talks to the Cortex memory endpoints of the backend. One Client is
// created per call and closed when the call ends. Requests are sent at most
// once; there is no retry.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

var _ interfaces.MemoryClient = &Client{}

type Option func(*Client)

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the client's own transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, goerr.New("memory service base URL is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid memory service base URL", goerr.V("baseURL", baseURL))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, goerr.New("memory service base URL must be http or https", goerr.V("baseURL", baseURL))
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = newHTTPClient(c.timeout)
	}

	return c, nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		ForceAttemptHTTP2:     true,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}

// EnsureMemorySpace asks the backend to create the caller's memory space if needed.
func (c *Client) EnsureMemorySpace(ctx context.Context, identity model.Identity) (model.MemorySpaceID, bool) {
	var resp ensureMemorySpaceResponse
	if err := c.post(ctx, pathEnsureMemorySpace, &ensureMemorySpaceRequest{UserID: identity.String()}, &resp); err != nil {
		logging.From(ctx).Warn("Failed to ensure memory space", "error", err, "identity", identity)
		return "", false
	}
	if resp.MemorySpaceID == "" {
		return "", false
	}
	return model.MemorySpaceID(resp.MemorySpaceID), true
}

// RecallContext fetches memory related to query. A limit of 0 uses DefaultRecallLimit.
func (c *Client) RecallContext(ctx context.Context, identity model.Identity, query string, limit int) *model.RecallResult {
	if limit <= 0 {
		limit = DefaultRecallLimit
	}

	req := &recallRequest{
		UserID: identity.String(),
		Query:  query,
		Limit:  limit,
	}

	var result model.RecallResult
	if err := c.post(ctx, pathRecall, req, &result); err != nil {
		logging.From(ctx).Warn("Failed to recall context", "error", err, "identity", identity)
		return model.NewEmptyRecallResult()
	}

	return result.Normalize()
}

// RememberConversation stores one exchange in the caller's memory space.
func (c *Client) RememberConversation(ctx context.Context, identity model.Identity, record *model.ConversationRecord) bool {
	if record == nil {
		return false
	}

	req := &rememberRequest{
		UserID:          identity.String(),
		UserQuery:       record.UserQuery,
		AgentResponse:   record.AgentResponse,
		PropertyID:      string(record.PropertyID),
		PropertyContext: record.PropertyContext,
	}

	var resp successResponse
	if err := c.post(ctx, pathRemember, req, &resp); err != nil {
		logging.From(ctx).Warn("Failed to remember conversation", "error", err, "identity", identity)
		return false
	}
	return resp.Success
}

// StorePreference stores a stated preference for the caller.
func (c *Client) StorePreference(ctx context.Context, identity model.Identity, pref *model.Preference) bool {
	if pref == nil {
		return false
	}

	req := &storePreferenceRequest{
		UserID:     identity.String(),
		Category:   pref.Category,
		Preference: pref.Value,
		Confidence: pref.Confidence,
	}
	if !pref.Metadata.IsZero() {
		md := pref.Metadata
		req.Metadata = &md
	}

	var resp successResponse
	if err := c.post(ctx, pathStorePreference, req, &resp); err != nil {
		logging.From(ctx).Warn("Failed to store preference", "error", err,
			"identity", identity,
			"category", pref.Category,
		)
		return false
	}
	return resp.Success
}

// Close releases idle connections. Requests still in flight complete normally.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *Client) post(ctx context.Context, path string, reqBody, respBody any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := json.Marshal(reqBody)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal request", goerr.V("path", path))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return goerr.Wrap(err, "failed to create request", goerr.V("path", path))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to call memory service", goerr.V("path", path))
	}
	defer safe.Close(ctx, resp.Body)
	defer safe.Drain(ctx, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return goerr.New("memory service returned error status",
			goerr.V("path", path),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(body)),
		)
	}

	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return goerr.Wrap(err, "failed to decode memory service response", goerr.V("path", path))
	}

	return nil
}

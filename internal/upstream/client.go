package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/ahmedbadawy4/llm-pii-shield/internal/chat"
)

// Paths of the chat API endpoints the harness talks to.
const (
	HealthPath = "/healthz"
	ChatPath   = "/v1/chat/completions"
	StatsPath  = "/admin/stats"
)

// AdminKeyHeader carries the optional admin credential on stats requests.
const AdminKeyHeader = "X-Admin-Key"

// Response is an upstream reply with its body already read in full.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       string
}

// OK reports whether the status code is in the 2xx range.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client sends requests to the chat API under test. It never retries and never
// treats an HTTP status as an error; only transport failures are returned.
type Client struct {
	httpClient *http.Client
}

// NewClient constructs a Client. A zero timeout means requests may wait
// indefinitely. proxyURL may be empty to use the default environment proxy;
// an unparseable proxyURL is logged and the environment proxy is used instead.
func NewClient(timeout time.Duration, proxyURL string) *Client {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if proxyURL != "" {
		parsed, err := ParseProxyURL(proxyURL)
		if err != nil {
			slog.Warn("ignoring proxy url", "proxy_url", proxyURL, "error", err)
		} else {
			transport.Proxy = http.ProxyURL(parsed)
		}
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// ParseProxyURL parses an HTTP/HTTPS proxy address. It must be absolute.
func ParseProxyURL(raw string) (*url.URL, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse proxy url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("proxy url %q needs a scheme and host", raw)
	}
	return parsed, nil
}

// Health calls GET {base}/healthz.
func (c *Client) Health(ctx context.Context, base string) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, base+HealthPath, nil)
	if err != nil {
		return nil, fmt.Errorf("build health request: %w", err)
	}
	return c.do(httpReq, "health")
}

// Chat calls POST {base}/v1/chat/completions with payload as the JSON body.
func (c *Client) Chat(ctx context.Context, base string, payload chat.Payload) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, base+ChatPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	return c.do(httpReq, "chat")
}

// Stats calls GET {base}/admin/stats. The admin key header is attached only
// when adminKey is non-empty.
func (c *Client) Stats(ctx context.Context, base, adminKey string) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, base+StatsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("build stats request: %w", err)
	}
	if adminKey != "" {
		httpReq.Header.Set(AdminKeyHeader, adminKey)
	}
	return c.do(httpReq, "stats")
}

func (c *Client) do(httpReq *http.Request, name string) (*Response, error) {
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s read body: %w", name, err)
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       string(raw),
	}, nil
}

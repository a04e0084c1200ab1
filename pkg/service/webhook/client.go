package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/23blocks-OS/platform-sync/pkg/domain/interfaces"
)

// Signature and event headers attached to every delivery
const (
	HeaderSignature = "X-23Blocks-Signature"
	HeaderEvent     = "X-23Blocks-Event"
)

const defaultTimeout = 5 * time.Second

// Client delivers sync events to a set of webhook endpoints. Each Notify call
// POSTs one JSON envelope to every endpoint concurrently; the payload is
// signed with HMAC-SHA256 when a secret is configured.
type Client struct {
	endpoints  []string
	secret     string
	httpClient *http.Client
}

var _ interfaces.Notifier = &Client{}

type Option func(*Client)

// WithHTTPClient overrides the HTTP client, used in tests
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func New(endpoints []string, secret string, opts ...Option) (*Client, error) {
	if len(endpoints) == 0 {
		return nil, goerr.New("at least one webhook endpoint is required")
	}

	c := &Client{
		endpoints:  endpoints,
		secret:     secret,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

type envelope struct {
	Event     string         `json:"event"`
	EmittedAt time.Time      `json:"emitted_at"`
	Data      map[string]any `json:"data"`
}

// Notify delivers the event to every configured endpoint. An endpoint failure
// does not stop delivery to the others; the first error is returned after all
// deliveries finish.
func (c *Client) Notify(ctx context.Context, event string, payload map[string]any) error {
	body, err := json.Marshal(envelope{
		Event:     event,
		EmittedAt: time.Now().UTC(),
		Data:      payload,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to marshal webhook envelope", goerr.V("event", event))
	}

	var eg errgroup.Group
	for _, endpoint := range c.endpoints {
		url := endpoint
		eg.Go(func() error {
			return c.deliver(ctx, url, event, body)
		})
	}

	return eg.Wait()
}

func (c *Client) deliver(ctx context.Context, url, event string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return goerr.Wrap(err, "failed to build webhook request", goerr.V("url", url))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderEvent, event)
	if c.secret != "" {
		req.Header.Set(HeaderSignature, Sign(c.secret, body))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to deliver webhook", goerr.V("url", url), goerr.V("event", event))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return goerr.New("webhook endpoint returned non-2xx status",
			goerr.V("url", url), goerr.V("event", event), goerr.V("status", resp.StatusCode))
	}

	return nil
}

// Sign computes the hex-encoded HMAC-SHA256 signature of body
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

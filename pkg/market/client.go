package market

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/samvad-hq/market-contract-tests/pkg/httpclient"
)

// Logger defines the logging surface the market client relies on.
type Logger = httpclient.Logger

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return noopLogger{}
	}
	return log
}

// Options configures NewClient.
type Options struct {
	BaseURL     string
	Timeout     time.Duration
	LogLevel    httpclient.LogLevel
	RestyLogger resty.Logger
}

// Client is the shared market API client. It holds no per-call state and is
// safe to reuse across tests.
type Client struct {
	http       httpclient.Client
	log        Logger
	products   ProductService
	categories CategoryService
}

// NewClient builds a resty-backed client bound to opts.BaseURL.
func NewClient(opts Options, log Logger) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("market base url is empty")
	}
	hc := httpclient.NewRestyClient(httpclient.Options{
		BaseURL:     opts.BaseURL,
		Timeout:     opts.Timeout,
		LogLevel:    opts.LogLevel,
		Logger:      log,
		RestyLogger: opts.RestyLogger,
	})
	return NewClientWithHTTP(hc, log), nil
}

// NewClientWithHTTP binds the services to an existing transport.
func NewClientWithHTTP(hc httpclient.Client, log Logger) *Client {
	c := &Client{http: hc, log: ensureLogger(log)}
	c.products = &productService{c: c}
	c.categories = &categoryService{c: c}
	return c
}

func (c *Client) Products() ProductService     { return c.products }
func (c *Client) Categories() CategoryService { return c.categories }

// call executes an endpoint and decodes the response into T.
func call[T any](ctx context.Context, c *Client, ep Endpoint, params map[string]string, body any) (*Response[T], error) {
	resp, err := c.http.Do(ctx, httpclient.Request{
		Method:     ep.Method,
		Path:       ep.Path,
		PathParams: params,
		Body:       body,
	})
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", ep.Method, ep.Path, err)
	}
	out, err := decodeResponse[T](resp)
	if err != nil {
		c.log.WarnObj("response body not decodable", "decode_error", map[string]any{
			"endpoint": ep.Name,
			"status":   resp.StatusCode(),
			"error":    err.Error(),
		})
		return out, fmt.Errorf("%s %s: %w", ep.Method, ep.Path, err)
	}
	return out, nil
}

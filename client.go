package paypal

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultConnectTimeout = 5 * time.Second
	DefaultTimeout        = 15 * time.Second
)

// Client talks to the PayPal REST API of whichever environment [Mode] selects.
// The environment is read once per operation, so a single call never mixes
// sandbox and live endpoints or credentials.
type Client struct {
	live, sandbox *Env
	mode          Mode

	tokens *TokenCache
	orders *OrderRequestBuilder
	hc     *http.Client
}

type options struct {
	connectTimeout     time.Duration
	timeout            time.Duration
	insecureSkipVerify bool
	hc                 *http.Client
	now                func() time.Time
	context            ContextSource
}

type Option func(*options)

// WithTimeouts overrides the connect and total timeouts of outbound calls.
func WithTimeouts(connect, total time.Duration) Option {
	return func(o *options) {
		o.connectTimeout = connect
		o.timeout = total
	}
}

// WithInsecureSkipVerify disables TLS peer and host verification.
// Only meant for local sandbox testing behind intercepting proxies.
func WithInsecureSkipVerify() Option {
	return func(o *options) { o.insecureSkipVerify = true }
}

// WithHTTPClient replaces the HTTP client, timeouts and TLS options are then ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.hc = hc }
}

// WithClock sets the time source used for token expiry.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func NewClient(live, sandbox *Env, mode Mode, store Store, opts ...Option) *Client {
	o := &options{
		connectTimeout: DefaultConnectTimeout,
		timeout:        DefaultTimeout,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}

	hc := o.hc
	if hc == nil {
		hc = &http.Client{
			Timeout:   o.timeout,
			Transport: newTransport(o),
		}
	}
	return &Client{
		live:    live,
		sandbox: sandbox,
		mode:    mode,
		tokens:  newTokenCache(store, hc, o.now),
		orders:  &OrderRequestBuilder{Context: o.context},
		hc:      hc,
	}
}

func newTransport(o *options) http.RoundTripper {
	return otelhttp.NewTransport(
		newBaseTransport(o),
		otelhttp.WithSpanNameFormatter(formatSpanName),
		otelhttp.WithSpanOptions(
			trace.WithAttributes(semconv.PeerServiceKey.String("paypal")),
		),
	)
}

// newBaseTransport requires TLS 1.2 and verifies certificates unless
// [WithInsecureSkipVerify] is given.
func newBaseTransport(o *options) *http.Transport {
	dialer := &net.Dialer{
		Timeout:   o.connectTimeout,
		KeepAlive: 30 * time.Second,
	}
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.DialContext = dialer.DialContext
	t.TLSHandshakeTimeout = o.connectTimeout
	t.TLSClientConfig = &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: o.insecureSkipVerify, //nolint:gosec // explicit opt-in
	}
	return t
}

func formatSpanName(_ string, r *http.Request) string {
	op := GetOperation(r.Context())
	if op == "" {
		// Fallback to the default name
		op = r.Method
	}
	return "PayPal " + op
}

type operationKey struct{}

func WithOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, operationKey{}, op)
}

func GetOperation(ctx context.Context) string {
	op, _ := ctx.Value(operationKey{}).(string)
	return op
}

// Env returns the environment selected for the current operation.
func (c *Client) Env(ctx context.Context) *Env {
	if c.mode != nil && c.mode.SandboxEnabled(ctx) {
		return c.sandbox
	}
	return c.live
}

// Tokens returns the bearer token cache shared by all calls of the client.
func (c *Client) Tokens() *TokenCache {
	return c.tokens
}

// Send performs an authenticated JSON call against env and returns the raw body.
// HTTP errors carrying a PayPal error body are returned as [RequestError] wrapping [Error].
// Nothing is retried.
func (c *Client) Send(ctx context.Context, env *Env, method, path string, header http.Header, data any,
) (bs []byte, err error) {
	req, err := NewJSONRequest(ctx, method, env.APIBase+path, data)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	token, err := c.tokens.Token(ctx, env)
	if err != nil {
		return
	}
	for k, vs := range header {
		req.Header[k] = vs
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	hres, err := c.hc.Do(req)
	if err != nil {
		return nil, &RequestError{Kind: RequestTransport, Err: err}
	}
	defer hres.Body.Close()
	bs, err = io.ReadAll(hres.Body)
	if err != nil {
		return nil, &RequestError{Kind: RequestTransport, Status: hres.StatusCode, Err: err}
	}
	if hres.StatusCode < 400 {
		return bs, nil
	}

	e := &Error{}
	if err = json.Unmarshal(bs, e); err != nil {
		return nil, &RequestError{Kind: RequestJSONDecode, Status: hres.StatusCode, Body: string(bs), Err: err}
	}
	e.StatusCode = hres.StatusCode
	return nil, &RequestError{Kind: RequestUnexpectedShape, Status: hres.StatusCode, Body: string(bs), Err: e}
}

// JSON performs the request with the data marshaled to JSON format,
// checks that every required top-level field is present in the response
// and unmarshals the response body into a new R.
func JSON[R any](ctx context.Context, c *Client, env *Env, method, path string, header http.Header,
	data any, required ...string,
) (res *R, err error) {
	bs, err := c.Send(ctx, env, method, path, header, data)
	if err != nil {
		return
	}
	var fields map[string]json.RawMessage
	if err = json.Unmarshal(bs, &fields); err != nil {
		return nil, &RequestError{Kind: RequestJSONDecode, Body: string(bs), Err: err}
	}
	for _, name := range required {
		if _, ok := fields[name]; !ok {
			return nil, &RequestError{Kind: RequestUnexpectedShape, Body: string(bs)}
		}
	}
	res = new(R)
	if err = json.Unmarshal(bs, res); err != nil {
		return nil, &RequestError{Kind: RequestJSONDecode, Body: string(bs), Err: err}
	}
	return
}

// NewJSONRequest returns a new [http.Request] with the given data marshaled to JSON format.
func NewJSONRequest(ctx context.Context, method, url string, data any,
) (res *http.Request, err error) {
	var r io.Reader
	if data != nil {
		bs, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		r = bytes.NewReader(bs)
	}
	res, err = http.NewRequestWithContext(ctx, method, url, r)
	if err != nil {
		return
	}
	res.Header.Set("Content-Type", "application/json")
	return
}

package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// ResponseType selects how a response body is delivered to the caller.
type ResponseType string

const (
	// ResponseTypeJSON buffers the body for decoding. This is the default.
	ResponseTypeJSON ResponseType = "json"
	// ResponseTypeStream hands back the raw body for endpoints that return
	// binary media instead of structured JSON. The caller must close it.
	ResponseTypeStream ResponseType = "stream"
)

// ErrorHandler is an error-as-value recovery hook. When configured it is
// invoked for both transport and HTTP-status failures, and its return
// values become the call's result instead of the propagated error.
type ErrorHandler func(error) (*Response, error)

// Config fixes the client-level settings at construction.
type Config struct {
	BaseURL      string
	APIToken     string
	ErrorHandler ErrorHandler
	Logger       *logrus.Logger
}

// Client issues authenticated HTTP requests against a configured base
// endpoint and normalizes failures. It holds no mutable state beyond its
// static configuration, so concurrent calls need no synchronization.
type Client struct {
	baseURL      string
	apiToken     string
	errorHandler ErrorHandler
	logger       *logrus.Logger
	http         *resty.Client
	tracer       oteltrace.Tracer
}

// NewClient builds a client from cfg. BaseURL is required for relative
// endpoint resolution; APIToken is injected into every request as a bearer
// credential.
func NewClient(cfg Config) *Client {
	rc := resty.New()
	rc.SetHeader("Content-Type", "application/json")

	return &Client{
		baseURL:      cfg.BaseURL,
		apiToken:     cfg.APIToken,
		errorHandler: cfg.ErrorHandler,
		logger:       cfg.Logger,
		http:         rc,
		tracer:       otel.Tracer("wacloud/rest"),
	}
}

// RequestOptions are per-call overrides merged over the client defaults.
// Caller headers take precedence over defaults; BaseURL overrides the
// client base for exactly one call.
type RequestOptions struct {
	Params       map[string]string
	Body         interface{}
	Headers      map[string]string
	BaseURL      string
	ResponseType ResponseType
}

// Response is the outcome of a successful call: Body in JSON mode, Stream
// in stream mode.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Stream     io.ReadCloser
}

// Decode unmarshals the buffered JSON body into v.
func (r *Response) Decode(v interface{}) error {
	return json.Unmarshal(r.Body, v)
}

// Get issues a GET request with params serialized as URL query parameters.
func (c *Client) Get(ctx context.Context, endpoint string, params map[string]string, opts *RequestOptions) (*Response, error) {
	merged := cloneOptions(opts)
	if params != nil {
		merged.Params = params
	}
	return c.Fetch(ctx, http.MethodGet, endpoint, merged)
}

// Post issues a POST request with payload serialized as a JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, payload interface{}, opts *RequestOptions) (*Response, error) {
	merged := cloneOptions(opts)
	if payload != nil {
		merged.Body = payload
	}
	return c.Fetch(ctx, http.MethodPost, endpoint, merged)
}

// Put issues a PUT request with payload serialized as a JSON body.
func (c *Client) Put(ctx context.Context, endpoint string, payload interface{}, opts *RequestOptions) (*Response, error) {
	merged := cloneOptions(opts)
	if payload != nil {
		merged.Body = payload
	}
	return c.Fetch(ctx, http.MethodPut, endpoint, merged)
}

// Delete issues a DELETE request with params serialized as URL query
// parameters.
func (c *Client) Delete(ctx context.Context, endpoint string, params map[string]string, opts *RequestOptions) (*Response, error) {
	merged := cloneOptions(opts)
	if params != nil {
		merged.Params = params
	}
	return c.Fetch(ctx, http.MethodDelete, endpoint, merged)
}

// Fetch is the low-level operation the verb helpers delegate to.
func (c *Client) Fetch(ctx context.Context, method, endpoint string, opts *RequestOptions) (*Response, error) {
	if opts == nil {
		opts = &RequestOptions{}
	}

	target, err := c.resolveURL(endpoint, opts)
	if err != nil {
		return c.fail(err)
	}

	ctx, span := c.tracer.Start(ctx, "rest.fetch", oteltrace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.url", target),
	))
	defer span.End()

	req := c.http.R().SetContext(ctx)
	req.SetHeader("Authorization", "Bearer "+c.apiToken)
	for k, v := range opts.Headers {
		req.SetHeader(k, v)
	}
	if opts.Body != nil {
		req.SetBody(opts.Body)
	}
	stream := opts.ResponseType == ResponseTypeStream
	if stream {
		req.SetDoNotParseResponse(true)
	}

	resp, err := req.Execute(method, target)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return c.fail(err)
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode()))

	if resp.StatusCode() >= http.StatusBadRequest {
		body := resp.Body()
		if stream {
			body = drainRawBody(resp)
		}
		statusErr := newStatusError(resp.StatusCode(), body)
		span.SetStatus(codes.Error, statusErr.Message)
		return c.fail(statusErr)
	}

	span.SetStatus(codes.Ok, "")
	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{
			"method": method,
			"url":    target,
			"status": resp.StatusCode(),
		}).Debug("Request completed")
	}

	out := &Response{StatusCode: resp.StatusCode(), Header: resp.Header()}
	if stream {
		out.Stream = resp.RawBody()
	} else {
		out.Body = resp.Body()
	}
	return out, nil
}

// resolveURL applies standard relative-URL resolution of endpoint against
// the effective base (call-level override, else client default) and
// appends query parameters.
func (c *Client) resolveURL(endpoint string, opts *RequestOptions) (string, error) {
	base := c.baseURL
	if opts.BaseURL != "" {
		base = opts.BaseURL
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	ref, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}

	resolved := u.ResolveReference(ref)
	if len(opts.Params) > 0 {
		q := resolved.Query()
		for k, v := range opts.Params {
			q.Set(k, v)
		}
		resolved.RawQuery = q.Encode()
	}
	return resolved.String(), nil
}

// fail routes the error through the recovery hook when one is configured,
// otherwise propagates it.
func (c *Client) fail(err error) (*Response, error) {
	if c.logger != nil {
		c.logger.WithError(err).Warn("Request failed")
	}
	if c.errorHandler != nil {
		return c.errorHandler(err)
	}
	return nil, err
}

func cloneOptions(opts *RequestOptions) *RequestOptions {
	if opts == nil {
		return &RequestOptions{}
	}
	clone := *opts
	return &clone
}

func drainRawBody(resp *resty.Response) []byte {
	rb := resp.RawBody()
	if rb == nil {
		return nil
	}
	defer rb.Close()
	body, err := io.ReadAll(rb)
	if err != nil {
		return nil
	}
	return body
}

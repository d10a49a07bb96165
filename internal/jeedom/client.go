package jeedom

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	instrumentationName = "github.com/fyrsmithlabs/jeedom-status/internal/jeedom"

	// APIPath is the JSON-RPC endpoint relative to the controller URL.
	APIPath = "/core/api/jeeApi.php"

	defaultTimeout = 10 * time.Second

	// maxResponseSize bounds eqLogic::all, the largest response.
	maxResponseSize = 16 * 1024 * 1024
)

// Request is a JSON-RPC 2.0 request to the controller.
type Request struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      string        `json:"id"`
	Method  string        `json:"method"`
	Params  RequestParams `json:"params"`
}

// RequestParams authenticates a request. Datetime is a placeholder the API expects.
type RequestParams struct {
	APIKey   string `json:"apikey"`
	Datetime string `json:"datetime"`
}

// Client calls the controller's JSON-RPC API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	rest       *resty.Client
	maxBody    int64
	logger     *zap.Logger
	tracer     trace.Tracer
	newID      func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client, for custom transports or tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the logger. Response bodies are logged at the lowest level enabled.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTracerProvider sets the tracer provider. Defaults to the global one.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		if tp != nil {
			c.tracer = tp.Tracer(instrumentationName)
		}
	}
}

// NewClient creates a client for the controller at baseURL.
func NewClient(baseURL, apiKey string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("jeedom url is required")
	}
	if apiKey == "" {
		return nil, errors.New("jeedom api key is required")
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		maxBody:    maxResponseSize,
		logger:     zap.NewNop(),
		tracer:     otel.Tracer(instrumentationName),
		newID:      func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(c)
	}

	c.rest = resty.NewWithClient(c.httpClient).
		SetBaseURL(c.baseURL).
		SetLogger(c.logger.Sugar()).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return c, nil
}

// BaseURL returns the controller URL without the API path.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Endpoint returns the JSON-RPC endpoint URL.
func (c *Client) Endpoint() string {
	return c.baseURL + APIPath
}

// Call sends one JSON-RPC request and returns the sanitized response body.
// The body is not decoded; use the Decode functions or the typed helpers.
func (c *Client) Call(ctx context.Context, method string) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "jeedom."+method, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	id := c.newID()
	span.SetAttributes(
		attribute.String("rpc.system", "jsonrpc"),
		attribute.String("rpc.method", method),
		attribute.String("rpc.jsonrpc.request_id", id),
	)

	body, err := c.call(ctx, method, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("http.response.body.size", len(body)))
	return body, nil
}

func (c *Client) call(ctx context.Context, method, id string) ([]byte, error) {
	start := time.Now()
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(Request{
			JSONRPC: "2.0",
			ID:      id,
			Method:  method,
			Params:  RequestParams{APIKey: c.apiKey, Datetime: "1"},
		}).
		SetDoNotParseResponse(true).
		Post(APIPath)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", method, err)
	}
	rawBody := resp.RawBody()
	defer rawBody.Close()

	raw, err := io.ReadAll(io.LimitReader(rawBody, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", method, err)
	}
	if int64(len(raw)) > c.maxBody {
		return nil, fmt.Errorf("%s: %w (max %d bytes)", method, ErrResponseTooLarge, c.maxBody)
	}

	c.logger.Debug("jeedom request sent",
		zap.String("method", method),
		zap.String("request_id", id),
		zap.Int("status", resp.StatusCode()),
		zap.Int("bytes", len(raw)),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode() != http.StatusOK {
		return nil, &HTTPStatusError{Method: method, StatusCode: resp.StatusCode()}
	}

	body := Sanitize(raw)
	if ce := c.logger.Check(zap.DebugLevel-1, "jeedom response body"); ce != nil {
		ce.Write(zap.String("method", method), zap.ByteString("body", body))
	}
	return body, nil
}

// Ping checks the API answers and the key is accepted.
func (c *Client) Ping(ctx context.Context) (string, error) {
	body, err := c.Call(ctx, MethodPing)
	if err != nil {
		return "", err
	}
	return DecodePing(body)
}

// Version returns the controller version.
func (c *Client) Version(ctx context.Context) (string, error) {
	body, err := c.Call(ctx, MethodVersion)
	if err != nil {
		return "", err
	}
	return DecodeVersion(body)
}

// GlobalSummary returns the global summary counters.
func (c *Client) GlobalSummary(ctx context.Context) (*GlobalSummary, error) {
	body, err := c.Call(ctx, MethodGlobalSummary)
	if err != nil {
		return nil, err
	}
	return DecodeGlobalSummary(body)
}

// Devices returns every device with its status block.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	body, err := c.Call(ctx, MethodDevices)
	if err != nil {
		return nil, err
	}
	return DecodeDevices(body)
}

// Notifications returns the pending notifications.
func (c *Client) Notifications(ctx context.Context) ([]Notification, error) {
	body, err := c.Call(ctx, MethodNotifications)
	if err != nil {
		return nil, err
	}
	return DecodeNotifications(body)
}

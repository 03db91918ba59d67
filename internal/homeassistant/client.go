package homeassistant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// instrumentationName identifies this package's tracer and meter.
const instrumentationName = "github.com/nerrad567/heizung-bridge/internal/homeassistant"

// defaultTimeout applies when Options.Timeout is zero.
const defaultTimeout = 8 * time.Second

// Options configures a Client.
type Options struct {
	// BaseURL is the API root, e.g. "http://hausverstand.local:8123/api/".
	BaseURL string

	// Token is the long-lived access token sent as a bearer token.
	Token string

	// Timeout bounds each call. Zero means 8 seconds.
	Timeout time.Duration
}

// Client calls the Home Assistant REST API.
type Client struct {
	http     *resty.Client
	tracer   trace.Tracer
	calls    metric.Int64Counter
	duration metric.Float64Histogram
}

// New creates a Client.
//
// Returns ErrInvalidConfig when the base URL or token is missing.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	if opts.Token == "" {
		return nil, fmt.Errorf("%w: token is required", ErrInvalidConfig)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	meter := otel.Meter(instrumentationName)
	calls, err := meter.Int64Counter("heizung.homeassistant.calls",
		metric.WithDescription("Home Assistant API calls by endpoint and outcome"))
	if err != nil {
		return nil, fmt.Errorf("creating call counter: %w", err)
	}
	duration, err := meter.Float64Histogram("heizung.homeassistant.duration",
		metric.WithDescription("Home Assistant API call latency"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	httpClient := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetRetryCount(0).
		SetAuthToken(opts.Token).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		http:     httpClient,
		tracer:   otel.Tracer(instrumentationName),
		calls:    calls,
		duration: duration,
	}, nil
}

// Call issues one request against the API and returns the raw response body.
//
// Parameters:
//   - method: http.MethodGet or http.MethodPost
//   - path: endpoint path relative to the base URL, e.g. "services/switch/turn_on"
//   - body: JSON-encodable request body, or nil
//
// Returns:
//   - []byte: the response body on a 2xx response
//   - error: ErrRequestFailed on transport failure, ErrUnexpectedStatus on non-2xx
func (c *Client) Call(ctx context.Context, method, path string, body any) ([]byte, error) {
	endpoint := endpointLabel(method, path)
	ctx, span := c.tracer.Start(ctx, "homeassistant "+endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("homeassistant.path", path),
		))
	defer span.End()

	start := time.Now()
	respBody, err := c.do(ctx, method, path, body)

	outcome := "ok"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	attrs := metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("outcome", outcome),
	)
	c.calls.Add(ctx, 1, attrs)
	c.duration.Record(ctx, time.Since(start).Seconds(), attrs)

	return respBody, err
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrRequestFailed, method, path, err)
	}
	if !resp.IsSuccess() {
		return resp.Body(), fmt.Errorf("%w: %s %s: %s", ErrUnexpectedStatus, method, path, resp.Status())
	}
	return resp.Body(), nil
}

// endpointLabel reduces a path to a low-cardinality metric label.
// State queries carry an entity ID in the path and collapse to "states".
func endpointLabel(method, path string) string {
	if method == http.MethodGet && strings.HasPrefix(path, "states/") {
		return "states"
	}
	return path
}

// serviceCall is the body of a plain entity service call.
type serviceCall struct {
	EntityID string `json:"entity_id"`
}

// TurnOn calls switch.turn_on for a switch entity.
func (c *Client) TurnOn(ctx context.Context, entityID string) ([]byte, error) {
	return c.Call(ctx, http.MethodPost, "services/switch/turn_on", serviceCall{EntityID: entityID})
}

// TurnOff calls switch.turn_off for a switch entity.
func (c *Client) TurnOff(ctx context.Context, entityID string) ([]byte, error) {
	return c.Call(ctx, http.MethodPost, "services/switch/turn_off", serviceCall{EntityID: entityID})
}

// setValueCall is the body of input_text.set_value.
type setValueCall struct {
	EntityID string `json:"entity_id"`
	Value    string `json:"value"`
}

// SetText calls input_text.set_value.
func (c *Client) SetText(ctx context.Context, entityID, value string) ([]byte, error) {
	return c.Call(ctx, http.MethodPost, "services/input_text/set_value", setValueCall{EntityID: entityID, Value: value})
}

// LogbookEntry is the body of logbook.log.
type LogbookEntry struct {
	Name     string `json:"name"`
	Message  string `json:"message"`
	EntityID string `json:"entity_id,omitempty"`
}

// Logbook writes a custom logbook entry.
func (c *Client) Logbook(ctx context.Context, entry LogbookEntry) ([]byte, error) {
	return c.Call(ctx, http.MethodPost, "services/logbook/log", entry)
}

// State is a decoded states/<entity_id> response.
type State struct {
	// Value is the entity state. Empty when HasState is false.
	Value string

	// HasState reports whether the body contained a "state" field at all.
	HasState bool

	// Body is the raw response body.
	Body []byte
}

// GetState fetches the current state of an entity.
//
// Returns ErrInvalidResponse when the body is not a JSON object.
// A JSON object without a "state" field is not an error; HasState is false.
func (c *Client) GetState(ctx context.Context, entityID string) (State, error) {
	body, err := c.Call(ctx, http.MethodGet, "states/"+url.PathEscape(entityID), nil)
	if err != nil {
		return State{Body: body}, err
	}

	var decoded struct {
		State *string `json:"state"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return State{Body: body}, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	st := State{Body: body}
	if decoded.State != nil {
		st.Value = *decoded.State
		st.HasState = true
	}
	return st, nil
}

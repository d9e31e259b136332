package fiveiron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/teeslots/bayfinder/internal/domain/availability"
)

const (
	defaultBaseURL   = "https://api.booking.fiveirongolf.com"
	availabilityPath = "/appointments/available/simulator"
	defaultUserAgent = "Mozilla/5.0 (Linux; Android 6.0; Nexus 5 Build/MRA58N) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/139.0.0.0 Mobile Safari/537.36"
	defaultOrigin    = "https://booking.fiveirongolf.com"
	defaultReferer   = "https://booking.fiveirongolf.com/"
	defaultTimeout   = 10 * time.Second
)

// Options tunes the booking API client. Zero values use the public endpoint
// and the headers the booking site itself sends.
type Options struct {
	BaseURL   string
	UserAgent string
	Origin    string
	Referer   string
	Timeout   time.Duration
	Transport http.RoundTripper
}

// Client fetches simulator availability from the Five Iron booking API.
type Client struct {
	baseURL    string
	userAgent  string
	origin     string
	referer    string
	httpClient *http.Client
}

var _ availability.UpstreamClient = (*Client)(nil)

// NewClient builds an API client.
func NewClient(opts Options) *Client {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Client{
		baseURL:   strings.TrimRight(base, "/"),
		userAgent: valueOr(opts.UserAgent, defaultUserAgent),
		origin:    valueOr(opts.Origin, defaultOrigin),
		referer:   valueOr(opts.Referer, defaultReferer),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(transport),
		},
	}
}

// FetchRaw returns the upstream response body unmodified.
func (c *Client) FetchRaw(ctx context.Context, params availability.FetchParams) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(params), nil)
	if err != nil {
		return nil, &availability.TransportError{Err: fmt.Errorf("build availability request: %w", err)}
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("content-type", "application/json")
	req.Header.Set("user-agent", c.userAgent)
	req.Header.Set("origin", c.origin)
	req.Header.Set("referer", c.referer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &availability.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, &availability.UpstreamError{Status: resp.StatusCode, StatusText: statusText(resp)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &availability.TransportError{Err: fmt.Errorf("read availability response: %w", err)}
	}
	if !json.Valid(body) {
		return nil, &availability.DecodeError{Err: errors.New("response is not valid JSON")}
	}
	return json.RawMessage(body), nil
}

// Fetch retrieves and decodes the slots for one request.
func (c *Client) Fetch(ctx context.Context, params availability.FetchParams) ([]availability.RawTimeSlot, error) {
	body, err := c.FetchRaw(ctx, params)
	if err != nil {
		return nil, err
	}
	var slots []availability.RawTimeSlot
	if err := json.Unmarshal(body, &slots); err != nil {
		return nil, &availability.DecodeError{Err: err}
	}
	return slots, nil
}

func (c *Client) endpoint(params availability.FetchParams) string {
	query := url.Values{}
	query.Set("locationId", params.LocationID)
	query.Set("partySize", strconv.Itoa(params.PartySize))
	query.Set("startDateTime", params.Start)
	query.Set("endDateTime", params.End)
	return c.baseURL + availabilityPath + "?" + query.Encode()
}

// statusText extracts the reason phrase the server actually sent.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		return http.StatusText(resp.StatusCode)
	}
	return text
}

func valueOr(v, fallback string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return fallback
}

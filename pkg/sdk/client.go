// Package sdk is a thin HTTP client for the discovery API server. It mirrors
// the wire types of the /v1 endpoints and maps API errors to typed values.
package sdk

import (
	"bytes"
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
)

const defaultTimeout = 15 * time.Second

// Client talks to a discovery API server.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithAPIKey sets the bearer token sent with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpc = hc
		}
	}
}

// New creates a client for the given base URL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("sdk: base URL required")
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// SearchRequest carries the filter criteria. Zero values mean "no filter"
// for every dimension.
type SearchRequest struct {
	Category      string  `json:"category,omitempty"`
	Query         string  `json:"query,omitempty"`
	Area          string  `json:"area,omitempty"`
	ServiceType   string  `json:"serviceType,omitempty"`
	MaxDistanceKm float64 `json:"maxDistanceKm,omitempty"`
	MinRating     float64 `json:"minRating,omitempty"`
	PriceMin      float64 `json:"priceMin,omitempty"`
	PriceMax      float64 `json:"priceMax,omitempty"`
}

// SearchResult is one listing in the filtered, distance-sorted order.
// Coordinates is [lon, lat] when present.
type SearchResult struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Service     string    `json:"service,omitempty"`
	Location    string    `json:"location,omitempty"`
	Coordinates []float64 `json:"coordinates,omitempty"`
	Rating      float64   `json:"rating"`
	DistanceKm  *float64  `json:"distanceKm,omitempty"`
	Price       float64   `json:"price"`
}

// SearchResponse is the search endpoint payload.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Total   int            `json:"total"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("discovery api: %d %s: %s", e.Status, e.Code, e.Message)
}

// IsNotFound reports whether err is a 404 API error.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Search runs the filter pipeline server-side and returns the ordered
// results with resolved prices.
func (c *Client) Search(ctx context.Context, req SearchRequest) (SearchResponse, error) {
	var resp SearchResponse
	if err := c.do(ctx, http.MethodPost, "/v1/listings/search", nil, req, &resp); err != nil {
		return SearchResponse{}, err
	}
	return resp, nil
}

// Price resolves a listing's price in the given search context. Query and
// category may be empty.
func (c *Client) Price(ctx context.Context, id, query, category string) (float64, error) {
	q := url.Values{}
	if query != "" {
		q.Set("query", query)
	}
	if category != "" {
		q.Set("category", category)
	}

	var out struct {
		Price float64 `json:"price"`
	}
	path := "/v1/listings/" + url.PathEscape(id) + "/price"
	if err := c.do(ctx, http.MethodGet, path, q, nil, &out); err != nil {
		return 0, err
	}
	return out.Price, nil
}

// ReplaceListings publishes a wholesale listing snapshot (a JSON array) and
// returns the number of listings accepted.
func (c *Client) ReplaceListings(ctx context.Context, snapshot []byte) (int, error) {
	var out struct {
		Accepted int `json:"accepted"`
	}
	if err := c.do(ctx, http.MethodPut, "/v1/listings", nil, json.RawMessage(snapshot), &out); err != nil {
		return 0, err
	}
	return out.Accepted, nil
}

// Health reports whether the server and its listing source are healthy.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("sdk: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("sdk: build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("sdk: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("sdk: decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if json.Unmarshal(data, &body) == nil && body.Code != "" {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
	} else {
		apiErr.Code = "http_" + strconv.Itoa(resp.StatusCode)
		apiErr.Message = strings.TrimSpace(string(data))
	}
	return apiErr
}

// Package client talks to the product, template, and catalog services over
// HTTP. Responses are JSON; submissions are multipart.
package client

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

	"github.com/goliatone/go-productform/pkg/catalog"
	"github.com/goliatone/go-productform/pkg/model"
	"github.com/goliatone/go-productform/pkg/submit"
)

// ErrNotFound marks a 404 on a fetch-one request. The editor surfaces it as
// a full-screen not-found state rather than a field error.
var ErrNotFound = errors.New("client: not found")

// StatusError carries a non-2xx response status for callers that need the
// code.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return "client: unexpected status " + e.Status
}

// Client wraps the service endpoints the form depends on.
type Client struct {
	base    string
	http    *http.Client
	timeout time.Duration
}

// Option mutates the client during construction.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

// WithTimeout bounds every request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// New builds a client for a service base URL.
func New(base string, opts ...Option) *Client {
	c := &Client{
		base:    strings.TrimRight(base, "/"),
		http:    http.DefaultClient,
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Product fetches one persisted record by id.
func (c *Client) Product(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, errors.New("client: product id is required")
	}
	var wrapper struct {
		Data *model.Product `json:"data"`
	}
	if err := c.getJSON(ctx, "/product/"+url.PathEscape(id), nil, &wrapper); err != nil {
		return nil, err
	}
	if wrapper.Data == nil {
		return nil, ErrNotFound
	}
	return wrapper.Data, nil
}

// Template fetches the specification template for a product type.
func (c *Client) Template(ctx context.Context, productTypeID string) (*model.TypeTemplate, error) {
	if productTypeID == "" {
		return nil, errors.New("client: product type id is required")
	}
	var wrapper struct {
		Data *model.TypeTemplate `json:"data"`
	}
	if err := c.getJSON(ctx, "/product-type/"+url.PathEscape(productTypeID), nil, &wrapper); err != nil {
		return nil, err
	}
	if wrapper.Data == nil {
		return nil, ErrNotFound
	}
	if wrapper.Data.ID == "" {
		wrapper.Data.ID = productTypeID
	}
	return wrapper.Data, nil
}

// Query parameterises a paginated catalog search.
type Query struct {
	Search    string
	Take      int
	SortOrder string
	Status    *bool
	// Scope carries caller-supplied filter parameters verbatim.
	Scope map[string]string
}

// SearchProducts runs a paginated catalog search.
func (c *Client) SearchProducts(ctx context.Context, q Query) (*catalog.Page, error) {
	params := url.Values{}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Take > 0 {
		params.Set("take", strconv.Itoa(q.Take))
	}
	if q.SortOrder != "" {
		params.Set("sortOrder", q.SortOrder)
	}
	if q.Status != nil {
		params.Set("status", strconv.FormatBool(*q.Status))
	}
	for key, value := range q.Scope {
		params.Set(key, value)
	}

	var page catalog.Page
	if err := c.getJSON(ctx, "/product", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SubmitProduct sends an assembled payload: POST to create when id is empty,
// PUT to update otherwise.
func (c *Client) SubmitProduct(ctx context.Context, id string, payload *submit.Payload) error {
	if payload == nil {
		return errors.New("client: payload is required")
	}

	var body bytes.Buffer
	contentType, err := payload.WriteMultipart(&body)
	if err != nil {
		return err
	}

	method := http.MethodPost
	path := "/product"
	if id != "" {
		method = http.MethodPut
		path = "/product/" + url.PathEscape(id)
	}

	reqCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, c.base+path, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	return checkStatus(resp)
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	reqCtx, cancel := c.requestContext(ctx)
	defer cancel()

	target := c.base + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if err := checkStatus(resp); err != nil {
		return err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("client: decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return ctx, func() {}
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return nil
}

// Package commerce is a thin proxy client for the WordPress/WooCommerce
// backend. It owns endpoint rewriting and credential injection only; order
// and customer data pass through as raw JSON.
package commerce

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrUnknownSite = errors.New("unknown commerce site")

// APIError is a non-2xx reply from the WordPress API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("wordpress api request failed: %d - %s", e.Status, e.Body)
}

// Site holds one WordPress installation's URL and WooCommerce keys.
type Site struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
}

type Client struct {
	sites map[string]Site
	http  *http.Client
}

func NewClient(sites map[string]Site) *Client {
	return &Client{
		sites: sites,
		http:  &http.Client{Timeout: 20 * time.Second},
	}
}

// Get routes a read to the right API family. Endpoints beginning "wc/" hit
// the core WooCommerce REST API (wp-json/wc/v3) with basic auth; "cwc/"
// endpoints hit the custom portal plugin (wp-json/cwc/v2), which
// authenticates via a consumer_secret query parameter.
func (c *Client) Get(ctx context.Context, site, endpoint, customerID string) (json.RawMessage, error) {
	s, ok := c.sites[site]
	if !ok {
		return nil, ErrUnknownSite
	}
	switch {
	case strings.HasPrefix(endpoint, "wc/"):
		u := s.BaseURL + "/wp-json/wc/v3/" + strings.TrimPrefix(endpoint, "wc/")
		if customerID != "" {
			u += "?customer=" + url.QueryEscape(customerID)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Basic "+basicAuth(s.ConsumerKey, s.ConsumerSecret))
		return c.do(req)
	case strings.HasPrefix(endpoint, "cwc/"):
		q := url.Values{}
		if customerID != "" {
			q.Set("customer", customerID)
		}
		q.Set("consumer_secret", s.ConsumerSecret)
		u := s.BaseURL + "/wp-json/cwc/v2/" + strings.TrimPrefix(endpoint, "cwc/") + "?" + q.Encode()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		return c.do(req)
	default:
		return nil, fmt.Errorf("unknown endpoint style for GET: %s", endpoint)
	}
}

// Put forwards a customer update to the cwc plugin.
func (c *Client) Put(ctx context.Context, site, endpoint string, body interface{}) (json.RawMessage, error) {
	if !strings.HasPrefix(endpoint, "cwc/update-customer/") {
		return nil, fmt.Errorf("unknown endpoint for PUT: %s", endpoint)
	}
	return c.sendJSON(ctx, site, http.MethodPut, endpoint, body)
}

// Post forwards a password change to the cwc plugin.
func (c *Client) Post(ctx context.Context, site, endpoint string, body interface{}) (json.RawMessage, error) {
	if endpoint != "cwc/customer/set-password" {
		return nil, fmt.Errorf("unknown endpoint for POST: %s", endpoint)
	}
	return c.sendJSON(ctx, site, http.MethodPost, endpoint, body)
}

func (c *Client) sendJSON(ctx context.Context, site, method, endpoint string, body interface{}) (json.RawMessage, error) {
	s, ok := c.sites[site]
	if !ok {
		return nil, ErrUnknownSite
	}
	u := s.BaseURL + "/wp-json/cwc/v2/" + strings.TrimPrefix(endpoint, "cwc/") +
		"?consumer_secret=" + url.QueryEscape(s.ConsumerSecret)
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, u, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Body: string(buf)}
	}
	if !json.Valid(buf) {
		return nil, fmt.Errorf("wordpress api returned invalid json")
	}
	return json.RawMessage(buf), nil
}

func basicAuth(key, secret string) string {
	return base64.StdEncoding.EncodeToString([]byte(key + ":" + secret))
}

// Typed wrappers used by the portal handlers.

func (c *Client) Orders(ctx context.Context, site, customerID string) (json.RawMessage, error) {
	return c.Get(ctx, site, "wc/orders", customerID)
}

func (c *Client) Order(ctx context.Context, site, orderID string) (json.RawMessage, error) {
	return c.Get(ctx, site, "wc/orders/"+url.PathEscape(orderID), "")
}

func (c *Client) Downloads(ctx context.Context, site, customerID string) (json.RawMessage, error) {
	return c.Get(ctx, site, "wc/customers/"+url.PathEscape(customerID)+"/downloads", "")
}

func (c *Client) Customer(ctx context.Context, site, customerID string) (json.RawMessage, error) {
	return c.Get(ctx, site, "cwc/customer/"+url.PathEscape(customerID), customerID)
}

func (c *Client) UpdateCustomer(ctx context.Context, site, customerID string, fields map[string]interface{}) (json.RawMessage, error) {
	return c.Put(ctx, site, "cwc/update-customer/"+url.PathEscape(customerID), fields)
}

func (c *Client) SetPassword(ctx context.Context, site string, body map[string]interface{}) (json.RawMessage, error) {
	return c.Post(ctx, site, "cwc/customer/set-password", body)
}

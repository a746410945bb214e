package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Client talks to the ordering backend. Mutations are fire-and-confirm: a
// failure is surfaced to the caller and nothing is retried, the next poll
// tick reconciles the view.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	mu    sync.RWMutex
	token string

	// OnAuthFailure runs after a 401 clears the credential. Staff screens
	// hook their forced-logout redirect here.
	OnAuthFailure func()
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SetToken installs the staff bearer credential.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the currently held credential, empty after a forced logout.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// ClearToken drops the credential, as on logout.
func (c *Client) ClearToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

/*
========================================
 READS
========================================
*/

func (c *Client) FetchActiveOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, http.MethodGet, "/api/get_all_active_orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) FetchCalls(ctx context.Context) ([]Call, error) {
	var calls []Call
	if err := c.do(ctx, http.MethodGet, "/api/get_calls", nil, &calls); err != nil {
		return nil, err
	}
	return calls, nil
}

func (c *Client) FetchTableSummary(ctx context.Context) ([]TableSummary, error) {
	var tables []TableSummary
	if err := c.do(ctx, http.MethodGet, "/api/get_table_summary", nil, &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

func (c *Client) FetchPaidOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, http.MethodGet, "/api/get_paid_orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) FetchOrderHistory(ctx context.Context, tableID uint, tableToken string) (OrderHistory, error) {
	var history OrderHistory
	path := fmt.Sprintf("/api/get_order_history/%d?token=%s", tableID, url.QueryEscape(tableToken))
	if err := c.do(ctx, http.MethodGet, path, nil, &history); err != nil {
		return OrderHistory{}, err
	}
	return history, nil
}

func (c *Client) FetchProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, "/api/get_products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) FetchCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.do(ctx, http.MethodGet, "/api/get_categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

/*
========================================
 MUTATIONS
========================================
*/

func (c *Client) SetItemStatus(ctx context.Context, itemID uint, status string) error {
	path := fmt.Sprintf("/api/update_item_status/%d", itemID)
	return c.do(ctx, http.MethodPost, path, map[string]string{"status": status}, nil)
}

func (c *Client) SetItemQuantity(ctx context.Context, itemID uint, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive, cancel the item instead", ErrValidation)
	}
	path := fmt.Sprintf("/api/update_item_quantity/%d", itemID)
	return c.do(ctx, http.MethodPost, path, map[string]int{"quantity": quantity}, nil)
}

func (c *Client) CancelItem(ctx context.Context, itemID uint) error {
	path := fmt.Sprintf("/api/cancel_item/%d", itemID)
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

func (c *Client) ResolveCall(ctx context.Context, tableID uint) error {
	path := fmt.Sprintf("/api/resolve_call/%d", tableID)
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

func (c *Client) CheckoutTable(ctx context.Context, tableID uint) error {
	path := fmt.Sprintf("/api/checkout_table/%d", tableID)
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

// PlaceOrder submits a customer order under the table's access token and
// returns the order ID.
func (c *Client) PlaceOrder(ctx context.Context, tableID uint, tableToken string, items []OrderLine) (uint, error) {
	body := map[string]interface{}{
		"tableId":     tableID,
		"accessToken": tableToken,
		"items":       items,
	}
	var resp struct {
		OrderID uint `json:"orderId"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/order", body, &resp); err != nil {
		return 0, err
	}
	return resp.OrderID, nil
}

func (c *Client) CreateCall(ctx context.Context, tableID uint, tableToken, callType string) error {
	body := map[string]interface{}{
		"tableId":   tableID,
		"token":     tableToken,
		"call_type": callType,
	}
	return c.do(ctx, http.MethodPost, "/api/call", body, nil)
}

// GenerateTableToken issues a fresh customer access token for a table.
func (c *Client) GenerateTableToken(ctx context.Context, tableID uint) (string, error) {
	var resp struct {
		TableID     uint   `json:"tableId"`
		AccessToken string `json:"accessToken"`
	}
	path := fmt.Sprintf("/api/generate_table_token/%d", tableID)
	if err := c.do(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

// Login exchanges staff credentials for a bearer token and installs it.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{"username": username, "password": password}
	var resp struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/login", body, &resp); err != nil {
		return "", err
	}
	c.SetToken(resp.Token)
	return resp.Role, nil
}

/*
========================================
 TRANSPORT
========================================
*/

// envelope is the backend's uniform response shape.
type envelope struct {
	Status  bool            `json:"status"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &RequestError{Err: err}
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &RequestError{Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// Hard rule: a rejected credential is dropped immediately and the
		// screen bails to login. Never retried.
		c.ClearToken()
		if c.OnAuthFailure != nil {
			c.OnAuthFailure()
		}
	}

	if !env.Status {
		code := env.Code
		if code == "" {
			code = "INTERNAL"
		}
		return &APIError{HTTPStatus: resp.StatusCode, Code: code, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &RequestError{Err: err}
		}
	}
	return nil
}

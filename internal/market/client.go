package market

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// ErrBackend marks any failure talking to the marketplace backend.
var ErrBackend = errors.New("market: backend error")

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20
)

// Client wraps the backend's REST endpoints. The caller's Cookie header is
// forwarded on authenticated calls; the backend does its own token checks.
type Client struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

// NewClient builds a client against the backend base URL.
func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Categories lists meal categories, optionally filtered by search term.
func (c *Client) Categories(ctx context.Context, cookie, search string) ([]Category, error) {
	path := "/categories"
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}
	var out []Category
	if err := c.do(ctx, http.MethodGet, path, cookie, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Meals lists the whole catalog, optionally filtered by search term.
func (c *Client) Meals(ctx context.Context, cookie, search string) ([]Meal, error) {
	path := "/meals"
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}
	var out []Meal
	if err := c.do(ctx, http.MethodGet, path, cookie, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MealsByCategory lists meals in one category.
func (c *Client) MealsByCategory(ctx context.Context, cookie, categoryID string) ([]Meal, error) {
	var out []Meal
	err := c.do(ctx, http.MethodGet, "/meals/category/"+url.PathEscape(categoryID), cookie, nil, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MealsByProvider lists one provider's meals.
func (c *Client) MealsByProvider(ctx context.Context, cookie, providerID string) ([]Meal, error) {
	var out []Meal
	err := c.do(ctx, http.MethodGet, "/meals/provider/"+url.PathEscape(providerID), cookie, nil, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// OrdersByCustomer lists a customer's order history.
func (c *Client) OrdersByCustomer(ctx context.Context, cookie, userID string) ([]Order, error) {
	var out []Order
	err := c.do(ctx, http.MethodGet, "/orders/customer/"+url.PathEscape(userID), cookie, nil, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// OrdersByProvider lists the orders placed against one provider.
func (c *Client) OrdersByProvider(ctx context.Context, cookie, providerID string) ([]Order, error) {
	var out []Order
	err := c.do(ctx, http.MethodGet, "/orders/provider/"+url.PathEscape(providerID), cookie, nil, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PlaceOrder submits a direct order (the marketplace has no cart).
func (c *Client) PlaceOrder(ctx context.Context, cookie string, order CreateOrder) (Order, error) {
	var out Order
	if err := c.do(ctx, http.MethodPost, "/orders", cookie, order, &out); err != nil {
		return Order{}, err
	}
	return out, nil
}

// UpdateOrderStatus moves an order along its lifecycle.
func (c *Client) UpdateOrderStatus(ctx context.Context, cookie, orderID string, status OrderStatus) (Order, error) {
	var out Order
	body := map[string]string{"status": string(status)}
	err := c.do(ctx, http.MethodPatch, "/orders/"+url.PathEscape(orderID), cookie, body, &out)
	if err != nil {
		return Order{}, err
	}
	return out, nil
}

// ReviewsByMeal lists a meal's reviews.
func (c *Client) ReviewsByMeal(ctx context.Context, cookie, mealID string) ([]Review, error) {
	var out []Review
	err := c.do(ctx, http.MethodGet, "/reviews/meal/"+url.PathEscape(mealID), cookie, nil, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitReview attaches a review to a delivered order.
func (c *Client) SubmitReview(ctx context.Context, cookie string, review CreateReview) (Review, error) {
	var out Review
	if err := c.do(ctx, http.MethodPost, "/reviews", cookie, review, &out); err != nil {
		return Review{}, err
	}
	return out, nil
}

// Brands lists every provider with profile and meal count.
func (c *Client) Brands(ctx context.Context, cookie string) ([]Brand, error) {
	var out []Brand
	if err := c.do(ctx, http.MethodGet, "/profile/providers/all", cookie, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path, cookie string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("market: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("market: build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("backend call failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: %s %s: %v", ErrBackend, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("backend non-2xx", zap.String("path", path), zap.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: %s %s: status %d", ErrBackend, method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: %s %s: read: %v", ErrBackend, method, path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s %s: decode: %v", ErrBackend, method, path, err)
	}
	return nil
}

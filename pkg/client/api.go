package client

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

const dateLayout = "2006-01-02"

// Login signs in and stores the token in the session. The caller decides
// whether to persist it with Session.Save.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var res AuthResult
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", nil, body, &res); err != nil {
		return nil, err
	}
	user := res.User
	c.session.set(res.AccessToken, res.ExpiresAt, &user)
	return &res, nil
}

func (c *Client) Me(ctx context.Context) (*SessionUser, error) {
	var user SessionUser
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Quote asks the server for the delivery fee to city in country. tarifID
// selects a carrier for international destinations.
func (c *Client) Quote(ctx context.Context, city, country, tarifID string) (*Quote, error) {
	q := url.Values{}
	q.Set("city", city)
	if country != "" {
		q.Set("country", country)
	}
	if tarifID != "" {
		q.Set("tarifId", tarifID)
	}
	var quote Quote
	if err := c.do(ctx, http.MethodGet, "/api/v1/delivery/quote", q, nil, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

func (c *Client) ListZones(ctx context.Context) ([]Zone, error) {
	var zones []Zone
	err := c.do(ctx, http.MethodGet, "/api/v1/delivery/zones", nil, nil, &zones)
	return zones, err
}

func (c *Client) ListCountries(ctx context.Context, query string) ([]Country, error) {
	var list []Country
	q := url.Values{}
	if query != "" {
		q.Set("q", query)
	}
	err := c.do(ctx, http.MethodGet, "/api/v1/countries", q, nil, &list)
	return list, err
}

func (c *Client) SearchCities(ctx context.Context, query, country string) ([]City, error) {
	q := url.Values{}
	q.Set("q", query)
	if country != "" {
		q.Set("country", country)
	}
	var cities []City
	err := c.do(ctx, http.MethodGet, "/api/v1/locations/cities", q, nil, &cities)
	return cities, err
}

// PlaceOrder checks out as the signed-in user.
func (c *Client) PlaceOrder(ctx context.Context, req OrderRequest) (*CheckoutResult, error) {
	if c.session.AccessToken() == "" {
		return nil, ErrUnauthorized
	}
	return c.placeOrder(ctx, "/api/v1/orders", req)
}

func (c *Client) PlaceGuestOrder(ctx context.Context, req OrderRequest) (*CheckoutResult, error) {
	return c.placeOrder(ctx, "/api/v1/orders/guest", req)
}

func (c *Client) placeOrder(ctx context.Context, path string, req OrderRequest) (*CheckoutResult, error) {
	var res CheckoutResult
	if err := c.do(ctx, http.MethodPost, path, nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Confirmation(ctx context.Context, orderNumber, email string) (*Order, error) {
	q := url.Values{}
	q.Set("orderNumber", orderNumber)
	q.Set("email", email)
	var order Order
	if err := c.do(ctx, http.MethodGet, "/api/v1/orders/confirmation", q, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// VendorRevenue returns the signed-in vendor's design sales. Zero dates let
// the server pick its default window.
func (c *Client) VendorRevenue(ctx context.Context, start, end time.Time) (*VendorRevenue, error) {
	q := url.Values{}
	if !start.IsZero() {
		q.Set("start", start.Format(dateLayout))
	}
	if !end.IsZero() {
		q.Set("end", end.Format(dateLayout))
	}
	var rev VendorRevenue
	if err := c.do(ctx, http.MethodGet, "/api/v1/vendor/revenue", q, nil, &rev); err != nil {
		return nil, err
	}
	return &rev, nil
}

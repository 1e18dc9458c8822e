package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginStoresTokenAndSaves(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/auth/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "awa@example.sn", body["email"])
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"accessToken": "tok-1",
			"expiresAt":   time.Now().Add(time.Hour),
			"user":        map[string]string{"id": "u-1", "email": "awa@example.sn", "role": "vendor"},
		})
	})

	path := filepath.Join(t.TempDir(), "session.json")
	sess := NewSession(path)
	c := New(srv.URL, sess)

	_, err := c.Login(context.Background(), "awa@example.sn", "teranga2026")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", sess.AccessToken())
	require.NoError(t, sess.Save())

	reloaded := NewSession(path)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, "tok-1", reloaded.AccessToken())
	assert.Equal(t, "vendor", reloaded.CurrentUser().Role)
}

func TestUnauthorizedClearsSession(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer stale", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
	})

	path := filepath.Join(t.TempDir(), "session.json")
	sess := NewSession(path)
	sess.set("stale", time.Now().Add(time.Hour), &SessionUser{ID: "u-1"})
	require.NoError(t, sess.Save())

	c := New(srv.URL, sess)
	_, err := c.Me(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, sess.AccessToken())
	assert.NoFileExists(t, path)
}

func TestExpiredTokenIsNotSent(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	})
	sess := NewSession("")
	sess.set("old", time.Now().Add(-time.Minute), nil)

	_, err := New(srv.URL, sess).ListZones(context.Background())
	require.NoError(t, err)

	_, err = New(srv.URL, sess).PlaceOrder(context.Background(), OrderRequest{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAPIErrorSlots(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("case") {
		case "delivery":
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"error":{"code":"carrier_required","category":"delivery","message":"Choisissez un transporteur","field":"delivery"}}`))
		case "fields":
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"code":"validation_failed","category":"validation","message":"Certains champs sont invalides","fields":{"customer.email":"E-mail invalide"}}}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`upstream down`))
		}
	})
	c := New(srv.URL, nil)

	get := func(kind string) *APIError {
		err := c.do(context.Background(), http.MethodGet, "/x", map[string][]string{"case": {kind}}, nil, nil)
		apiErr, ok := AsAPIError(err)
		require.True(t, ok, "%v", err)
		return apiErr
	}

	e := get("delivery")
	assert.Equal(t, SlotDelivery, e.Slot())
	assert.Equal(t, "Choisissez un transporteur", e.DisplayMessage())

	e = get("fields")
	assert.Equal(t, SlotFields, e.Slot())
	assert.Equal(t, "E-mail invalide", e.Fields["customer.email"])

	e = get("other")
	assert.Equal(t, SlotGeneral, e.Slot())
	assert.Equal(t, http.StatusBadGateway, e.StatusCode)
	assert.Equal(t, retryLaterMessage, e.DisplayMessage())
}

func TestQueryParameters(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/delivery/quote":
			assert.Equal(t, "Lyon", r.URL.Query().Get("city"))
			assert.Equal(t, "FR", r.URL.Query().Get("country"))
			assert.Equal(t, "tf-dhl", r.URL.Query().Get("tarifId"))
			w.Write([]byte(`{"status":"available","deliveryType":"international","fee":15000,"requiresCarrier":true}`))
		case "/api/v1/locations/cities":
			assert.Equal(t, "tab-9", r.Header.Get("X-Search-Session"))
			w.Write([]byte(`[{"name":"Thiès","countryCode":"SN","population":320000}]`))
		case "/api/v1/vendor/revenue":
			assert.Equal(t, "2026-03-01", r.URL.Query().Get("start"))
			assert.False(t, r.URL.Query().Has("end"))
			w.Write([]byte(`{"vendorId":"v-1","totalCommission":7500,"designs":[]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	sess := NewSession("")
	sess.set("tok", time.Time{}, nil)
	c := New(srv.URL, sess, WithSearchSession("tab-9"))
	ctx := context.Background()

	quote, err := c.Quote(ctx, "Lyon", "FR", "tf-dhl")
	require.NoError(t, err)
	assert.Equal(t, int64(15000), quote.Fee)
	assert.True(t, quote.RequiresCarrier)

	cities, err := c.SearchCities(ctx, "Thi", "SN")
	require.NoError(t, err)
	require.Len(t, cities, 1)
	assert.Equal(t, int64(320000), cities[0].Population)

	rev, err := c.VendorRevenue(ctx, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, int64(7500), rev.TotalCommission)
}

func TestSessionLoadMissingFile(t *testing.T) {
	sess := NewSession(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, sess.Load())
	assert.Empty(t, sess.AccessToken())
	assert.NoError(t, sess.Clear())
}

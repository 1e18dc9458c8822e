package geonames

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCities(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/searchJSON", r.URL.Path)
		assert.Equal(t, "Thi", q.Get("name_startsWith"))
		assert.Equal(t, "SN", q.Get("country"))
		assert.Equal(t, "P", q.Get("featureClass"))
		assert.Equal(t, "population", q.Get("orderby"))
		assert.Equal(t, "demo", q.Get("username"))
		assert.Equal(t, "5", q.Get("maxRows"))

		_, _ = w.Write([]byte(`{"totalResultsCount":2,"geonames":[
			{"name":"Thiès","countryName":"Senegal","countryCode":"SN","adminName1":"Thiès","population":320000},
			{"name":"Thiénaba","countryName":"Senegal","countryCode":"SN","adminName1":"Thiès","population":4000}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "demo", 5, time.Second)
	res, err := c.SearchCities(context.Background(), "Thi", "sn")
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "Thiès", res[0].Name)
	assert.Equal(t, "SN", res[0].CountryCode)
	assert.Equal(t, int64(320000), res[0].Population)
}

func TestSearchCitiesStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":{"message":"user account not enabled","value":10}}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "demo", 0, time.Second).SearchCities(context.Background(), "Dak", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not enabled")
}

func TestSearchCitiesCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient(srv.URL, "demo", 0, time.Second).SearchCities(ctx, "Dak", "SN")
	assert.ErrorIs(t, err, context.Canceled)
}

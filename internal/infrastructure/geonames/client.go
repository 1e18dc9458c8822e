package geonames

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"sunushop-backend/internal/domain"
)

const DefaultBaseURL = "http://api.geonames.org"

// Client queries the GeoNames searchJSON endpoint for populated places.
type Client struct {
	baseURL    string
	username   string
	maxRows    int
	httpClient *http.Client
	tracer     trace.Tracer
}

func NewClient(baseURL, username string, maxRows int, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if maxRows <= 0 {
		maxRows = 10
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		username:   username,
		maxRows:    maxRows,
		httpClient: &http.Client{Timeout: timeout},
		tracer:     otel.Tracer("geonames"),
	}
}

type searchResponse struct {
	Geonames []struct {
		Name        string `json:"name"`
		CountryName string `json:"countryName"`
		CountryCode string `json:"countryCode"`
		AdminName1  string `json:"adminName1"`
		Population  int64  `json:"population"`
	} `json:"geonames"`
	Status *struct {
		Message string `json:"message"`
		Value   int    `json:"value"`
	} `json:"status,omitempty"`
}

// SearchCities returns places whose name starts with query, most populous first.
// An empty country searches worldwide.
func (c *Client) SearchCities(ctx context.Context, query, country string) ([]domain.CityResult, error) {
	ctx, span := c.tracer.Start(ctx, "geonames.SearchCities",
		trace.WithAttributes(attribute.String("query", query), attribute.String("country", country)))
	defer span.End()

	params := url.Values{}
	params.Set("name_startsWith", query)
	params.Set("featureClass", "P")
	params.Set("maxRows", strconv.Itoa(c.maxRows))
	params.Set("orderby", "population")
	params.Set("username", c.username)
	if country != "" {
		params.Set("country", strings.ToUpper(country))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/searchJSON?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, fmt.Errorf("geonames request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("geonames: unexpected status %d", resp.StatusCode)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("geonames decode: %w", err)
	}
	// GeoNames reports quota and auth failures with HTTP 200 and a status object.
	if body.Status != nil {
		err := fmt.Errorf("geonames: %s (code %d)", body.Status.Message, body.Status.Value)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	out := make([]domain.CityResult, 0, len(body.Geonames))
	for _, g := range body.Geonames {
		out = append(out, domain.CityResult{
			Name:        g.Name,
			Country:     g.CountryName,
			CountryCode: g.CountryCode,
			AdminName:   g.AdminName1,
			Population:  g.Population,
		})
	}
	span.SetAttributes(attribute.Int("results", len(out)))
	return out, nil
}

package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/starford/dayglow/internal/apperr"
)

const defaultGeocodeURL = "https://nominatim.openstreetmap.org/search"

// Place is a geocoding hit.
type Place struct {
	Name        string
	DisplayName string
	Latitude    float64
	Longitude   float64
}

// Nominatim queries an OpenStreetMap Nominatim compatible search endpoint.
type Nominatim struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewNominatim builds a geocoding client. Nominatim's usage policy requires
// an identifying User-Agent.
func NewNominatim(baseURL, userAgent string, timeout time.Duration) *Nominatim {
	u := strings.TrimSpace(baseURL)
	if u == "" {
		u = defaultGeocodeURL
	}
	return &Nominatim{
		baseURL:    strings.TrimRight(u, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Search returns the highest ranked place for query, or apperr.ErrNotFound
// when the service has no match.
func (c *Nominatim) Search(ctx context.Context, query string) (Place, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")
	endpoint := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Place{}, fmt.Errorf("geo: build geocode request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Place{}, fmt.Errorf("geo: geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return Place{}, fmt.Errorf("geo: geocode status=%d body=%s", resp.StatusCode, string(payload))
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Place{}, fmt.Errorf("geo: decode geocode response: %w", err)
	}
	if len(results) == 0 {
		return Place{}, fmt.Errorf("geo: geocode %q: %w", query, apperr.ErrNotFound)
	}

	top := results[0]
	lat, err := strconv.ParseFloat(top.Lat, 64)
	if err != nil {
		return Place{}, fmt.Errorf("geo: geocode latitude %q: %w", top.Lat, err)
	}
	lon, err := strconv.ParseFloat(top.Lon, 64)
	if err != nil {
		return Place{}, fmt.Errorf("geo: geocode longitude %q: %w", top.Lon, err)
	}

	name := query
	if top.DisplayName != "" {
		name, _, _ = strings.Cut(top.DisplayName, ",")
		name = strings.TrimSpace(name)
	}
	return Place{
		Name:        name,
		DisplayName: top.DisplayName,
		Latitude:    lat,
		Longitude:   lon,
	}, nil
}

// Package geo talks to the outbound services used to locate the user: an IP
// geolocation endpoint, an online geocoder and a timezone polygon finder.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/starford/dayglow/internal/models"
)

const defaultIPInfoURL = "https://ipinfo.io/json"

// IPInfo queries an ipinfo.io compatible endpoint.
type IPInfo struct {
	url        string
	httpClient *http.Client
}

// NewIPInfo builds an IP geolocation client. An empty url selects ipinfo.io.
func NewIPInfo(url string, timeout time.Duration) *IPInfo {
	url = strings.TrimSpace(url)
	if url == "" {
		url = defaultIPInfoURL
	}
	return &IPInfo{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ipInfoResponse is the subset of the ipinfo.io payload we use.
//
// Example JSON response:
//
//	{
//	  "city": "Nizhniy Novgorod",
//	  "country": "RU",
//	  "loc": "56.3287,44.0020",
//	  "timezone": "Europe/Moscow"
//	}
type ipInfoResponse struct {
	City     string `json:"city"`
	Country  string `json:"country"`
	Loc      string `json:"loc"`
	Timezone string `json:"timezone"`
}

// Locate returns the location the service associates with our public IP.
func (c *IPInfo) Locate(ctx context.Context) (models.Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return models.Location{}, fmt.Errorf("geo: build ipinfo request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.Location{}, fmt.Errorf("geo: ipinfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return models.Location{}, fmt.Errorf("geo: ipinfo status=%d body=%s", resp.StatusCode, string(payload))
	}

	var raw ipInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return models.Location{}, fmt.Errorf("geo: decode ipinfo response: %w", err)
	}

	lat, lon, err := models.ParseCoordinates(raw.Loc)
	if err != nil {
		return models.Location{}, fmt.Errorf("geo: ipinfo: %w", err)
	}
	loc := models.Location{
		Name:      raw.City,
		Region:    raw.Country,
		Timezone:  raw.Timezone,
		Latitude:  lat,
		Longitude: lon,
	}
	if err := loc.Validate(); err != nil {
		return models.Location{}, fmt.Errorf("geo: ipinfo returned unusable location: %w", err)
	}
	return loc, nil
}

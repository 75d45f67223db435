// Package location resolves coordinates to a human-readable place.
package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the reverse geocoding service.
const DefaultBaseURL = "https://geocode.xyz"

// DefaultTimeout bounds each lookup.
const DefaultTimeout = 5 * time.Second

// Client looks up cities by coordinates.
type Client struct {
	baseURL string
	http    *http.Client
}

// Options configures a Client.
type Options struct {
	// BaseURL defaults to DefaultBaseURL.
	BaseURL string

	// HTTPClient defaults to a client with DefaultTimeout.
	HTTPClient *http.Client
}

// New creates a client.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    opts.HTTPClient,
	}
}

type geocodeResponse struct {
	City    string `json:"city"`
	Country string `json:"country"`
	Error   *struct {
		Message     string `json:"message"`
		Description string `json:"description"`
	} `json:"error"`
}

// CityWithCountry returns "City, Country" for the coordinates, or just the
// city when the service reports no country.
func (c *Client) CityWithCountry(ctx context.Context, lat, lon float64) (string, error) {
	url := fmt.Sprintf("%s/%s,%s?json=1", c.baseURL,
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lon, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode geocode response: %w", err)
	}
	if body.Error != nil {
		switch {
		case body.Error.Message != "":
			return "", errors.New(body.Error.Message)
		case body.Error.Description != "":
			return "", errors.New(body.Error.Description)
		default:
			return "", errors.New("geocode request failed")
		}
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("geocode request failed: %s", resp.Status)
	}

	city := strings.TrimSpace(body.City)
	if country := strings.TrimSpace(body.Country); country != "" {
		return city + ", " + country, nil
	}
	return city, nil
}

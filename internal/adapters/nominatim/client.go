package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kanahhealth/kanah/internal/pkg/metrics"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org"

// userAgent identifies the app per the Nominatim usage policy.
const userAgent = "KanahHealth/1.0"

// unknownLocation is returned when the response carries no usable address.
const unknownLocation = "Unknown location"

// Client implements ports.ReverseGeocoder against the OpenStreetMap
// Nominatim API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Nominatim client. An empty baseURL uses the public endpoint.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type reverseResponse struct {
	Address struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		Suburb  string `json:"suburb"`
		County  string `json:"county"`
		State   string `json:"state"`
	} `json:"address"`
}

// ReverseGeocode resolves a coordinate to a "locality, region" label. The
// label preference is city/town/village/suburb plus county/state; partial
// address data degrades to whichever half is present, and an empty address
// yields "Unknown location".
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("zoom", "10")
	params.Set("addressdetails", "1")

	reqURL := c.baseURL + "/reverse?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.GeocodeLookups.WithLabelValues("error").Inc()
		return "", fmt.Errorf("reverse geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.GeocodeLookups.WithLabelValues("error").Inc()
		return "", fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}

	var rr reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		metrics.GeocodeLookups.WithLabelValues("error").Inc()
		return "", fmt.Errorf("decode response: %w", err)
	}

	name := label(rr)
	if name == unknownLocation {
		metrics.GeocodeLookups.WithLabelValues("empty").Inc()
	} else {
		metrics.GeocodeLookups.WithLabelValues("resolved").Inc()
	}
	return name, nil
}

func label(rr reverseResponse) string {
	a := rr.Address
	city := firstNonEmpty(a.City, a.Town, a.Village, a.Suburb)
	county := firstNonEmpty(a.County, a.State)

	switch {
	case city != "" && county != "":
		return city + ", " + county
	case county != "":
		return county
	case city != "":
		return city
	default:
		return unknownLocation
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

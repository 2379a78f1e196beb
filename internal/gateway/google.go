package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"distance-api/internal/models"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the Google Maps web services root.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api"

// ErrUnresolved wraps every failure to turn a request into a result,
// whether it came from the transport, the provider status or an empty result set.
var ErrUnresolved = errors.New("gateway: unresolved")

// GoogleMaps talks to the Google Geocoding and Distance Matrix APIs.
type GoogleMaps struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewGoogleMaps creates a client. An empty baseURL selects DefaultBaseURL.
func NewGoogleMaps(apiKey, baseURL string, timeout time.Duration) *GoogleMaps {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &GoogleMaps{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  log.With().Str("component", "google_maps").Logger(),
	}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

type distanceMatrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value float64 `json:"value"`
			} `json:"distance"`
		} `json:"elements"`
	} `json:"rows"`
}

// Geocode resolves a free-text address to its first geocoding result.
func (g *GoogleMaps) Geocode(ctx context.Context, address string) (*models.GeocodeResult, error) {
	q := url.Values{}
	q.Set("address", address)

	var decoded geocodeResponse
	if err := g.get(ctx, "/geocode/json", q, &decoded); err != nil {
		g.logger.Warn().Err(err).Str("address", address).Msg("geocode request failed")
		return nil, fmt.Errorf("%w: geocode %q: %v", ErrUnresolved, address, err)
	}

	if len(decoded.Results) == 0 {
		g.logger.Info().Str("address", address).Str("status", decoded.Status).Msg("geocode returned no results")
		return nil, fmt.Errorf("%w: no geocode results for %q (status %s)", ErrUnresolved, address, decoded.Status)
	}

	first := decoded.Results[0]
	if first.FormattedAddress == "" {
		return nil, fmt.Errorf("%w: empty formatted address for %q", ErrUnresolved, address)
	}

	return &models.GeocodeResult{
		FormattedAddress: first.FormattedAddress,
		Latitude:         first.Geometry.Location.Lat,
		Longitude:        first.Geometry.Location.Lng,
	}, nil
}

// DistanceBetween returns the travel distance in kilometers between two coordinates.
func (g *GoogleMaps) DistanceBetween(ctx context.Context, lat1, lng1, lat2, lng2 float64) (float64, error) {
	q := url.Values{}
	q.Set("origins", formatLatLng(lat1, lng1))
	q.Set("destinations", formatLatLng(lat2, lng2))

	var decoded distanceMatrixResponse
	if err := g.get(ctx, "/distancematrix/json", q, &decoded); err != nil {
		g.logger.Warn().Err(err).Msg("distance matrix request failed")
		return 0, fmt.Errorf("%w: distance matrix: %v", ErrUnresolved, err)
	}

	if len(decoded.Rows) == 0 || len(decoded.Rows[0].Elements) == 0 {
		return 0, fmt.Errorf("%w: distance matrix returned no elements (status %s)", ErrUnresolved, decoded.Status)
	}

	element := decoded.Rows[0].Elements[0]
	if element.Status != "OK" {
		return 0, fmt.Errorf("%w: distance matrix element status %s", ErrUnresolved, element.Status)
	}

	return element.Distance.Value / 1000.0, nil
}

func (g *GoogleMaps) get(ctx context.Context, path string, q url.Values, out any) error {
	q.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func formatLatLng(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
}
